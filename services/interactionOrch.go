package services

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
	"townManagerBot/services/townService"
)

func HandleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	customID := i.MessageComponentData().CustomID

	if strings.HasPrefix(customID, "vote_") {
		townService.HandleVoteButton(s, i, db, customID)
		return
	}

	if strings.HasPrefix(customID, "confirm_upgrade_") {
		townService.HandleUpgradeConfirm(s, i, db, customID)
		return
	}

	if strings.HasPrefix(customID, "cancel_upgrade_") {
		townService.HandleUpgradeCancel(s, i, db, customID)
		return
	}

	if customID == "history_page_select" {
		townService.HandleHistoryPageSelect(s, i, db)
		return
	}
}
