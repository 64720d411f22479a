package townService

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
	"townManagerBot/services/common"
	"townManagerBot/town"
)

// RequestUpgrade validates the upgrade and, when every gate passes, posts
// the confirmation prompt. Nothing is persisted until the confirm click;
// the buttons carry the structure id.
func RequestUpgrade(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	options := i.ApplicationCommandData().Options
	name := strings.TrimSpace(options[0].StringValue())

	t := town.New(db)
	quote, err := t.Upgrades.Request(i.GuildID, name)
	if handled := replyUpgradeFailure(s, i, err, name); handled {
		return
	}
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "⚠ Upgrade Confirmation",
		Description: fmt.Sprintf(
			"Are you sure you want to upgrade **%s** from Level **%d** to Level **%d**?\n\nThis will consume **%d** votes.",
			quote.Structure.Name, quote.Structure.Level, quote.NextLevel, quote.VotesRequired),
		Color: 0xf1c40f,
	}

	buttons := []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Confirm Upgrade",
			Style:    discordgo.SuccessButton,
			CustomID: fmt.Sprintf("confirm_upgrade_%d", quote.Structure.ID),
		},
		discordgo.Button{
			Label:    "Cancel",
			Style:    discordgo.DangerButton,
			CustomID: fmt.Sprintf("cancel_upgrade_%d", quote.Structure.ID),
		},
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: buttons},
			},
		},
	})
	if err != nil {
		common.SendError(s, i, err, db)
	}
}

// HandleUpgradeConfirm commits the upgrade. Every gate is re-checked
// inside the workflow: votes or the level may have changed since the
// prompt went out, and the prompt itself never expires server-side.
func HandleUpgradeConfirm(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, customID string) {
	var structureID uint
	if _, err := fmt.Sscanf(customID, "confirm_upgrade_%d", &structureID); err != nil {
		_ = common.RespondEphemeral(s, i, "Invalid upgrade request.")
		return
	}

	user := common.GetUsernameFromUser(common.InteractionUser(i))
	t := town.New(db)

	name := "that structure"
	if structure, err := t.Structures.GetByID(i.GuildID, structureID); err == nil {
		name = structure.Name
	}

	result, err := t.Upgrades.Confirm(i.GuildID, structureID, user)
	if errors.Is(err, town.ErrUpgradeConflict) {
		_ = common.RespondEphemeral(s, i, "Someone else already upgraded this structure.")
		return
	}
	if handled := replyUpgradeFailure(s, i, err, name); handled {
		return
	}
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	removeConfirmButtons(s, i)

	_ = common.Respond(s, i, fmt.Sprintf("🏗 **%s has been upgraded to Level %d!** 🎉", result.Name, result.NewLevel))
}

func HandleUpgradeCancel(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, customID string) {
	var structureID uint
	if _, err := fmt.Sscanf(customID, "cancel_upgrade_%d", &structureID); err != nil {
		_ = common.RespondEphemeral(s, i, "Invalid upgrade request.")
		return
	}

	user := common.GetUsernameFromUser(common.InteractionUser(i))
	t := town.New(db)

	if err := t.Upgrades.Cancel(i.GuildID, structureID, user); err != nil {
		common.SendError(s, i, err, db)
		return
	}

	removeConfirmButtons(s, i)

	_ = common.Respond(s, i, fmt.Sprintf("❌ Upgrade canceled by %s.", user))
}

// replyUpgradeFailure maps the workflow's domain errors onto user
// replies. Returns false for nil and for unexpected errors.
func replyUpgradeFailure(s *discordgo.Session, i *discordgo.InteractionCreate, err error, name string) bool {
	var insufficient *town.InsufficientVotesError

	switch {
	case err == nil:
		return false
	case errors.Is(err, town.ErrNotFound):
		_ = common.RespondEphemeral(s, i, fmt.Sprintf("Structure **%s** not found.", name))
	case errors.Is(err, town.ErrAlreadyMaxLevel):
		_ = common.RespondEphemeral(s, i, fmt.Sprintf("**%s** is already at max level.", name))
	case errors.Is(err, town.ErrMilestoneNotSet):
		_ = common.RespondEphemeral(s, i, fmt.Sprintf("No milestone is set for the next level of **%s**.", name))
	case errors.As(err, &insufficient):
		_ = common.RespondEphemeral(s, i, fmt.Sprintf("**%s** needs **%d** more votes to upgrade.", name, insufficient.Deficit()))
	default:
		return false
	}
	return true
}

// removeConfirmButtons strips the confirm/cancel row from the prompt so a
// resolved prompt cannot be clicked again.
func removeConfirmButtons(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Message == nil {
		return
	}
	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         i.Message.ID,
		Channel:    i.ChannelID,
		Components: &[]discordgo.MessageComponent{},
	})
	if err != nil {
		// The commit already happened; a stale prompt is cosmetic.
		fmt.Println(err)
	}
}
