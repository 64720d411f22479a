package common

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
	"townManagerBot/models"
)

// IsGM reports whether the interaction member may run game-master
// commands: either they carry the guild's configured GM role, or they
// hold the administrator permission.
func IsGM(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) bool {
	if i.Member == nil {
		return false
	}

	var guild models.Guild
	gmRoleID := ""
	if err := db.Where("guild_id = ?", i.GuildID).First(&guild).Error; err == nil {
		gmRoleID = guild.GMRoleID
	}

	for _, roleID := range i.Member.Roles {
		if gmRoleID != "" && roleID == gmRoleID {
			return true
		}

		role, err := s.State.Role(i.GuildID, roleID)
		if err != nil || role == nil {
			roles, err := s.GuildRoles(i.GuildID)
			if err != nil {
				log.Printf("Error fetching roles from API: %v", err)
				continue
			}

			for _, r := range roles {
				if r.ID == roleID {
					role = r
					break
				}
			}

			if role == nil {
				log.Printf("Role %s not found in guild %s", roleID, i.GuildID)
				continue
			}
		}

		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}

	return false
}

// SendError is the outermost error boundary: log it, record it, and give
// the user a generic failure reply.
func SendError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, db *gorm.DB) {
	log.Printf("Error: %v", err)

	guildID := ""
	if i != nil {
		guildID = i.GuildID
		localErr := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("An error occurred: %v", err),
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		if localErr != nil {
			log.Printf("Error sending interaction: %v", localErr)
		}
	}
	errLog := models.ErrorLog{
		GuildID: guildID,
		Message: fmt.Sprintf("%v", err),
	}
	db.Create(&errLog)
}

func Respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func RespondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// GetUsernameFromUser extracts a display name from a discordgo.User.
func GetUsernameFromUser(user *discordgo.User) string {
	if user == nil {
		return "Unknown User"
	}
	username := user.GlobalName
	if username == "" {
		username = user.Username
	}
	if username == "" {
		return "Unknown User"
	}
	return username
}

// InteractionUser returns the acting user for either guild or DM
// interactions.
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}
