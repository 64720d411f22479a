package guildService

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
	"townManagerBot/models"
	"townManagerBot/services/common"
)

// GetGuildInfo fetches the guild settings row, creating it on first use.
func GetGuildInfo(s *discordgo.Session, db *gorm.DB, guildID string, channelID string) (*models.Guild, error) {
	var guild models.Guild
	guildResult := db.Where("guild_id = ?", guildID).First(&guild)

	if guildResult.RowsAffected == 0 {
		guildInfo, err := s.Guild(guildID)
		if err != nil {
			return nil, err
		}
		newGuild := &models.Guild{GuildID: guildID, TownChannelID: channelID, GuildName: guildInfo.Name}
		newGuildResult := db.Create(newGuild)
		if newGuildResult.Error != nil {
			return nil, newGuildResult.Error
		}
		guild = *newGuild
	} else {
		checkGuild, err := s.Guild(guildID)
		if err != nil {
			common.SendError(s, nil, err, db)
		} else if guild.GuildName != checkGuild.Name {
			guild.GuildName = checkGuild.Name
			db.Save(&guild)
		}
	}

	return &guild, nil
}

func SetTownChannel(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	if !common.IsGM(s, i, db) {
		_ = common.RespondEphemeral(s, i, "You are not authorized to use this command.")
		return
	}

	guild, err := GetGuildInfo(s, db, i.GuildID, i.ChannelID)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	guild.TownChannelID = i.ChannelID
	if err := db.Save(guild).Error; err != nil {
		common.SendError(s, i, err, db)
		return
	}

	_ = common.Respond(s, i, fmt.Sprintf("Town announcements will be posted in <#%s>.", i.ChannelID))
}

func SetGMRole(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	if !common.IsGM(s, i, db) {
		_ = common.RespondEphemeral(s, i, "You are not authorized to use this command.")
		return
	}

	options := i.ApplicationCommandData().Options
	role := options[0].RoleValue(s, i.GuildID)
	if role == nil {
		_ = common.RespondEphemeral(s, i, "Please provide a valid role.")
		return
	}

	guild, err := GetGuildInfo(s, db, i.GuildID, i.ChannelID)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	guild.GMRoleID = role.ID
	if err := db.Save(guild).Error; err != nil {
		common.SendError(s, i, err, db)
		return
	}

	_ = common.Respond(s, i, fmt.Sprintf("GM role set to **%s**.", role.Name))
}

func SetVoteRestriction(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	if !common.IsGM(s, i, db) {
		_ = common.RespondEphemeral(s, i, "You are not authorized to use this command.")
		return
	}

	options := i.ApplicationCommandData().Options
	restricted := options[0].BoolValue()

	guild, err := GetGuildInfo(s, db, i.GuildID, i.ChannelID)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	guild.RestrictVoting = restricted
	if err := db.Save(guild).Error; err != nil {
		common.SendError(s, i, err, db)
		return
	}

	if restricted {
		_ = common.Respond(s, i, "Voting is now restricted to nominated adventure participants.")
	} else {
		_ = common.Respond(s, i, "Voting is now open to everyone.")
	}
}
