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

func AddStructure(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	options := i.ApplicationCommandData().Options
	name := strings.TrimSpace(options[0].StringValue())
	category := ""
	if len(options) > 1 {
		category = strings.TrimSpace(options[1].StringValue())
	}

	if name == "" {
		_ = common.RespondEphemeral(s, i, "Please provide a structure name.")
		return
	}

	t := town.New(db)
	structure, err := t.Structures.Create(i.GuildID, name, category)
	if errors.Is(err, town.ErrDuplicateName) {
		_ = common.RespondEphemeral(s, i, fmt.Sprintf("Structure **%s** already exists.", name))
		return
	}
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	user := common.GetUsernameFromUser(common.InteractionUser(i))
	err = t.History.Append(i.GuildID, "structure_added",
		fmt.Sprintf("Added structure %s (category %s)", structure.Name, structure.Category), user)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	_ = common.Respond(s, i, fmt.Sprintf("Structure **%s** added in category **%s**.", structure.Name, structure.Category))
}

func RemoveStructure(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	if !common.IsGM(s, i, db) {
		_ = common.RespondEphemeral(s, i, "You are not authorized to use this command.")
		return
	}

	options := i.ApplicationCommandData().Options
	name := strings.TrimSpace(options[0].StringValue())

	t := town.New(db)
	err := t.Structures.Remove(i.GuildID, name)
	if errors.Is(err, town.ErrNotFound) {
		_ = common.RespondEphemeral(s, i, fmt.Sprintf("Structure **%s** does not exist.", name))
		return
	}
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	user := common.GetUsernameFromUser(common.InteractionUser(i))
	err = t.History.Append(i.GuildID, "structure_removed", fmt.Sprintf("Removed structure %s", name), user)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	_ = common.Respond(s, i, fmt.Sprintf("Structure **%s** has been removed.", name))
}

func RenameStructure(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	if !common.IsGM(s, i, db) {
		_ = common.RespondEphemeral(s, i, "You are not authorized to use this command.")
		return
	}

	options := i.ApplicationCommandData().Options
	name := strings.TrimSpace(options[0].StringValue())
	newName := strings.TrimSpace(options[1].StringValue())

	if newName == "" {
		_ = common.RespondEphemeral(s, i, "Please provide a new structure name.")
		return
	}

	t := town.New(db)
	structure, err := t.Structures.Rename(i.GuildID, name, newName)
	if errors.Is(err, town.ErrNotFound) {
		_ = common.RespondEphemeral(s, i, fmt.Sprintf("Structure **%s** does not exist.", name))
		return
	}
	if errors.Is(err, town.ErrDuplicateName) {
		_ = common.RespondEphemeral(s, i, fmt.Sprintf("Structure **%s** already exists.", newName))
		return
	}
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	user := common.GetUsernameFromUser(common.InteractionUser(i))
	err = t.History.Append(i.GuildID, "structure_renamed",
		fmt.Sprintf("Renamed structure %s to %s", name, structure.Name), user)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	_ = common.Respond(s, i, fmt.Sprintf("Structure **%s** is now called **%s**.", name, structure.Name))
}

func SetCategory(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	if !common.IsGM(s, i, db) {
		_ = common.RespondEphemeral(s, i, "You are not authorized to use this command.")
		return
	}

	options := i.ApplicationCommandData().Options
	name := strings.TrimSpace(options[0].StringValue())
	category := strings.TrimSpace(options[1].StringValue())

	t := town.New(db)
	structure, err := t.Structures.SetCategory(i.GuildID, name, category)
	if errors.Is(err, town.ErrNotFound) {
		_ = common.RespondEphemeral(s, i, fmt.Sprintf("Structure **%s** does not exist.", name))
		return
	}
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	user := common.GetUsernameFromUser(common.InteractionUser(i))
	err = t.History.Append(i.GuildID, "category_updated",
		fmt.Sprintf("Moved structure %s to category %s", structure.Name, structure.Category), user)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	_ = common.Respond(s, i, fmt.Sprintf("Structure **%s** moved to category **%s**.", structure.Name, structure.Category))
}

func ListStructures(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	category := ""
	if options := i.ApplicationCommandData().Options; len(options) > 0 {
		category = strings.TrimSpace(options[0].StringValue())
	}

	t := town.New(db)
	structures, err := t.Structures.List(i.GuildID, category)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	if len(structures) == 0 {
		if category != "" {
			_ = common.Respond(s, i, fmt.Sprintf("No structures found in category **%s**.", category))
		} else {
			_ = common.Respond(s, i, "No structures found.")
		}
		return
	}

	var list strings.Builder
	for _, structure := range structures {
		list.WriteString(fmt.Sprintf("🏗️ %s (Level %d/%d) - %s\n",
			structure.Name, structure.Level, structure.MaxLevel, structure.Category))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏛 Town Structures",
		Description: list.String(),
		Color:       0x3498db,
	}

	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func CheckVotes(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	name := ""
	if options := i.ApplicationCommandData().Options; len(options) > 0 {
		name = strings.TrimSpace(options[0].StringValue())
	}

	t := town.New(db)

	if name == "" {
		tallies, err := t.Votes.TallyAll(i.GuildID)
		if err != nil {
			common.SendError(s, i, err, db)
			return
		}
		if len(tallies) == 0 {
			_ = common.Respond(s, i, "No structures found.")
			return
		}

		var list strings.Builder
		for _, tally := range tallies {
			list.WriteString(fmt.Sprintf("%s: %d votes\n", tally.Structure.Name, tally.Votes))
		}
		_ = common.Respond(s, i, fmt.Sprintf("📊 **Votes since last level-up:**\n%s", list.String()))
		return
	}

	structure, err := t.Structures.GetByName(i.GuildID, name)
	if errors.Is(err, town.ErrNotFound) {
		_ = common.RespondEphemeral(s, i, fmt.Sprintf("Structure **%s** does not exist.", name))
		return
	}
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	count, err := t.Votes.Tally(i.GuildID, structure.ID, structure.LastResetAdventure)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	_ = common.Respond(s, i, fmt.Sprintf("📊 **%s** has **%d** votes since its last level-up.", structure.Name, count))
}
