package townService

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
	"townManagerBot/services/common"
	"townManagerBot/town"
)

func SetMilestone(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	if !common.IsGM(s, i, db) {
		_ = common.RespondEphemeral(s, i, "You are not authorized to use this command.")
		return
	}

	options := i.ApplicationCommandData().Options
	name := strings.TrimSpace(options[0].StringValue())
	level := int(options[1].IntValue())
	votes := int(options[2].IntValue())

	if level < 2 {
		_ = common.RespondEphemeral(s, i, "Milestones start at level 2; level 1 is the starting level.")
		return
	}
	if votes < 1 {
		_ = common.RespondEphemeral(s, i, "Votes required must be at least 1.")
		return
	}

	t := town.New(db)
	structure, err := t.Structures.GetByName(i.GuildID, name)
	if errors.Is(err, town.ErrNotFound) {
		_ = common.RespondEphemeral(s, i, fmt.Sprintf("Structure **%s** does not exist.", name))
		return
	}
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	if err := t.Milestones.Set(i.GuildID, structure.ID, level, votes); err != nil {
		common.SendError(s, i, err, db)
		return
	}

	user := common.GetUsernameFromUser(common.InteractionUser(i))
	err = t.History.Append(i.GuildID, "milestone_set",
		fmt.Sprintf("Milestone for %s level %d set to %d votes", structure.Name, level, votes), user)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	_ = common.Respond(s, i, fmt.Sprintf("**%s** now needs **%d** votes to reach level %d.", structure.Name, votes, level))
}

// SetMilestones replaces a structure's whole schedule. The thresholds
// argument is a space-separated list applied to levels 2, 3, ...
func SetMilestones(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	if !common.IsGM(s, i, db) {
		_ = common.RespondEphemeral(s, i, "You are not authorized to use this command.")
		return
	}

	options := i.ApplicationCommandData().Options
	name := strings.TrimSpace(options[0].StringValue())

	thresholds, err := parseThresholds(options[1].StringValue())
	if err != nil {
		_ = common.RespondEphemeral(s, i, "Usage: provide vote counts as numbers, e.g. `3 5 8` for levels 2-4.")
		return
	}

	t := town.New(db)
	structure, err := t.Structures.GetByName(i.GuildID, name)
	if errors.Is(err, town.ErrNotFound) {
		_ = common.RespondEphemeral(s, i, fmt.Sprintf("Structure **%s** does not exist.", name))
		return
	}
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	if err := t.Milestones.Replace(i.GuildID, structure.ID, thresholds); err != nil {
		common.SendError(s, i, err, db)
		return
	}

	user := common.GetUsernameFromUser(common.InteractionUser(i))
	err = t.History.Append(i.GuildID, "milestones_replaced",
		fmt.Sprintf("Milestones for %s set to %v", structure.Name, thresholds), user)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	_ = common.Respond(s, i, fmt.Sprintf("Milestones for **%s** set: %s votes required per level.",
		structure.Name, joinInts(thresholds)))
}

func ListMilestones(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	name := ""
	if options := i.ApplicationCommandData().Options; len(options) > 0 {
		name = strings.TrimSpace(options[0].StringValue())
	}

	t := town.New(db)

	if name != "" {
		structure, err := t.Structures.GetByName(i.GuildID, name)
		if errors.Is(err, town.ErrNotFound) {
			_ = common.RespondEphemeral(s, i, fmt.Sprintf("Structure **%s** does not exist.", name))
			return
		}
		if err != nil {
			common.SendError(s, i, err, db)
			return
		}

		milestones, err := t.Milestones.ListForStructure(i.GuildID, structure.ID)
		if err != nil {
			common.SendError(s, i, err, db)
			return
		}
		if len(milestones) == 0 {
			_ = common.Respond(s, i, fmt.Sprintf("No milestones set for **%s**.", structure.Name))
			return
		}

		var list strings.Builder
		for _, m := range milestones {
			list.WriteString(fmt.Sprintf("• Level %d: %d votes required\n", m.Level, m.VotesRequired))
		}
		_ = common.Respond(s, i, fmt.Sprintf("📏 **Milestones for %s:**\n%s", structure.Name, list.String()))
		return
	}

	structures, err := t.Structures.List(i.GuildID, "")
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}
	if len(structures) == 0 {
		_ = common.Respond(s, i, "No structures found.")
		return
	}

	var list strings.Builder
	for _, structure := range structures {
		milestones, err := t.Milestones.ListForStructure(i.GuildID, structure.ID)
		if err != nil {
			common.SendError(s, i, err, db)
			return
		}
		if len(milestones) == 0 {
			list.WriteString(fmt.Sprintf("%s: no milestones set\n", structure.Name))
			continue
		}
		counts := make([]int, 0, len(milestones))
		for _, m := range milestones {
			counts = append(counts, m.VotesRequired)
		}
		list.WriteString(fmt.Sprintf("%s: %s\n", structure.Name, joinInts(counts)))
	}

	_ = common.Respond(s, i, fmt.Sprintf("📏 **Milestones for all structures:**\n%s", list.String()))
}

func parseThresholds(raw string) ([]int, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, fmt.Errorf("no thresholds given")
	}

	thresholds := make([]int, 0, len(fields))
	for _, field := range fields {
		votes, err := strconv.Atoi(strings.TrimSuffix(field, ","))
		if err != nil || votes < 1 {
			return nil, fmt.Errorf("invalid threshold %q", field)
		}
		thresholds = append(thresholds, votes)
	}
	return thresholds, nil
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ", ")
}
