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

// EndAdventure closes out an in-game adventure and opens a voting session
// for the mentioned players, posting one vote button per structure.
func EndAdventure(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	if !common.IsGM(s, i, db) {
		_ = common.RespondEphemeral(s, i, "You are not authorized to use this command.")
		return
	}

	options := i.ApplicationCommandData().Options
	participants := ParseMentions(options[0].StringValue())
	if len(participants) == 0 {
		_ = common.RespondEphemeral(s, i, "Mention the players who took part in the adventure, e.g. `@player1 @player2`.")
		return
	}

	t := town.New(db)
	structures, err := t.Structures.List(i.GuildID, "")
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}
	if len(structures) == 0 {
		_ = common.RespondEphemeral(s, i, "No structures exist yet. Add some before starting a vote.")
		return
	}
	// Discord allows at most 25 buttons on a message.
	if len(structures) > 25 {
		_ = common.RespondEphemeral(s, i, "Voting buttons support up to 25 structures. Remove some structures or consolidate categories first.")
		return
	}

	adventureID, err := t.Votes.StartSession(i.GuildID, participants)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	user := common.GetUsernameFromUser(common.InteractionUser(i))
	mentions := make([]string, 0, len(participants))
	for _, id := range participants {
		mentions = append(mentions, fmt.Sprintf("<@%s>", id))
	}
	err = t.History.Append(i.GuildID, "adventure_ended",
		fmt.Sprintf("Adventure %d ended; voting opened for %s", adventureID, strings.Join(mentions, ", ")), user)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	var list strings.Builder
	var rows []discordgo.MessageComponent
	var buttons []discordgo.MessageComponent
	for idx, structure := range structures {
		list.WriteString(fmt.Sprintf("%d. %s (Level %d)\n", idx+1, structure.Name, structure.Level))
		buttons = append(buttons, discordgo.Button{
			Label:    fmt.Sprintf("%d", idx+1),
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("vote_%d_%d", adventureID, structure.ID),
		})
		// Discord caps a row at five buttons.
		if len(buttons) == 5 {
			rows = append(rows, discordgo.ActionsRow{Components: buttons})
			buttons = nil
		}
	}
	if len(buttons) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏛 Structure Voting",
		Description: fmt.Sprintf("The adventure has ended! Click a number to vote:\n\n%s", list.String()),
		Color:       0x3498db,
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    fmt.Sprintf("🗳️ Voting has started for %s!", strings.Join(mentions, ", ")),
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: rows,
		},
	})
	if err != nil {
		common.SendError(s, i, err, db)
	}
}

// HandleVoteButton records a vote from a `vote_<adventure>_<structure>`
// button click.
func HandleVoteButton(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, customID string) {
	var adventureID, structureID uint
	if _, err := fmt.Sscanf(customID, "vote_%d_%d", &adventureID, &structureID); err != nil {
		_ = common.RespondEphemeral(s, i, "Invalid vote button.")
		return
	}

	user := common.InteractionUser(i)
	t := town.New(db)

	err := t.Votes.Cast(i.GuildID, user.ID, structureID, adventureID)
	switch {
	case errors.Is(err, town.ErrNoSession):
		_ = common.RespondEphemeral(s, i, "No voting session is open right now.")
		return
	case errors.Is(err, town.ErrStaleSession):
		_ = common.RespondEphemeral(s, i, "That voting session has been superseded. Use the newest voting message.")
		return
	case errors.Is(err, town.ErrUnknownStructure):
		_ = common.RespondEphemeral(s, i, "That structure no longer exists.")
		return
	case errors.Is(err, town.ErrNotParticipant):
		_ = common.RespondEphemeral(s, i, "Only nominated adventure participants may vote in this session.")
		return
	case err != nil:
		common.SendError(s, i, err, db)
		return
	}

	structure, err := t.Structures.GetByID(i.GuildID, structureID)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	username := common.GetUsernameFromUser(user)
	err = t.History.Append(i.GuildID, "vote_cast",
		fmt.Sprintf("%s voted for %s in adventure %d", username, structure.Name, adventureID), username)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	_ = common.RespondEphemeral(s, i, fmt.Sprintf("✅ Your vote for **%s** has been recorded.", structure.Name))
}

// ParseMentions pulls user ids out of a string of Discord mentions like
// "<@123> <@!456>".
func ParseMentions(raw string) []string {
	var ids []string
	seen := make(map[string]bool)

	for _, field := range strings.Fields(raw) {
		if !strings.HasPrefix(field, "<@") || !strings.HasSuffix(field, ">") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(field, "<@"), ">")
		id = strings.TrimPrefix(id, "!")
		if id == "" || seen[id] {
			continue
		}
		for _, r := range id {
			if r < '0' || r > '9' {
				id = ""
				break
			}
		}
		if id == "" {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
