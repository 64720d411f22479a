package townService

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
	"townManagerBot/models"
	"townManagerBot/services/common"
	"townManagerBot/town"
)

const (
	historyFetchLimit = 20
	historyPageSize   = 5
)

// ShowHistory replies with the first page of the guild's audit trail and
// a page selector when there is more than one page.
func ShowHistory(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	t := town.New(db)
	entries, err := t.History.List(i.GuildID, historyFetchLimit, 0)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}
	if len(entries) == 0 {
		_ = common.Respond(s, i, "📜 No history available.")
		return
	}

	embed, components := historyPageMessage(entries, 0)
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

// HandleHistoryPageSelect swaps the embed to the selected page.
func HandleHistoryPageSelect(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return
	}
	page, err := strconv.Atoi(values[0])
	if err != nil || page < 0 {
		return
	}

	t := town.New(db)
	entries, err := t.History.List(i.GuildID, historyFetchLimit, 0)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}
	if len(entries) == 0 {
		_ = common.RespondEphemeral(s, i, "📜 No history available.")
		return
	}

	embed, components := historyPageMessage(entries, page)
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

func historyPageMessage(entries []models.HistoryEntry, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	totalPages := (len(entries) + historyPageSize - 1) / historyPageSize
	if page >= totalPages {
		page = totalPages - 1
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📜 Town History (Page %d of %d)", page+1, totalPages),
		Description: FormatHistoryPage(entries, page, historyPageSize),
		Color:       0x3498db,
	}

	if totalPages <= 1 {
		return embed, nil
	}

	options := make([]discordgo.SelectMenuOption, 0, totalPages)
	for p := 0; p < totalPages; p++ {
		options = append(options, discordgo.SelectMenuOption{
			Label:       fmt.Sprintf("Page %d", p+1),
			Description: fmt.Sprintf("Entries %d - %d", p*historyPageSize+1, min((p+1)*historyPageSize, len(entries))),
			Value:       strconv.Itoa(p),
		})
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    "history_page_select",
					Placeholder: "📖 Select a page",
					Options:     options,
				},
			},
		},
	}
	return embed, components
}

// FormatHistoryPage renders one page of history entries, newest first.
func FormatHistoryPage(entries []models.HistoryEntry, page, pageSize int) string {
	start := page * pageSize
	if start >= len(entries) {
		return ""
	}
	end := min(start+pageSize, len(entries))

	var out strings.Builder
	for idx, entry := range entries[start:end] {
		out.WriteString(fmt.Sprintf("%d. **%s** - %s: %s (%s)\n",
			start+idx+1,
			entry.Timestamp.Format("2006-01-02 15:04"),
			entry.ActionType,
			entry.Description,
			entry.User))
	}
	return out.String()
}
