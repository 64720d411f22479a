package scheduler_jobs

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
	"townManagerBot/models"
	"townManagerBot/town"
)

// DigestLine is one structure's row in the daily vote digest.
type DigestLine struct {
	Name     string
	Level    int
	Votes    int
	Required int
	Ready    bool
}

// PostVoteDigest posts the current tallies to every guild that has a town
// channel configured and an open voting session.
func PostVoteDigest(s *discordgo.Session, db *gorm.DB) error {
	var guilds []models.Guild
	if err := db.Where("town_channel_id <> ''").Find(&guilds).Error; err != nil {
		return fmt.Errorf("listing guilds: %w", err)
	}

	t := town.New(db)
	for _, guild := range guilds {
		if _, err := t.Votes.LatestAdventureID(guild.GuildID); err != nil {
			if errors.Is(err, town.ErrNoSession) {
				continue
			}
			return err
		}

		tallies, err := t.Votes.TallyAll(guild.GuildID)
		if err != nil {
			return err
		}

		lines := make([]DigestLine, 0, len(tallies))
		for _, tally := range tallies {
			line := DigestLine{
				Name:  tally.Structure.Name,
				Level: tally.Structure.Level,
				Votes: tally.Votes,
			}
			required, err := t.Milestones.Requirement(guild.GuildID, tally.Structure.ID, tally.Structure.Level+1)
			switch {
			case errors.Is(err, town.ErrMilestoneNotSet):
				// Leave Required at zero; nothing to compare against.
			case err != nil:
				return err
			default:
				line.Required = required
				line.Ready = tally.Votes >= required && tally.Structure.Level < tally.Structure.MaxLevel
			}
			lines = append(lines, line)
		}

		message := FormatDigest(lines)
		if message == "" {
			continue
		}

		if _, err := s.ChannelMessageSend(guild.TownChannelID, message); err != nil {
			log.Printf("Error posting vote digest to guild %s: %v", guild.GuildID, err)
			continue
		}
	}

	return nil
}

// FormatDigest renders the digest message. Empty when there is nothing to
// report.
func FormatDigest(lines []DigestLine) string {
	if len(lines) == 0 {
		return ""
	}

	var out strings.Builder
	out.WriteString("📊 **Daily vote digest:**\n")
	for _, line := range lines {
		switch {
		case line.Ready:
			out.WriteString(fmt.Sprintf("🏗 %s (Level %d): %d/%d votes - ready to upgrade!\n",
				line.Name, line.Level, line.Votes, line.Required))
		case line.Required > 0:
			out.WriteString(fmt.Sprintf("• %s (Level %d): %d/%d votes\n",
				line.Name, line.Level, line.Votes, line.Required))
		default:
			out.WriteString(fmt.Sprintf("• %s (Level %d): %d votes, no milestone set\n",
				line.Name, line.Level, line.Votes))
		}
	}
	return out.String()
}
