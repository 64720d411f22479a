package services

import (
	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
	"townManagerBot/services/guildService"
	"townManagerBot/services/townService"
)

func HandleSlashCommand(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	switch i.ApplicationCommandData().Name {
	case "add-structure":
		townService.AddStructure(s, i, db)
	case "remove-structure":
		townService.RemoveStructure(s, i, db)
	case "rename-structure":
		townService.RenameStructure(s, i, db)
	case "set-category":
		townService.SetCategory(s, i, db)
	case "structures":
		townService.ListStructures(s, i, db)
	case "check-votes":
		townService.CheckVotes(s, i, db)
	case "set-milestone":
		townService.SetMilestone(s, i, db)
	case "set-milestones":
		townService.SetMilestones(s, i, db)
	case "milestones":
		townService.ListMilestones(s, i, db)
	case "end-adventure":
		townService.EndAdventure(s, i, db)
	case "upgrade":
		townService.RequestUpgrade(s, i, db)
	case "history":
		townService.ShowHistory(s, i, db)
	case "set-town-channel":
		guildService.SetTownChannel(s, i, db)
	case "set-gm-role":
		guildService.SetGMRole(s, i, db)
	case "set-vote-restriction":
		guildService.SetVoteRestriction(s, i, db)
	}
}

func RegisterCommands(s *discordgo.Session) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "add-structure",
			Description: "Add a new structure to the town",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "name",
					Description: "Name of the structure",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
				{
					Name:        "category",
					Description: "Category for the structure (default General)",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
			},
		},
		{
			Name:        "remove-structure",
			Description: "🛡 Remove a structure and its votes/milestones - GM ONLY",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "name",
					Description: "Name of the structure",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
		{
			Name:        "rename-structure",
			Description: "🛡 Rename a structure - GM ONLY",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "name",
					Description: "Current name of the structure",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
				{
					Name:        "new-name",
					Description: "New name for the structure",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
		{
			Name:        "set-category",
			Description: "🛡 Move a structure to a category - GM ONLY",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "name",
					Description: "Name of the structure",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
				{
					Name:        "category",
					Description: "New category",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
		{
			Name:        "structures",
			Description: "List the town's structures",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "category",
					Description: "Only show structures in this category",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
			},
		},
		{
			Name:        "check-votes",
			Description: "Show votes cast since each structure's last level-up",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "structure",
					Description: "Only show votes for this structure",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
			},
		},
		{
			Name:        "set-milestone",
			Description: "🛡 Set the votes required for one structure level - GM ONLY",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "structure",
					Description: "Name of the structure",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
				{
					Name:        "level",
					Description: "Level the milestone unlocks (2 or higher)",
					Type:        discordgo.ApplicationCommandOptionInteger,
					Required:    true,
				},
				{
					Name:        "votes",
					Description: "Votes required to reach that level",
					Type:        discordgo.ApplicationCommandOptionInteger,
					Required:    true,
				},
			},
		},
		{
			Name:        "set-milestones",
			Description: "🛡 Replace a structure's whole milestone schedule - GM ONLY",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "structure",
					Description: "Name of the structure",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
				{
					Name:        "thresholds",
					Description: "Vote counts for levels 2, 3, ... e.g. `3 5 8`",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
		{
			Name:        "milestones",
			Description: "List milestone thresholds",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "structure",
					Description: "Only show milestones for this structure",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
			},
		},
		{
			Name:        "end-adventure",
			Description: "🛡 End an adventure and open structure voting - GM ONLY",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "participants",
					Description: "Mention the players who took part, e.g. @player1 @player2",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
		{
			Name:        "upgrade",
			Description: "Request to upgrade a structure",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "structure",
					Description: "Name of the structure to upgrade",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
		{
			Name:        "history",
			Description: "Show the town's recent history",
		},
		{
			Name:        "set-town-channel",
			Description: "🛡 Post town announcements in this channel - GM ONLY",
		},
		{
			Name:        "set-gm-role",
			Description: "🛡 Set the role allowed to run GM commands - GM ONLY",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "role",
					Description: "The GM role",
					Type:        discordgo.ApplicationCommandOptionRole,
					Required:    true,
				},
			},
		},
		{
			Name:        "set-vote-restriction",
			Description: "🛡 Restrict voting to nominated participants - GM ONLY",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "restricted",
					Description: "Whether only nominated participants may vote",
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Required:    true,
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := s.ApplicationCommandCreate(s.State.User.ID, "", cmd)
		if err != nil {
			return err
		}
	}

	return nil
}
