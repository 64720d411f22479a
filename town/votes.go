package town

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"townManagerBot/models"
)

// Votes owns the adventure (voting session) lifecycle and the votes cast
// within it. A session never formally closes: the latest adventure id for
// a guild is the current session, and older ids are simply superseded.
type Votes struct {
	db         *gorm.DB
	structures *Structures
}

// StructureTally pairs a structure with its vote count since the
// structure's last level-up.
type StructureTally struct {
	Structure models.Structure
	Votes     int
}

// StartSession opens a new adventure and records the nominated players as
// its roster. Roster membership only gates voting when the guild has
// RestrictVoting switched on.
func (v *Votes) StartSession(guildID string, participants []string) (uint, error) {
	var adventureID uint
	err := v.db.Transaction(func(tx *gorm.DB) error {
		adventure := models.Adventure{GuildID: guildID}
		if err := tx.Create(&adventure).Error; err != nil {
			return fmt.Errorf("creating adventure: %w", err)
		}
		for _, userID := range participants {
			participant := models.Participant{
				AdventureID: adventure.ID,
				UserID:      userID,
				GuildID:     guildID,
			}
			if err := tx.Create(&participant).Error; err != nil {
				return fmt.Errorf("recording participant %s: %w", userID, err)
			}
		}
		adventureID = adventure.ID
		return nil
	})
	return adventureID, err
}

func (v *Votes) LatestAdventureID(guildID string) (uint, error) {
	var adventure models.Adventure
	err := v.db.Where("guild_id = ?", guildID).Order("id DESC").First(&adventure).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, fmt.Errorf("fetching latest adventure: %w", err)
	}
	return adventure.ID, nil
}

// Cast records or updates a user's vote. A second vote by the same user in
// the same adventure overwrites the target in place; there is never more
// than one vote row per (user, adventure, guild).
func (v *Votes) Cast(guildID, userID string, structureID, adventureID uint) error {
	latest, err := v.LatestAdventureID(guildID)
	if err != nil {
		return err
	}
	if adventureID != latest {
		return ErrStaleSession
	}

	if _, err := v.structures.GetByID(guildID, structureID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrUnknownStructure
		}
		return err
	}

	restricted, err := v.restrictToRoster(guildID)
	if err != nil {
		return err
	}
	if restricted {
		var count int64
		err := v.db.Model(&models.Participant{}).
			Where("guild_id = ? AND adventure_id = ? AND user_id = ?", guildID, adventureID, userID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("checking roster: %w", err)
		}
		if count == 0 {
			return ErrNotParticipant
		}
	}

	vote := models.Vote{
		UserID:      userID,
		AdventureID: adventureID,
		GuildID:     guildID,
		StructureID: structureID,
		Votes:       1,
	}
	err = v.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "adventure_id"}, {Name: "guild_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"structure_id": structureID}),
	}).Create(&vote).Error
	if err != nil {
		return fmt.Errorf("recording vote: %w", err)
	}
	return nil
}

// Tally counts votes for a structure cast after sinceAdventureID. Passing
// the structure's LastResetAdventure gives the count that accumulates
// toward its next milestone.
func (v *Votes) Tally(guildID string, structureID, sinceAdventureID uint) (int, error) {
	var count int64
	err := v.db.Model(&models.Vote{}).
		Where("guild_id = ? AND structure_id = ? AND adventure_id > ?", guildID, structureID, sinceAdventureID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting votes: %w", err)
	}
	return int(count), nil
}

// TallyAll reports every structure's active vote count, each measured from
// that structure's own reset marker.
func (v *Votes) TallyAll(guildID string) ([]StructureTally, error) {
	structures, err := v.structures.List(guildID, "")
	if err != nil {
		return nil, err
	}

	tallies := make([]StructureTally, 0, len(structures))
	for _, structure := range structures {
		count, err := v.Tally(guildID, structure.ID, structure.LastResetAdventure)
		if err != nil {
			return nil, err
		}
		tallies = append(tallies, StructureTally{Structure: structure, Votes: count})
	}
	return tallies, nil
}

func (v *Votes) Participants(guildID string, adventureID uint) ([]string, error) {
	var participants []models.Participant
	err := v.db.Where("guild_id = ? AND adventure_id = ?", guildID, adventureID).
		Find(&participants).Error
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}

	userIDs := make([]string, 0, len(participants))
	for _, p := range participants {
		userIDs = append(userIDs, p.UserID)
	}
	return userIDs, nil
}

func (v *Votes) restrictToRoster(guildID string) (bool, error) {
	var guild models.Guild
	err := v.db.Where("guild_id = ?", guildID).First(&guild).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("fetching guild settings: %w", err)
	}
	return guild.RestrictVoting, nil
}
