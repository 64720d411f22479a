package town

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"townManagerBot/models"
)

// Quote is what a successful upgrade request reports back for the
// confirmation prompt. Nothing is persisted until the confirm click; the
// prompt only needs to carry the structure id back.
type Quote struct {
	Structure     models.Structure
	NextLevel     int
	VotesRequired int
	Tally         int
}

// Result reports a committed upgrade for the reply message.
type Result struct {
	Name     string
	OldLevel int
	NewLevel int
}

// Upgrades drives the request -> confirm/cancel workflow. Confirm
// revalidates everything inside one transaction because votes or the
// level may have moved between the prompt and the click.
type Upgrades struct {
	db         *gorm.DB
	structures *Structures
	milestones *Milestones
	votes      *Votes
	history    *History
}

func (u *Upgrades) Request(guildID, structureName string) (*Quote, error) {
	structure, err := u.structures.GetByName(guildID, structureName)
	if err != nil {
		return nil, err
	}
	return u.check(u.db, guildID, structure)
}

// check runs the level, milestone, and threshold gates against current
// state through the given handle, which is the outer transaction when
// called from Confirm.
func (u *Upgrades) check(db *gorm.DB, guildID string, structure *models.Structure) (*Quote, error) {
	if structure.Level >= structure.MaxLevel {
		return nil, ErrAlreadyMaxLevel
	}

	milestones := &Milestones{db: db}
	required, err := milestones.Requirement(guildID, structure.ID, structure.Level+1)
	if err != nil {
		return nil, err
	}

	votes := &Votes{db: db, structures: &Structures{db: db}}
	tally, err := votes.Tally(guildID, structure.ID, structure.LastResetAdventure)
	if err != nil {
		return nil, err
	}
	if tally < required {
		return nil, &InsufficientVotesError{Required: required, Have: tally}
	}

	return &Quote{
		Structure:     *structure,
		NextLevel:     structure.Level + 1,
		VotesRequired: required,
		Tally:         tally,
	}, nil
}

// Confirm commits the upgrade: conditional level bump, reset marker moved
// to the latest adventure, consumed votes deleted, history appended. All
// in one transaction so a validation race rolls everything back.
func (u *Upgrades) Confirm(guildID string, structureID uint, user string) (*Result, error) {
	var result *Result
	err := u.db.Transaction(func(tx *gorm.DB) error {
		structures := &Structures{db: tx}
		structure, err := structures.GetByID(guildID, structureID)
		if err != nil {
			return err
		}
		if _, err := u.check(tx, guildID, structure); err != nil {
			return err
		}

		votes := &Votes{db: tx, structures: structures}
		marker := uint(0)
		latest, err := votes.LatestAdventureID(guildID)
		if err == nil {
			marker = latest
		} else if !errors.Is(err, ErrNoSession) {
			return err
		}

		if err := structures.SetLevel(guildID, structureID, structure.Level, marker); err != nil {
			return err
		}

		if err := tx.Where("guild_id = ? AND structure_id = ? AND adventure_id <= ?", guildID, structureID, marker).
			Delete(&models.Vote{}).Error; err != nil {
			return fmt.Errorf("consuming votes: %w", err)
		}

		history := &History{db: tx}
		err = history.Append(guildID, "structure_upgraded",
			fmt.Sprintf("%s upgraded from level %d to %d", structure.Name, structure.Level, structure.Level+1), user)
		if err != nil {
			return err
		}

		result = &Result{
			Name:     structure.Name,
			OldLevel: structure.Level,
			NewLevel: structure.Level + 1,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel drops the pending request. Nothing was persisted by Request, so
// the only effect is the audit entry, logged with the acting user.
func (u *Upgrades) Cancel(guildID string, structureID uint, user string) error {
	name := "structure"
	structure, err := u.structures.GetByID(guildID, structureID)
	if err == nil {
		name = structure.Name
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return u.history.Append(guildID, "upgrade_canceled",
		fmt.Sprintf("Upgrade of %s canceled", name), user)
}
