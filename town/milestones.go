package town

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"townManagerBot/models"
)

// Milestones owns the per-structure vote thresholds. A milestone row for
// (structure, level) is the number of votes needed to reach that level.
type Milestones struct {
	db *gorm.DB
}

func (m *Milestones) Requirement(guildID string, structureID uint, level int) (int, error) {
	var milestone models.Milestone
	err := m.db.Where("guild_id = ? AND structure_id = ? AND level = ?", guildID, structureID, level).
		First(&milestone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrMilestoneNotSet
	}
	if err != nil {
		return 0, fmt.Errorf("fetching milestone: %w", err)
	}
	return milestone.VotesRequired, nil
}

// Set upserts the threshold for one level. The composite primary key keeps
// this idempotent: setting the same level twice overwrites votes_required.
func (m *Milestones) Set(guildID string, structureID uint, level, votesRequired int) error {
	milestone := models.Milestone{
		StructureID:   structureID,
		Level:         level,
		GuildID:       guildID,
		VotesRequired: votesRequired,
	}
	err := m.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "structure_id"}, {Name: "level"}, {Name: "guild_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"votes_required": votesRequired}),
	}).Create(&milestone).Error
	if err != nil {
		return fmt.Errorf("setting milestone: %w", err)
	}
	return nil
}

// Replace swaps out a structure's whole milestone schedule. Thresholds are
// assigned to levels 2..len+1 in order.
func (m *Milestones) Replace(guildID string, structureID uint, thresholds []int) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guild_id = ? AND structure_id = ?", guildID, structureID).
			Delete(&models.Milestone{}).Error; err != nil {
			return fmt.Errorf("clearing milestones: %w", err)
		}
		for i, votes := range thresholds {
			milestone := models.Milestone{
				StructureID:   structureID,
				Level:         i + 2,
				GuildID:       guildID,
				VotesRequired: votes,
			}
			if err := tx.Create(&milestone).Error; err != nil {
				return fmt.Errorf("setting milestone for level %d: %w", i+2, err)
			}
		}
		return nil
	})
}

func (m *Milestones) ListForStructure(guildID string, structureID uint) ([]models.Milestone, error) {
	var milestones []models.Milestone
	err := m.db.Where("guild_id = ? AND structure_id = ?", guildID, structureID).
		Order("level ASC").Find(&milestones).Error
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	return milestones, nil
}

func (m *Milestones) ListAll(guildID string) ([]models.Milestone, error) {
	var milestones []models.Milestone
	err := m.db.Where("guild_id = ?", guildID).
		Order("structure_id ASC").Order("level ASC").Find(&milestones).Error
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	return milestones, nil
}
