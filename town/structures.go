package town

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"townManagerBot/models"
)

// Structures owns the structure records for every guild. Name lookups are
// case-insensitive, matching how users type structure names in chat.
type Structures struct {
	db *gorm.DB
}

func (s *Structures) Create(guildID, name, category string) (*models.Structure, error) {
	if category == "" {
		category = "General"
	}

	var existing models.Structure
	err := s.db.Where("guild_id = ? AND LOWER(name) = LOWER(?)", guildID, name).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateName
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking structure name: %w", err)
	}

	structure := models.Structure{
		GuildID:  guildID,
		Name:     name,
		Category: category,
		Level:    1,
		MaxLevel: 10,
	}
	if err := s.db.Create(&structure).Error; err != nil {
		return nil, fmt.Errorf("creating structure: %w", err)
	}
	return &structure, nil
}

func (s *Structures) GetByName(guildID, name string) (*models.Structure, error) {
	var structure models.Structure
	err := s.db.Where("guild_id = ? AND LOWER(name) = LOWER(?)", guildID, name).First(&structure).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching structure %q: %w", name, err)
	}
	return &structure, nil
}

func (s *Structures) GetByID(guildID string, id uint) (*models.Structure, error) {
	var structure models.Structure
	err := s.db.Where("id = ? AND guild_id = ?", id, guildID).First(&structure).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching structure %d: %w", id, err)
	}
	return &structure, nil
}

// List returns the guild's structures, optionally filtered by category.
// No matches is an empty slice, not an error.
func (s *Structures) List(guildID, category string) ([]models.Structure, error) {
	query := s.db.Where("guild_id = ?", guildID)
	if category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", category)
	}

	var structures []models.Structure
	if err := query.Order("name ASC").Find(&structures).Error; err != nil {
		return nil, fmt.Errorf("listing structures: %w", err)
	}
	return structures, nil
}

func (s *Structures) Rename(guildID, name, newName string) (*models.Structure, error) {
	structure, err := s.GetByName(guildID, name)
	if err != nil {
		return nil, err
	}

	var existing models.Structure
	err = s.db.Where("guild_id = ? AND LOWER(name) = LOWER(?) AND id <> ?", guildID, newName, structure.ID).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateName
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking structure name: %w", err)
	}

	structure.Name = newName
	if err := s.db.Save(structure).Error; err != nil {
		return nil, fmt.Errorf("renaming structure: %w", err)
	}
	return structure, nil
}

func (s *Structures) SetCategory(guildID, name, category string) (*models.Structure, error) {
	structure, err := s.GetByName(guildID, name)
	if err != nil {
		return nil, err
	}

	structure.Category = category
	if err := s.db.Save(structure).Error; err != nil {
		return nil, fmt.Errorf("updating structure category: %w", err)
	}
	return structure, nil
}

// Remove deletes the structure along with its milestones and votes.
func (s *Structures) Remove(guildID, name string) error {
	structure, err := s.GetByName(guildID, name)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guild_id = ? AND structure_id = ?", guildID, structure.ID).
			Delete(&models.Milestone{}).Error; err != nil {
			return fmt.Errorf("removing milestones: %w", err)
		}
		if err := tx.Where("guild_id = ? AND structure_id = ?", guildID, structure.ID).
			Delete(&models.Vote{}).Error; err != nil {
			return fmt.Errorf("removing votes: %w", err)
		}
		if err := tx.Unscoped().Where("id = ? AND guild_id = ?", structure.ID, guildID).
			Delete(&models.Structure{}).Error; err != nil {
			return fmt.Errorf("removing structure: %w", err)
		}
		return nil
	})
}

// SetLevel advances a structure one level with a conditional write: the
// update only lands if the level still equals fromLevel, so of two racing
// upgrades the second affects zero rows and gets ErrUpgradeConflict
// instead of double-incrementing.
func (s *Structures) SetLevel(guildID string, id uint, fromLevel int, resetMarker uint) error {
	result := s.db.Model(&models.Structure{}).
		Where("id = ? AND guild_id = ? AND level = ?", id, guildID, fromLevel).
		Updates(map[string]interface{}{
			"level":                fromLevel + 1,
			"last_reset_adventure": resetMarker,
		})
	if result.Error != nil {
		return fmt.Errorf("updating structure level: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUpgradeConflict
	}
	return nil
}
