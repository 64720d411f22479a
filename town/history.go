package town

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"townManagerBot/models"
)

// History is the append-only audit trail. Every mutating command appends
// here before its user-facing confirmation goes out.
type History struct {
	db *gorm.DB
}

func (h *History) Append(guildID, actionType, description, user string) error {
	entry := models.HistoryEntry{
		GuildID:     guildID,
		ActionType:  actionType,
		Description: description,
		User:        user,
		Timestamp:   time.Now(),
	}
	if err := h.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("appending history: %w", err)
	}
	return nil
}

// List returns entries newest first, ties broken by insertion id.
func (h *History) List(guildID string, limit, offset int) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := h.db.Where("guild_id = ?", guildID).
		Order("timestamp DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return entries, nil
}

func (h *History) Count(guildID string) (int, error) {
	var count int64
	if err := h.db.Model(&models.HistoryEntry{}).Where("guild_id = ?", guildID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting history: %w", err)
	}
	return int(count), nil
}
