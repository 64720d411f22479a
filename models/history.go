package models

import "time"

type HistoryEntry struct {
	ID          uint      `gorm:"primaryKey"`
	GuildID     string    `gorm:"size:64; index"`
	ActionType  string    `gorm:"size:64"`
	Description string
	User        string    `gorm:"size:255"`
	Timestamp   time.Time `gorm:"index"`
}
