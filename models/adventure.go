package models

import "time"

type Adventure struct {
	ID        uint   `gorm:"primaryKey"`
	GuildID   string `gorm:"size:64; index"`
	CreatedAt time.Time
}

// Participant records who was nominated for a voting session. It is a
// roster hint for notifications; whether it also gates voting depends on
// the guild's RestrictVoting setting.
type Participant struct {
	AdventureID uint   `gorm:"primaryKey;autoIncrement:false"`
	UserID      string `gorm:"primaryKey; size:64"`
	GuildID     string `gorm:"primaryKey; size:64"`
}
