package models

import "gorm.io/gorm"

type Structure struct {
	gorm.Model
	ID                 uint   `gorm:"primaryKey"`
	GuildID            string `gorm:"uniqueIndex:structure_guild_idx; size:64"`
	Name               string `gorm:"uniqueIndex:structure_guild_idx; size:255"`
	Category           string `gorm:"size:255; default:General"`
	Level              int    `gorm:"default:1"`
	MaxLevel           int    `gorm:"default:10"`
	LastResetAdventure uint   `gorm:"default:0"`
}
