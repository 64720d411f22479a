package models

import "gorm.io/gorm"

type Guild struct {
	gorm.Model
	ID             uint `gorm:"primaryKey"`
	GuildID        string
	GuildName      string
	TownChannelID  string
	GMRoleID       string
	RestrictVoting bool `gorm:"default:false"`
}
