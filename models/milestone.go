package models

type Milestone struct {
	StructureID   uint   `gorm:"primaryKey;autoIncrement:false"`
	Level         int    `gorm:"primaryKey;autoIncrement:false"`
	GuildID       string `gorm:"primaryKey; size:64"`
	VotesRequired int
}
