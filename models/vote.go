package models

// Vote is keyed by (user, adventure, guild): a user re-voting within the
// same adventure updates StructureID in place rather than adding a row.
type Vote struct {
	UserID      string `gorm:"primaryKey; size:64"`
	AdventureID uint   `gorm:"primaryKey;autoIncrement:false"`
	GuildID     string `gorm:"primaryKey; size:64"`
	StructureID uint   `gorm:"index"`
	Votes       int    `gorm:"default:1"`
}
