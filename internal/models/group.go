package models

// Group is a topical namespace posts can be filed under. Groups are created
// out-of-band (seeding/admin tooling); the web flows only read them.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:200;not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}
