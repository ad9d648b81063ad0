package models

import "time"

// Post is an authored entry in a feed. The author and publication date are
// fixed at creation; text, group, and image are editable by the author only.
// GroupID is nullable and cleared when the referenced group is deleted.
type Post struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Text    string    `gorm:"type:text;not null" json:"text"`
	PubDate time.Time `gorm:"not null;index" json:"pub_date"`
	UserID  uint      `gorm:"not null;index" json:"user_id"`
	User    User      `gorm:"foreignKey:UserID" json:"user"`
	GroupID *uint     `gorm:"index" json:"group_id,omitempty"`
	Group   *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	// Image holds an opaque reference to an uploaded file. Storage and
	// serving of the binary live outside the core.
	Image string `gorm:"size:500" json:"image,omitempty"`
}
