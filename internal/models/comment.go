package models

import "time"

// Comment is attached to exactly one post. Comments have no edit or delete
// path; author and post are fixed at creation.
type Comment struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Text    string    `gorm:"type:text;not null" json:"text"`
	UserID  uint      `gorm:"not null" json:"user_id"`
	User    User      `gorm:"foreignKey:UserID" json:"user"`
	PostID  uint      `gorm:"not null;index" json:"post_id"`
	Post    Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	Created time.Time `gorm:"not null" json:"created"`
}
