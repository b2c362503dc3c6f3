package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxCommentTextLen is the maximum length of a comment body.
const MaxCommentTextLen = 500

// Comment represents a comment on a post. Comments are append-only:
// there is no edit or delete path.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Text      string         `gorm:"not null" json:"text"`
	UserID    uint           `gorm:"not null" json:"user_id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
