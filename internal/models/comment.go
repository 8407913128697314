package models

import "time"

// Comment belongs to exactly one article and one author. Comments are
// listed in insertion order; there is no separate sort field.
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	ArticleID uint   `gorm:"index;not null"`
	Body      string `gorm:"type:text;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetUserID implements policy.Ownable.
func (c *Comment) GetUserID() uint { return c.UserID }
