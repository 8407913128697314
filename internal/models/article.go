package models

import "time"

// Article is a diary entry. The author is set at creation and never
// changes. Photo and Thumbnail are media-root relative paths; both are
// empty when no photo was uploaded.
type Article struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Title     string `gorm:"size:255;not null"`
	Body      string `gorm:"type:text;not null"`
	Photo     string `gorm:"size:255"`
	Thumbnail string `gorm:"size:255"`

	Tags     []Tag     `gorm:"many2many:article_tags"`
	Comments []Comment `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetUserID implements policy.Ownable.
func (a *Article) GetUserID() uint { return a.UserID }

// HasTag reports whether the article carries the given tag id.
// Used by the update form to pre-select the current tag set.
func (a *Article) HasTag(id uint) bool {
	for _, t := range a.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}
