package models

// Tag labels articles. Name and slug are each globally unique; the slug
// is the URL segment used for tag-filtered listings.
type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:255;not null"`
	Slug string `gorm:"uniqueIndex;size:255;not null"`

	Articles []Article `gorm:"many2many:article_tags"`
}
