package repo

import (
	"context"

	"github.com/diewo77/go-diary/internal/models"
	"gorm.io/gorm"
)

type TagRepo interface {
	All(ctx context.Context) ([]models.Tag, error)
	ByID(ctx context.Context, id uint) (*models.Tag, error)
	BySlug(ctx context.Context, slug string) (*models.Tag, error)
	ByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, tag *models.Tag) error
}

type gormTags struct {
	db *gorm.DB
}

func (r *gormTags) All(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, translate(err)
	}
	return tags, nil
}

func (r *gormTags) ByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

func (r *gormTags) BySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

func (r *gormTags) ByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, translate(err)
	}
	return tags, nil
}

func (r *gormTags) Create(ctx context.Context, tag *models.Tag) error {
	return translate(r.db.WithContext(ctx).Create(tag).Error)
}

func (r *gormTags) Update(ctx context.Context, tag *models.Tag) error {
	return translate(r.db.WithContext(ctx).Model(tag).Updates(map[string]any{
		"name": tag.Name,
		"slug": tag.Slug,
	}).Error)
}

// Delete removes the tag and its article associations. Articles
// themselves are left intact.
func (r *gormTags) Delete(ctx context.Context, tag *models.Tag) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(tag).Association("Articles").Clear(); err != nil {
			return err
		}
		return tx.Delete(tag).Error
	}))
}
