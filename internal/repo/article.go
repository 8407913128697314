package repo

import (
	"context"

	"github.com/diewo77/go-diary/internal/models"
	"gorm.io/gorm"
)

// ListOptions filters and pages the article listing.
type ListOptions struct {
	TagSlug string
	Offset  int
	Limit   int
}

type ArticleRepo interface {
	// List returns one page of articles, newest first, with author,
	// tags, comments and comment authors eager-loaded, plus the total
	// count for the filter.
	List(ctx context.Context, opt ListOptions) ([]models.Article, int64, error)
	ByID(ctx context.Context, id uint) (*models.Article, error)
	Create(ctx context.Context, article *models.Article, tags []models.Tag) error
	Update(ctx context.Context, article *models.Article, tags []models.Tag) error
	Delete(ctx context.Context, article *models.Article) error
}

type gormArticles struct {
	db *gorm.DB
}

func (r *gormArticles) filtered(ctx context.Context, tagSlug string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Article{})
	if tagSlug != "" {
		q = q.Joins("JOIN article_tags ON article_tags.article_id = articles.id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id").
			Where("tags.slug = ?", tagSlug)
	}
	return q
}

func preloaded(q *gorm.DB) *gorm.DB {
	return q.Preload("User").
		Preload("Tags").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			// insertion order
			return db.Order("comments.id ASC")
		}).
		Preload("Comments.User")
}

func (r *gormArticles) List(ctx context.Context, opt ListOptions) ([]models.Article, int64, error) {
	var total int64
	if err := r.filtered(ctx, opt.TagSlug).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	q := preloaded(r.filtered(ctx, opt.TagSlug)).
		Order("articles.created_at DESC, articles.id DESC")
	if opt.Limit > 0 {
		q = q.Limit(opt.Limit).Offset(opt.Offset)
	}
	var articles []models.Article
	if err := q.Find(&articles).Error; err != nil {
		return nil, 0, translate(err)
	}
	return articles, total, nil
}

func (r *gormArticles) ByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	if err := preloaded(r.db.WithContext(ctx)).First(&article, id).Error; err != nil {
		return nil, translate(err)
	}
	return &article, nil
}

func (r *gormArticles) Create(ctx context.Context, article *models.Article, tags []models.Tag) error {
	article.Tags = tags
	return translate(r.db.WithContext(ctx).Create(article).Error)
}

// Update persists title/body/photo fields and fully replaces the tag
// set. The author column is never written.
func (r *gormArticles) Update(ctx context.Context, article *models.Article, tags []models.Tag) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(article).Updates(map[string]any{
			"title":     article.Title,
			"body":      article.Body,
			"photo":     article.Photo,
			"thumbnail": article.Thumbnail,
		}).Error; err != nil {
			return err
		}
		return tx.Model(article).Association("Tags").Replace(tags)
	})
	if err != nil {
		return translate(err)
	}
	article.Tags = tags
	return nil
}

// Delete cascades to the article's comments and clears its tag
// associations.
func (r *gormArticles) Delete(ctx context.Context, article *models.Article) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(article).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(article).Error
	}))
}
