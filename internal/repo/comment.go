package repo

import (
	"context"

	"github.com/diewo77/go-diary/internal/models"
	"gorm.io/gorm"
)

type CommentRepo interface {
	Create(ctx context.Context, comment *models.Comment) error
}

type gormComments struct {
	db *gorm.DB
}

func (r *gormComments) Create(ctx context.Context, comment *models.Comment) error {
	return translate(r.db.WithContext(ctx).Create(comment).Error)
}
