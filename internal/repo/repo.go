// Package repo is the data-access boundary: one typed repository per
// entity over GORM. Handlers never touch *gorm.DB directly, and the
// §3-style invariants (author immutability, cascade scope, tag-set
// replacement) are enforced here.
package repo

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors mapped from the underlying driver. Requires the gorm
// connection to be opened with TranslateError.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate value")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// Repositories bundles all entity repositories over one connection.
type Repositories struct {
	Users    UserRepo
	Tags     TagRepo
	Articles ArticleRepo
	Comments CommentRepo
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:    &gormUsers{db: db},
		Tags:     &gormTags{db: db},
		Articles: &gormArticles{db: db},
		Comments: &gormComments{db: db},
	}
}
