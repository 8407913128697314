// Package policy wires the generic gate to the diary's domain rules:
// any authenticated user may post entries and comments, only the author
// may change or remove an entry, and only staff manage tags.
package policy

import (
	"context"

	"github.com/diewo77/go-diary/internal/gate"
	"github.com/diewo77/go-diary/internal/models"
)

// Resource type names registered on the gate.
const (
	ResourceArticle = "article"
	ResourceTag     = "tag"
	ResourceComment = "comment"
)

// ArticlePolicy: create is open to any authenticated user (the gate
// already rejects anonymous subjects); update and delete are reserved
// for the author.
type ArticlePolicy struct{}

func (ArticlePolicy) Can(_ context.Context, user *models.User, action gate.Action, resource any) bool {
	switch action {
	case gate.ActionCreate, gate.ActionView, gate.ActionList:
		return true
	case gate.ActionUpdate, gate.ActionDelete:
		ownable, ok := resource.(Ownable)
		return ok && ownable.GetUserID() == user.ID
	default:
		return false
	}
}

// NewGate returns a gate with all diary policies registered.
func NewGate() *gate.Gate[*models.User] {
	g := gate.NewGate[*models.User]()
	g.Register(ResourceArticle, ArticlePolicy{})
	g.Register(ResourceTag, TagPolicy{})
	g.Register(ResourceComment, CommentPolicy{})
	return g
}
