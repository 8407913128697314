package policy

import (
	"context"

	"github.com/diewo77/go-diary/internal/gate"
	"github.com/diewo77/go-diary/internal/models"
)

// CommentPolicy: commenting only requires authentication, which the
// gate's zero-subject check already enforces.
type CommentPolicy struct{}

func (CommentPolicy) Can(_ context.Context, _ *models.User, action gate.Action, _ any) bool {
	switch action {
	case gate.ActionCreate, gate.ActionView, gate.ActionList:
		return true
	default:
		return false
	}
}
