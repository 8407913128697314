package policy

import (
	"context"

	"github.com/diewo77/go-diary/internal/gate"
	"github.com/diewo77/go-diary/internal/models"
)

// TagPolicy: tag management is reserved for staff users.
type TagPolicy struct{}

func (TagPolicy) Can(_ context.Context, user *models.User, action gate.Action, _ any) bool {
	switch action {
	case gate.ActionView, gate.ActionList:
		return true
	default:
		return user.IsStaff
	}
}
