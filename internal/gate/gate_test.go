package gate_test

import (
	"context"
	"testing"

	"github.com/diewo77/go-diary/internal/gate"
)

// mockPolicy is a simple policy for testing with uint user type.
type mockPolicy struct {
	allowAll bool
}

func (p *mockPolicy) Can(_ context.Context, _ uint, _ gate.Action, _ any) bool {
	return p.allowAll
}

func TestGate_Authorize_NoUser(t *testing.T) {
	g := gate.NewGate[uint]()
	g.Register("test", &mockPolicy{allowAll: true})

	err := g.Authorize(context.Background(), 0, gate.ActionView, "test", nil)
	if err != gate.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGate_Authorize_NoPolicy(t *testing.T) {
	g := gate.NewGate[uint]()

	err := g.Authorize(context.Background(), 1, gate.ActionView, "unknown", nil)
	if err != gate.ErrNoPolicyDefined {
		t.Errorf("expected ErrNoPolicyDefined, got %v", err)
	}
}

func TestGate_Authorize_Allowed(t *testing.T) {
	g := gate.NewGate[uint]()
	g.Register("test", &mockPolicy{allowAll: true})

	err := g.Authorize(context.Background(), 1, gate.ActionView, "test", nil)
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestGate_Authorize_Denied(t *testing.T) {
	g := gate.NewGate[uint]()
	g.Register("test", &mockPolicy{allowAll: false})

	err := g.Authorize(context.Background(), 1, gate.ActionView, "test", nil)
	if err != gate.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGate_Can(t *testing.T) {
	g := gate.NewGate[uint]()
	g.Register("test", &mockPolicy{allowAll: true})

	if !g.Can(context.Background(), 1, gate.ActionCreate, "test", nil) {
		t.Error("expected Can to return true")
	}

	g.Register("denied", &mockPolicy{allowAll: false})
	if g.Can(context.Background(), 1, gate.ActionCreate, "denied", nil) {
		t.Error("expected Can to return false")
	}
}

// Verify the zero-value check works for pointer subjects too.
type testUser struct {
	ID    uint
	Staff bool
}

func TestGate_PointerSubject(t *testing.T) {
	g := gate.NewGate[*testUser]()
	g.Register("test", gate.PolicyFunc[*testUser](func(_ context.Context, u *testUser, _ gate.Action, _ any) bool {
		return u.Staff
	}))

	if err := g.Authorize(context.Background(), nil, gate.ActionCreate, "test", nil); err != gate.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized for nil user, got %v", err)
	}
	if !g.Can(context.Background(), &testUser{ID: 1, Staff: true}, gate.ActionCreate, "test", nil) {
		t.Error("expected staff user to be allowed")
	}
	if g.Can(context.Background(), &testUser{ID: 2}, gate.ActionCreate, "test", nil) {
		t.Error("expected non-staff user to be denied")
	}
}
