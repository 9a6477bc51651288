package gate_test

import (
	"context"
	"testing"
	"time"

	"github.com/agropure/agropure-api/internal/gate"
)

// mockPolicy allows or denies everything.
type mockPolicy struct {
	allowAll bool
}

func (p *mockPolicy) Can(_ context.Context, _ uint, _ gate.Action, _ any) bool {
	return p.allowAll
}

func adminResolver(uid uint) *gate.StaticResolver {
	r := gate.NewStaticResolver()
	r.Set(uid, gate.NewStaticProfile("admin", gate.PermissionSuperAdmin))
	return r
}

func TestAuthorize_NoUser(t *testing.T) {
	g := gate.New(adminResolver(1))
	if err := g.Authorize(context.Background(), 0, gate.ActionView, "quote", nil); err != gate.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthorize_NoProfile(t *testing.T) {
	g := gate.New(gate.NewStaticResolver())
	if err := g.Authorize(context.Background(), 7, gate.ActionView, "quote", nil); err != gate.ErrNoProfile {
		t.Errorf("expected ErrNoProfile, got %v", err)
	}
}

func TestAuthorize_ProfilePermission(t *testing.T) {
	r := gate.NewStaticResolver()
	r.Set(2, gate.NewStaticProfile("customer",
		gate.NewPermission("quote", gate.ActionCreate),
		gate.NewPermission("product", gate.ActionView),
	))
	g := gate.New(r)

	if err := g.Authorize(context.Background(), 2, gate.ActionCreate, "quote", nil); err != nil {
		t.Errorf("expected quote:create allowed, got %v", err)
	}
	if err := g.Authorize(context.Background(), 2, gate.ActionApprove, "quote", nil); err != gate.ErrUnauthorized {
		t.Errorf("expected quote:approve denied, got %v", err)
	}
}

func TestAuthorize_PolicyDenies(t *testing.T) {
	g := gate.New(adminResolver(1))
	g.Register("quote", &mockPolicy{allowAll: false})

	// Policy only consulted when a resource is given.
	if err := g.Authorize(context.Background(), 1, gate.ActionView, "quote", nil); err != nil {
		t.Errorf("expected nil-resource check allowed, got %v", err)
	}
	if err := g.Authorize(context.Background(), 1, gate.ActionView, "quote", struct{}{}); err != gate.ErrUnauthorized {
		t.Errorf("expected policy denial, got %v", err)
	}
}

func TestWildcardMatching(t *testing.T) {
	cases := []struct {
		held      gate.Permission
		requested gate.Permission
		want      bool
	}{
		{gate.PermissionSuperAdmin, gate.NewPermission("quote", gate.ActionDelete), true},
		{gate.Permission("quote:*"), gate.NewPermission("quote", gate.ActionApprove), true},
		{gate.Permission("quote:*"), gate.NewPermission("review", gate.ActionApprove), false},
		{gate.NewPermission("quote", gate.ActionView), gate.NewPermission("quote", gate.ActionView), true},
		{gate.NewPermission("quote", gate.ActionView), gate.NewPermission("quote", gate.ActionList), false},
	}
	for _, c := range cases {
		if got := c.held.Matches(c.requested); got != c.want {
			t.Errorf("%s matches %s = %v, want %v", c.held, c.requested, got, c.want)
		}
	}
}

func TestCanProfile(t *testing.T) {
	r := gate.NewStaticResolver()
	r.Set(3, gate.NewStaticProfile("customer", gate.Permission("quote:create")))
	g := gate.New(r)

	if !g.CanProfile(context.Background(), 3, gate.ActionCreate, "quote") {
		t.Error("expected quote:create allowed")
	}
	if g.CanProfile(context.Background(), 3, gate.ActionList, "user") {
		t.Error("expected user:list denied")
	}
	if g.CanProfile(context.Background(), 0, gate.ActionCreate, "quote") {
		t.Error("expected zero user denied")
	}
}

func TestCachedResolver(t *testing.T) {
	inner := gate.NewStaticResolver()
	inner.Set(1, gate.NewStaticProfile("customer"))
	cached := gate.NewCachedResolver(inner, 5*time.Minute)

	p1, err := cached.Resolve(context.Background(), 1)
	if err != nil || p1.Name() != "customer" {
		t.Fatalf("resolve: %v %v", p1, err)
	}

	// Role change invisible until invalidation.
	inner.Set(1, gate.NewStaticProfile("admin"))
	p2, _ := cached.Resolve(context.Background(), 1)
	if p2.Name() != "customer" {
		t.Errorf("expected cached 'customer', got %q", p2.Name())
	}
	cached.Invalidate(1)
	p3, _ := cached.Resolve(context.Background(), 1)
	if p3.Name() != "admin" {
		t.Errorf("expected 'admin' after invalidation, got %q", p3.Name())
	}
}
