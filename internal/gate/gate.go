// Package gate is the central authorization checkpoint: a user's role resolves
// to a profile (a set of resource:action permissions), and resource-specific
// policies add ownership checks on top (a customer may only read their own
// quotes, while the admin profile carries the *:* wildcard).
package gate

import (
	"context"
	"errors"
)

// Sentinel errors returned by Authorize.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoProfile    = errors.New("no profile resolved for user")
)

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView    Action = "view"
	ActionList    Action = "list"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve" // quote decisions, review moderation
	ActionConvert Action = "convert" // quote -> sale
)

// Policy defines resource-level authorization rules (typically ownership).
// For list/create checks resource may be nil.
type Policy interface {
	Can(ctx context.Context, userID uint, action Action, resource any) bool
}

// Gate combines profile permissions with per-resource policies.
// Authorization flow: non-zero user -> profile has resource:action ->
// registered policy (if any, and a resource was given) allows it.
type Gate struct {
	resolver ProfileResolver
	policies map[string]Policy
}

// New creates a gate backed by the given profile resolver.
func New(resolver ProfileResolver) *Gate {
	return &Gate{resolver: resolver, policies: make(map[string]Policy)}
}

// Register adds a resource-specific policy (e.g. "quote" ownership).
// Overwrites any existing policy for that resource type.
func (g *Gate) Register(resourceType string, p Policy) {
	g.policies[resourceType] = p
}

// Authorize returns nil if userID may perform action on the resource,
// ErrUnauthorized or ErrNoProfile otherwise.
func (g *Gate) Authorize(ctx context.Context, userID uint, action Action, resourceType string, resource any) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	profile, err := g.resolver.Resolve(ctx, userID)
	if err != nil || profile == nil {
		return ErrNoProfile
	}
	if !profile.HasPermission(NewPermission(resourceType, action)) {
		return ErrUnauthorized
	}
	if resource != nil {
		if p, ok := g.policies[resourceType]; ok && !p.Can(ctx, userID, action, resource) {
			return ErrUnauthorized
		}
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate) Can(ctx context.Context, userID uint, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, userID, action, resourceType, resource) == nil
}

// CanProfile checks only the profile permission, skipping ownership policies.
// Used by middleware before the specific resource has been loaded.
func (g *Gate) CanProfile(ctx context.Context, userID uint, action Action, resourceType string) bool {
	if userID == 0 {
		return false
	}
	profile, err := g.resolver.Resolve(ctx, userID)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(NewPermission(resourceType, action))
}
