package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/agropure/agropure-api/internal/auth"
	"github.com/agropure/agropure-api/internal/gate"
	"github.com/agropure/agropure-api/internal/httpx"
	"github.com/agropure/agropure-api/internal/models"
	"gorm.io/gorm"
)

// AuthGate is the configured gate used by the router: role profiles resolved
// from the database (cached), plus ownership policies for quotes and sales.
type AuthGate struct {
	Gate          *gate.Gate
	CacheResolver *gate.CachedResolver
	db            *gorm.DB
}

// NewAuthGate wires the resolver chain and registers the resource policies.
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	cached := gate.NewCachedResolver(NewRoleResolver(db), cacheTTL)
	g := gate.New(cached)

	isAdmin := func(ctx context.Context, userID uint) bool {
		var user models.User
		if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
			return false
		}
		return user.IsAdmin()
	}
	owned := NewAdminBypassPolicy(NewOwnershipPolicy(), isAdmin)
	g.Register("quote", owned)
	g.Register("sale", owned)

	return &AuthGate{Gate: g, CacheResolver: cached, db: db}
}

// Authorize checks the current request user against action/resource.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, userID, action, resourceType, resource)
}

// Can is the bool convenience form of Authorize.
func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool {
	return ag.Authorize(ctx, action, resourceType, resource) == nil
}

// InvalidateUser clears the profile cache entry after a role change.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.CacheResolver.Invalidate(userID)
}

// RequirePermission returns middleware enforcing a profile permission.
// Responds 401 for unauthenticated requests and 403 for denied ones.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if !ag.Gate.CanProfile(r.Context(), userID, action, resourceType) {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
