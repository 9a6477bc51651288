package policy

import (
	"context"

	"github.com/agropure/agropure-api/internal/gate"
	"github.com/agropure/agropure-api/internal/models"
	"gorm.io/gorm"
)

// Role profiles. Admin holds the superadmin wildcard; customers can browse the
// catalog, submit quotes and reviews, and read their own quotes and sales.
var (
	adminProfile = gate.NewStaticProfile("admin", gate.PermissionSuperAdmin)

	customerProfile = gate.NewStaticProfile("customer",
		gate.Permission("product:view"),
		gate.Permission("product:list"),
		gate.Permission("quote:create"),
		gate.Permission("quote:view"),
		gate.Permission("quote:list"),
		gate.Permission("review:create"),
		gate.Permission("sale:view"),
		gate.Permission("sale:list"),
	)
)

// RoleResolver maps a user's stored role onto its static profile.
// Deactivated users resolve to no profile at all.
type RoleResolver struct {
	DB *gorm.DB
}

func NewRoleResolver(db *gorm.DB) *RoleResolver { return &RoleResolver{DB: db} }

func (r *RoleResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, nil
	}
	if user.IsAdmin() {
		return adminProfile, nil
	}
	return customerProfile, nil
}

// Ownable is implemented by resources that belong to a user.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy restricts resource-level access to the owner. Resources that
// don't implement Ownable are denied outright; nil resources pass (profile
// permissions already gate list/create).
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy { return &OwnershipPolicy{} }

func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.GetUserID() == userID
}

// AdminBypassPolicy lets admins through unconditionally and defers to the
// inner policy for everyone else.
type AdminBypassPolicy struct {
	inner   gate.Policy
	isAdmin func(ctx context.Context, userID uint) bool
}

func NewAdminBypassPolicy(inner gate.Policy, isAdmin func(ctx context.Context, userID uint) bool) *AdminBypassPolicy {
	return &AdminBypassPolicy{inner: inner, isAdmin: isAdmin}
}

func (p *AdminBypassPolicy) Can(ctx context.Context, userID uint, action gate.Action, resource any) bool {
	if p.isAdmin(ctx, userID) {
		return true
	}
	return p.inner.Can(ctx, userID, action, resource)
}
