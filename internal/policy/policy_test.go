package policy

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agropure/agropure-api/internal/gate"
	"github.com/agropure/agropure-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPolicyDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Quote{}, &models.Sale{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role string, active bool) models.User {
	t.Helper()
	u := models.User{
		FirstName: "T", LastName: "U",
		Email:    fmt.Sprintf("%s-%s-%v@example.com", t.Name(), role, active),
		Password: "x", Role: role, IsActive: active,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestRoleResolver(t *testing.T) {
	db := setupPolicyDB(t)
	r := NewRoleResolver(db)
	ctx := context.Background()

	admin := createUser(t, db, models.RoleAdmin, true)
	customer := createUser(t, db, models.RoleCustomer, true)
	inactive := createUser(t, db, models.RoleCustomer, false)

	p, err := r.Resolve(ctx, admin.ID)
	require.NoError(t, err)
	require.True(t, p.HasPermission("anything:at-all"))

	p, err = r.Resolve(ctx, customer.ID)
	require.NoError(t, err)
	require.True(t, p.HasPermission("quote:create"))
	require.False(t, p.HasPermission("quote:delete"))
	require.False(t, p.HasPermission("user:list"))

	p, err = r.Resolve(ctx, inactive.ID)
	require.NoError(t, err)
	require.Nil(t, p)

	_, err = r.Resolve(ctx, 9999)
	require.Error(t, err)
}

func TestOwnershipPolicy(t *testing.T) {
	p := NewOwnershipPolicy()
	ctx := context.Background()
	owner := uint(7)

	quote := &models.Quote{UserID: &owner}
	require.True(t, p.Can(ctx, 7, gate.ActionView, quote))
	require.False(t, p.Can(ctx, 8, gate.ActionView, quote))

	// Public quotes belong to nobody.
	require.False(t, p.Can(ctx, 7, gate.ActionView, &models.Quote{}))

	// Non-ownable resources are denied, nil resources pass.
	require.False(t, p.Can(ctx, 7, gate.ActionView, struct{}{}))
	require.True(t, p.Can(ctx, 7, gate.ActionList, nil))
}

func TestAdminBypassPolicy(t *testing.T) {
	ctx := context.Background()
	isAdmin := func(_ context.Context, uid uint) bool { return uid == 1 }
	p := NewAdminBypassPolicy(NewOwnershipPolicy(), isAdmin)

	owner := uint(7)
	quote := &models.Quote{UserID: &owner}

	require.True(t, p.Can(ctx, 1, gate.ActionView, quote))
	require.True(t, p.Can(ctx, 7, gate.ActionView, quote))
	require.False(t, p.Can(ctx, 8, gate.ActionView, quote))
}

func TestAuthGateInvalidation(t *testing.T) {
	db := setupPolicyDB(t)
	ag := NewAuthGate(db, time.Hour)
	ctx := context.Background()

	u := createUser(t, db, models.RoleCustomer, true)

	require.True(t, ag.Gate.CanProfile(ctx, u.ID, gate.ActionCreate, "quote"))
	require.False(t, ag.Gate.CanProfile(ctx, u.ID, gate.ActionList, "user"))

	// Promote to admin. The cached profile answers until invalidated.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", u.ID).Update("role", models.RoleAdmin).Error)
	require.False(t, ag.Gate.CanProfile(ctx, u.ID, gate.ActionList, "user"))

	ag.InvalidateUser(u.ID)
	require.True(t, ag.Gate.CanProfile(ctx, u.ID, gate.ActionList, "user"))
}
