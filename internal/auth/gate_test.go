package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushya-portal/mushya-portal/internal/catalog"
	"github.com/mushya-portal/mushya-portal/internal/store"
)

func TestGateFullSignInFlow(t *testing.T) {
	svc, kv := newTestService(t, Options{})
	ctx := context.Background()

	gate := NewGate(svc, kv, "")
	assert.Equal(t, StateAnonymous, gate.State())
	assert.False(t, gate.Can(catalog.PermDashboardView))
	assert.Nil(t, gate.Principal())

	ok, err := gate.Login(ctx, "admin@x.com", "admin123")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StateAwaitingCode, gate.State())

	// Not authenticated yet, so no permission passes.
	assert.False(t, gate.Can(catalog.PermDashboardView))
	assert.Nil(t, gate.Principal())

	ok, err = gate.VerifyCode(ctx, "123456")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StateAuthenticated, gate.State())

	require.NotNil(t, gate.Principal())
	assert.Equal(t, "user_admin", gate.Principal().ID)
	assert.NotNil(t, gate.Principal().LastLogin)

	assert.True(t, gate.Can(catalog.PermDashboardView))
	assert.True(t, gate.Can(catalog.PermVaultReveal))
	assert.ElementsMatch(t, catalog.Keys(), gate.Permissions())
}

func TestGateWrongPassword(t *testing.T) {
	svc, kv := newTestService(t, Options{})
	ctx := context.Background()

	gate := NewGate(svc, kv, "")

	ok, err := gate.Login(ctx, "admin@x.com", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, StateAnonymous, gate.State())

	// No candidate is pending, so the code step cannot pass either.
	ok, err = gate.VerifyCode(ctx, "123456")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, StateAnonymous, gate.State())
}

func TestGateWrongCode(t *testing.T) {
	svc, kv := newTestService(t, Options{})
	ctx := context.Background()

	gate := NewGate(svc, kv, "")

	ok, err := gate.Login(ctx, "viewer@x.com", "admin123")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = gate.VerifyCode(ctx, "999999")
	require.NoError(t, err)
	assert.False(t, ok)

	// The candidate survives a wrong code; the right one still works.
	assert.Equal(t, StateAwaitingCode, gate.State())

	ok, err = gate.VerifyCode(ctx, "123456")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, StateAuthenticated, gate.State())
}

func TestGateViewerPermissions(t *testing.T) {
	svc, kv := newTestService(t, Options{})
	ctx := context.Background()

	gate := NewGate(svc, kv, "")

	ok, err := gate.Login(ctx, "viewer@x.com", "admin123")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = gate.VerifyCode(ctx, "123456")
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, gate.Can(catalog.PermDashboardView))
	assert.True(t, gate.Can(catalog.PermReportsView))
	assert.False(t, gate.Can(catalog.PermUsersView))
	assert.False(t, gate.Can(catalog.PermVaultReveal))

	assert.True(t, gate.CanAny(catalog.PermUsersView, catalog.PermReportsView))
	assert.False(t, gate.CanAny())
	assert.True(t, gate.CanAll(catalog.PermDashboardView, catalog.PermReportsView))
	assert.False(t, gate.CanAll(catalog.PermDashboardView, catalog.PermUsersView))
	assert.True(t, gate.CanAll())
}

func TestGateHydrateAuthenticated(t *testing.T) {
	svc, kv := newTestService(t, Options{})
	ctx := context.Background()

	gate := NewGate(svc, kv, "")

	ok, err := gate.Login(ctx, "admin@x.com", "admin123")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = gate.VerifyCode(ctx, "123456")
	require.NoError(t, err)
	require.True(t, ok)

	// A fresh gate over the same store restores the session.
	restored := NewGate(svc, kv, "")
	require.NoError(t, restored.Hydrate())

	assert.Equal(t, StateAuthenticated, restored.State())
	require.NotNil(t, restored.Principal())
	assert.Equal(t, "user_admin", restored.Principal().ID)
	assert.True(t, restored.Can(catalog.PermDashboardView))
}

func TestGateHydrateAwaitingCode(t *testing.T) {
	svc, kv := newTestService(t, Options{})
	ctx := context.Background()

	gate := NewGate(svc, kv, "")

	ok, err := gate.Login(ctx, "viewer@x.com", "admin123")
	require.NoError(t, err)
	require.True(t, ok)

	restored := NewGate(svc, kv, "")
	require.NoError(t, restored.Hydrate())
	assert.Equal(t, StateAwaitingCode, restored.State())

	ok, err = restored.VerifyCode(ctx, "123456")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, StateAuthenticated, restored.State())
}

func TestGateHydrateEmptyStore(t *testing.T) {
	svc, kv := newTestService(t, Options{})

	gate := NewGate(svc, kv, "")
	require.NoError(t, gate.Hydrate())
	assert.Equal(t, StateAnonymous, gate.State())
}

func TestGateHydratePicksUpRoleEdits(t *testing.T) {
	svc, kv := newTestService(t, Options{})
	ctx := context.Background()

	gate := NewGate(svc, kv, "")

	ok, err := gate.Login(ctx, "viewer@x.com", "admin123")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = gate.VerifyCode(ctx, "123456")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, gate.Can(catalog.PermUsersView))

	// Widen the viewer role while the session is cold.
	perms := []string{catalog.PermDashboardView, catalog.PermReportsView, catalog.PermUsersView}
	_, err = svc.Roles().Update(store.RoleViewerID, store.RolePatch{Permissions: &perms})
	require.NoError(t, err)

	restored := NewGate(svc, kv, "")
	require.NoError(t, restored.Hydrate())
	assert.True(t, restored.Can(catalog.PermUsersView))
}

func TestGateLogout(t *testing.T) {
	svc, kv := newTestService(t, Options{})
	ctx := context.Background()

	gate := NewGate(svc, kv, "")

	ok, err := gate.Login(ctx, "admin@x.com", "admin123")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = gate.VerifyCode(ctx, "123456")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, gate.Logout())
	assert.Equal(t, StateAnonymous, gate.State())
	assert.Nil(t, gate.Principal())
	assert.False(t, gate.Can(catalog.PermDashboardView))

	// Logout is idempotent, including from a fresh anonymous gate.
	require.NoError(t, gate.Logout())

	restored := NewGate(svc, kv, "")
	require.NoError(t, restored.Hydrate())
	assert.Equal(t, StateAnonymous, restored.State())
}
