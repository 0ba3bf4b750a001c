package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/infrastructure/memory"
	"auction-marketplace/pkg/logger"
)

func newAuthFixture(t *testing.T) (*memory.Store, *AuthService) {
	t.Helper()
	store := memory.NewStore()
	service := NewAuthService(store, store, nil, time.Hour, 5*time.Minute, logger.NewNop())
	return store, service
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "buyer@example.com", "password123", nil},
		{"normalizes_email_case", "  BUYER@Example.COM  ", "password123", nil},
		{"invalid_email", "not-an-email", "password123", domain.ErrValidation},
		{"empty_email", "", "password123", domain.ErrValidation},
		{"short_password", "buyer@example.com", "short", domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, service := newAuthFixture(t)
			user, err := service.Register(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "buyer@example.com", user.Email)
			assert.False(t, user.IsAdmin)
			assert.NotEqual(t, tt.password, user.PasswordHash)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	_, service := newAuthFixture(t)

	_, err := service.Register(ctx, "buyer@example.com", "password123")
	require.NoError(t, err)

	_, err = service.Register(ctx, "Buyer@Example.com", "different-pass")
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	_, service := newAuthFixture(t)

	user, err := service.Register(ctx, "buyer@example.com", "password123")
	require.NoError(t, err)

	t.Run("correct_credentials", func(t *testing.T) {
		session, err := service.Login(ctx, "buyer@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, session.UserID)
		assert.True(t, session.ExpiresAt.After(time.Now()))
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := service.Login(ctx, "buyer@example.com", "wrong-password")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown_email_reports_same_error", func(t *testing.T) {
		_, err := service.Login(ctx, "nobody@example.com", "password123")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestResolveSession(t *testing.T) {
	ctx := context.Background()
	store, service := newAuthFixture(t)

	user, err := service.Register(ctx, "buyer@example.com", "password123")
	require.NoError(t, err)
	session, err := service.Login(ctx, "buyer@example.com", "password123")
	require.NoError(t, err)

	t.Run("valid_session", func(t *testing.T) {
		resolved, err := service.ResolveSession(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
		assert.Equal(t, user.Email, resolved.Email)
		assert.False(t, resolved.IsAdmin)
	})

	t.Run("unknown_session", func(t *testing.T) {
		_, err := service.ResolveSession(ctx, "sess-missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("expired_session", func(t *testing.T) {
		expired := &domain.Session{
			ID:        "sess-expired",
			UserID:    user.ID,
			CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
			ExpiresAt: time.Now().UTC().Add(-time.Hour),
		}
		require.NoError(t, store.CreateSession(ctx, expired))

		_, err := service.ResolveSession(ctx, expired.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("after_logout", func(t *testing.T) {
		require.NoError(t, service.Logout(ctx, session.ID))
		_, err := service.ResolveSession(ctx, session.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates_admin_account", func(t *testing.T) {
		store, service := newAuthFixture(t)
		require.NoError(t, service.EnsureAdmin(ctx, "admin@example.com", "admin-pass-123"))

		admin, err := store.GetUserByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.True(t, admin.IsAdmin)

		session, err := service.Login(ctx, "admin@example.com", "admin-pass-123")
		require.NoError(t, err)
		resolved, err := service.ResolveSession(ctx, session.ID)
		require.NoError(t, err)
		assert.True(t, resolved.IsAdmin)
	})

	t.Run("idempotent", func(t *testing.T) {
		_, service := newAuthFixture(t)
		require.NoError(t, service.EnsureAdmin(ctx, "admin@example.com", "admin-pass-123"))
		require.NoError(t, service.EnsureAdmin(ctx, "admin@example.com", "admin-pass-123"))
	})

	t.Run("disabled_without_email", func(t *testing.T) {
		store, service := newAuthFixture(t)
		require.NoError(t, service.EnsureAdmin(ctx, "", ""))
		_, err := store.GetUserByEmail(ctx, "")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("does_not_promote_existing_user", func(t *testing.T) {
		store, service := newAuthFixture(t)
		_, err := service.Register(ctx, "admin@example.com", "password123")
		require.NoError(t, err)

		require.NoError(t, service.EnsureAdmin(ctx, "admin@example.com", "admin-pass-123"))

		user, err := store.GetUserByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.False(t, user.IsAdmin)
	})
}

func TestPurgeExpiredSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	store, service := newAuthFixture(t)

	user, err := service.Register(ctx, "buyer@example.com", "password123")
	require.NoError(t, err)

	live, err := service.Login(ctx, "buyer@example.com", "password123")
	require.NoError(t, err)

	for _, id := range []string{"sess-old-1", "sess-old-2"} {
		require.NoError(t, store.CreateSession(ctx, &domain.Session{
			ID:        id,
			UserID:    user.ID,
			CreatedAt: now.Add(-48 * time.Hour),
			ExpiresAt: now.Add(-time.Hour),
		}))
	}

	removed, err := service.PurgeExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = service.ResolveSession(ctx, live.ID)
	require.NoError(t, err)
}
