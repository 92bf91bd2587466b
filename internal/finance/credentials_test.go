package finance

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kelechionyeama/Finance-app/internal/models"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := setupTest(t)
	store := NewCredentialStore(db, zap.NewNop(), decimal.NewFromInt(10000))
	ctx := context.Background()

	id, err := store.Register(ctx, "alice", "correct horse")
	require.NoError(t, err)
	assert.NotZero(t, id)

	// The stored hash must not be the password itself.
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	assert.NotContains(t, user.PasswordHash, "correct horse")
	assert.True(t, user.Cash.Equal(decimal.NewFromInt(10000)))

	gotID, err := store.Authenticate(ctx, "alice", "correct horse")
	assert.NoError(t, err)
	assert.Equal(t, id, gotID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTest(t)
	store := NewCredentialStore(db, zap.NewNop(), decimal.NewFromInt(10000))
	ctx := context.Background()

	_, err := store.Register(ctx, "alice", "pw-one")
	require.NoError(t, err)

	_, err = store.Register(ctx, "alice", "pw-two")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	// Exactly one row may exist for the name.
	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthenticateRejections(t *testing.T) {
	db := setupTest(t)
	store := NewCredentialStore(db, zap.NewNop(), decimal.NewFromInt(10000))
	ctx := context.Background()

	_, err := store.Register(ctx, "alice", "correct horse")
	require.NoError(t, err)

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := store.Authenticate(ctx, "alice", "battery staple")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		// Same error as a wrong password, the caller cannot tell which
		// factor failed.
		_, err := store.Authenticate(ctx, "bob", "correct horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
