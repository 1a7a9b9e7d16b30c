package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/email-access-policy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	r := NewUserRepo()
	ctx := context.Background()
	u := &domain.RegisteredUser{UserID: "u1", Email: "User@Gmail.com", RegistrationDate: time.Now()}
	require.NoError(t, r.Create(ctx, u))

	got, err := r.GetByEmail(ctx, "user@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.False(t, got.Verified)
}

func TestUserRepo_DuplicateIsRejectedNotOverwritten(t *testing.T) {
	r := NewUserRepo()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, &domain.RegisteredUser{UserID: "u1", Email: "user@gmail.com"}))

	err := r.Create(ctx, &domain.RegisteredUser{UserID: "u2", Email: "USER@gmail.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	got, err := r.GetByEmail(ctx, "user@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	_, err := NewUserRepo().GetByEmail(context.Background(), "nobody@gmail.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
