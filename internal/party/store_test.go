package party

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attesto/pkg/platform/sentinel"
)

func TestMemoryStore_RegisterAndFind(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	p, err := New("acme-checkout", "Acme Checkout", "$2a$10$hash", time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Register(ctx, p))

	found, err := store.FindByID(ctx, "acme-checkout")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
	assert.Equal(t, p.SecretHash, found.SecretHash)

	// The store hands out copies; callers cannot mutate stored state.
	found.Status = StatusInactive
	again, err := store.FindByID(ctx, "acme-checkout")
	require.NoError(t, err)
	assert.True(t, again.IsActive())
}

func TestMemoryStore_DuplicateRegistration(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	p, err := New("acme-checkout", "Acme Checkout", "$2a$10$hash", time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Register(ctx, p))

	err = store.Register(ctx, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
}

func TestMemoryStore_FindUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.FindByID(context.Background(), "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
