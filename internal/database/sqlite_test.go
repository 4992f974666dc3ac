package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerebro-bot/cerebro/internal/models"
)

const (
	ownerA int64 = 111
	ownerB int64 = 222
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestSaveAndGetIdea(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveIdea(ctx, models.KindIdea, "Preciso criar um app de lembretes", "App de lembretes", ownerA)
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	idea, err := store.GetIdea(ctx, id, ownerA, false)
	require.NoError(t, err)
	assert.Equal(t, models.KindIdea, idea.Kind)
	assert.Equal(t, "Preciso criar um app de lembretes", idea.Content)
	assert.Equal(t, "App de lembretes", idea.Summary)
	assert.Equal(t, ownerA, idea.Owner)
	assert.False(t, idea.CreatedAt.IsZero())
}

func TestGetIdeaOwnerFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveIdea(ctx, models.KindIdea, "ideia privada", "privada", ownerA)
	require.NoError(t, err)

	_, err = store.GetIdea(ctx, id, ownerB, false)
	assert.ErrorIs(t, err, ErrNotFound)

	// The all flag bypasses the owner filter for superusers
	idea, err := store.GetIdea(ctx, id, ownerB, true)
	require.NoError(t, err)
	assert.Equal(t, ownerA, idea.Owner)
}

func TestGetIdeaNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetIdea(context.Background(), 9999, ownerA, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListIdeas(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveIdea(ctx, models.KindIdea, "primeira", "primeira", ownerA)
	require.NoError(t, err)
	_, err = store.SaveIdea(ctx, models.KindQuestion, "segunda", "segunda", ownerA)
	require.NoError(t, err)
	_, err = store.SaveIdea(ctx, models.KindIdea, "de outro usuário", "outra", ownerB)
	require.NoError(t, err)

	ideas, err := store.ListIdeas(ctx, ownerA, false)
	require.NoError(t, err)
	assert.Len(t, ideas, 2)
	for _, idea := range ideas {
		assert.Equal(t, ownerA, idea.Owner)
	}

	all, err := store.ListIdeas(ctx, ownerA, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDeleteIdeaCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveIdea(ctx, models.KindIdea, "apagar depois", "apagar", ownerA)
	require.NoError(t, err)

	_, err = store.SaveBrainstorm(ctx, id, "brainstorm um")
	require.NoError(t, err)
	_, err = store.SaveBrainstorm(ctx, id, "brainstorm dois")
	require.NoError(t, err)

	deleted, err := store.DeleteIdea(ctx, id, ownerA, false)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.GetIdea(ctx, id, ownerA, false)
	assert.ErrorIs(t, err, ErrNotFound)

	brainstorms, err := store.GetBrainstorms(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, brainstorms)
}

func TestDeleteIdeaOwnerFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveIdea(ctx, models.KindIdea, "protegida", "protegida", ownerA)
	require.NoError(t, err)

	deleted, err := store.DeleteIdea(ctx, id, ownerB, false)
	require.NoError(t, err)
	assert.False(t, deleted)

	// Still there for its owner
	_, err = store.GetIdea(ctx, id, ownerA, false)
	assert.NoError(t, err)

	// Superuser bypass removes it
	deleted, err = store.DeleteIdea(ctx, id, ownerB, true)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestGetBrainstormsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveIdea(ctx, models.KindIdea, "com brainstorms", "brainstorms", ownerA)
	require.NoError(t, err)

	_, err = store.SaveBrainstorm(ctx, id, "versão antiga")
	require.NoError(t, err)
	newest, err := store.SaveBrainstorm(ctx, id, "versão nova")
	require.NoError(t, err)

	brainstorms, err := store.GetBrainstorms(ctx, id)
	require.NoError(t, err)
	require.Len(t, brainstorms, 2)
	assert.Equal(t, newest, brainstorms[0].ID)
	assert.Equal(t, "versão nova", brainstorms[0].Content)
}

func TestUpdateBrainstorm(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveIdea(ctx, models.KindIdea, "refazer", "refazer", ownerA)
	require.NoError(t, err)

	bsID, err := store.SaveBrainstorm(ctx, id, "primeira versão")
	require.NoError(t, err)

	updated, err := store.UpdateBrainstorm(ctx, bsID, "versão refeita")
	require.NoError(t, err)
	assert.True(t, updated)

	brainstorms, err := store.GetBrainstorms(ctx, id)
	require.NoError(t, err)
	require.Len(t, brainstorms, 1)
	assert.Equal(t, "versão refeita", brainstorms[0].Content)

	updated, err = store.UpdateBrainstorm(ctx, 9999, "inexistente")
	require.NoError(t, err)
	assert.False(t, updated)
}
