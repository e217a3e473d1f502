package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vera-labs/vera-cli/internal/core/domain"
)

func TestChunkStore_AddAndSearch(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	err := store.AddChunks(ctx, "kb", []domain.Chunk{
		{ID: "c1", Content: "incident response playbook", SourceFile: "ops.md"},
		{ID: "c2", Content: "holiday rota", SourceFile: "hr.md"},
	})
	require.NoError(t, err)

	results, err := store.Search(ctx, "kb", "incident response", 5)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].Chunk.ID)
}

func TestChunkStore_SearchMissingCollection(t *testing.T) {
	store := NewChunkStore()

	_, err := store.Search(context.Background(), "nope", "query", 5)
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
}

func TestChunkStore_SearchTopK(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, "kb", []domain.Chunk{
		{ID: "c1", Content: "report alpha"},
		{ID: "c2", Content: "report beta"},
		{ID: "c3", Content: "report gamma"},
	}))

	results, err := store.Search(ctx, "kb", "report", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestChunkStore_CollectionsAndCount(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, "b", []domain.Chunk{{ID: "c1", Content: "x"}}))
	require.NoError(t, store.AddChunks(ctx, "a", []domain.Chunk{{ID: "c2", Content: "y"}, {ID: "c3", Content: "z"}}))

	collections, err := store.Collections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, collections)

	count, err := store.Count(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestChunkStore_DeleteCollection(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, "kb", []domain.Chunk{{ID: "c1", Content: "x"}}))
	require.NoError(t, store.DeleteCollection(ctx, "kb"))

	err := store.DeleteCollection(ctx, "kb")
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
}
