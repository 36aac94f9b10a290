package repositories

import (
	"context"
	"testing"

	. "xrayserver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartRepository_Add(t *testing.T) {
	ctx := context.Background()
	repo := NewPart(NewMemoryCollectionStore())

	added, err := repo.Add(ctx, BodyPartOption{Category: "Chest", Projection: "PA"})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID, "id generated when not supplied")

	withID, err := repo.Add(ctx, BodyPartOption{ID: "42", Category: "Chest", Projection: "Lateral"})
	require.NoError(t, err)
	assert.Equal(t, "42", withID.ID)

	parts, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, parts, 2)
}

func TestPartRepository_AddValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewPart(NewMemoryCollectionStore())

	_, err := repo.Add(ctx, BodyPartOption{Category: "", Projection: "PA"})
	assert.True(t, IsValidation(err))

	_, err = repo.Add(ctx, BodyPartOption{Category: "Chest", Projection: ""})
	assert.True(t, IsValidation(err))

	parts, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, parts)
}

func TestPartRepository_Remove(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCollectionStore()
	repo := NewPart(store)

	_, err := repo.Add(ctx, BodyPartOption{ID: "1", Category: "Chest", Projection: "PA"})
	require.NoError(t, err)
	_, err = repo.Add(ctx, BodyPartOption{ID: "2", Category: "Chest", Projection: "Lateral"})
	require.NoError(t, err)

	// A request holding a snapshot of part 1 before removal
	requests := NewRequest(store, nil)
	require.NoError(t, requests.Save(ctx, XRayRequest{
		ID:     "req-001",
		Status: StatusPending,
		Parts:  []BodyPartOption{{ID: "1", Category: "Chest", Projection: "PA"}},
	}))

	require.NoError(t, repo.Remove(ctx, "1"))

	parts, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "2", parts[0].ID)

	// Removal is idempotent for unknown ids
	require.NoError(t, repo.Remove(ctx, "999"))

	// The request keeps its embedded copy
	loaded, err := requests.GetByID(ctx, "req-001")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Parts, 1)
	assert.Equal(t, "Chest", loaded.Parts[0].Category)
}
