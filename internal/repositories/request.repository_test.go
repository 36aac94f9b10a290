package repositories

import (
	"context"
	"testing"

	. "xrayserver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest(id string) XRayRequest {
	return XRayRequest{
		ID:          id,
		DoctorID:    "dr.azlan@uitm.edu.my",
		DoctorName:  "Dr. Azlan Hashim",
		PatientName: "Ali",
		ICNumber:    "900101-10-1111",
		Gender:      GenderMale,
		Status:      StatusPending,
		CreatedAt:   1741600000000,
		Parts:       []BodyPartOption{{ID: "1", Category: "Chest", Projection: "PA"}},
	}
}

func TestRequestRepository_SaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRequest(NewMemoryCollectionStore(), nil)

	requests, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, requests)

	saved := sampleRequest("req-001")
	require.NoError(t, repo.Save(ctx, saved))

	loaded, err := repo.GetByID(ctx, "req-001")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved, *loaded)

	missing, err := repo.GetByID(ctx, "req-999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRequestRepository_SaveUpserts(t *testing.T) {
	ctx := context.Background()
	repo := NewRequest(NewMemoryCollectionStore(), nil)

	require.NoError(t, repo.Save(ctx, sampleRequest("req-001")))
	require.NoError(t, repo.Save(ctx, sampleRequest("req-002")))

	updated := sampleRequest("req-001")
	updated.Status = StatusAccepted
	updated.RadiographerID = "faiz.xray@uitm.edu.my"
	require.NoError(t, repo.Save(ctx, updated))

	requests, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 2, "update replaces in place, never appends")

	loaded, err := repo.GetByID(ctx, "req-001")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, StatusAccepted, loaded.Status)
}

// Two writers racing on the same collection: whichever Save lands last fully
// determines the stored document.
func TestRequestRepository_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCollectionStore()

	first := NewRequest(store, nil)
	second := NewRequest(store, nil)

	base := sampleRequest("req-001")
	require.NoError(t, first.Save(ctx, base))

	fromFirst := base
	fromFirst.History = "written by first"
	fromSecond := base
	fromSecond.History = "written by second"

	require.NoError(t, first.Save(ctx, fromFirst))
	require.NoError(t, second.Save(ctx, fromSecond))

	loaded, err := first.GetByID(ctx, "req-001")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "written by second", loaded.History)
}
