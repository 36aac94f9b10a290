package repositories

import (
	"context"
	"xrayserver/internal/logger"
	. "xrayserver/internal/models"

	"github.com/google/uuid"
)

type PartRepository interface {
	GetAll(ctx context.Context) ([]BodyPartOption, error)
	Add(ctx context.Context, part BodyPartOption) (BodyPartOption, error)
	Remove(ctx context.Context, id string) error
}

type partRepository struct {
	store CollectionStore
	log   logger.Logger
}

func NewPart(store CollectionStore) PartRepository {
	return &partRepository{
		store: store,
		log:   logger.New("partRepository"),
	}
}

func (r *partRepository) GetAll(ctx context.Context) ([]BodyPartOption, error) {
	log := r.log.Function("GetAll")

	var parts []BodyPartOption
	found, err := r.store.Get(ctx, CollectionParts, &parts)
	if err != nil {
		return nil, log.Err("failed to get parts collection", err)
	}
	if !found {
		return []BodyPartOption{}, nil
	}

	return parts, nil
}

func (r *partRepository) Add(ctx context.Context, part BodyPartOption) (BodyPartOption, error) {
	log := r.log.Function("Add")

	if part.Category == "" || part.Projection == "" {
		return BodyPartOption{}, NewValidationError("category/projection", "must not be empty")
	}

	parts, err := r.GetAll(ctx)
	if err != nil {
		return BodyPartOption{}, err
	}

	if part.ID == "" {
		id, _ := uuid.NewV7()
		part.ID = id.String()
	}

	parts = append(parts, part)
	if err := r.store.Put(ctx, CollectionParts, parts); err != nil {
		return BodyPartOption{}, log.Err("failed to write parts collection", err, "part", part)
	}

	return part, nil
}

// Remove drops a catalog entry. Requests that embedded the part keep their
// snapshot copy untouched.
func (r *partRepository) Remove(ctx context.Context, id string) error {
	log := r.log.Function("Remove")

	parts, err := r.GetAll(ctx)
	if err != nil {
		return err
	}

	remaining := make([]BodyPartOption, 0, len(parts))
	for _, part := range parts {
		if part.ID != id {
			remaining = append(remaining, part)
		}
	}

	if err := r.store.Put(ctx, CollectionParts, remaining); err != nil {
		return log.Err("failed to write parts collection", err, "id", id)
	}

	return nil
}
