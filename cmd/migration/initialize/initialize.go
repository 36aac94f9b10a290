package initialize

import (
	"context"
	"xrayserver/internal/logger"
	"xrayserver/internal/repositories"

	. "xrayserver/internal/models"
)

// The bootstrap admin and starter catalog written on first run. Later runs
// never overwrite existing collections.
var bootstrapAdmin = User{
	Username: "nuraiman@uitm.edu.my",
	Password: "271787",
	Role:     RoleAdmin,
	FullName: "Nur Aiman (Admin)",
}

var starterParts = []BodyPartOption{
	{ID: "1", Category: "Chest", Projection: "PA"},
	{ID: "2", Category: "Chest", Projection: "Lateral"},
	{ID: "3", Category: "Abdomen", Projection: "AP Supine"},
	{ID: "4", Category: "Abdomen", Projection: "Erect"},
	{ID: "5", Category: "Upper Extremities - Hand", Projection: "PA"},
	{ID: "6", Category: "Upper Extremities - Hand", Projection: "Oblique"},
	{ID: "7", Category: "Upper Extremities - Wrist", Projection: "PA"},
	{ID: "8", Category: "Upper Extremities - Wrist", Projection: "Lateral"},
	{ID: "9", Category: "Lower Extremities - Knee", Projection: "AP"},
	{ID: "10", Category: "Lower Extremities - Knee", Projection: "Lateral"},
}

// InitializeCollections seeds the three collections on first run. Idempotent:
// a collection that already exists is left exactly as it is.
func InitializeCollections(ctx context.Context, store repositories.CollectionStore, log logger.Logger) error {
	log = log.Function("InitializeCollections")
	log.Info("Initializing essential production data")

	var users []User
	found, err := store.Get(ctx, CollectionUsers, &users)
	if err != nil {
		return log.Err("failed to check users collection", err)
	}
	if !found {
		log.Info("Seeding bootstrap admin", "username", bootstrapAdmin.Username)
		if err := store.Put(ctx, CollectionUsers, []User{bootstrapAdmin}); err != nil {
			return log.Err("failed to seed users collection", err)
		}
	}

	var parts []BodyPartOption
	found, err = store.Get(ctx, CollectionParts, &parts)
	if err != nil {
		return log.Err("failed to check parts collection", err)
	}
	if !found {
		log.Info("Seeding starter body part catalog", "count", len(starterParts))
		if err := store.Put(ctx, CollectionParts, starterParts); err != nil {
			return log.Err("failed to seed parts collection", err)
		}
	}

	var requests []XRayRequest
	found, err = store.Get(ctx, CollectionRequests, &requests)
	if err != nil {
		return log.Err("failed to check requests collection", err)
	}
	if !found {
		if err := store.Put(ctx, CollectionRequests, []XRayRequest{}); err != nil {
			return log.Err("failed to seed requests collection", err)
		}
	}

	log.Info("Collection initialization complete")
	return nil
}
