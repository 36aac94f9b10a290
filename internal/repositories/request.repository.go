package repositories

import (
	"context"
	"time"
	"xrayserver/internal/database"
	"xrayserver/internal/logger"
	. "xrayserver/internal/models"
)

const (
	requestCacheKey    = "requests:all"
	requestCacheExpiry = 5 * time.Minute
)

type RequestRepository interface {
	GetAll(ctx context.Context) ([]XRayRequest, error)
	GetByID(ctx context.Context, id string) (*XRayRequest, error)
	Save(ctx context.Context, request XRayRequest) error
}

type requestRepository struct {
	store CollectionStore
	cache database.CacheClient
	log   logger.Logger
}

// NewRequest builds the requests repository. cache may be nil, in which case
// every read goes to the store.
func NewRequest(store CollectionStore, cache database.CacheClient) RequestRepository {
	return &requestRepository{
		store: store,
		cache: cache,
		log:   logger.New("requestRepository"),
	}
}

func (r *requestRepository) GetAll(ctx context.Context) ([]XRayRequest, error) {
	log := r.log.Function("GetAll")

	var requests []XRayRequest
	if r.cache != nil {
		found, err := database.NewCacheBuilder(r.cache, requestCacheKey).
			WithContext(ctx).
			Get(&requests)
		if err != nil {
			log.Warn("failed to read requests from cache", "error", err)
		} else if found {
			return requests, nil
		}
	}

	found, err := r.store.Get(ctx, CollectionRequests, &requests)
	if err != nil {
		return nil, log.Err("failed to get requests collection", err)
	}
	if !found {
		return []XRayRequest{}, nil
	}

	r.addToCache(ctx, requests)

	return requests, nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*XRayRequest, error) {
	requests, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, request := range requests {
		if request.ID == id {
			return &request, nil
		}
	}

	return nil, nil
}

// Save upserts one record by id, rewriting the whole collection. The caller
// observes either the old or the new document, never a partial write.
func (r *requestRepository) Save(ctx context.Context, request XRayRequest) error {
	log := r.log.Function("Save")

	var requests []XRayRequest
	found, err := r.store.Get(ctx, CollectionRequests, &requests)
	if err != nil {
		return log.Err("failed to get requests collection", err)
	}
	if !found {
		requests = []XRayRequest{}
	}

	replaced := false
	for i, existing := range requests {
		if existing.ID == request.ID {
			requests[i] = request
			replaced = true
			break
		}
	}
	if !replaced {
		requests = append(requests, request)
	}

	if err := r.store.Put(ctx, CollectionRequests, requests); err != nil {
		return log.Err("failed to write requests collection", err, "id", request.ID)
	}

	r.addToCache(ctx, requests)

	return nil
}

func (r *requestRepository) addToCache(ctx context.Context, requests []XRayRequest) {
	if r.cache == nil {
		return
	}

	if err := database.NewCacheBuilder(r.cache, requestCacheKey).
		WithStruct(requests).
		WithTTL(requestCacheExpiry).
		WithContext(ctx).
		Set(); err != nil {
		r.log.Function("addToCache").Warn("failed to cache requests", "error", err)
	}
}
