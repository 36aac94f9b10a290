package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"xrayserver/internal/database"
	"xrayserver/internal/logger"
	. "xrayserver/internal/models"

	"gorm.io/gorm"
)

// CollectionStore is the persistence port: each collection is read and
// written as one whole JSON document. There is no partial-update primitive;
// callers read the collection, modify it in memory, and write it back.
// Concurrent writers are not coordinated, the last write wins.
type CollectionStore interface {
	Get(ctx context.Context, name string, out any) (bool, error)
	Put(ctx context.Context, name string, value any) error
}

type sqliteCollectionStore struct {
	db  database.DB
	log logger.Logger
}

func NewCollectionStore(db database.DB) CollectionStore {
	return &sqliteCollectionStore{
		db:  db,
		log: logger.New("collectionStore"),
	}
}

func (s *sqliteCollectionStore) Get(ctx context.Context, name string, out any) (bool, error) {
	log := s.log.Function("Get")

	var doc CollectionDocument
	err := s.db.SQLWithContext(ctx).First(&doc, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, log.Err("failed to read collection", err, "name", name)
	}

	if err := json.Unmarshal(doc.Data, out); err != nil {
		return false, log.Err("failed to decode collection", err, "name", name)
	}

	return true, nil
}

func (s *sqliteCollectionStore) Put(ctx context.Context, name string, value any) error {
	log := s.log.Function("Put")

	data, err := json.Marshal(value)
	if err != nil {
		return log.Err("failed to encode collection", err, "name", name)
	}

	doc := CollectionDocument{Name: name, Data: data}
	if err := s.db.SQLWithContext(ctx).Save(&doc).Error; err != nil {
		return log.Err("failed to write collection", err, "name", name)
	}

	return nil
}

// MemoryCollectionStore keeps collections in a map. Used by tests and useful
// as a throwaway dev backend; same last-write-wins semantics as sqlite.
type MemoryCollectionStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryCollectionStore() *MemoryCollectionStore {
	return &MemoryCollectionStore{docs: make(map[string][]byte)}
}

func (s *MemoryCollectionStore) Get(ctx context.Context, name string, out any) (bool, error) {
	s.mu.RLock()
	data, ok := s.docs[name]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryCollectionStore) Put(ctx context.Context, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.docs[name] = data
	s.mu.Unlock()
	return nil
}
