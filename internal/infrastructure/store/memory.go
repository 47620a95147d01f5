package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"
)

// MemoryStore is a thread-safe in-memory card store
type MemoryStore struct {
	data  map[string][]byte
	mutex sync.RWMutex
}

// NewMemoryStore creates a new in-memory card store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Get retrieves a copy of a card
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.CardRecord, error) {
	s.mutex.RLock()
	raw, exists := s.data[id]
	s.mutex.RUnlock()

	if !exists {
		return nil, domain.ErrCardNotFound
	}
	return decodeCard(raw)
}

// Set stores a card, bumping its revision
func (s *MemoryStore) Set(ctx context.Context, card *domain.CardRecord) error {
	if card == nil || card.ID == "" {
		return fmt.Errorf("%w: card id is required", domain.ErrInvalidRequest)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.writeLocked(card, s.currentRevisionLocked(card.ID))
}

// CompareAndSwap stores updated only if the stored revision matches expectedRevision
func (s *MemoryStore) CompareAndSwap(ctx context.Context, expectedRevision int64, updated *domain.CardRecord) error {
	if updated == nil || updated.ID == "" {
		return fmt.Errorf("%w: card id is required", domain.ErrInvalidRequest)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.data[updated.ID]; !exists {
		return domain.ErrCardNotFound
	}
	current := s.currentRevisionLocked(updated.ID)
	if current != expectedRevision {
		return fmt.Errorf("%w: revision %d, expected %d", domain.ErrStoreConflict, current, expectedRevision)
	}
	return s.writeLocked(updated, current)
}

// Size returns the number of stored cards
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) currentRevisionLocked(id string) int64 {
	raw, exists := s.data[id]
	if !exists {
		return 0
	}
	card, err := decodeCard(raw)
	if err != nil {
		return 0
	}
	return card.Revision
}

// writeLocked serializes the card so callers never share memory with the store
func (s *MemoryStore) writeLocked(card *domain.CardRecord, previous int64) error {
	stored := card.Clone()
	stored.Revision = previous + 1

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode card: %w", err)
	}
	s.data[card.ID] = raw
	card.Revision = stored.Revision
	return nil
}

func decodeCard(raw []byte) (*domain.CardRecord, error) {
	var card domain.CardRecord
	if err := json.Unmarshal(raw, &card); err != nil {
		return nil, fmt.Errorf("failed to decode card: %w", err)
	}
	return &card, nil
}
