package entry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"vaultguard/internal/sentinel"
	"vaultguard/internal/vault/models"
)

// Error Contract:
// - FindByID, Update, Delete and TouchLastUsed return sentinel.ErrNotFound for a missing entry
// - Create returns sentinel.ErrAlreadyUsed for a duplicate id
// - Ownership is not checked here; the service owns that rule

// InMemoryStore keeps entries in process memory. Returned entries are copies.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*models.Entry
}

func New() *InMemoryStore {
	return &InMemoryStore{entries: make(map[uuid.UUID]*models.Entry)}
}

func (s *InMemoryStore) Create(_ context.Context, entry *models.Entry) error {
	if entry == nil {
		return fmt.Errorf("entry is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.ID]; ok {
		return fmt.Errorf("entry already exists: %w", sentinel.ErrAlreadyUsed)
	}
	s.entries[entry.ID] = copyEntry(entry)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("entry not found: %w", sentinel.ErrNotFound)
	}
	return copyEntry(entry), nil
}

// ListByUser returns the user's entries ordered by site name, then creation time.
func (s *InMemoryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Entry, 0)
	for _, entry := range s.entries {
		if entry.UserID == userID {
			out = append(out, copyEntry(entry))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SiteName != out[j].SiteName {
			return out[i].SiteName < out[j].SiteName
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Update replaces the mutable fields of an existing entry.
func (s *InMemoryStore) Update(_ context.Context, entry *models.Entry) error {
	if entry == nil {
		return fmt.Errorf("entry is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.entries[entry.ID]
	if !ok {
		return fmt.Errorf("entry not found: %w", sentinel.ErrNotFound)
	}
	updated := copyEntry(entry)
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	s.entries[entry.ID] = updated
	return nil
}

func (s *InMemoryStore) TouchLastUsed(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("entry not found: %w", sentinel.ErrNotFound)
	}
	entry.MarkUsed(at)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("entry not found: %w", sentinel.ErrNotFound)
	}
	delete(s.entries, id)
	return nil
}

func copyEntry(e *models.Entry) *models.Entry {
	c := *e
	if e.LastUsedAt != nil {
		t := *e.LastUsedAt
		c.LastUsedAt = &t
	}
	return &c
}
