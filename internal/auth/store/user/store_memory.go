package user

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"vaultguard/internal/auth/models"
	"vaultguard/internal/sentinel"
)

// Error Contract:
// - Find methods return sentinel.ErrNotFound when the account does not exist
// - Create returns sentinel.ErrAlreadyUsed when the email is taken
// - Other failures are wrapped with context

// InMemoryStore keeps accounts in process memory. Used when no database is configured
// and in tests. Returned accounts are copies.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*models.Account
	byEmail map[string]uuid.UUID
}

func New() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[uuid.UUID]*models.Account),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, account *models.Account) error {
	if account == nil {
		return fmt.Errorf("account is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[account.Email]; ok {
		return fmt.Errorf("account already exists: %w", sentinel.ErrAlreadyUsed)
	}
	if _, ok := s.byID[account.ID]; ok {
		return fmt.Errorf("account already exists: %w", sentinel.ErrAlreadyUsed)
	}
	stored := *account
	s.byID[account.ID] = &stored
	s.byEmail[account.Email] = account.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
	}
	copied := *account
	return &copied, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
	}
	copied := *s.byID[id]
	return &copied, nil
}

// RecordLogin stamps a successful login.
func (s *InMemoryStore) RecordLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
	}
	loginAt := at
	account.LastLoginAt = &loginAt
	account.UpdatedAt = at
	return nil
}

// SetActive enables or disables an account.
func (s *InMemoryStore) SetActive(_ context.Context, id uuid.UUID, active bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
	}
	account.IsActive = active
	account.UpdatedAt = at
	return nil
}

// Count returns the number of stored accounts.
func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}
