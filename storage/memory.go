package storage

import (
	"context"
	"sync"

	"github.com/polkaflow/flow-engine/types"
)

// MemoryStorage is an in-memory implementation of Storage, used as the
// default backend and in tests.
type MemoryStorage struct {
	mu        sync.RWMutex
	workflows []types.Workflow
	theme     *types.Theme
	account   *types.Account
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// SaveWorkflows replaces the stored workflow table.
func (s *MemoryStorage) SaveWorkflows(ctx context.Context, workflows []types.Workflow) error {
	return withContextError(ctx, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.workflows = make([]types.Workflow, len(workflows))
		copy(s.workflows, workflows)
		return nil
	})
}

// LoadWorkflows returns a copy of the stored workflow table.
func (s *MemoryStorage) LoadWorkflows(ctx context.Context) ([]types.Workflow, error) {
	return withContext(ctx, func() ([]types.Workflow, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		out := make([]types.Workflow, len(s.workflows))
		copy(out, s.workflows)
		return out, nil
	})
}

// SaveTheme stores the theme preference.
func (s *MemoryStorage) SaveTheme(ctx context.Context, theme types.Theme) error {
	return withContextError(ctx, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.theme = &theme
		return nil
	})
}

// LoadTheme returns the stored theme or ErrNotFound.
func (s *MemoryStorage) LoadTheme(ctx context.Context) (types.Theme, error) {
	return withContext(ctx, func() (types.Theme, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.theme == nil {
			return "", ErrNotFound
		}
		return *s.theme, nil
	})
}

// SaveAccount stores the active-account snapshot.
func (s *MemoryStorage) SaveAccount(ctx context.Context, account types.Account) error {
	return withContextError(ctx, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.account = &account
		return nil
	})
}

// LoadAccount returns the stored snapshot or ErrNotFound.
func (s *MemoryStorage) LoadAccount(ctx context.Context) (types.Account, error) {
	return withContext(ctx, func() (types.Account, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.account == nil {
			return types.Account{}, ErrNotFound
		}
		return *s.account, nil
	})
}

// ClearAccount removes the snapshot.
func (s *MemoryStorage) ClearAccount(ctx context.Context) error {
	return withContextError(ctx, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.account = nil
		return nil
	})
}
