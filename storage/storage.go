// Package storage persists the builder's client-side state: the workflow
// table, the theme preference, and the active-account snapshot.
package storage

import (
	"context"
	"errors"

	"github.com/polkaflow/flow-engine/types"
)

// ErrNotFound is returned when a requested key has no stored value.
var ErrNotFound = errors.New("not found in storage")

// Storage is the persistence boundary for builder state. Corrupt stored
// data is treated as absent, never as a fatal error.
type Storage interface {
	// SaveWorkflows replaces the full workflow table.
	SaveWorkflows(ctx context.Context, workflows []types.Workflow) error

	// LoadWorkflows returns the stored workflow table; empty when nothing
	// (or nothing readable) is stored.
	LoadWorkflows(ctx context.Context) ([]types.Workflow, error)

	// SaveTheme stores the theme preference.
	SaveTheme(ctx context.Context, theme types.Theme) error

	// LoadTheme returns the stored theme or ErrNotFound.
	LoadTheme(ctx context.Context) (types.Theme, error)

	// SaveAccount stores the active-account snapshot.
	SaveAccount(ctx context.Context, account types.Account) error

	// LoadAccount returns the stored snapshot or ErrNotFound.
	LoadAccount(ctx context.Context) (types.Account, error)

	// ClearAccount removes the snapshot; absent snapshots are a no-op.
	ClearAccount(ctx context.Context) error
}

// isNotFound reports whether err means "nothing stored".
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// withContext runs fn unless ctx is already done.
func withContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	default:
		return fn()
	}
}

// withContextError handles context cancellation for operations that only
// return an error.
func withContextError(ctx context.Context, fn func() error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fn()
	}
}
