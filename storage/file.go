package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/goccy/go-json"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/polkaflow/flow-engine/types"
)

const (
	workflowsFile = "workflows.json"
	themeFile     = "theme.json"
	accountFile   = "account.json"
)

// FileStorage is a filesystem-backed Storage. Each key is one JSON document
// under the base path, written synchronously on every save.
type FileStorage struct {
	basePath string
	fs       afs.Service
	mu       sync.RWMutex
}

// NewFileStorage creates a FileStorage rooted at basePath, creating the
// directory when missing.
func NewFileStorage(basePath string) (*FileStorage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	fs := afs.New()
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	return &FileStorage{basePath: basePath, fs: fs}, nil
}

func (s *FileStorage) keyPath(name string) string {
	return path.Join(s.basePath, name)
}

// write marshals value and replaces the named document.
func (s *FileStorage) write(ctx context.Context, name string, value interface{}) error {
	return withContextError(ctx, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", name, err)
		}
		if err := s.fs.Upload(ctx, s.keyPath(name), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		return nil
	})
}

// read unmarshals the named document into out. Returns ErrNotFound when the
// document is absent and corrupt when its JSON does not parse.
func (s *FileStorage) read(ctx context.Context, name string, out interface{}) error {
	return withContextError(ctx, func() error {
		s.mu.RLock()
		defer s.mu.RUnlock()

		filePath := s.keyPath(name)
		exists, err := s.fs.Exists(ctx, filePath)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", name, err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}

		data, err := s.fs.DownloadWithURL(ctx, filePath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: %s holds unreadable data", ErrNotFound, name)
		}
		return nil
	})
}

// SaveWorkflows replaces the full workflow table.
func (s *FileStorage) SaveWorkflows(ctx context.Context, workflows []types.Workflow) error {
	if workflows == nil {
		workflows = []types.Workflow{}
	}
	return s.write(ctx, workflowsFile, workflows)
}

// LoadWorkflows returns the stored workflow table. Missing or corrupt data
// yields an empty table, not an error.
func (s *FileStorage) LoadWorkflows(ctx context.Context) ([]types.Workflow, error) {
	var workflows []types.Workflow
	if err := s.read(ctx, workflowsFile, &workflows); err != nil {
		if isNotFound(err) {
			return []types.Workflow{}, nil
		}
		return nil, err
	}
	return workflows, nil
}

// SaveTheme stores the theme preference.
func (s *FileStorage) SaveTheme(ctx context.Context, theme types.Theme) error {
	return s.write(ctx, themeFile, theme)
}

// LoadTheme returns the stored theme or ErrNotFound.
func (s *FileStorage) LoadTheme(ctx context.Context) (types.Theme, error) {
	var theme types.Theme
	if err := s.read(ctx, themeFile, &theme); err != nil {
		return "", err
	}
	if !theme.Valid() {
		return "", fmt.Errorf("%w: %s holds unknown theme", ErrNotFound, themeFile)
	}
	return theme, nil
}

// SaveAccount stores the active-account snapshot.
func (s *FileStorage) SaveAccount(ctx context.Context, account types.Account) error {
	return s.write(ctx, accountFile, account)
}

// LoadAccount returns the stored snapshot or ErrNotFound.
func (s *FileStorage) LoadAccount(ctx context.Context) (types.Account, error) {
	var account types.Account
	if err := s.read(ctx, accountFile, &account); err != nil {
		return types.Account{}, err
	}
	return account, nil
}

// ClearAccount removes the snapshot document.
func (s *FileStorage) ClearAccount(ctx context.Context) error {
	return withContextError(ctx, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		filePath := s.keyPath(accountFile)
		exists, err := s.fs.Exists(ctx, filePath)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", accountFile, err)
		}
		if !exists {
			return nil
		}
		return s.fs.Delete(ctx, filePath)
	})
}
