package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"

	"github.com/polkaflow/flow-engine/types"
)

const (
	workflowsKey = "flow:workflows"
	themeKey     = "flow:theme"
	accountKey   = "flow:account"
)

// RedisStorage is a Redis-backed implementation of Storage, for deployments
// where builder state is shared between sessions.
type RedisStorage struct {
	client *redis.Client
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	IdleTimeout  time.Duration
}

// NewRedisStorage connects to Redis and verifies the connection.
func NewRedisStorage(opts RedisOptions) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		IdleTimeout:  opts.IdleTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStorage{client: client}, nil
}

// set marshals value under key.
func (s *RedisStorage) set(ctx context.Context, key string, value interface{}) error {
	return withContextError(ctx, func() error {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", key, err)
		}
		if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
		return nil
	})
}

// get unmarshals the value under key into out. Missing keys and corrupt
// values both map to ErrNotFound.
func (s *RedisStorage) get(ctx context.Context, key string, out interface{}) error {
	return withContextError(ctx, func() error {
		data, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		} else if err != nil {
			return fmt.Errorf("failed to get %s: %w", key, err)
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: %s holds unreadable data", ErrNotFound, key)
		}
		return nil
	})
}

// SaveWorkflows replaces the full workflow table.
func (s *RedisStorage) SaveWorkflows(ctx context.Context, workflows []types.Workflow) error {
	if workflows == nil {
		workflows = []types.Workflow{}
	}
	return s.set(ctx, workflowsKey, workflows)
}

// LoadWorkflows returns the stored workflow table, empty when absent.
func (s *RedisStorage) LoadWorkflows(ctx context.Context) ([]types.Workflow, error) {
	var workflows []types.Workflow
	if err := s.get(ctx, workflowsKey, &workflows); err != nil {
		if isNotFound(err) {
			return []types.Workflow{}, nil
		}
		return nil, err
	}
	return workflows, nil
}

// SaveTheme stores the theme preference.
func (s *RedisStorage) SaveTheme(ctx context.Context, theme types.Theme) error {
	return s.set(ctx, themeKey, theme)
}

// LoadTheme returns the stored theme or ErrNotFound.
func (s *RedisStorage) LoadTheme(ctx context.Context) (types.Theme, error) {
	var theme types.Theme
	if err := s.get(ctx, themeKey, &theme); err != nil {
		return "", err
	}
	if !theme.Valid() {
		return "", fmt.Errorf("%w: %s holds unknown theme", ErrNotFound, themeKey)
	}
	return theme, nil
}

// SaveAccount stores the active-account snapshot.
func (s *RedisStorage) SaveAccount(ctx context.Context, account types.Account) error {
	return s.set(ctx, accountKey, account)
}

// LoadAccount returns the stored snapshot or ErrNotFound.
func (s *RedisStorage) LoadAccount(ctx context.Context) (types.Account, error) {
	var account types.Account
	if err := s.get(ctx, accountKey, &account); err != nil {
		return types.Account{}, err
	}
	return account, nil
}

// ClearAccount removes the snapshot key.
func (s *RedisStorage) ClearAccount(ctx context.Context) error {
	return withContextError(ctx, func() error {
		return s.client.Del(ctx, accountKey).Err()
	})
}

// Close closes the Redis client connection.
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
