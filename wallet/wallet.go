// Package wallet abstracts the browser wallet extension and manages the
// active-account session, including persisting the snapshot used to attempt
// reconnection on the next start.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/polkaflow/flow-engine/storage"
	"github.com/polkaflow/flow-engine/types"
)

var (
	// ErrNoExtension indicates no wallet extension granted access.
	ErrNoExtension = errors.New("no wallet extensions found")
	// ErrNoAccounts indicates the extension exposes no accounts.
	ErrNoAccounts = errors.New("no accounts found in wallet extension")
	// ErrNoActiveAccount indicates an operation requires a selected account.
	ErrNoActiveAccount = errors.New("no active account selected")
)

// SignPayload is a raw signing request forwarded to the extension.
type SignPayload struct {
	Address string
	Data    string
	Type    string
}

// Bridge is the wallet-extension boundary.
type Bridge interface {
	// Enable requests access on behalf of the named app.
	Enable(ctx context.Context, appName string) error

	// Accounts lists the accounts the extension exposes.
	Accounts(ctx context.Context) ([]types.Account, error)

	// SubscribeAccounts registers a callback for account-set changes and
	// returns an unsubscribe function.
	SubscribeAccounts(cb func([]types.Account)) (func(), error)

	// SignRaw asks the extension to sign a raw payload.
	SignRaw(ctx context.Context, payload SignPayload) (string, error)
}

// MockBridge simulates a wallet extension with a fixed account set.
type MockBridge struct {
	mu          sync.Mutex
	accounts    []types.Account
	enabled     bool
	subscribers []func([]types.Account)
	rng         *rand.Rand
}

// NewMockBridge creates a MockBridge exposing the given accounts.
func NewMockBridge(accounts ...types.Account) *MockBridge {
	return &MockBridge{
		accounts: accounts,
		rng:      rand.New(rand.NewSource(1)),
	}
}

// Enable grants access when the extension has accounts to offer.
func (b *MockBridge) Enable(ctx context.Context, appName string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if appName == "" {
		return fmt.Errorf("app name cannot be empty")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.accounts) == 0 {
		return ErrNoExtension
	}
	b.enabled = true
	return nil
}

// Accounts returns the extension's account list.
func (b *MockBridge) Accounts(ctx context.Context) ([]types.Account, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.enabled {
		return nil, ErrNoExtension
	}
	if len(b.accounts) == 0 {
		return nil, ErrNoAccounts
	}
	out := make([]types.Account, len(b.accounts))
	copy(out, b.accounts)
	return out, nil
}

// SubscribeAccounts registers a callback invoked on SetAccounts.
func (b *MockBridge) SubscribeAccounts(cb func([]types.Account)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.enabled {
		return nil, ErrNoExtension
	}
	index := len(b.subscribers)
	b.subscribers = append(b.subscribers, cb)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if index < len(b.subscribers) {
			b.subscribers[index] = nil
		}
	}, nil
}

// SignRaw fabricates a signature for the payload.
func (b *MockBridge) SignRaw(ctx context.Context, payload SignPayload) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	if payload.Address == "" {
		return "", fmt.Errorf("payload has no address")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.enabled {
		return "", ErrNoExtension
	}

	const hexDigits = "0123456789abcdef"
	sig := make([]byte, 128)
	for i := range sig {
		sig[i] = hexDigits[b.rng.Intn(len(hexDigits))]
	}
	return "0x" + string(sig), nil
}

// SetAccounts replaces the exposed account set and notifies subscribers.
func (b *MockBridge) SetAccounts(accounts []types.Account) {
	b.mu.Lock()
	b.accounts = make([]types.Account, len(accounts))
	copy(b.accounts, accounts)
	subscribers := make([]func([]types.Account), len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.Unlock()

	for _, cb := range subscribers {
		if cb != nil {
			cb(accounts)
		}
	}
}

// Session tracks the wallet connection and the active account, persisting
// the snapshot through storage so the next start can restore it.
type Session struct {
	bridge  Bridge
	store   storage.Storage
	logger  hclog.Logger
	appName string

	mu        sync.RWMutex
	connected bool
	accounts  []types.Account
	active    *types.Account
	unsub     func()
}

// NewSession creates a Session around a bridge and storage backend.
func NewSession(bridge Bridge, store storage.Storage, appName string, logger hclog.Logger) *Session {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Session{bridge: bridge, store: store, logger: logger, appName: appName}
}

// Connect enables the extension, loads accounts, and picks the active
// account: the persisted snapshot when it still exists, else the first.
func (s *Session) Connect(ctx context.Context) error {
	if err := s.bridge.Enable(ctx, s.appName); err != nil {
		return err
	}
	accounts, err := s.bridge.Accounts(ctx)
	if err != nil {
		return err
	}
	unsub, err := s.bridge.SubscribeAccounts(s.onAccountsChanged)
	if err != nil {
		return err
	}

	active := accounts[0]
	if saved, err := s.store.LoadAccount(ctx); err == nil {
		for _, acct := range accounts {
			if acct.Address == saved.Address {
				active = acct
				break
			}
		}
	}

	s.mu.Lock()
	s.connected = true
	s.accounts = accounts
	s.active = &active
	s.unsub = unsub
	s.mu.Unlock()

	if err := s.store.SaveAccount(ctx, active); err != nil {
		s.logger.Warn("failed to persist active account", "error", err)
	}
	s.logger.Info("wallet connected", "accounts", len(accounts), "active", active.Address)
	return nil
}

// Restore attempts reconnection when a snapshot was persisted. Without a
// snapshot it is a no-op.
func (s *Session) Restore(ctx context.Context) error {
	if _, err := s.store.LoadAccount(ctx); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.Connect(ctx)
}

// Disconnect drops the session and clears the persisted snapshot.
func (s *Session) Disconnect(ctx context.Context) {
	s.mu.Lock()
	unsub := s.unsub
	s.connected = false
	s.accounts = nil
	s.active = nil
	s.unsub = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if err := s.store.ClearAccount(ctx); err != nil {
		s.logger.Warn("failed to clear persisted account", "error", err)
	}
}

// onAccountsChanged keeps the account list current and re-resolves the
// active account when it disappears from the extension.
func (s *Session) onAccountsChanged(accounts []types.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = make([]types.Account, len(accounts))
	copy(s.accounts, accounts)

	if s.active != nil {
		for _, acct := range accounts {
			if acct.Address == s.active.Address {
				return
			}
		}
	}
	if len(accounts) > 0 {
		active := accounts[0]
		s.active = &active
	} else {
		s.active = nil
	}
}

// SetActiveAccount selects the active account and persists the snapshot.
func (s *Session) SetActiveAccount(ctx context.Context, account types.Account) error {
	s.mu.Lock()
	found := false
	for _, acct := range s.accounts {
		if acct.Address == account.Address {
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return fmt.Errorf("account %s is not exposed by the wallet", account.Address)
	}
	s.active = &account
	s.mu.Unlock()

	return s.store.SaveAccount(ctx, account)
}

// ActiveAccount returns the selected account, when any.
func (s *Session) ActiveAccount() (types.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return types.Account{}, false
	}
	return *s.active, true
}

// Accounts returns the accounts the extension currently exposes.
func (s *Session) Accounts() []types.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// IsConnected reports whether the session is live.
func (s *Session) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Sign signs a raw payload with the active account.
func (s *Session) Sign(ctx context.Context, data string) (string, error) {
	account, ok := s.ActiveAccount()
	if !ok {
		return "", ErrNoActiveAccount
	}
	return s.bridge.SignRaw(ctx, SignPayload{Address: account.Address, Data: data, Type: "bytes"})
}
