package chain

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/polkaflow/flow-engine/types"
)

// Transaction is an opaque signed-extrinsic request.
type Transaction struct {
	Module string
	Call   string
	Args   []string
	Signer types.Account
}

// TxResult reports the outcome of a submitted transaction.
type TxResult struct {
	Success bool
	Hash    string
	Err     string
}

// Client is the chain-RPC boundary the builder depends on.
type Client interface {
	Connect(ctx context.Context, id ID) error
	Disconnect(id ID)
	IsConnected(id ID) bool
	QueryBalance(ctx context.Context, id ID, address string) (string, error)
	SubmitTransaction(ctx context.Context, id ID, tx Transaction) TxResult
	EstimateFee(ctx context.Context, id ID, tx Transaction) (string, error)
}

// MockClient fabricates chain responses: random balances and fees, random
// transaction hashes, and a short simulated latency per call.
type MockClient struct {
	network Network
	logger  hclog.Logger

	mu        sync.RWMutex
	connected map[ID]bool

	rngMu sync.Mutex
	rng   *rand.Rand

	minLatency time.Duration
	maxLatency time.Duration
}

// MockOption configures a MockClient.
type MockOption func(*MockClient)

// WithLatency bounds the simulated per-call latency.
func WithLatency(min, max time.Duration) MockOption {
	return func(c *MockClient) {
		c.minLatency = min
		c.maxLatency = max
	}
}

// WithSeed fixes the random source, for reproducible tests.
func WithSeed(seed int64) MockOption {
	return func(c *MockClient) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithClientLogger sets the client's logger.
func WithClientLogger(logger hclog.Logger) MockOption {
	return func(c *MockClient) {
		c.logger = logger
	}
}

// NewMockClient creates a MockClient for the given network.
func NewMockClient(network Network, options ...MockOption) *MockClient {
	c := &MockClient{
		network:    network,
		logger:     hclog.NewNullLogger(),
		connected:  make(map[ID]bool),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		minLatency: 50 * time.Millisecond,
		maxLatency: 250 * time.Millisecond,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// wait simulates call latency, honoring context cancellation.
func (c *MockClient) wait(ctx context.Context) error {
	span := c.maxLatency - c.minLatency
	delay := c.minLatency
	if span > 0 {
		c.rngMu.Lock()
		delay += time.Duration(c.rng.Int63n(int64(span)))
		c.rngMu.Unlock()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (c *MockClient) randFloat() float64 {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.rng.Float64()
}

func (c *MockClient) randIntn(n int) int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.rng.Intn(n)
}

// Connect marks a chain connected after resolving its endpoint.
func (c *MockClient) Connect(ctx context.Context, id ID) error {
	if _, err := ConfigFor(id); err != nil {
		return err
	}
	endpoint, err := Endpoint(c.network, id)
	if err != nil {
		return err
	}
	if err := c.wait(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.connected[id] = true
	c.mu.Unlock()
	c.logger.Debug("connected to chain", "chain", id, "endpoint", endpoint)
	return nil
}

// Disconnect marks a chain disconnected.
func (c *MockClient) Disconnect(id ID) {
	c.mu.Lock()
	delete(c.connected, id)
	c.mu.Unlock()
}

// IsConnected reports whether a chain is connected.
func (c *MockClient) IsConnected(id ID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected[id]
}

// QueryBalance returns a fabricated free balance formatted with the
// chain's symbol.
func (c *MockClient) QueryBalance(ctx context.Context, id ID, address string) (string, error) {
	if !c.IsConnected(id) {
		return "", fmt.Errorf("not connected to %s", id)
	}
	if address == "" {
		return "", fmt.Errorf("address cannot be empty")
	}
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	cfg := configs[id]
	amount := c.randFloat() * 1000
	return fmt.Sprintf("%.4f %s", amount, cfg.Symbol), nil
}

// SubmitTransaction fabricates a finalized transaction with a random hash.
func (c *MockClient) SubmitTransaction(ctx context.Context, id ID, tx Transaction) TxResult {
	if !c.IsConnected(id) {
		return TxResult{Err: fmt.Sprintf("not connected to %s", id)}
	}
	if tx.Signer.Address == "" {
		return TxResult{Err: "transaction has no signer"}
	}
	if err := c.wait(ctx); err != nil {
		return TxResult{Err: err.Error()}
	}

	const hexDigits = "0123456789abcdef"
	hash := make([]byte, 64)
	for i := range hash {
		hash[i] = hexDigits[c.randIntn(len(hexDigits))]
	}
	return TxResult{Success: true, Hash: "0x" + string(hash)}
}

// EstimateFee returns a fabricated partial fee in the chain's symbol.
func (c *MockClient) EstimateFee(ctx context.Context, id ID, tx Transaction) (string, error) {
	if !c.IsConnected(id) {
		return "", fmt.Errorf("not connected to %s", id)
	}
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	cfg := configs[id]
	fee := 0.001 + c.randFloat()*0.05
	return fmt.Sprintf("%.6f %s", fee, cfg.Symbol), nil
}
