// Package exec runs the current canvas as a simulated execution: precondition
// checks against the chain connection and wallet session, a fixed delay, and
// fabricated per-node results. Real traversal of the graph is out of scope;
// the runner only promises that a started run always resolves.
package exec

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/songzhibin97/gkit/generator"

	"github.com/polkaflow/flow-engine/chain"
	"github.com/polkaflow/flow-engine/events"
	"github.com/polkaflow/flow-engine/flow"
	"github.com/polkaflow/flow-engine/metrics"
	"github.com/polkaflow/flow-engine/types"
	"github.com/polkaflow/flow-engine/wallet"
)

// ErrAlreadyRunning indicates a run was requested while one is in flight.
var ErrAlreadyRunning = errors.New("execution already in progress")

// Node result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// NodeResult is the per-node outcome of a run.
type NodeResult struct {
	NodeID  string `json:"nodeId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Result is the outcome of one run.
type Result struct {
	RunID   uint64       `json:"runId"`
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Results []NodeResult `json:"results"`
}

// Runner executes the canvas held by a flow.Store.
type Runner struct {
	store   *flow.Store
	client  chain.Client
	chainID chain.ID
	session *wallet.Session
	gen     generator.Generator
	bus     *events.Bus
	logger  hclog.Logger
	metrics *metrics.Registry
	delay   time.Duration

	mu      sync.Mutex
	busy    bool
	results []NodeResult
}

// Option configures a Runner.
type Option func(*Runner)

// WithDelay sets the simulated execution delay.
func WithDelay(d time.Duration) Option {
	return func(r *Runner) { r.delay = d }
}

// WithLogger sets the runner's logger.
func WithLogger(logger hclog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithBus sets the event bus run lifecycle events are published on.
func WithBus(bus *events.Bus) Option {
	return func(r *Runner) { r.bus = bus }
}

// WithMetrics sets the metrics registry the runner reports to.
func WithMetrics(m *metrics.Registry) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithGenerator sets the run id generator.
func WithGenerator(gen generator.Generator) Option {
	return func(r *Runner) { r.gen = gen }
}

// NewRunner creates a Runner over a store, a chain client, and the wallet
// session. The default delay is 2 seconds.
func NewRunner(store *flow.Store, client chain.Client, chainID chain.ID, session *wallet.Session, options ...Option) *Runner {
	r := &Runner{
		store:   store,
		client:  client,
		chainID: chainID,
		session: session,
		logger:  hclog.NewNullLogger(),
		delay:   2 * time.Second,
	}
	for _, option := range options {
		option(r)
	}
	if r.gen == nil {
		r.gen = generator.NewSnowflake(time.Now().Add(-1*time.Second), 1)
	}
	if r.metrics == nil {
		r.metrics = metrics.New(nil)
	}
	return r
}

// Busy reports whether a run is in flight.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// Results returns the per-node results of the last run.
func (r *Runner) Results() []NodeResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]NodeResult, len(r.results))
	copy(out, r.results)
	return out
}

// ResetResults clears the stored per-node results.
func (r *Runner) ResetResults() {
	r.mu.Lock()
	r.results = nil
	r.mu.Unlock()
}

// SetChain switches the chain the runner checks connectivity against.
func (r *Runner) SetChain(id chain.ID) {
	r.mu.Lock()
	r.chainID = id
	r.mu.Unlock()
}

// Run executes the current canvas. Precondition failures come back as an
// unsuccessful Result with a reason, not an error; the error return is
// reserved for a concurrent run and context cancellation. The busy flag
// always resolves, whatever path the run takes.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	nodes := r.store.Nodes()
	if len(nodes) == 0 {
		r.metrics.ExecutionsTotal.WithLabelValues("rejected").Inc()
		return Result{Success: false, Message: "No workflow to execute"}, nil
	}

	r.mu.Lock()
	chainID := r.chainID
	r.mu.Unlock()

	if !r.client.IsConnected(chainID) {
		r.metrics.ExecutionsTotal.WithLabelValues("rejected").Inc()
		return Result{Success: false, Message: "Not connected to blockchain"}, nil
	}
	account, ok := r.session.ActiveAccount()
	if !ok {
		r.metrics.ExecutionsTotal.WithLabelValues("rejected").Inc()
		return Result{Success: false, Message: "No active wallet account"}, nil
	}

	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		return Result{}, ErrAlreadyRunning
	}
	r.busy = true
	r.results = nil
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.busy = false
		r.mu.Unlock()
	}()

	runID, err := r.gen.NextID()
	if err != nil {
		r.metrics.ExecutionsTotal.WithLabelValues("failed").Inc()
		return Result{Success: false, Message: "Failed to start execution"},
			fmt.Errorf("generate run id: %w", err)
	}

	r.logger.Info("execution started", "run", runID, "nodes", len(nodes),
		"chain", string(chainID), "account", account.Address)
	r.publish(events.EventExecutionStarted, map[string]interface{}{
		"run": runID, "nodes": len(nodes),
	})
	started := time.Now()

	select {
	case <-ctx.Done():
		r.metrics.ExecutionsTotal.WithLabelValues("canceled").Inc()
		r.publish(events.EventExecutionFinished, map[string]interface{}{
			"run": runID, "success": false,
		})
		return Result{RunID: runID, Success: false, Message: "Execution canceled"}, ctx.Err()
	case <-time.After(r.delay):
	}

	results := []NodeResult{{
		NodeID:  nodes[0].ID,
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Connected to %s", account.Name),
	}}
	chainName := string(chainID)
	if cfg, err := chain.ConfigFor(chainID); err == nil {
		chainName = cfg.DisplayName
	}
	for _, n := range nodes {
		if n.Kind == types.NodeAssetSelector {
			results = append(results, NodeResult{
				NodeID:  n.ID,
				Status:  StatusSuccess,
				Message: fmt.Sprintf("Selected %s / DOT", chainName),
			})
			break
		}
	}

	r.mu.Lock()
	r.results = results
	r.mu.Unlock()

	r.metrics.ExecutionsTotal.WithLabelValues("success").Inc()
	r.metrics.ExecutionDuration.Observe(time.Since(started).Seconds())
	r.publish(events.EventExecutionFinished, map[string]interface{}{
		"run": runID, "success": true,
	})
	r.logger.Info("execution finished", "run", runID, "results", len(results))

	return Result{
		RunID:   runID,
		Success: true,
		Message: "Workflow executed successfully",
		Results: results,
	}, nil
}

func (r *Runner) publish(eventType string, data map[string]interface{}) {
	if r.bus == nil {
		return
	}
	wfID := ""
	if wf, ok := r.store.CurrentWorkflow(); ok {
		wfID = wf.ID
	}
	event := events.Event{Type: eventType, WorkflowID: wfID, Data: data}
	if err := r.bus.Publish(context.Background(), event); err != nil &&
		!errors.Is(err, events.ErrNoHandler) {
		r.logger.Warn("event publish failed", "type", eventType, "error", err)
	}
}
