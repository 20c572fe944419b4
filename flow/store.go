// Package flow holds the workflow store: the in-memory canvas state (nodes,
// edges), the saved-workflow table, and the mutation surface that the rest of
// the engine drives. All writes go through here so validation, events, and
// persistence stay consistent.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/polkaflow/flow-engine/events"
	"github.com/polkaflow/flow-engine/graph"
	"github.com/polkaflow/flow-engine/metrics"
	"github.com/polkaflow/flow-engine/registry"
	"github.com/polkaflow/flow-engine/storage"
	"github.com/polkaflow/flow-engine/types"
)

var (
	// ErrEmptyWorkflowName indicates a save was attempted without a name.
	ErrEmptyWorkflowName = errors.New("workflow name cannot be empty")
	// ErrEmptyWorkflow indicates a save was attempted on an empty canvas.
	ErrEmptyWorkflow = errors.New("cannot save an empty workflow")
	// ErrWorkflowNotFound indicates the requested workflow is not in the table.
	ErrWorkflowNotFound = errors.New("workflow not found")
)

// Store owns the canvas and the saved-workflow table. Safe for concurrent use.
type Store struct {
	storage storage.Storage
	bus     *events.Bus
	logger  hclog.Logger
	metrics *metrics.Registry
	valid   *validator.Validate

	mu        sync.RWMutex
	nodes     []types.Node
	edges     []types.Edge
	workflows []types.Workflow
	currentID string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithBus sets the event bus mutations are published on.
func WithBus(bus *events.Bus) Option {
	return func(s *Store) { s.bus = bus }
}

// WithMetrics sets the metrics registry the store reports to.
func WithMetrics(m *metrics.Registry) Option {
	return func(s *Store) { s.metrics = m }
}

// New creates a Store backed by the given storage and loads the saved
// workflow table once. An unreadable table comes back empty, not as an error.
func New(ctx context.Context, store storage.Storage, options ...Option) (*Store, error) {
	s := &Store{
		storage: store,
		logger:  hclog.NewNullLogger(),
		valid:   validator.New(),
	}
	for _, option := range options {
		option(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New(nil)
	}

	workflows, err := store.LoadWorkflows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workflow table: %w", err)
	}
	s.workflows = workflows
	s.logger.Info("workflow store ready", "saved_workflows", len(workflows))
	return s, nil
}

// AddNode instantiates a node of the given kind at a canvas position. The
// node gets a fresh default payload from the registry and an id of the form
// "<kind>-<uuid>".
func (s *Store) AddNode(kind types.NodeKind, pos types.Position) (types.Node, error) {
	tpl, err := registry.Lookup(kind)
	if err != nil {
		return types.Node{}, err
	}

	node := types.Node{
		ID:       fmt.Sprintf("%s-%s", kind, uuid.NewString()),
		Kind:     kind,
		Position: pos,
		Data:     tpl.Instantiate(),
	}

	s.mu.Lock()
	s.nodes = append(s.nodes, node)
	current := s.currentID
	s.mu.Unlock()

	s.metrics.NodesAdded.Inc()
	s.syncGauges()
	s.publish(events.EventNodeAdded, current, map[string]interface{}{"node": node.ID, "kind": string(kind)})
	return node, nil
}

// UpdateNodeData merges a partial payload into a node's data. Unknown node
// ids are ignored; the node's kind and label survive the merge.
func (s *Store) UpdateNodeData(id string, partial map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.nodes {
		if s.nodes[i].ID != id {
			continue
		}
		merged, err := types.MergeData(s.nodes[i].Data, partial)
		if err != nil {
			return fmt.Errorf("merge node data: %w", err)
		}
		s.nodes[i].Data = merged
		s.publish(events.EventNodeUpdated, s.currentID, map[string]interface{}{"node": id})
		return nil
	}
	return nil
}

// MoveNode updates a node's canvas position. Unknown ids are ignored.
func (s *Store) MoveNode(id string, pos types.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.nodes {
		if s.nodes[i].ID == id {
			s.nodes[i].Position = pos
			return
		}
	}
}

// DeleteNode removes a node and every edge touching it. Unknown ids are a
// no-op.
func (s *Store) DeleteNode(id string) {
	s.mu.Lock()
	removed := false
	nodes := s.nodes[:0]
	for _, n := range s.nodes {
		if n.ID == id {
			removed = true
			continue
		}
		nodes = append(nodes, n)
	}
	s.nodes = nodes

	if removed {
		edges := s.edges[:0]
		for _, e := range s.edges {
			if e.Source == id || e.Target == id {
				continue
			}
			edges = append(edges, e)
		}
		s.edges = edges
	}
	current := s.currentID
	s.mu.Unlock()

	if removed {
		s.syncGauges()
		s.publish(events.EventNodeRemoved, current, map[string]interface{}{"node": id})
	}
}

// Connect validates a candidate connection, classifies it, and adds the
// styled edge to the canvas. The returned error names the rejection reason.
func (s *Store) Connect(conn graph.Connection) (types.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := graph.ValidateConnection(conn, s.nodes, s.edges); err != nil {
		s.metrics.ConnectionsRejected.WithLabelValues(rejectReason(err)).Inc()
		s.logger.Debug("connection rejected",
			"source", conn.Source, "target", conn.Target, "reason", err)
		return types.Edge{}, err
	}

	var sourceKind, targetKind types.NodeKind
	for _, n := range s.nodes {
		switch n.ID {
		case conn.Source:
			sourceKind = n.Kind
		case conn.Target:
			targetKind = n.Kind
		}
	}

	kind := graph.Classify(sourceKind, targetKind)
	edge := types.Edge{
		ID:           "e-" + uuid.NewString(),
		Source:       conn.Source,
		Target:       conn.Target,
		Kind:         kind,
		SourceHandle: conn.SourceHandle,
		TargetHandle: conn.TargetHandle,
		Animated:     true,
		Style:        graph.StyleFor(kind),
	}
	s.edges = append(s.edges, edge)

	s.metrics.EdgesAdded.Inc()
	s.metrics.EdgesCurrent.Set(float64(len(s.edges)))
	s.publish(events.EventEdgeAdded, s.currentID, map[string]interface{}{
		"edge": edge.ID, "kind": string(kind),
	})
	return edge, nil
}

// DeleteEdge removes an edge from the canvas. Unknown ids are a no-op.
func (s *Store) DeleteEdge(id string) {
	s.mu.Lock()
	removed := false
	edges := s.edges[:0]
	for _, e := range s.edges {
		if e.ID == id {
			removed = true
			continue
		}
		edges = append(edges, e)
	}
	s.edges = edges
	current := s.currentID
	s.mu.Unlock()

	if removed {
		s.syncGauges()
		s.publish(events.EventEdgeRemoved, current, map[string]interface{}{"edge": id})
	}
}

// Clear empties the canvas and detaches it from any loaded workflow.
func (s *Store) Clear() {
	s.mu.Lock()
	s.nodes = nil
	s.edges = nil
	s.currentID = ""
	s.mu.Unlock()
	s.syncGauges()
}

// Save captures the canvas as a workflow and writes the whole table through
// to storage. An empty name or an empty canvas fails without touching the
// table; when a loaded workflow is current it is updated in place, otherwise
// a new entry is created. Returns the workflow id.
func (s *Store) Save(ctx context.Context, name, description string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyWorkflowName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.nodes) == 0 {
		return "", ErrEmptyWorkflow
	}

	now := time.Now()
	wf := types.Workflow{
		Name:        name,
		Description: description,
		Nodes:       cloneNodes(s.nodes),
		Edges:       cloneEdges(s.edges),
		Updated:     now,
	}

	table := make([]types.Workflow, len(s.workflows))
	copy(table, s.workflows)

	updated := false
	if s.currentID != "" {
		for i := range table {
			if table[i].ID == s.currentID {
				wf.ID = s.currentID
				wf.Created = table[i].Created
				table[i] = wf
				updated = true
				break
			}
		}
	}
	if !updated {
		wf.ID = uuid.NewString()
		wf.Created = now
		table = append(table, wf)
	}

	if err := s.valid.Struct(wf); err != nil {
		return "", fmt.Errorf("invalid workflow: %w", err)
	}

	s.metrics.StorageWrites.Inc()
	if err := s.storage.SaveWorkflows(ctx, table); err != nil {
		s.metrics.StorageWriteFailures.Inc()
		return "", fmt.Errorf("persist workflow table: %w", err)
	}

	s.workflows = table
	s.currentID = wf.ID
	s.metrics.WorkflowsSaved.Inc()
	s.logger.Info("workflow saved", "id", wf.ID, "name", name,
		"nodes", len(wf.Nodes), "edges", len(wf.Edges))
	s.publish(events.EventWorkflowSaved, wf.ID, map[string]interface{}{"name": name})
	return wf.ID, nil
}

// Load replaces the canvas with a saved workflow. The canvas is untouched
// when the id is unknown.
func (s *Store) Load(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.workflows {
		if s.workflows[i].ID != id {
			continue
		}
		s.nodes = cloneNodes(s.workflows[i].Nodes)
		s.edges = cloneEdges(s.workflows[i].Edges)
		s.currentID = id
		s.publish(events.EventWorkflowLoaded, id, map[string]interface{}{"name": s.workflows[i].Name})
		s.syncGaugesLocked()
		return nil
	}
	return fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
}

// DeleteWorkflow removes a workflow from the table and persists the change.
// Deleting the currently loaded workflow also clears the canvas.
func (s *Store) DeleteWorkflow(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i := range s.workflows {
		if s.workflows[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}

	table := make([]types.Workflow, 0, len(s.workflows)-1)
	table = append(table, s.workflows[:index]...)
	table = append(table, s.workflows[index+1:]...)

	s.metrics.StorageWrites.Inc()
	if err := s.storage.SaveWorkflows(ctx, table); err != nil {
		s.metrics.StorageWriteFailures.Inc()
		return fmt.Errorf("persist workflow table: %w", err)
	}

	s.workflows = table
	if s.currentID == id {
		s.nodes = nil
		s.edges = nil
		s.currentID = ""
		s.syncGaugesLocked()
	}
	s.publish(events.EventWorkflowDeleted, id, nil)
	return nil
}

// Import replaces the canvas with an externally supplied workflow without
// adding it to the saved table.
func (s *Store) Import(wf types.Workflow) error {
	if err := s.valid.Struct(wf); err != nil {
		return fmt.Errorf("invalid workflow: %w", err)
	}
	for _, n := range wf.Nodes {
		if !n.Kind.Valid() {
			return fmt.Errorf("%w: %q", registry.ErrUnknownNodeType, n.Kind)
		}
	}

	s.mu.Lock()
	s.nodes = cloneNodes(wf.Nodes)
	s.edges = cloneEdges(wf.Edges)
	s.currentID = ""
	s.mu.Unlock()

	s.syncGauges()
	s.publish(events.EventWorkflowLoaded, "", map[string]interface{}{"name": wf.Name, "imported": true})
	return nil
}

// Nodes returns a snapshot of the canvas nodes.
func (s *Store) Nodes() []types.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneNodes(s.nodes)
}

// Edges returns a snapshot of the canvas edges.
func (s *Store) Edges() []types.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEdges(s.edges)
}

// NodeByID returns the node with the given id.
func (s *Store) NodeByID(id string) (types.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			return cloneNode(s.nodes[i]), true
		}
	}
	return types.Node{}, false
}

// EdgeByID returns the edge with the given id.
func (s *Store) EdgeByID(id string) (types.Edge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.edges {
		if e.ID == id {
			return e, true
		}
	}
	return types.Edge{}, false
}

// Workflows returns a snapshot of the saved workflow table.
func (s *Store) Workflows() []types.Workflow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Workflow, len(s.workflows))
	for i := range s.workflows {
		out[i] = s.workflows[i]
		out[i].Nodes = cloneNodes(s.workflows[i].Nodes)
		out[i].Edges = cloneEdges(s.workflows[i].Edges)
	}
	return out
}

// CurrentWorkflow returns the loaded workflow, when any.
func (s *Store) CurrentWorkflow() (types.Workflow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentID == "" {
		return types.Workflow{}, false
	}
	for i := range s.workflows {
		if s.workflows[i].ID == s.currentID {
			wf := s.workflows[i]
			wf.Nodes = cloneNodes(wf.Nodes)
			wf.Edges = cloneEdges(wf.Edges)
			return wf, true
		}
	}
	return types.Workflow{}, false
}

// publish fires an event on the bus when one is configured. Delivery is
// best-effort; an unsubscribed type or full channel is not an error here.
func (s *Store) publish(eventType, workflowID string, data map[string]interface{}) {
	if s.bus == nil {
		return
	}
	event := events.Event{Type: eventType, WorkflowID: workflowID, Data: data}
	if err := s.bus.Publish(context.Background(), event); err != nil &&
		!errors.Is(err, events.ErrNoHandler) {
		s.logger.Warn("event publish failed", "type", eventType, "error", err)
	}
}

func (s *Store) syncGauges() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.syncGaugesLocked()
}

func (s *Store) syncGaugesLocked() {
	s.metrics.NodesCurrent.Set(float64(len(s.nodes)))
	s.metrics.EdgesCurrent.Set(float64(len(s.edges)))
}

// rejectReason maps a validation error to a stable metrics label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, graph.ErrMissingEndpoint):
		return "missing_endpoint"
	case errors.Is(err, graph.ErrSelfLoop):
		return "self_loop"
	case errors.Is(err, graph.ErrDuplicateEdge):
		return "duplicate"
	case errors.Is(err, graph.ErrNodeNotFound):
		return "node_not_found"
	case errors.Is(err, graph.ErrPairNotAllowed):
		return "pair_not_allowed"
	default:
		return "other"
	}
}

// cloneNode deep-copies a node through the JSON codec so the typed data
// payload is not shared.
func cloneNode(n types.Node) types.Node {
	raw, err := json.Marshal(n)
	if err != nil {
		return n
	}
	var out types.Node
	if err := json.Unmarshal(raw, &out); err != nil {
		return n
	}
	return out
}

func cloneNodes(nodes []types.Node) []types.Node {
	out := make([]types.Node, len(nodes))
	for i, n := range nodes {
		out[i] = cloneNode(n)
	}
	return out
}

func cloneEdges(edges []types.Edge) []types.Edge {
	out := make([]types.Edge, len(edges))
	copy(out, edges)
	return out
}
