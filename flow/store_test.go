package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkaflow/flow-engine/events"
	"github.com/polkaflow/flow-engine/graph"
	"github.com/polkaflow/flow-engine/registry"
	"github.com/polkaflow/flow-engine/storage"
	"github.com/polkaflow/flow-engine/types"
)

func newStore(t *testing.T, options ...Option) *Store {
	t.Helper()
	s, err := New(context.Background(), storage.NewMemoryStorage(), options...)
	require.NoError(t, err)
	return s
}

func TestStoreNodes(t *testing.T) {
	t.Run("AddNodeUsesTemplateDefaults", func(t *testing.T) {
		s := newStore(t)

		node, err := s.AddNode(types.NodeWalletConnect, types.Position{X: 10, Y: 20})
		require.NoError(t, err)
		assert.Contains(t, node.ID, "walletConnect-")
		assert.Equal(t, types.NodeWalletConnect, node.Kind)
		assert.Equal(t, "Wallet Connect", node.Data.Label())

		got, ok := s.NodeByID(node.ID)
		require.True(t, ok)
		assert.Equal(t, node.ID, got.ID)
		assert.Len(t, s.Nodes(), 1)
	})

	t.Run("AddNodeUnknownKind", func(t *testing.T) {
		s := newStore(t)
		_, err := s.AddNode(types.NodeKind("teleporter"), types.Position{})
		assert.ErrorIs(t, err, registry.ErrUnknownNodeType)
		assert.Empty(t, s.Nodes())
	})

	t.Run("UpdateNodeDataMerges", func(t *testing.T) {
		s := newStore(t)
		node, err := s.AddNode(types.NodeAssetSelector, types.Position{})
		require.NoError(t, err)

		require.NoError(t, s.UpdateNodeData(node.ID, map[string]interface{}{
			"selectedChain": "Kusama",
			"amount":        "7",
		}))

		got, ok := s.NodeByID(node.ID)
		require.True(t, ok)
		data := got.Data.(*types.AssetSelectorData)
		assert.Equal(t, "Kusama", data.SelectedChain)
		assert.Equal(t, "7", data.Amount)
		assert.Equal(t, "DOT", data.SelectedAsset)
		assert.Equal(t, "Asset Selector", data.Label())
	})

	t.Run("UpdateUnknownNodeIsNoop", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.UpdateNodeData("ghost", map[string]interface{}{"amount": "1"}))
	})

	t.Run("MoveNode", func(t *testing.T) {
		s := newStore(t)
		node, err := s.AddNode(types.NodeAlert, types.Position{X: 1, Y: 1})
		require.NoError(t, err)

		s.MoveNode(node.ID, types.Position{X: 300, Y: 400})
		got, _ := s.NodeByID(node.ID)
		assert.Equal(t, types.Position{X: 300, Y: 400}, got.Position)
	})

	t.Run("DeleteNodeCascadesExactly", func(t *testing.T) {
		s := newStore(t)
		wc, _ := s.AddNode(types.NodeWalletConnect, types.Position{})
		asset, _ := s.AddNode(types.NodeAssetSelector, types.Position{})
		dex, _ := s.AddNode(types.NodeDEXAggregator, types.Position{})
		pool, _ := s.AddNode(types.NodeLiquidityPool, types.Position{})

		_, err := s.Connect(graph.Connection{Source: wc.ID, Target: asset.ID})
		require.NoError(t, err)
		_, err = s.Connect(graph.Connection{Source: asset.ID, Target: dex.ID})
		require.NoError(t, err)
		keep, err := s.Connect(graph.Connection{Source: dex.ID, Target: pool.ID})
		require.NoError(t, err)

		s.DeleteNode(asset.ID)

		_, ok := s.NodeByID(asset.ID)
		assert.False(t, ok)
		require.Len(t, s.Edges(), 1)
		assert.Equal(t, keep.ID, s.Edges()[0].ID)
	})
}

func TestStoreConnect(t *testing.T) {
	t.Run("ClassifiesAndStyles", func(t *testing.T) {
		s := newStore(t)
		wc, _ := s.AddNode(types.NodeWalletConnect, types.Position{})
		asset, _ := s.AddNode(types.NodeAssetSelector, types.Position{})

		edge, err := s.Connect(graph.Connection{Source: wc.ID, Target: asset.ID})
		require.NoError(t, err)
		assert.Contains(t, edge.ID, "e-")
		assert.Equal(t, types.EdgeAssetFlow, edge.Kind)
		assert.Equal(t, "#10b981", edge.Style.Stroke)
		assert.True(t, edge.Animated)

		got, ok := s.EdgeByID(edge.ID)
		require.True(t, ok)
		assert.Equal(t, edge, got)
	})

	t.Run("RejectsWithReason", func(t *testing.T) {
		s := newStore(t)
		alert, _ := s.AddNode(types.NodeAlert, types.Position{})
		wc, _ := s.AddNode(types.NodeWalletConnect, types.Position{})

		_, err := s.Connect(graph.Connection{Source: alert.ID, Target: wc.ID})
		assert.ErrorIs(t, err, graph.ErrPairNotAllowed)
		assert.Empty(t, s.Edges())
	})

	t.Run("DuplicateIsRejected", func(t *testing.T) {
		s := newStore(t)
		wc, _ := s.AddNode(types.NodeWalletConnect, types.Position{})
		asset, _ := s.AddNode(types.NodeAssetSelector, types.Position{})

		_, err := s.Connect(graph.Connection{Source: wc.ID, Target: asset.ID})
		require.NoError(t, err)

		_, err = s.Connect(graph.Connection{Source: wc.ID, Target: asset.ID})
		assert.ErrorIs(t, err, graph.ErrDuplicateEdge)
		assert.Len(t, s.Edges(), 1)
	})

	t.Run("DeleteEdge", func(t *testing.T) {
		s := newStore(t)
		wc, _ := s.AddNode(types.NodeWalletConnect, types.Position{})
		asset, _ := s.AddNode(types.NodeAssetSelector, types.Position{})
		edge, err := s.Connect(graph.Connection{Source: wc.ID, Target: asset.ID})
		require.NoError(t, err)

		s.DeleteEdge(edge.ID)
		assert.Empty(t, s.Edges())

		// Unknown ids are a no-op.
		s.DeleteEdge("e-ghost")
	})
}

func TestStorePersistence(t *testing.T) {
	t.Run("SaveEmptyNameFails", func(t *testing.T) {
		backend := storage.NewMemoryStorage()
		s, err := New(context.Background(), backend)
		require.NoError(t, err)
		_, err = s.AddNode(types.NodeAlert, types.Position{})
		require.NoError(t, err)

		_, err = s.Save(context.Background(), "   ", "")
		assert.ErrorIs(t, err, ErrEmptyWorkflowName)

		stored, err := backend.LoadWorkflows(context.Background())
		require.NoError(t, err)
		assert.Empty(t, stored)
		assert.Empty(t, s.Workflows())
	})

	t.Run("SaveEmptyCanvasFails", func(t *testing.T) {
		backend := storage.NewMemoryStorage()
		s, err := New(context.Background(), backend)
		require.NoError(t, err)

		_, err = s.Save(context.Background(), "empty", "")
		assert.ErrorIs(t, err, ErrEmptyWorkflow)

		stored, err := backend.LoadWorkflows(context.Background())
		require.NoError(t, err)
		assert.Empty(t, stored)
		assert.Empty(t, s.Workflows())
		_, ok := s.CurrentWorkflow()
		assert.False(t, ok)
	})

	t.Run("SaveLoadRoundTrip", func(t *testing.T) {
		s := newStore(t)
		wc, _ := s.AddNode(types.NodeWalletConnect, types.Position{X: 5, Y: 5})
		asset, _ := s.AddNode(types.NodeAssetSelector, types.Position{X: 5, Y: 100})
		_, err := s.Connect(graph.Connection{Source: wc.ID, Target: asset.ID})
		require.NoError(t, err)
		require.NoError(t, s.UpdateNodeData(asset.ID, map[string]interface{}{"amount": "99"}))

		id, err := s.Save(context.Background(), "pipeline", "demo")
		require.NoError(t, err)
		require.NotEmpty(t, id)

		before := s.Nodes()
		beforeEdges := s.Edges()

		s.Clear()
		assert.Empty(t, s.Nodes())

		require.NoError(t, s.Load(id))
		assert.Equal(t, before, s.Nodes())
		assert.Equal(t, beforeEdges, s.Edges())

		current, ok := s.CurrentWorkflow()
		require.True(t, ok)
		assert.Equal(t, "pipeline", current.Name)
	})

	t.Run("SaveUpdatesCurrentInPlace", func(t *testing.T) {
		s := newStore(t)
		_, err := s.AddNode(types.NodeAlert, types.Position{})
		require.NoError(t, err)

		id, err := s.Save(context.Background(), "v1", "")
		require.NoError(t, err)
		created := s.Workflows()[0].Created

		_, err = s.AddNode(types.NodeGovernance, types.Position{})
		require.NoError(t, err)
		id2, err := s.Save(context.Background(), "v2", "")
		require.NoError(t, err)

		assert.Equal(t, id, id2)
		require.Len(t, s.Workflows(), 1)
		wf := s.Workflows()[0]
		assert.Equal(t, "v2", wf.Name)
		assert.Len(t, wf.Nodes, 2)
		assert.Equal(t, created, wf.Created)
	})

	t.Run("SaveAfterClearCreatesNewEntry", func(t *testing.T) {
		s := newStore(t)
		_, err := s.AddNode(types.NodeAlert, types.Position{})
		require.NoError(t, err)
		first, err := s.Save(context.Background(), "one", "")
		require.NoError(t, err)

		s.Clear()
		_, err = s.AddNode(types.NodeGovernance, types.Position{})
		require.NoError(t, err)
		second, err := s.Save(context.Background(), "two", "")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.Len(t, s.Workflows(), 2)
	})

	t.Run("LoadUnknownLeavesCanvasAlone", func(t *testing.T) {
		s := newStore(t)
		node, err := s.AddNode(types.NodeAlert, types.Position{})
		require.NoError(t, err)

		err = s.Load("ghost")
		assert.ErrorIs(t, err, ErrWorkflowNotFound)

		_, ok := s.NodeByID(node.ID)
		assert.True(t, ok)
	})

	t.Run("LoadedSnapshotIsIsolated", func(t *testing.T) {
		s := newStore(t)
		asset, err := s.AddNode(types.NodeAssetSelector, types.Position{})
		require.NoError(t, err)
		id, err := s.Save(context.Background(), "isolated", "")
		require.NoError(t, err)

		// Mutating the canvas after a save must not touch the stored copy.
		require.NoError(t, s.UpdateNodeData(asset.ID, map[string]interface{}{"amount": "500"}))

		s.Clear()
		require.NoError(t, s.Load(id))
		got, ok := s.NodeByID(asset.ID)
		require.True(t, ok)
		assert.Equal(t, "0", got.Data.(*types.AssetSelectorData).Amount)
	})

	t.Run("DeleteWorkflow", func(t *testing.T) {
		s := newStore(t)
		_, err := s.AddNode(types.NodeAlert, types.Position{})
		require.NoError(t, err)
		id, err := s.Save(context.Background(), "doomed", "")
		require.NoError(t, err)

		require.NoError(t, s.DeleteWorkflow(context.Background(), id))
		assert.Empty(t, s.Workflows())
		// Deleting the active workflow clears the canvas.
		assert.Empty(t, s.Nodes())

		err = s.DeleteWorkflow(context.Background(), id)
		assert.ErrorIs(t, err, ErrWorkflowNotFound)
	})

	t.Run("DeleteInactiveWorkflowKeepsCanvas", func(t *testing.T) {
		s := newStore(t)
		_, err := s.AddNode(types.NodeAlert, types.Position{})
		require.NoError(t, err)
		first, err := s.Save(context.Background(), "keep", "")
		require.NoError(t, err)

		s.Clear()
		node, err := s.AddNode(types.NodeGovernance, types.Position{})
		require.NoError(t, err)
		_, err = s.Save(context.Background(), "active", "")
		require.NoError(t, err)

		require.NoError(t, s.DeleteWorkflow(context.Background(), first))
		_, ok := s.NodeByID(node.ID)
		assert.True(t, ok)
	})

	t.Run("TableSurvivesRestart", func(t *testing.T) {
		backend := storage.NewMemoryStorage()
		ctx := context.Background()

		s, err := New(ctx, backend)
		require.NoError(t, err)
		_, err = s.AddNode(types.NodeAlert, types.Position{})
		require.NoError(t, err)
		id, err := s.Save(ctx, "persisted", "")
		require.NoError(t, err)

		reopened, err := New(ctx, backend)
		require.NoError(t, err)
		require.Len(t, reopened.Workflows(), 1)
		require.NoError(t, reopened.Load(id))
		assert.Len(t, reopened.Nodes(), 1)
	})
}

func TestStoreImport(t *testing.T) {
	t.Run("ReplacesCanvas", func(t *testing.T) {
		s := newStore(t)
		_, err := s.AddNode(types.NodeAlert, types.Position{})
		require.NoError(t, err)

		wf := types.Workflow{
			ID:   "ext-1",
			Name: "external",
			Nodes: []types.Node{{
				ID:   "oracleFeed-1",
				Kind: types.NodeOracleFeed,
				Data: &types.OracleFeedData{DataSource: "Subscan"},
			}},
		}
		require.NoError(t, s.Import(wf))

		require.Len(t, s.Nodes(), 1)
		assert.Equal(t, "oracleFeed-1", s.Nodes()[0].ID)
		_, ok := s.CurrentWorkflow()
		assert.False(t, ok)
	})

	t.Run("RejectsInvalidWorkflow", func(t *testing.T) {
		s := newStore(t)
		err := s.Import(types.Workflow{ID: "ext-2"})
		assert.Error(t, err)

		err = s.Import(types.Workflow{
			ID:   "ext-3",
			Name: "bad kind",
			Nodes: []types.Node{{
				ID:   "x-1",
				Kind: types.NodeKind("teleporter"),
				Data: &types.AlertData{},
			}},
		})
		assert.ErrorIs(t, err, registry.ErrUnknownNodeType)
	})
}

func TestStoreEvents(t *testing.T) {
	bus := events.NewBus()
	defer bus.Stop()

	received := make(chan events.Event, 16)
	for _, eventType := range []string{
		events.EventNodeAdded, events.EventEdgeAdded, events.EventWorkflowSaved,
	} {
		bus.SubscribeFunc(eventType, func(ctx context.Context, event events.Event) error {
			received <- event
			return nil
		})
	}

	s := newStore(t, WithBus(bus))
	wc, err := s.AddNode(types.NodeWalletConnect, types.Position{})
	require.NoError(t, err)
	asset, err := s.AddNode(types.NodeAssetSelector, types.Position{})
	require.NoError(t, err)
	_, err = s.Connect(graph.Connection{Source: wc.ID, Target: asset.ID})
	require.NoError(t, err)
	_, err = s.Save(context.Background(), "observed", "")
	require.NoError(t, err)

	want := map[string]int{
		events.EventNodeAdded:     2,
		events.EventEdgeAdded:     1,
		events.EventWorkflowSaved: 1,
	}
	got := map[string]int{}
	timeout := time.After(2 * time.Second)
	for i := 0; i < 4; i++ {
		select {
		case event := <-received:
			got[event.Type]++
		case <-timeout:
			t.Fatalf("expected 4 events, got %v", got)
		}
	}
	assert.Equal(t, want, got)
}

func TestStoreFailedPersistence(t *testing.T) {
	s, err := New(context.Background(), &failingStorage{})
	require.NoError(t, err)
	_, err = s.AddNode(types.NodeAlert, types.Position{})
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "unlucky", "")
	require.Error(t, err)
	// The table is untouched when the write-through fails.
	assert.Empty(t, s.Workflows())
	_, ok := s.CurrentWorkflow()
	assert.False(t, ok)
}

// failingStorage loads fine but refuses writes.
type failingStorage struct {
	storage.MemoryStorage
}

func (f *failingStorage) SaveWorkflows(ctx context.Context, workflows []types.Workflow) error {
	return errors.New("disk on fire")
}
