package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkaflow/flow-engine/types"
)

func TestFileStorage(t *testing.T) {
	newStore := func(t *testing.T) *FileStorage {
		store, err := NewFileStorage(filepath.Join(t.TempDir(), "flow-engine"))
		require.NoError(t, err)
		return store
	}

	t.Run("EmptyBasePath", func(t *testing.T) {
		_, err := NewFileStorage("")
		assert.Error(t, err)
	})

	t.Run("WorkflowTableRoundTrip", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		table, err := store.LoadWorkflows(ctx)
		require.NoError(t, err)
		assert.Empty(t, table)

		want := []types.Workflow{{
			ID:   "wf-1",
			Name: "round trip",
			Nodes: []types.Node{{
				ID:       "conditional-1",
				Kind:     types.NodeConditional,
				Position: types.Position{X: 10, Y: 20},
				Data: &types.ConditionalData{
					Condition: "greater_than",
					Value:     "5",
					LogicType: "if",
				},
			}},
			Edges: []types.Edge{{
				ID: "e-1", Source: "a", Target: "b", Kind: types.EdgeDataFlow,
			}},
		}}
		require.NoError(t, store.SaveWorkflows(ctx, want))

		got, err := store.LoadWorkflows(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, want[0].ID, got[0].ID)
		assert.Equal(t, want[0].Edges, got[0].Edges)

		cond, ok := got[0].Nodes[0].Data.(*types.ConditionalData)
		require.True(t, ok)
		assert.Equal(t, "greater_than", cond.Condition)
	})

	t.Run("CorruptWorkflowTableIsEmpty", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "flow-engine")
		store, err := NewFileStorage(base)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(base, "workflows.json"), []byte("{not json"), 0o644))

		got, err := store.LoadWorkflows(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Theme", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.LoadTheme(ctx)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, store.SaveTheme(ctx, types.ThemeDark))
		theme, err := store.LoadTheme(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.ThemeDark, theme)
	})

	t.Run("CorruptThemeIsNotFound", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "flow-engine")
		store, err := NewFileStorage(base)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(base, "theme.json"), []byte(`"sepia"`), 0o644))

		_, err = store.LoadTheme(context.Background())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Account", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		account := types.Account{Address: "5Grwva...", Name: "Alice"}
		require.NoError(t, store.SaveAccount(ctx, account))

		got, err := store.LoadAccount(ctx)
		require.NoError(t, err)
		assert.Equal(t, account, got)

		require.NoError(t, store.ClearAccount(ctx))
		_, err = store.LoadAccount(ctx)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, store.ClearAccount(ctx))
	})

	t.Run("PersistsAcrossInstances", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "flow-engine")
		ctx := context.Background()

		first, err := NewFileStorage(base)
		require.NoError(t, err)
		require.NoError(t, first.SaveTheme(ctx, types.ThemeLight))

		second, err := NewFileStorage(base)
		require.NoError(t, err)
		theme, err := second.LoadTheme(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.ThemeLight, theme)
	})
}
