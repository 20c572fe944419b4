package graph

import (
	"errors"
	"fmt"

	"github.com/polkaflow/flow-engine/types"
)

// Connection rejection reasons. The validator always says why a connection
// was refused instead of silently dropping it.
var (
	ErrMissingEndpoint = errors.New("connection is missing an endpoint")
	ErrSelfLoop        = errors.New("node cannot connect to itself")
	ErrNodeNotFound    = errors.New("endpoint does not resolve to a node")
	ErrDuplicateEdge   = errors.New("connection already exists")
	ErrPairNotAllowed  = errors.New("node types cannot be connected")
)

// Connection is a candidate edge drawn by the user, before validation.
type Connection struct {
	Source       string
	Target       string
	SourceHandle string
	TargetHandle string
}

// allowedTargets encodes the legal pipeline transitions per source kind.
// Kinds absent from a source's list are terminal for it; alert targets
// nothing at all.
var allowedTargets = map[types.NodeKind][]types.NodeKind{
	types.NodeWalletConnect: {types.NodeAssetSelector, types.NodeGovernance},
	types.NodeAssetSelector: {types.NodeXCMTransfer, types.NodeDEXAggregator, types.NodeLiquidityPool, types.NodeYieldFarm},
	types.NodeXCMTransfer:   {types.NodeAssetSelector, types.NodeDEXAggregator, types.NodeLiquidityPool, types.NodeYieldFarm},
	types.NodeConditional:   {types.NodeXCMTransfer, types.NodeDEXAggregator, types.NodeLiquidityPool, types.NodeYieldFarm, types.NodeAlert, types.NodeGovernance},
	types.NodeDEXAggregator: {types.NodeAssetSelector, types.NodeLiquidityPool, types.NodeYieldFarm},
	types.NodeLiquidityPool: {types.NodeAssetSelector, types.NodeDEXAggregator, types.NodeYieldFarm},
	types.NodeYieldFarm:     {types.NodeAssetSelector, types.NodeLiquidityPool},
	types.NodeOracleFeed:    {types.NodeConditional},
	types.NodeGovernance:    {types.NodeAlert},
	types.NodeAlert:         {},
}

// AllowedTargets returns the node kinds a source kind may connect to.
func AllowedTargets(source types.NodeKind) []types.NodeKind {
	targets := allowedTargets[source]
	out := make([]types.NodeKind, len(targets))
	copy(out, targets)
	return out
}

// PairAllowed reports whether an edge from source to target kind is legal.
func PairAllowed(source, target types.NodeKind) bool {
	for _, t := range allowedTargets[source] {
		if t == target {
			return true
		}
	}
	return false
}

// ValidateConnection checks a candidate edge against the current graph.
// It returns nil when the connection may be created, or the reason for
// rejection otherwise.
func ValidateConnection(conn Connection, nodes []types.Node, edges []types.Edge) error {
	if conn.Source == "" || conn.Target == "" {
		return ErrMissingEndpoint
	}
	if conn.Source == conn.Target {
		return ErrSelfLoop
	}
	for _, e := range edges {
		if e.Source == conn.Source && e.Target == conn.Target {
			return fmt.Errorf("%w: %s -> %s", ErrDuplicateEdge, conn.Source, conn.Target)
		}
	}

	var source, target *types.Node
	for i := range nodes {
		switch nodes[i].ID {
		case conn.Source:
			source = &nodes[i]
		case conn.Target:
			target = &nodes[i]
		}
	}
	if source == nil {
		return fmt.Errorf("%w: source %s", ErrNodeNotFound, conn.Source)
	}
	if target == nil {
		return fmt.Errorf("%w: target %s", ErrNodeNotFound, conn.Target)
	}

	if !PairAllowed(source.Kind, target.Kind) {
		return fmt.Errorf("%w: %s -> %s", ErrPairNotAllowed, source.Kind, target.Kind)
	}
	return nil
}
