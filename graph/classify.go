// Package graph implements the edge classifier and the connection validator
// for the workflow graph: which node kinds may connect, and what category a
// new connection falls into.
package graph

import (
	"github.com/polkaflow/flow-engine/types"
)

// classifyRule maps an endpoint predicate to an edge kind. Rules are checked
// in order and the first match wins; the order is load-bearing because the
// predicates overlap (an oracleFeed source beats a swap target, for example).
type classifyRule struct {
	matches func(source, target types.NodeKind) bool
	kind    types.EdgeKind
}

var classifyRules = []classifyRule{
	{
		matches: func(source, target types.NodeKind) bool {
			return source == types.NodeOracleFeed || target == types.NodeConditional
		},
		kind: types.EdgeDataFlow,
	},
	{
		matches: func(source, target types.NodeKind) bool {
			return source == types.NodeWalletConnect || source == types.NodeAssetSelector ||
				target == types.NodeDEXAggregator || target == types.NodeLiquidityPool
		},
		kind: types.EdgeAssetFlow,
	},
	{
		matches: func(source, target types.NodeKind) bool {
			return source == types.NodeConditional || target == types.NodeAlert
		},
		kind: types.EdgeLogicFlow,
	},
	{
		matches: func(source, target types.NodeKind) bool {
			return source == types.NodeXCMTransfer || target == types.NodeXCMTransfer
		},
		kind: types.EdgeCrossChain,
	},
}

// Classify returns the edge category for a connection from source to target.
// Pure and deterministic; falls back to dataFlow when no rule matches.
func Classify(source, target types.NodeKind) types.EdgeKind {
	for _, rule := range classifyRules {
		if rule.matches(source, target) {
			return rule.kind
		}
	}
	return types.EdgeDataFlow
}

// edgeStyles carries the presentation defaults attached to new edges.
var edgeStyles = map[types.EdgeKind]types.EdgeStyle{
	types.EdgeDataFlow:   {Stroke: "#3b82f6", StrokeWidth: 2},
	types.EdgeAssetFlow:  {Stroke: "#10b981", StrokeWidth: 2},
	types.EdgeLogicFlow:  {Stroke: "#f97316", StrokeWidth: 2},
	types.EdgeCrossChain: {Stroke: "#8b5cf6", StrokeWidth: 2, StrokeDasharray: "5,5"},
}

// StyleFor returns the default stroke styling for an edge kind.
func StyleFor(kind types.EdgeKind) types.EdgeStyle {
	return edgeStyles[kind]
}
