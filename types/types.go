package types

import (
	"time"
)

// NodeKind identifies a node type in the workflow graph.
type NodeKind string

// Node kinds supported by the builder.
const (
	NodeWalletConnect NodeKind = "walletConnect"
	NodeAssetSelector NodeKind = "assetSelector"
	NodeXCMTransfer   NodeKind = "xcmTransfer"
	NodeConditional   NodeKind = "conditional"
	NodeDEXAggregator NodeKind = "dexAggregator"
	NodeLiquidityPool NodeKind = "liquidityPool"
	NodeYieldFarm     NodeKind = "yieldFarm"
	NodeOracleFeed    NodeKind = "oracleFeed"
	NodeGovernance    NodeKind = "governance"
	NodeAlert         NodeKind = "alert"
)

// NodeKinds lists every valid node kind in a stable order.
func NodeKinds() []NodeKind {
	return []NodeKind{
		NodeWalletConnect, NodeAssetSelector, NodeXCMTransfer, NodeConditional,
		NodeDEXAggregator, NodeLiquidityPool, NodeYieldFarm, NodeOracleFeed,
		NodeGovernance, NodeAlert,
	}
}

// Valid reports whether k is a known node kind.
func (k NodeKind) Valid() bool {
	for _, known := range NodeKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// EdgeKind categorizes a connection between two nodes.
type EdgeKind string

// Edge kinds supported by the builder.
const (
	EdgeDataFlow   EdgeKind = "dataFlow"
	EdgeAssetFlow  EdgeKind = "assetFlow"
	EdgeLogicFlow  EdgeKind = "logicFlow"
	EdgeCrossChain EdgeKind = "crossChain"
)

// Position is a node's 2D canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a typed unit in the workflow graph. Kind is immutable after
// creation and Data always carries a label.
type Node struct {
	ID       string   `json:"id"`
	Kind     NodeKind `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// EdgeStyle holds presentation-only stroke attributes.
type EdgeStyle struct {
	Stroke          string  `json:"stroke,omitempty"`
	StrokeWidth     float64 `json:"strokeWidth,omitempty"`
	StrokeDasharray string  `json:"strokeDasharray,omitempty"`
}

// Edge is a typed, directed connection between two nodes.
type Edge struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Target       string    `json:"target"`
	Kind         EdgeKind  `json:"type"`
	SourceHandle string    `json:"sourceHandle,omitempty"`
	TargetHandle string    `json:"targetHandle,omitempty"`
	Animated     bool      `json:"animated,omitempty"`
	Style        EdgeStyle `json:"style,omitempty"`
}

// Workflow is a named, persisted graph of nodes and edges.
type Workflow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty"`
	Nodes       []Node    `json:"nodes"`
	Edges       []Edge    `json:"edges"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

// Account is the persisted snapshot of the active wallet account.
type Account struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Theme is the persisted UI theme preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}
