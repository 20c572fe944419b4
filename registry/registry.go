// Package registry holds the static catalog of node type definitions: the
// palette label, description, category, and default data payload for every
// node kind the builder understands.
package registry

import (
	"errors"
	"fmt"

	"github.com/polkaflow/flow-engine/types"
)

// ErrUnknownNodeType is returned when a lookup names a kind outside the
// catalog. Drag-drop callers are expected to treat it as a no-op.
var ErrUnknownNodeType = errors.New("unknown node type")

// Template describes one node kind. Templates are immutable; Instantiate
// hands out a fresh default payload per node.
type Template struct {
	Kind        types.NodeKind
	Label       string
	Description string
	Category    string
	defaults    func() types.NodeData
}

// Instantiate returns a new default data payload with the template's label.
func (t Template) Instantiate() types.NodeData {
	data := t.defaults()
	data.SetLabel(t.Label)
	return data
}

var templates = []Template{
	{
		Kind:        types.NodeWalletConnect,
		Label:       "Wallet Connect",
		Description: "Connect to Polkadot wallets",
		Category:    "Authentication",
		defaults: func() types.NodeData {
			return &types.WalletConnectData{
				WalletOptions:  []string{"Polkadot.js", "Talisman", "Nova", "SubWallet"},
				SelectedWallet: "Polkadot.js",
				IsConnected:    false,
			}
		},
	},
	{
		Kind:        types.NodeAssetSelector,
		Label:       "Asset Selector",
		Description: "Select chain and asset",
		Category:    "Assets",
		defaults: func() types.NodeData {
			return &types.AssetSelectorData{
				Chains:        []string{"Polkadot", "Kusama", "Asset Hub", "Acala", "Moonbeam", "Astar"},
				Assets:        []string{"DOT", "KSM", "USDC", "USDT", "GLMR", "ASTR", "ACA"},
				SelectedChain: "Polkadot",
				SelectedAsset: "DOT",
				Amount:        "0",
			}
		},
	},
	{
		Kind:        types.NodeXCMTransfer,
		Label:       "XCM Transfer",
		Description: "Cross-chain asset transfers",
		Category:    "Transfers",
		defaults: func() types.NodeData {
			return &types.XCMTransferData{
				SourceChain:      "Polkadot",
				DestinationChain: "Asset Hub",
				XCMVersion:       "v3",
				FeeCalculation:   "auto",
				HRMPStatus:       "active",
			}
		},
	},
	{
		Kind:        types.NodeConditional,
		Label:       "Conditional",
		Description: "Logic gates for automation",
		Category:    "Logic",
		defaults: func() types.NodeData {
			return &types.ConditionalData{
				Condition: "greater_than",
				Value:     "0",
				TimeDelay: "0",
				LogicType: "if",
			}
		},
	},
	{
		Kind:        types.NodeDEXAggregator,
		Label:       "DEX Aggregator",
		Description: "Best-price swaps across DEXs",
		Category:    "Trading",
		defaults: func() types.NodeData {
			return &types.DEXAggregatorData{
				DEXes:             []string{"HydraDX", "StellaSwap", "Beamswap"},
				SelectedDEXes:     []string{"HydraDX"},
				SlippageTolerance: "0.5",
				RoutingStrategy:   "best_price",
			}
		},
	},
	{
		Kind:        types.NodeLiquidityPool,
		Label:       "Liquidity Pool",
		Description: "Manage LP positions",
		Category:    "Liquidity",
		defaults: func() types.NodeData {
			return &types.LiquidityPoolData{
				PoolType:      "50_50",
				PairA:         "DOT",
				PairB:         "USDC",
				StakingPeriod: "0",
				AutoCompound:  false,
			}
		},
	},
	{
		Kind:        types.NodeYieldFarm,
		Label:       "Yield Farm",
		Description: "Auto-compound yields",
		Category:    "Yield",
		defaults: func() types.NodeData {
			return &types.YieldFarmData{
				Platforms:         []string{"Bifrost", "Parallel", "Acala"},
				SelectedPlatform:  "Bifrost",
				RiskLevel:         "medium",
				MinAPY:            "5",
				CompoundFrequency: "daily",
			}
		},
	},
	{
		Kind:        types.NodeOracleFeed,
		Label:       "Oracle Feed",
		Description: "Real-time price data",
		Category:    "Data",
		defaults: func() types.NodeData {
			return &types.OracleFeedData{
				DataSource:      "Subscan",
				UpdateFrequency: "15s",
				CustomEndpoint:  "",
				DataType:        "price",
			}
		},
	},
	{
		Kind:        types.NodeGovernance,
		Label:       "Governance",
		Description: "Automate voting",
		Category:    "Governance",
		defaults: func() types.NodeData {
			return &types.GovernanceData{
				GovernanceType:    "OpenGov",
				ProposalID:        "",
				VotingPower:       "100",
				DelegationEnabled: false,
			}
		},
	},
	{
		Kind:        types.NodeAlert,
		Label:       "Alert",
		Description: "Notifications for events",
		Category:    "Notifications",
		defaults: func() types.NodeData {
			return &types.AlertData{
				AlertType: "Telegram",
				Threshold: "5",
				Message:   "Alert triggered",
				Enabled:   true,
			}
		},
	},
}

// Lookup returns the template for kind.
func Lookup(kind types.NodeKind) (Template, error) {
	for _, t := range templates {
		if t.Kind == kind {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrUnknownNodeType, kind)
}

// All returns every template in palette order.
func All() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// Categories returns the distinct template categories in palette order.
func Categories() []string {
	seen := make(map[string]bool, len(templates))
	var out []string
	for _, t := range templates {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

// ByCategory returns the templates grouped under category.
func ByCategory(category string) []Template {
	var out []Template
	for _, t := range templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}
