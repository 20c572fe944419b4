// Package samples ships ready-made example workflows for the builder's
// gallery. The workflows are importable as-is through flow.Store.Import.
package samples

import (
	"fmt"

	"github.com/polkaflow/flow-engine/graph"
	"github.com/polkaflow/flow-engine/types"
)

// Difficulty labels shown in the gallery.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// Sample is a gallery entry: a workflow plus its catalog metadata.
type Sample struct {
	Workflow   types.Workflow
	Category   string
	Difficulty string
}

// All returns every sample in gallery order.
func All() []Sample {
	return []Sample{
		crossChainArbitrage(),
		yieldOptimizer(),
		dcaStrategy(),
	}
}

// ByID returns the sample with the given workflow id.
func ByID(id string) (Sample, bool) {
	for _, s := range All() {
		if s.Workflow.ID == id {
			return s, true
		}
	}
	return Sample{}, false
}

// node builds a sample node with a hand-assigned id.
func node(id string, kind types.NodeKind, x, y float64, label string, data types.NodeData) types.Node {
	data.SetLabel(label)
	return types.Node{
		ID:       id,
		Kind:     kind,
		Position: types.Position{X: x, Y: y},
		Data:     data,
	}
}

// edge builds a sample edge, classifying and styling it from the endpoint
// kinds so gallery workflows look the same as hand-drawn ones.
func edge(id string, source, target types.Node) types.Edge {
	kind := graph.Classify(source.Kind, target.Kind)
	return types.Edge{
		ID:       fmt.Sprintf("e-%s", id),
		Source:   source.ID,
		Target:   target.ID,
		Kind:     kind,
		Animated: true,
		Style:    graph.StyleFor(kind),
	}
}

func crossChainArbitrage() Sample {
	wc := node("arb-wc", types.NodeWalletConnect, 50, 50, "Connect Wallet",
		&types.WalletConnectData{
			WalletOptions:  []string{"Polkadot.js", "Talisman"},
			SelectedWallet: "Polkadot.js",
			IsConnected:    true,
		})
	dotPolkadot := node("arb-as-dot-pdot", types.NodeAssetSelector, 50, 200, "DOT on Polkadot",
		&types.AssetSelectorData{
			Chains:        []string{"Polkadot"},
			Assets:        []string{"DOT"},
			SelectedChain: "Polkadot",
			SelectedAsset: "DOT",
			Amount:        "100",
		})
	swapPolkadot := node("arb-dex-usdc-pdot", types.NodeDEXAggregator, 50, 350, "Swap DOT for USDC (Polkadot)",
		&types.DEXAggregatorData{
			DEXes:             []string{"HydraDX"},
			SelectedDEXes:     []string{"HydraDX"},
			SlippageTolerance: "0.5",
			RoutingStrategy:   "best_price",
		})
	usdcAssetHub := node("arb-as-usdc-ah", types.NodeAssetSelector, 400, 200, "USDC on Asset Hub",
		&types.AssetSelectorData{
			Chains:        []string{"Asset Hub"},
			Assets:        []string{"USDC"},
			SelectedChain: "Asset Hub",
			SelectedAsset: "USDC",
			Amount:        "0",
		})
	swapAssetHub := node("arb-dex-dot-ah", types.NodeDEXAggregator, 400, 350, "Swap USDC for DOT (Asset Hub)",
		&types.DEXAggregatorData{
			DEXes:             []string{"HydraDX"},
			SelectedDEXes:     []string{"HydraDX"},
			SlippageTolerance: "0.5",
			RoutingStrategy:   "best_price",
		})
	xcmOut := node("arb-xcm-pdot-to-ah", types.NodeXCMTransfer, 225, 150, "XCM DOT: Polkadot to Asset Hub",
		&types.XCMTransferData{
			SourceChain:      "Polkadot",
			DestinationChain: "Asset Hub",
			XCMVersion:       "v3",
			FeeCalculation:   "auto",
			HRMPStatus:       "active",
		})
	xcmBack := node("arb-xcm-ah-to-pdot", types.NodeXCMTransfer, 225, 400, "XCM USDC: Asset Hub to Polkadot",
		&types.XCMTransferData{
			SourceChain:      "Asset Hub",
			DestinationChain: "Polkadot",
			XCMVersion:       "v3",
			FeeCalculation:   "auto",
			HRMPStatus:       "active",
		})
	cond := node("arb-conditional", types.NodeConditional, 225, 550, "Arbitrage Condition",
		&types.ConditionalData{
			Condition: "greater_than",
			Value:     "1.005",
			TimeDelay: "0",
			LogicType: "if",
		})
	alert := node("arb-alert", types.NodeAlert, 225, 700, "Arbitrage Alert",
		&types.AlertData{
			AlertType: "Telegram",
			Threshold: "5",
			Message:   "Arbitrage opportunity executed",
			Enabled:   true,
		})

	return Sample{
		Category:   "Arbitrage",
		Difficulty: DifficultyAdvanced,
		Workflow: types.Workflow{
			ID:          "cross-chain-arbitrage-01",
			Name:        "Cross-Chain Arbitrage: DOT/USDC (Polkadot <> Asset Hub)",
			Description: "Exploit DOT/USDC price differences between Polkadot Relay Chain and Asset Hub. Buys low on one, sells high on the other.",
			Nodes:       []types.Node{wc, dotPolkadot, swapPolkadot, usdcAssetHub, swapAssetHub, xcmOut, xcmBack, cond, alert},
			Edges: []types.Edge{
				edge("arb-1", wc, dotPolkadot),
				edge("arb-2", dotPolkadot, swapPolkadot),
				edge("arb-3", swapPolkadot, xcmOut),
				edge("arb-4", xcmOut, usdcAssetHub),
				edge("arb-5", usdcAssetHub, swapAssetHub),
				edge("arb-6", swapAssetHub, cond),
				edge("arb-7", cond, xcmBack),
				edge("arb-8", cond, alert),
			},
		},
	}
}

func yieldOptimizer() Sample {
	wc := node("yo-wc", types.NodeWalletConnect, 50, 50, "Connect Wallet (Acala)",
		&types.WalletConnectData{
			WalletOptions:  []string{"Polkadot.js", "Talisman"},
			SelectedWallet: "Talisman",
			IsConnected:    false,
		})
	usdc := node("yo-as-usdc", types.NodeAssetSelector, 50, 200, "Select USDC (Acala)",
		&types.AssetSelectorData{
			Chains:        []string{"Acala"},
			Assets:        []string{"USDC", "ACA", "LDOT", "aUSD"},
			SelectedChain: "Acala",
			SelectedAsset: "USDC",
			Amount:        "1000",
		})
	oracle := node("yo-oracle-farm-apy", types.NodeOracleFeed, 50, 350, "APY Monitor (Acala Farms)",
		&types.OracleFeedData{
			DataSource:      "Custom",
			UpdateFrequency: "5m",
			CustomEndpoint:  "https://api.acala.network/farm-apys",
			DataType:        "apy",
		})
	cond := node("yo-cond-best-apy", types.NodeConditional, 300, 350, "Find Best APY Farm",
		&types.ConditionalData{
			Condition: "greater_than",
			Value:     "5",
			TimeDelay: "0",
			LogicType: "if",
		})
	farmACA := node("yo-farm-aca", types.NodeYieldFarm, 550, 200, "ACA Farm (Acala)",
		&types.YieldFarmData{
			Platforms:         []string{"Acala"},
			SelectedPlatform:  "Acala",
			RiskLevel:         "medium",
			MinAPY:            "5",
			CompoundFrequency: "daily",
		})
	farmLDOT := node("yo-farm-ldot", types.NodeYieldFarm, 550, 350, "LDOT Farm (Acala)",
		&types.YieldFarmData{
			Platforms:         []string{"Acala"},
			SelectedPlatform:  "Acala",
			RiskLevel:         "medium",
			MinAPY:            "5",
			CompoundFrequency: "daily",
		})
	farmAUSD := node("yo-farm-ausd", types.NodeYieldFarm, 550, 500, "aUSD Farm (Acala)",
		&types.YieldFarmData{
			Platforms:         []string{"Acala"},
			SelectedPlatform:  "Acala",
			RiskLevel:         "low",
			MinAPY:            "5",
			CompoundFrequency: "daily",
		})
	alert := node("yo-alert", types.NodeAlert, 300, 650, "Reallocation Alert",
		&types.AlertData{
			AlertType: "Email",
			Threshold: "5",
			Message:   "Yield optimization: funds reallocated to the best farm",
			Enabled:   true,
		})

	return Sample{
		Category:   "Yield Farming",
		Difficulty: DifficultyIntermediate,
		Workflow: types.Workflow{
			ID:          "yield-optimizer-01",
			Name:        "Yield Optimizer: Acala Farms (ACA/LDOT/aUSD)",
			Description: "Monitors APYs on Acala for ACA, LDOT, and aUSD farms. Automatically reallocates to the highest APY farm.",
			Nodes:       []types.Node{wc, usdc, oracle, cond, farmACA, farmLDOT, farmAUSD, alert},
			Edges: []types.Edge{
				edge("yo-1", wc, usdc),
				edge("yo-2", usdc, oracle),
				edge("yo-3", oracle, cond),
				edge("yo-4", cond, farmACA),
				edge("yo-5", cond, farmLDOT),
				edge("yo-6", cond, farmAUSD),
				edge("yo-7", cond, alert),
			},
		},
	}
}

func dcaStrategy() Sample {
	wc := node("dca-wc", types.NodeWalletConnect, 50, 50, "Connect Wallet (Asset Hub)",
		&types.WalletConnectData{
			WalletOptions:  []string{"Polkadot.js", "Nova"},
			SelectedWallet: "Nova",
			IsConnected:    false,
		})
	usdc := node("dca-as-usdc", types.NodeAssetSelector, 50, 200, "USDC Source (Asset Hub)",
		&types.AssetSelectorData{
			Chains:        []string{"Asset Hub"},
			Assets:        []string{"USDC"},
			SelectedChain: "Asset Hub",
			SelectedAsset: "USDC",
			Amount:        "100",
		})
	timer := node("dca-timer", types.NodeConditional, 50, 350, "Daily Timer",
		&types.ConditionalData{
			Condition: "greater_equals",
			Value:     "86400",
			TimeDelay: "86400",
			LogicType: "if",
		})
	swap := node("dca-dex-swap", types.NodeDEXAggregator, 300, 200, "Swap USDC for DOT",
		&types.DEXAggregatorData{
			DEXes:             []string{"HydraDX", "StellaSwap"},
			SelectedDEXes:     []string{"HydraDX"},
			SlippageTolerance: "1",
			RoutingStrategy:   "best_price",
		})
	alert := node("dca-alert", types.NodeAlert, 300, 350, "DCA Execution Alert",
		&types.AlertData{
			AlertType: "Discord",
			Threshold: "5",
			Message:   "DCA executed: bought DOT with USDC",
			Enabled:   true,
		})

	return Sample{
		Category:   "Investment",
		Difficulty: DifficultyBeginner,
		Workflow: types.Workflow{
			ID:          "dca-strategy-01",
			Name:        "DCA Strategy: USDC into DOT (Asset Hub)",
			Description: "Automatically invest a fixed amount of USDC into DOT on Asset Hub at regular intervals.",
			Nodes:       []types.Node{wc, usdc, timer, swap, alert},
			Edges: []types.Edge{
				edge("dca-1", wc, usdc),
				edge("dca-2", timer, usdc),
				edge("dca-3", usdc, swap),
				edge("dca-4", swap, alert),
			},
		},
	}
}
