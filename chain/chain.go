// Package chain holds the supported network catalog and the chain client
// abstraction. The client shipped here is a mock: balances, fees, and
// transaction outcomes are fabricated with simulated latency, which is all
// the builder needs to drive its panels.
package chain

import (
	"fmt"
)

// ID identifies a supported relay chain or parachain.
type ID string

// Supported chains.
const (
	Polkadot ID = "polkadot"
	Kusama   ID = "kusama"
	AssetHub ID = "asset-hub"
	Acala    ID = "acala"
	Moonbeam ID = "moonbeam"
	Astar    ID = "astar"
	HydraDX  ID = "hydradx"
	Bifrost  ID = "bifrost"
	Parallel ID = "parallel"
)

// IDs lists every supported chain.
func IDs() []ID {
	return []ID{Polkadot, Kusama, AssetHub, Acala, Moonbeam, Astar, HydraDX, Bifrost, Parallel}
}

// Network selects which endpoint set to use.
type Network string

// Supported networks.
const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Local   Network = "local"
)

// Config describes one chain's identity and formatting parameters.
type Config struct {
	Name        ID
	DisplayName string
	Symbol      string
	Decimals    uint8
	SS58Format  uint16
	GenesisHash string
	ParaID      uint32 // zero for relay chains
	RelayChain  ID     // empty for relay chains
	Testnet     bool
	Color       string
}

var configs = map[ID]Config{
	Polkadot: {
		Name: Polkadot, DisplayName: "Polkadot", Symbol: "DOT", Decimals: 10, SS58Format: 0,
		GenesisHash: "0x91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3",
		Color:       "#E6007A",
	},
	Kusama: {
		Name: Kusama, DisplayName: "Kusama", Symbol: "KSM", Decimals: 12, SS58Format: 2,
		GenesisHash: "0xb0a8d493285c2df73290dfb7e61f870f17b41801197a149ca93654499ea3dafe",
		Color:       "#000000",
	},
	AssetHub: {
		Name: AssetHub, DisplayName: "Asset Hub", Symbol: "DOT", Decimals: 10, SS58Format: 0,
		GenesisHash: "0x68d56f15f85d3136970ec16946040bc1752654e906147f7e43e9d539d7c3de2f",
		ParaID:      1000, RelayChain: Polkadot, Color: "#77E3EF",
	},
	Acala: {
		Name: Acala, DisplayName: "Acala", Symbol: "ACA", Decimals: 12, SS58Format: 10,
		GenesisHash: "0xfc41b9bd8ef8fe53d58c7ea67c794c7ec9a73daf05e6d54b14ff6342c99ba64c",
		ParaID:      2000, RelayChain: Polkadot, Color: "#645AFF",
	},
	Moonbeam: {
		Name: Moonbeam, DisplayName: "Moonbeam", Symbol: "GLMR", Decimals: 18, SS58Format: 1284,
		GenesisHash: "0xfe58ea77779b7abda7da4ec526d14db9b1e9cd40a217c34892af80a9b332b76d",
		ParaID:      2004, RelayChain: Polkadot, Color: "#53CBC9",
	},
	Astar: {
		Name: Astar, DisplayName: "Astar", Symbol: "ASTR", Decimals: 18, SS58Format: 5,
		GenesisHash: "0x9eb76c5184c4ab8679d2d5d819fdf90b9c001403e9e17da2e14b6d8aec4029c6",
		ParaID:      2006, RelayChain: Polkadot, Color: "#1B6DC1",
	},
	HydraDX: {
		Name: HydraDX, DisplayName: "HydraDX", Symbol: "HDX", Decimals: 12, SS58Format: 63,
		GenesisHash: "0xafdc188f45c71dacbaa0b62e16a91f726c7b8699a9748cdf715459de6b7f366d",
		ParaID:      2034, RelayChain: Polkadot, Color: "#5CCDEB",
	},
	Bifrost: {
		Name: Bifrost, DisplayName: "Bifrost", Symbol: "BNC", Decimals: 12, SS58Format: 6,
		GenesisHash: "0x262e1b2ad728475fd5de0855a4300001f968f33f8f6d28be30df8c690a93cc78",
		ParaID:      2030, RelayChain: Polkadot, Color: "#29ADFF",
	},
	Parallel: {
		Name: Parallel, DisplayName: "Parallel", Symbol: "PARA", Decimals: 12, SS58Format: 172,
		GenesisHash: "0xe61a41c53f5dcd0beb09df93b34402aada44cb05117b71059cce40a2723a4e97",
		ParaID:      2012, RelayChain: Polkadot, Color: "#EF18AC",
	},
}

var endpoints = map[Network]map[ID]string{
	Mainnet: {
		Polkadot: "wss://rpc.polkadot.io",
		Kusama:   "wss://kusama-rpc.polkadot.io",
		AssetHub: "wss://polkadot-asset-hub-rpc.polkadot.io",
		Acala:    "wss://acala-rpc-0.aca-api.network",
		Moonbeam: "wss://wss.api.moonbeam.network",
		Astar:    "wss://rpc.astar.network",
		HydraDX:  "wss://rpc.hydradx.cloud",
		Bifrost:  "wss://bifrost-rpc.liebi.com/ws",
		Parallel: "wss://rpc.parallel.fi",
	},
	Testnet: {
		Polkadot: "wss://westend-rpc.polkadot.io",
		Kusama:   "wss://kusama-rpc.polkadot.io",
		AssetHub: "wss://westend-asset-hub-rpc.polkadot.io",
		Acala:    "wss://acala-dev.aca-dev.network/ws",
		Moonbeam: "wss://wss.api.moonbase.moonbeam.network",
		Astar:    "wss://rpc.shibuya.astar.network",
		HydraDX:  "wss://rpc.basilisk.cloud",
		Bifrost:  "wss://bifrost-westend.liebi.com/ws",
		Parallel: "wss://westmint-rpc.polkadot.io",
	},
	Local: {
		Polkadot: "ws://127.0.0.1:9944",
		Kusama:   "ws://127.0.0.1:9945",
		AssetHub: "ws://127.0.0.1:9946",
		Acala:    "ws://127.0.0.1:9947",
		Moonbeam: "ws://127.0.0.1:9948",
		Astar:    "ws://127.0.0.1:9949",
		HydraDX:  "ws://127.0.0.1:9950",
		Bifrost:  "ws://127.0.0.1:9951",
		Parallel: "ws://127.0.0.1:9952",
	},
}

// ConfigFor returns the chain configuration for id.
func ConfigFor(id ID) (Config, error) {
	cfg, ok := configs[id]
	if !ok {
		return Config{}, fmt.Errorf("unknown chain %q", id)
	}
	return cfg, nil
}

// Endpoint returns the RPC endpoint for id on the given network.
func Endpoint(network Network, id ID) (string, error) {
	byChain, ok := endpoints[network]
	if !ok {
		return "", fmt.Errorf("unknown network %q", network)
	}
	endpoint, ok := byChain[id]
	if !ok {
		return "", fmt.Errorf("no endpoint for %s on %s", id, network)
	}
	return endpoint, nil
}

// XCMDestinations lists the chains the active chain can transfer to. The
// relay chain reaches every Polkadot parachain; parachains reach the relay
// chain. HRMP channel discovery is out of scope, so the result is static.
func XCMDestinations(active ID) []ID {
	if active == Polkadot {
		return []ID{AssetHub, Acala, Moonbeam, Astar, HydraDX, Bifrost, Parallel}
	}
	if active != Kusama {
		return []ID{Polkadot}
	}
	return nil
}

// FormatXCMDestination renders a chain as an XCM destination label.
func FormatXCMDestination(id ID) string {
	cfg, ok := configs[id]
	if !ok || cfg.ParaID == 0 {
		return "Relay Chain"
	}
	return fmt.Sprintf("Parachain %d", cfg.ParaID)
}
