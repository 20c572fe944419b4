package chain

import (
	"fmt"
)

// TokenMetadata describes a token available on a chain.
type TokenMetadata struct {
	Symbol         string
	Name           string
	Decimals       uint8
	Address        string // EVM contract address, when applicable
	ReferenceAsset string // underlying asset for wrapped tokens
	IsNative       bool
	IsStablecoin   bool
}

// TokensFor returns the tokens known on a chain, native token first.
func TokensFor(id ID) ([]TokenMetadata, error) {
	cfg, ok := configs[id]
	if !ok {
		return nil, fmt.Errorf("unknown chain %q", id)
	}

	tokens := []TokenMetadata{{
		Symbol:   cfg.Symbol,
		Name:     cfg.DisplayName,
		Decimals: cfg.Decimals,
		IsNative: true,
	}}

	switch id {
	case Acala:
		tokens = append(tokens,
			TokenMetadata{Symbol: "LDOT", Name: "Liquid DOT", Decimals: 10, ReferenceAsset: "DOT"},
			TokenMetadata{Symbol: "aUSD", Name: "Acala USD", Decimals: 12, IsStablecoin: true},
		)
	case AssetHub:
		tokens = append(tokens,
			TokenMetadata{Symbol: "USDT", Name: "Tether USD", Decimals: 6, IsStablecoin: true},
			TokenMetadata{Symbol: "USDC", Name: "USD Coin", Decimals: 6, IsStablecoin: true},
		)
	case Moonbeam:
		tokens = append(tokens,
			TokenMetadata{
				Symbol: "xcDOT", Name: "XC DOT", Decimals: 10,
				Address: "0xFfFFfFff1FcaCBd218EDc0EbA20Fc2308C778080", ReferenceAsset: "DOT",
			},
			TokenMetadata{
				Symbol: "xcUSDT", Name: "XC USDT", Decimals: 6,
				Address: "0xFFFFFFfFFFfffFFfFFfFFFFFffFFFffffFfFFFfF", ReferenceAsset: "USDT",
				IsStablecoin: true,
			},
		)
	}
	return tokens, nil
}
