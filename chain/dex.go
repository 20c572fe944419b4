package chain

import (
	"context"
	"fmt"
	"math/big"
	"sort"
)

// DEXInfo describes a decentralized exchange and where it runs.
type DEXInfo struct {
	Name            string
	SupportedChains []ID
	Website         string
	HasRouter       bool
}

var supportedDEXes = []DEXInfo{
	{Name: "HydraDX", SupportedChains: []ID{HydraDX}, Website: "https://hydradx.io", HasRouter: true},
	{Name: "StellaSwap", SupportedChains: []ID{Moonbeam}, Website: "https://stellaswap.com", HasRouter: true},
	{Name: "Beamswap", SupportedChains: []ID{Moonbeam}, Website: "https://beamswap.io", HasRouter: true},
	{Name: "Acala Swap", SupportedChains: []ID{Acala}, Website: "https://acala.network", HasRouter: false},
	{Name: "Arthswap", SupportedChains: []ID{Astar}, Website: "https://arthswap.org", HasRouter: true},
}

// DEXes returns every known exchange.
func DEXes() []DEXInfo {
	out := make([]DEXInfo, len(supportedDEXes))
	copy(out, supportedDEXes)
	return out
}

// DEXesFor returns the exchanges available on a chain.
func DEXesFor(id ID) []DEXInfo {
	var out []DEXInfo
	for _, dex := range supportedDEXes {
		for _, c := range dex.SupportedChains {
			if c == id {
				out = append(out, dex)
				break
			}
		}
	}
	return out
}

// Quote is one exchange's price for a swap. Amounts are integer strings in
// the token's smallest unit.
type Quote struct {
	DEX          string   `json:"dex"`
	InputAmount  string   `json:"inputAmount"`
	OutputAmount string   `json:"outputAmount"`
	Price        string   `json:"price"`
	PriceImpact  string   `json:"priceImpact"`
	Fee          string   `json:"fee"`
	Route        []string `json:"route"`
}

// PriceQuotes fabricates a quote per exchange on the chain and returns them
// sorted best output first. Output amounts land between 90% and 99.9% of
// the input, mimicking spread and impact.
func (c *MockClient) PriceQuotes(ctx context.Context, id ID, fromToken, toToken, amount string) ([]Quote, error) {
	if !c.IsConnected(id) {
		return nil, fmt.Errorf("not connected to %s", id)
	}
	dexes := DEXesFor(id)
	if len(dexes) == 0 {
		return nil, fmt.Errorf("no DEXes supported on %s", id)
	}
	input, ok := new(big.Int).SetString(amount, 10)
	if !ok || input.Sign() < 0 {
		return nil, fmt.Errorf("invalid swap amount %q", amount)
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	quotes := make([]Quote, 0, len(dexes))
	for _, dex := range dexes {
		factor := int64(900 + c.randIntn(100))
		output := new(big.Int).Mul(input, big.NewInt(factor))
		output.Div(output, big.NewInt(1000))

		fee := "0.3%"
		if dex.Name == "StellaSwap" {
			fee = "0.25%"
		}
		quotes = append(quotes, Quote{
			DEX:          dex.Name,
			InputAmount:  input.String(),
			OutputAmount: output.String(),
			Price:        fmt.Sprintf("%.4f", c.randFloat()*10+1),
			PriceImpact:  fmt.Sprintf("%.2f%%", c.randFloat()*2),
			Fee:          fee,
			Route:        []string{fromToken, toToken},
		})
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		a, _ := new(big.Int).SetString(quotes[i].OutputAmount, 10)
		b, _ := new(big.Int).SetString(quotes[j].OutputAmount, 10)
		return a.Cmp(b) > 0
	})
	return quotes, nil
}
