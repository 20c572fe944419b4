package chain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainConfigs(t *testing.T) {
	t.Run("EveryChainHasAConfig", func(t *testing.T) {
		for _, id := range IDs() {
			cfg, err := ConfigFor(id)
			require.NoError(t, err, id)
			assert.Equal(t, id, cfg.Name)
			assert.NotEmpty(t, cfg.DisplayName)
			assert.NotEmpty(t, cfg.Symbol)
			assert.NotZero(t, cfg.Decimals)
			assert.True(t, strings.HasPrefix(cfg.GenesisHash, "0x"), id)
		}

		_, err := ConfigFor(ID("narnia"))
		assert.Error(t, err)
	})

	t.Run("RelayAndParachains", func(t *testing.T) {
		polkadot, err := ConfigFor(Polkadot)
		require.NoError(t, err)
		assert.Zero(t, polkadot.ParaID)
		assert.Empty(t, polkadot.RelayChain)

		acala, err := ConfigFor(Acala)
		require.NoError(t, err)
		assert.Equal(t, uint32(2000), acala.ParaID)
		assert.Equal(t, Polkadot, acala.RelayChain)
	})

	t.Run("EndpointsCoverEveryNetwork", func(t *testing.T) {
		for _, network := range []Network{Mainnet, Testnet, Local} {
			for _, id := range IDs() {
				endpoint, err := Endpoint(network, id)
				require.NoError(t, err, "%s on %s", id, network)
				assert.True(t,
					strings.HasPrefix(endpoint, "wss://") || strings.HasPrefix(endpoint, "ws://"),
					endpoint)
			}
		}

		_, err := Endpoint(Network("moonbase"), Polkadot)
		assert.Error(t, err)
		_, err = Endpoint(Mainnet, ID("narnia"))
		assert.Error(t, err)
	})
}

func TestXCMDestinations(t *testing.T) {
	t.Run("RelayReachesAllParachains", func(t *testing.T) {
		destinations := XCMDestinations(Polkadot)
		assert.Len(t, destinations, 7)
		assert.NotContains(t, destinations, Polkadot)
		assert.NotContains(t, destinations, Kusama)
	})

	t.Run("ParachainReachesRelay", func(t *testing.T) {
		assert.Equal(t, []ID{Polkadot}, XCMDestinations(Moonbeam))
	})

	t.Run("KusamaHasNone", func(t *testing.T) {
		assert.Empty(t, XCMDestinations(Kusama))
	})

	t.Run("Format", func(t *testing.T) {
		assert.Equal(t, "Relay Chain", FormatXCMDestination(Polkadot))
		assert.Equal(t, "Parachain 2000", FormatXCMDestination(Acala))
		assert.Equal(t, "Parachain 2004", FormatXCMDestination(Moonbeam))
	})
}

func TestTokens(t *testing.T) {
	t.Run("NativeTokenFirst", func(t *testing.T) {
		for _, id := range IDs() {
			tokens, err := TokensFor(id)
			require.NoError(t, err, id)
			require.NotEmpty(t, tokens, id)

			cfg, err := ConfigFor(id)
			require.NoError(t, err)
			assert.Equal(t, cfg.Symbol, tokens[0].Symbol, id)
		}
	})

	t.Run("AcalaListsLiquidStaking", func(t *testing.T) {
		tokens, err := TokensFor(Acala)
		require.NoError(t, err)

		symbols := make([]string, 0, len(tokens))
		for _, token := range tokens {
			symbols = append(symbols, token.Symbol)
		}
		assert.Contains(t, symbols, "LDOT")
		assert.Contains(t, symbols, "aUSD")
	})

	t.Run("UnknownChain", func(t *testing.T) {
		_, err := TokensFor(ID("narnia"))
		assert.Error(t, err)
	})
}
