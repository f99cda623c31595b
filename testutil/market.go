// Package testutil provides shared fixtures: a factory with a registered,
// liquidity-seeded pair ready for trading.
package testutil

import (
	"context"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/ponder-dex/ponder/dex/factory"
	"github.com/ponder-dex/ponder/dex/pair"
	"github.com/ponder-dex/ponder/dex/types"
	"github.com/ponder-dex/ponder/ledger"
)

// Provider is the account fixtures mint and deposit from.
const Provider = types.Address("ponderacct1provider")

// Market bundles a factory with one funded pair.
type Market struct {
	Factory *factory.Factory
	Events  *types.EventManager
	Token0  *ledger.Token
	Token1  *ledger.Token
	Pair    *pair.Pair
}

// NewMarket creates a factory under the given params, registers a pair of
// plain tokens and seeds it with 100000 of each side.
func NewMarket(t *testing.T, params types.Params) *Market {
	t.Helper()
	events := types.NewEventManager()
	f, err := factory.New(factory.Config{Params: params, Events: events})
	require.NoError(t, err)

	token0 := ledger.NewToken("pondertoken1aaaa", "AAA")
	token1 := ledger.NewToken("pondertoken1bbbb", "BBB")
	p, err := f.CreatePair(context.Background(), token0, token1)
	require.NoError(t, err)

	m := &Market{Factory: f, Events: events, Token0: token0, Token1: token1, Pair: p}
	m.Deposit(t, 100_000, 100_000)
	_, err = p.Mint(context.Background(), Provider)
	require.NoError(t, err)
	return m
}

// Deposit mints fresh tokens to the provider and moves them into the pair
// account, staging them for the next Mint or Swap.
func (m *Market) Deposit(t *testing.T, amount0, amount1 int64) {
	t.Helper()
	if amount0 > 0 {
		m.Token0.Mint(Provider, math.NewInt(amount0))
		require.NoError(t, m.Token0.Transfer(Provider, m.Pair.Address(), math.NewInt(amount0)))
	}
	if amount1 > 0 {
		m.Token1.Mint(Provider, math.NewInt(amount1))
		require.NoError(t, m.Token1.Transfer(Provider, m.Pair.Address(), math.NewInt(amount1)))
	}
}
