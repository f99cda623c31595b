// Package oracle maintains the cumulative price observations pairs expose
// to TWAP consumers. Accumulators follow the lazy-update approach: they
// grow by spotPrice * elapsed on every state-mutating pair operation, and a
// consumer derives the average price of a window from two observations in
// O(1).
package oracle

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/ponder-dex/ponder/dex/fixedpoint"
	"github.com/ponder-dex/ponder/dex/types"
)

// Accumulator is the per-pair cumulative price state. Not safe for
// concurrent use on its own; the owning pair serializes access.
type Accumulator struct {
	price0Cumulative math.Int
	price1Cumulative math.Int
	timestampLast    uint32
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		price0Cumulative: math.ZeroInt(),
		price1Cumulative: math.ZeroInt(),
	}
}

// Update advances both cumulative prices by spotPrice * elapsed, where the
// spot price is taken from the reserves that prevailed since the previous
// update. It must run exactly once per state-mutating entry point, before
// any reserve mutation, or the time integral drifts. Timestamps are 32-bit
// and subtraction wraps, so accumulation survives the 2106 rollover.
//
// The first call on a fresh accumulator, and any call within the same
// second or against an empty pool, only records the timestamp.
func (a *Accumulator) Update(reserve0, reserve1 math.Int, now uint32) (bool, error) {
	elapsed := now - a.timestampLast // deliberate uint32 wraparound

	accumulated := false
	if elapsed > 0 && reserve0.IsPositive() && reserve1.IsPositive() {
		price0, err := fixedpoint.Fraction(reserve1, reserve0)
		if err != nil {
			return false, err
		}
		price1, err := fixedpoint.Fraction(reserve0, reserve1)
		if err != nil {
			return false, err
		}

		elapsedInt := math.NewInt(int64(elapsed))
		a.price0Cumulative = wrappingAccumulate(a.price0Cumulative, price0, elapsedInt)
		a.price1Cumulative = wrappingAccumulate(a.price1Cumulative, price1, elapsedInt)
		accumulated = true
	}

	a.timestampLast = now
	return accumulated, nil
}

// wrappingAccumulate returns (cumulative + price*elapsed) mod 2^256.
// Accumulators wrap by design; consumers take deltas, which stay correct
// across a single wrap.
func wrappingAccumulate(cumulative math.Int, price fixedpoint.UQ112x112, elapsed math.Int) math.Int {
	contribution := new(big.Int).Mul(price.Raw().BigInt(), elapsed.BigInt())
	sum := contribution.Add(contribution, cumulative.BigInt())
	return types.WrapUint256(sum)
}

// Price0Cumulative returns the token1-per-token0 accumulator word.
func (a *Accumulator) Price0Cumulative() math.Int { return a.price0Cumulative }

// Price1Cumulative returns the token0-per-token1 accumulator word.
func (a *Accumulator) Price1Cumulative() math.Int { return a.price1Cumulative }

// TimestampLast returns the truncated 32-bit timestamp of the last update.
func (a *Accumulator) TimestampLast() uint32 { return a.timestampLast }

// Observe snapshots the accumulator for later TWAP consultation.
func (a *Accumulator) Observe() Observation {
	return Observation{
		Price0Cumulative: a.price0Cumulative,
		Price1Cumulative: a.price1Cumulative,
		Timestamp:        a.timestampLast,
	}
}

// Restore loads persisted accumulator state.
func (a *Accumulator) Restore(price0Cumulative, price1Cumulative math.Int, timestampLast uint32) {
	a.price0Cumulative = price0Cumulative
	a.price1Cumulative = price1Cumulative
	a.timestampLast = timestampLast
}
