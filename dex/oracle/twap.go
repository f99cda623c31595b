package oracle

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/ponder-dex/ponder/dex/fixedpoint"
	"github.com/ponder-dex/ponder/dex/types"
)

// Observation is a point-in-time snapshot of a pair's cumulative prices.
type Observation struct {
	Price0Cumulative math.Int
	Price1Cumulative math.Int
	Timestamp        uint32
}

// Consult derives the time-weighted average prices between two
// observations: (cumulativeEnd - cumulativeStart) / (tEnd - tStart). Both
// the timestamp and the accumulator deltas are wraparound-tolerant. The
// pair never calls this; it exists for oracle consumers.
func Consult(start, end Observation) (price0, price1 fixedpoint.UQ112x112, err error) {
	elapsed := end.Timestamp - start.Timestamp // deliberate uint32 wraparound
	if elapsed == 0 {
		return fixedpoint.Zero(), fixedpoint.Zero(),
			types.ErrInvalidTimeWindow.Wrap("observations share a timestamp")
	}

	elapsedInt := math.NewInt(int64(elapsed))
	price0 = fixedpoint.FromRaw(wrappingDelta(start.Price0Cumulative, end.Price0Cumulative).Quo(elapsedInt))
	price1 = fixedpoint.FromRaw(wrappingDelta(start.Price1Cumulative, end.Price1Cumulative).Quo(elapsedInt))
	return price0, price1, nil
}

// wrappingDelta returns (end - start) mod 2^256.
func wrappingDelta(start, end math.Int) math.Int {
	delta := new(big.Int).Sub(end.BigInt(), start.BigInt())
	return types.WrapUint256(delta)
}
