package invariant_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ponder-dex/ponder/dex/invariant"
	"github.com/ponder-dex/ponder/dex/types"
)

func TestValidateSwapBoundary(t *testing.T) {
	// Reserves (1000, 1000), amount0In = 100 at the 30bp aggregate fee:
	// amount1Out = (1000*100*997)/(1000*1000 + 100*997) = 90.
	reserve := math.NewInt(1000)
	amountIn := math.NewInt(100)
	expectedOut := math.NewInt(90)

	balance0 := reserve.Add(amountIn)

	// The fee-adjusted formula's own output passes.
	err := invariant.ValidateSwap(
		balance0, reserve.Sub(expectedOut),
		amountIn, math.ZeroInt(),
		reserve, reserve,
	)
	require.NoError(t, err)

	// One more unit of output violates the invariant.
	err = invariant.ValidateSwap(
		balance0, reserve.Sub(expectedOut).Sub(math.OneInt()),
		amountIn, math.ZeroInt(),
		reserve, reserve,
	)
	require.ErrorIs(t, err, types.ErrConstantProductViolation)
}

func TestValidateSwapNoFreeOutput(t *testing.T) {
	// Removing output without any input always fails.
	err := invariant.ValidateSwap(
		math.NewInt(1000), math.NewInt(999),
		math.ZeroInt(), math.ZeroInt(),
		math.NewInt(1000), math.NewInt(1000),
	)
	require.ErrorIs(t, err, types.ErrConstantProductViolation)
}

func TestValidateSwapNeverAcceptsShrinkingProduct(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r0 := math.NewInt(rapid.Int64Range(1, 1<<40).Draw(t, "r0"))
		r1 := math.NewInt(rapid.Int64Range(1, 1<<40).Draw(t, "r1"))
		in0 := math.NewInt(rapid.Int64Range(0, 1<<40).Draw(t, "in0"))
		out1 := math.NewInt(rapid.Int64Range(0, r1.Int64()-1).Draw(t, "out1"))

		balance0 := r0.Add(in0)
		balance1 := r1.Sub(out1)

		err := invariant.ValidateSwap(balance0, balance1, in0, math.ZeroInt(), r0, r1)
		if err == nil {
			// Accepted swaps preserve the fee-adjusted product.
			adj0 := balance0.MulRaw(1000).Sub(in0.MulRaw(3))
			adj1 := balance1.MulRaw(1000)
			require.True(t, adj0.Mul(adj1).GTE(r0.Mul(r1).MulRaw(1000*1000)))
		}
	})
}

// FuzzValidateSwap checks the validator never panics on arbitrary inputs
// and only ever fails with its own sentinels.
func FuzzValidateSwap(f *testing.F) {
	f.Add(int64(1100), int64(910), int64(100), int64(0), int64(1000), int64(1000))
	f.Add(int64(1), int64(1), int64(0), int64(0), int64(1), int64(1))
	f.Add(int64(1)<<62, int64(1)<<62, int64(1)<<62, int64(0), int64(1), int64(1))

	f.Fuzz(func(t *testing.T, b0, b1, in0, in1, r0, r1 int64) {
		err := invariant.ValidateSwap(
			math.NewInt(b0), math.NewInt(b1),
			math.NewInt(in0), math.NewInt(in1),
			math.NewInt(r0), math.NewInt(r1),
		)
		if err != nil {
			require.True(t,
				types.ErrConstantProductViolation.Is(err) ||
					types.ErrArithmeticOverflow.Is(err),
				"unexpected error type: %v", err)
		}
	})
}

func TestValidateOutputAmounts(t *testing.T) {
	r0, r1 := math.NewInt(500), math.NewInt(800)

	require.NoError(t, invariant.ValidateOutputAmounts(math.NewInt(499), math.NewInt(799), r0, r1))

	err := invariant.ValidateOutputAmounts(math.NewInt(500), math.ZeroInt(), r0, r1)
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)

	err = invariant.ValidateOutputAmounts(math.ZeroInt(), math.NewInt(801), r0, r1)
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)

	err = invariant.ValidateOutputAmounts(math.NewInt(-1), math.ZeroInt(), r0, r1)
	require.ErrorIs(t, err, types.ErrInsufficientOutputAmount)
}

func TestValidateReserveOverflow(t *testing.T) {
	require.NoError(t, invariant.ValidateReserveOverflow(types.MaxReserve, types.MaxReserve))

	err := invariant.ValidateReserveOverflow(types.MaxReserve.Add(math.OneInt()), math.OneInt())
	require.ErrorIs(t, err, types.ErrReserveOverflow)
}

func TestValidateSync(t *testing.T) {
	require.NoError(t, invariant.ValidateSync(
		math.NewInt(100), math.NewInt(100), math.NewInt(100), math.ZeroInt()))

	err := invariant.ValidateSync(math.ZeroInt(), math.NewInt(100), math.ZeroInt(), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidReserveState)

	err = invariant.ValidateSync(math.NewInt(99), math.NewInt(100), math.NewInt(100), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidReserveState)
}
