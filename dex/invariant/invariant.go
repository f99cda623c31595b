// Package invariant validates proposed pair state transitions. Every check
// is pure: nil means the transition is acceptable.
package invariant

import (
	"cosmossdk.io/math"

	"github.com/ponder-dex/ponder/dex/types"
)

// ValidateSwap asserts the fee-adjusted constant product does not decrease.
// Balances are adjusted by the aggregate swap fee retained in the pool
// (balance*1000 - amountIn*3) and their product compared against the
// pre-swap reserve product scaled by 1000^2. This is the single check that
// prevents value extraction through crafted swap amounts.
func ValidateSwap(balance0, balance1, amount0In, amount1In, reserve0, reserve1 math.Int) error {
	adjusted0, err := feeAdjusted(balance0, amount0In)
	if err != nil {
		return err
	}
	adjusted1, err := feeAdjusted(balance1, amount1In)
	if err != nil {
		return err
	}

	newProduct, err := types.SafeMul(adjusted0, adjusted1)
	if err != nil {
		return err
	}
	oldProduct, err := types.SafeMul(reserve0, reserve1)
	if err != nil {
		return err
	}
	oldProduct, err = types.SafeMul(oldProduct, math.NewInt(types.SwapFeeDenominator*types.SwapFeeDenominator))
	if err != nil {
		return err
	}

	if newProduct.LT(oldProduct) {
		return types.ErrConstantProductViolation.Wrapf(
			"adjusted product %s < required %s", newProduct, oldProduct)
	}
	return nil
}

// feeAdjusted computes balance*1000 - amountIn*3.
func feeAdjusted(balance, amountIn math.Int) (math.Int, error) {
	scaled, err := types.SafeMul(balance, math.NewInt(types.SwapFeeDenominator))
	if err != nil {
		return math.Int{}, err
	}
	fee, err := types.SafeMul(amountIn, math.NewInt(types.SwapFeeNumerator))
	if err != nil {
		return math.Int{}, err
	}
	return types.SafeSub(scaled, fee)
}

// ValidateOutputAmounts asserts both outputs leave their reserve strictly
// positive; a pool can never be fully drained on one side.
func ValidateOutputAmounts(amount0Out, amount1Out, reserve0, reserve1 math.Int) error {
	if amount0Out.IsNegative() || amount1Out.IsNegative() {
		return types.ErrInsufficientOutputAmount.Wrap("negative output amount")
	}
	if amount0Out.GTE(reserve0) || amount1Out.GTE(reserve1) {
		return types.ErrInsufficientLiquidity.Wrapf(
			"outputs (%s, %s) not below reserves (%s, %s)",
			amount0Out, amount1Out, reserve0, reserve1)
	}
	return nil
}

// ValidateReserveOverflow asserts both balances fit the 112-bit reserve
// storage width before being persisted.
func ValidateReserveOverflow(balance0, balance1 math.Int) error {
	if balance0.GT(types.MaxReserve) || balance1.GT(types.MaxReserve) {
		return types.ErrReserveOverflow.Wrapf(
			"balances (%s, %s) exceed %s", balance0, balance1, types.MaxReserve)
	}
	return nil
}

// ValidateSync asserts balances are positive and not below the fees already
// carved out, so accumulated fees stay separable from tradeable reserves.
func ValidateSync(balance0, balance1, accumulatedFee0, accumulatedFee1 math.Int) error {
	if !balance0.IsPositive() || !balance1.IsPositive() {
		return types.ErrInvalidReserveState.Wrapf(
			"balances (%s, %s) must be positive", balance0, balance1)
	}
	if balance0.LT(accumulatedFee0) || balance1.LT(accumulatedFee1) {
		return types.ErrInvalidReserveState.Wrapf(
			"balances (%s, %s) below accumulated fees (%s, %s)",
			balance0, balance1, accumulatedFee0, accumulatedFee1)
	}
	return nil
}
