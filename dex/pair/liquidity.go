package pair

import (
	"context"

	"cosmossdk.io/math"

	"github.com/ponder-dex/ponder/dex/invariant"
	"github.com/ponder-dex/ponder/dex/types"
)

// Mint issues liquidity tokens for deposits already transferred to the
// pair's account. The deposit is measured as the difference between the
// current tradeable balances and the last persisted reserves. The first
// mint permanently locks MinimumLiquidity at the burn address.
func (p *Pair) Mint(ctx context.Context, to types.Address) (math.Int, error) {
	// 1. Input validation
	if to == types.ZeroAddress {
		return math.Int{}, types.ErrZeroAddress.Wrap("mint recipient")
	}

	// 2. Exclusive access
	if err := p.acquire(ctx, "mint"); err != nil {
		return math.Int{}, err
	}
	defer p.guard.release()

	s := p.snapshot()
	balance0, balance1, err := p.tradeableBalances(s)
	if err != nil {
		return math.Int{}, err
	}

	// 3. Measure the deposit since the last reserve write
	amount0, err := types.SafeSub(balance0, s.reserve0)
	if err != nil {
		return math.Int{}, types.ErrInvalidReserveState.Wrap("token0 balance below reserve")
	}
	amount1, err := types.SafeSub(balance1, s.reserve1)
	if err != nil {
		return math.Int{}, types.ErrInvalidReserveState.Wrap("token1 balance below reserve")
	}

	// 4. Mint the protocol's share of growth since the last liquidity event
	feeOn := p.feeTo() != types.ZeroAddress
	feeMint, supply, err := p.mintFee(s, feeOn)
	if err != nil {
		return math.Int{}, err
	}
	mints := make([]lpMint, 0, 3)
	if feeMint != nil {
		mints = append(mints, *feeMint)
	}

	// 5. Compute the liquidity owed for the deposit
	var liquidity math.Int
	if supply.IsZero() {
		product, err := types.SafeMul(amount0, amount1)
		if err != nil {
			return math.Int{}, err
		}
		root, err := types.IntSqrt(product)
		if err != nil {
			return math.Int{}, err
		}
		if root.LTE(types.MinimumLiquidity) {
			return math.Int{}, types.ErrInsufficientInitialLiquidity.Wrapf(
				"sqrt(%s*%s) = %s does not exceed the locked minimum %s",
				amount0, amount1, root, types.MinimumLiquidity)
		}
		liquidity = root.Sub(types.MinimumLiquidity)
		mints = append(mints, lpMint{to: types.BurnAddress, amount: types.MinimumLiquidity})
		supply = supply.Add(types.MinimumLiquidity)
	} else {
		share0, err := types.SafeMulDiv(amount0, supply, s.reserve0)
		if err != nil {
			return math.Int{}, err
		}
		share1, err := types.SafeMulDiv(amount1, supply, s.reserve1)
		if err != nil {
			return math.Int{}, err
		}
		liquidity = types.MinInt(share0, share1)
	}
	if !liquidity.IsPositive() {
		return math.Int{}, types.ErrInsufficientLiquidityMinted.Wrapf(
			"deposit %s/%s yields no liquidity", amount0, amount1)
	}
	mints = append(mints, lpMint{to: to, amount: liquidity})
	supply = supply.Add(liquidity)

	// 6. Persist
	if err := invariant.ValidateReserveOverflow(balance0, balance1); err != nil {
		return math.Int{}, err
	}
	next := s
	next.reserve0 = balance0
	next.reserve1 = balance1
	next.totalSupply = supply
	next.kLast, err = p.nextKLast(feeOn, balance0, balance1)
	if err != nil {
		return math.Int{}, err
	}
	p.commit(next, mints, math.ZeroInt())

	p.events.Emit(types.NewEvent(types.EventTypeLiquidityMinted,
		types.NewAttribute(types.AttributeKeyPair, string(p.address)),
		types.NewAttribute(types.AttributeKeyRecipient, string(to)),
		types.NewAttribute(types.AttributeKeyAmount0, amount0.String()),
		types.NewAttribute(types.AttributeKeyAmount1, amount1.String()),
		types.NewAttribute(types.AttributeKeyLiquidity, liquidity.String()),
	))
	p.metrics.LiquidityEventsTotal.WithLabelValues(string(p.address), "mint").Inc()
	p.logger.Info("liquidity minted",
		"to", string(to), "amount0", amount0.String(), "amount1", amount1.String(),
		"liquidity", liquidity.String())
	return liquidity, nil
}

// Burn redeems liquidity tokens previously transferred to the pair's own
// account and pays out the proportional share of both reserves.
func (p *Pair) Burn(ctx context.Context, to types.Address) (math.Int, math.Int, error) {
	// 1. Input validation
	if to == types.ZeroAddress {
		return math.Int{}, math.Int{}, types.ErrZeroAddress.Wrap("burn recipient")
	}

	// 2. Exclusive access
	if err := p.acquire(ctx, "burn"); err != nil {
		return math.Int{}, math.Int{}, err
	}
	defer p.guard.release()

	s := p.snapshot()
	balance0, balance1, err := p.tradeableBalances(s)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	liquidity := s.pairLiquidity
	if !liquidity.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrInsufficientLiquidityBurned.Wrap("no liquidity staged at the pair")
	}

	// 3. Protocol growth share, then the pro-rata payout
	feeOn := p.feeTo() != types.ZeroAddress
	feeMint, supply, err := p.mintFee(s, feeOn)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	var mints []lpMint
	if feeMint != nil {
		mints = append(mints, *feeMint)
	}

	amount0, err := types.SafeMulDiv(liquidity, balance0, supply)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	amount1, err := types.SafeMulDiv(liquidity, balance1, supply)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if !amount0.IsPositive() || !amount1.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrInsufficientLiquidityBurned.Wrapf(
			"liquidity %s redeems %s/%s", liquidity, amount0, amount1)
	}

	// 4. Pay out both sides
	if err := p.token0.Transfer(p.address, to, amount0); err != nil {
		return math.Int{}, math.Int{}, types.ErrTransferFailed.Wrapf("token0 payout: %s", err)
	}
	if err := p.token1.Transfer(p.address, to, amount1); err != nil {
		p.revertTransfer(p.token0, to, amount0, "burn")
		return math.Int{}, math.Int{}, types.ErrTransferFailed.Wrapf("token1 payout: %s", err)
	}

	// 5. Persist against post-payout balances
	balance0, balance1, err = p.tradeableBalances(s)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	next := s
	next.reserve0 = balance0
	next.reserve1 = balance1
	next.totalSupply = supply.Sub(liquidity)
	next.kLast, err = p.nextKLast(feeOn, balance0, balance1)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	p.commit(next, mints, liquidity)

	p.events.Emit(types.NewEvent(types.EventTypeLiquidityBurned,
		types.NewAttribute(types.AttributeKeyPair, string(p.address)),
		types.NewAttribute(types.AttributeKeyRecipient, string(to)),
		types.NewAttribute(types.AttributeKeyAmount0, amount0.String()),
		types.NewAttribute(types.AttributeKeyAmount1, amount1.String()),
		types.NewAttribute(types.AttributeKeyLiquidity, liquidity.String()),
	))
	p.metrics.LiquidityEventsTotal.WithLabelValues(string(p.address), "burn").Inc()
	p.logger.Info("liquidity burned",
		"to", string(to), "amount0", amount0.String(), "amount1", amount1.String(),
		"liquidity", liquidity.String())
	return amount0, amount1, nil
}

// mintFee computes the protocol's cut of pool growth since kLast: when the
// fee switch is on and sqrt(k) grew, it mints liquidity worth 1/6 of the
// growth to the fee recipient. Returns the pending mint (nil when nothing
// is owed) and the resulting total supply.
func (p *Pair) mintFee(s snapshot, feeOn bool) (*lpMint, math.Int, error) {
	if !feeOn || s.kLast.IsZero() {
		return nil, s.totalSupply, nil
	}
	k, err := types.SafeMul(s.reserve0, s.reserve1)
	if err != nil {
		return nil, math.Int{}, err
	}
	rootK, err := types.IntSqrt(k)
	if err != nil {
		return nil, math.Int{}, err
	}
	rootKLast, err := types.IntSqrt(s.kLast)
	if err != nil {
		return nil, math.Int{}, err
	}
	if !rootK.GT(rootKLast) {
		return nil, s.totalSupply, nil
	}
	numerator, err := types.SafeMul(s.totalSupply, rootK.Sub(rootKLast))
	if err != nil {
		return nil, math.Int{}, err
	}
	denominator := rootK.MulRaw(5).Add(rootKLast)
	liquidity := numerator.Quo(denominator)
	if !liquidity.IsPositive() {
		return nil, s.totalSupply, nil
	}
	return &lpMint{to: p.feeTo(), amount: liquidity}, s.totalSupply.Add(liquidity), nil
}

// nextKLast records the reserve product when the fee switch is on and
// clears it when off, so fee accrual never reaches back across a period
// when the switch was disabled.
func (p *Pair) nextKLast(feeOn bool, reserve0, reserve1 math.Int) (math.Int, error) {
	if !feeOn {
		return math.ZeroInt(), nil
	}
	return types.SafeMul(reserve0, reserve1)
}

// revertTransfer claws back an already-paid output after a later step
// failed. A failed clawback means token balances and pair state disagree;
// that is logged as state corruption for the operator.
func (p *Pair) revertTransfer(token types.Token, from types.Address, amount math.Int, operation string) {
	if err := token.Transfer(from, p.address, amount); err != nil {
		p.logger.Error("compensating transfer failed, balances out of sync",
			"operation", operation, "token", string(token.TokenAddress()),
			"holder", string(from), "amount", amount.String(), "err",
			types.ErrStateCorruption.Wrapf("%s", err))
	}
}
