package pair

import (
	"context"

	"cosmossdk.io/math"

	"github.com/ponder-dex/ponder/dex/invariant"
	"github.com/ponder-dex/ponder/dex/types"
)

// Skim transfers any token balance above reserves plus accumulated fees to
// the recipient. Reserves are left untouched, so donated dust can be swept
// without moving the price.
func (p *Pair) Skim(ctx context.Context, to types.Address) (math.Int, math.Int, error) {
	if to == types.ZeroAddress {
		return math.Int{}, math.Int{}, types.ErrZeroAddress.Wrap("skim recipient")
	}
	if err := p.acquire(ctx, "skim"); err != nil {
		return math.Int{}, math.Int{}, err
	}
	defer p.guard.release()

	s := p.snapshot()
	excess0 := excessBalance(p.token0.BalanceOf(p.address), s.reserve0, s.accumulatedFee0)
	excess1 := excessBalance(p.token1.BalanceOf(p.address), s.reserve1, s.accumulatedFee1)

	if excess0.IsPositive() {
		if err := p.token0.Transfer(p.address, to, excess0); err != nil {
			return math.Int{}, math.Int{}, types.ErrTransferFailed.Wrapf("token0 skim: %s", err)
		}
	}
	if excess1.IsPositive() {
		if err := p.token1.Transfer(p.address, to, excess1); err != nil {
			if excess0.IsPositive() {
				p.revertTransfer(p.token0, to, excess0, "skim")
			}
			return math.Int{}, math.Int{}, types.ErrTransferFailed.Wrapf("token1 skim: %s", err)
		}
	}

	p.events.Emit(types.NewEvent(types.EventTypeSkim,
		types.NewAttribute(types.AttributeKeyPair, string(p.address)),
		types.NewAttribute(types.AttributeKeyRecipient, string(to)),
		types.NewAttribute(types.AttributeKeyAmount0, excess0.String()),
		types.NewAttribute(types.AttributeKeyAmount1, excess1.String()),
	))
	return excess0, excess1, nil
}

// Sync forces reserves to match current token balances net of accumulated
// fees. It is the recovery path after direct transfers bypassed Mint.
func (p *Pair) Sync(ctx context.Context) error {
	if err := p.acquire(ctx, "sync"); err != nil {
		return err
	}
	defer p.guard.release()

	s := p.snapshot()
	raw0 := p.token0.BalanceOf(p.address)
	raw1 := p.token1.BalanceOf(p.address)
	if err := invariant.ValidateSync(raw0, raw1, s.accumulatedFee0, s.accumulatedFee1); err != nil {
		return err
	}
	balance0 := raw0.Sub(s.accumulatedFee0)
	balance1 := raw1.Sub(s.accumulatedFee1)
	if err := invariant.ValidateReserveOverflow(balance0, balance1); err != nil {
		return err
	}

	next := s
	next.reserve0 = balance0
	next.reserve1 = balance1
	p.commit(next, nil, math.ZeroInt())

	p.events.Emit(types.NewEvent(types.EventTypeSync,
		types.NewAttribute(types.AttributeKeyPair, string(p.address)),
		types.NewAttribute(types.AttributeKeyReserve0, balance0.String()),
		types.NewAttribute(types.AttributeKeyReserve1, balance1.String()),
	))
	return nil
}

// CollectFees withdraws the accumulated protocol fees to the recipient and
// zeroes the accumulators. Authorization is the factory's responsibility;
// the pair only moves what the accumulators say it owes.
func (p *Pair) CollectFees(ctx context.Context, to types.Address) (math.Int, math.Int, error) {
	if to == types.ZeroAddress {
		return math.Int{}, math.Int{}, types.ErrZeroAddress.Wrap("fee recipient")
	}
	if err := p.acquire(ctx, "collect_fees"); err != nil {
		return math.Int{}, math.Int{}, err
	}
	defer p.guard.release()

	s := p.snapshot()
	fee0, fee1 := s.accumulatedFee0, s.accumulatedFee1
	if fee0.IsZero() && fee1.IsZero() {
		return math.ZeroInt(), math.ZeroInt(), nil
	}

	if fee0.IsPositive() {
		if err := p.token0.Transfer(p.address, to, fee0); err != nil {
			return math.Int{}, math.Int{}, types.ErrTransferFailed.Wrapf("token0 fees: %s", err)
		}
	}
	if fee1.IsPositive() {
		if err := p.token1.Transfer(p.address, to, fee1); err != nil {
			if fee0.IsPositive() {
				p.revertTransfer(p.token0, to, fee0, "collect_fees")
			}
			return math.Int{}, math.Int{}, types.ErrTransferFailed.Wrapf("token1 fees: %s", err)
		}
	}

	next := s
	next.accumulatedFee0 = math.ZeroInt()
	next.accumulatedFee1 = math.ZeroInt()
	p.commit(next, nil, math.ZeroInt())

	p.events.Emit(types.NewEvent(types.EventTypeFeesCollected,
		types.NewAttribute(types.AttributeKeyPair, string(p.address)),
		types.NewAttribute(types.AttributeKeyRecipient, string(to)),
		types.NewAttribute(types.AttributeKeyFee0, fee0.String()),
		types.NewAttribute(types.AttributeKeyFee1, fee1.String()),
	))
	p.metrics.FeeCollectionsTotal.WithLabelValues(string(p.address)).Inc()
	p.logger.Info("protocol fees collected", "to", string(to),
		"fee0", fee0.String(), "fee1", fee1.String())
	return fee0, fee1, nil
}

// excessBalance is the skimmable surplus on one side: anything above what
// reserves and pending fees account for.
func excessBalance(raw, reserve, accumulatedFee math.Int) math.Int {
	accounted := reserve.Add(accumulatedFee)
	if raw.GT(accounted) {
		return raw.Sub(accounted)
	}
	return math.ZeroInt()
}
