package pair

import (
	"context"

	"cosmossdk.io/math"

	"github.com/ponder-dex/ponder/dex/fee"
	"github.com/ponder-dex/ponder/dex/invariant"
	"github.com/ponder-dex/ponder/dex/types"
)

// Swap sends the requested outputs optimistically, runs the flash callback
// when data is non-empty, then measures the inputs actually received and
// enforces the fee-adjusted constant product. Protocol fees on the inputs
// are carved out of the pool after the check; creator fees are paid to the
// token's creator immediately. On any failure the optimistic outputs are
// clawed back and no state is written.
func (p *Pair) Swap(
	ctx context.Context,
	caller types.Address,
	amount0Out, amount1Out math.Int,
	to types.Recipient,
	data []byte,
) (math.Int, math.Int, error) {
	fail := func(reason string, err error) (math.Int, math.Int, error) {
		p.metrics.SwapFailuresTotal.WithLabelValues(string(p.address), reason).Inc()
		return math.Int{}, math.Int{}, err
	}

	// 1. Input validation
	if amount0Out.IsNil() || amount1Out.IsNil() || (!amount0Out.IsPositive() && !amount1Out.IsPositive()) {
		return fail("no_output", types.ErrInsufficientOutputAmount.Wrap("no output requested"))
	}
	if to == nil {
		return fail("recipient", types.ErrInvalidRecipient.Wrap("nil recipient"))
	}
	toAddr := to.RecipientAddress()
	if toAddr == types.ZeroAddress {
		return fail("recipient", types.ErrInvalidRecipient.Wrap("zero recipient"))
	}
	if toAddr == p.token0.TokenAddress() || toAddr == p.token1.TokenAddress() {
		return fail("recipient", types.ErrInvalidRecipient.Wrap("recipient is a pair token"))
	}

	// 2. Exclusive access
	if err := p.acquire(ctx, "swap"); err != nil {
		return fail("reentrancy", err)
	}
	defer p.guard.release()

	s := p.snapshot()
	if err := invariant.ValidateOutputAmounts(amount0Out, amount1Out, s.reserve0, s.reserve1); err != nil {
		return fail("output_exceeds_reserve", err)
	}

	// 3. Optimistic output transfers
	sent0, sent1 := math.ZeroInt(), math.ZeroInt()
	compensate := func() {
		if sent0.IsPositive() {
			p.revertTransfer(p.token0, toAddr, sent0, "swap")
		}
		if sent1.IsPositive() {
			p.revertTransfer(p.token1, toAddr, sent1, "swap")
		}
	}
	if amount0Out.IsPositive() {
		if err := p.token0.Transfer(p.address, toAddr, amount0Out); err != nil {
			return fail("transfer", types.ErrTransferFailed.Wrapf("token0 output: %s", err))
		}
		sent0 = amount0Out
	}
	if amount1Out.IsPositive() {
		if err := p.token1.Transfer(p.address, toAddr, amount1Out); err != nil {
			compensate()
			return fail("transfer", types.ErrTransferFailed.Wrapf("token1 output: %s", err))
		}
		sent1 = amount1Out
	}

	// 4. Flash callback
	if len(data) > 0 {
		callee, ok := to.(types.FlashCallee)
		if !ok {
			compensate()
			return fail("callback", types.ErrCallbackFailed.Wrap("recipient lacks flash callback capability"))
		}
		if err := callee.PonderCall(caller, amount0Out, amount1Out, data); err != nil {
			compensate()
			p.metrics.FlashSwapsTotal.WithLabelValues(string(p.address), "failed").Inc()
			return fail("callback", types.ErrCallbackFailed.Wrapf("%s", err))
		}
		p.metrics.FlashSwapsTotal.WithLabelValues(string(p.address), "ok").Inc()
	}

	// 5. Measure inputs actually received
	balance0, balance1, err := p.tradeableBalances(s)
	if err != nil {
		compensate()
		return fail("reserve_state", err)
	}
	amount0In := receivedInput(balance0, s.reserve0, amount0Out)
	amount1In := receivedInput(balance1, s.reserve1, amount1Out)
	if !amount0In.IsPositive() && !amount1In.IsPositive() {
		compensate()
		return fail("no_input", types.ErrInsufficientInputAmount.Wrap("no input received"))
	}

	// 6. Constant-product check on fee-adjusted balances
	if err := invariant.ValidateSwap(balance0, balance1, amount0In, amount1In, s.reserve0, s.reserve1); err != nil {
		compensate()
		p.metrics.InvariantViolations.WithLabelValues(string(p.address)).Inc()
		return fail("invariant", err)
	}
	// Fees only shrink balances from here, so the width check holds for
	// the values committed below.
	if err := invariant.ValidateReserveOverflow(balance0, balance1); err != nil {
		compensate()
		return fail("overflow", err)
	}

	// 7. Protocol and creator fees on each input side
	next := s
	next.accumulatedFee0, err = p.settleSwapFees(p.token0, amount0In, next.accumulatedFee0)
	if err != nil {
		compensate()
		return fail("fee", err)
	}
	next.accumulatedFee1, err = p.settleSwapFees(p.token1, amount1In, next.accumulatedFee1)
	if err != nil {
		compensate()
		return fail("fee", err)
	}

	// 8. Persist reserves net of the updated fee accumulators
	balance0, balance1, err = p.tradeableBalances(next)
	if err != nil {
		return fail("reserve_state", err)
	}
	next.reserve0 = balance0
	next.reserve1 = balance1
	p.commit(next, nil, math.ZeroInt())

	p.events.Emit(types.NewEvent(types.EventTypeSwap,
		types.NewAttribute(types.AttributeKeyPair, string(p.address)),
		types.NewAttribute(types.AttributeKeySender, string(caller)),
		types.NewAttribute(types.AttributeKeyRecipient, string(toAddr)),
		types.NewAttribute(types.AttributeKeyAmount0In, amount0In.String()),
		types.NewAttribute(types.AttributeKeyAmount1In, amount1In.String()),
		types.NewAttribute(types.AttributeKeyAmount0Out, amount0Out.String()),
		types.NewAttribute(types.AttributeKeyAmount1Out, amount1Out.String()),
	))
	p.metrics.SwapsTotal.WithLabelValues(string(p.address)).Inc()
	p.logger.Info("swap executed",
		"caller", string(caller), "to", string(toAddr),
		"amount0_in", amount0In.String(), "amount1_in", amount1In.String(),
		"amount0_out", amount0Out.String(), "amount1_out", amount1Out.String())
	return amount0In, amount1In, nil
}

// receivedInput derives the input on one side from its balance movement:
// anything above reserve minus the sent output arrived during the swap.
func receivedInput(balance, reserve, amountOut math.Int) math.Int {
	expected := reserve.Sub(amountOut)
	if balance.GT(expected) {
		return balance.Sub(expected)
	}
	return math.ZeroInt()
}

// settleSwapFees charges the schedule for one input side: the creator
// share is transferred out immediately, the protocol share joins the
// accumulator. A creator share with no resolvable recipient, or whose
// transfer fails, folds into the protocol share instead of being lost.
func (p *Pair) settleSwapFees(token types.Token, amountIn, accumulated math.Int) (math.Int, error) {
	if !amountIn.IsPositive() {
		return accumulated, nil
	}
	split := p.feeEngine.CalculateFees(token, amountIn, p.ponderPair)
	protocol := split.Protocol
	if split.Creator.IsPositive() {
		creator := p.feeEngine.ResolveFeeRecipient(token)
		if creator == types.ZeroAddress {
			protocol = protocol.Add(split.Creator)
		} else if err := token.Transfer(p.address, creator, split.Creator); err != nil {
			p.logger.Warn("creator fee transfer failed, folding into protocol fees",
				"token", string(token.TokenAddress()), "creator", string(creator), "err", err)
			protocol = protocol.Add(split.Creator)
		}
	}
	return types.SafeAdd(accumulated, protocol)
}

// SimulateSwap quotes the output for an exact input against current
// reserves, net of the 0.3% swap fee. It reads state only.
func (p *Pair) SimulateSwap(tokenIn types.Address, amountIn math.Int) (math.Int, error) {
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return math.Int{}, types.ErrInsufficientInputAmount.Wrap("quote requires a positive input")
	}
	reserve0, reserve1, _ := p.Reserves()

	var reserveIn, reserveOut math.Int
	switch tokenIn {
	case p.token0.TokenAddress():
		reserveIn, reserveOut = reserve0, reserve1
	case p.token1.TokenAddress():
		reserveIn, reserveOut = reserve1, reserve0
	default:
		return math.Int{}, types.ErrPairNotFound.Wrapf("token %s is not traded by this pair", tokenIn)
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrap("empty reserves")
	}

	amountInWithFee := amountIn.MulRaw(types.SwapFeeDenominator - types.SwapFeeNumerator)
	numerator, err := types.SafeMul(amountInWithFee, reserveOut)
	if err != nil {
		return math.Int{}, err
	}
	denominator := reserveIn.MulRaw(types.SwapFeeDenominator).Add(amountInWithFee)
	amountOut := numerator.Quo(denominator)
	if !amountOut.IsPositive() {
		return math.Int{}, types.ErrInsufficientOutputAmount.Wrapf("input %s quotes no output", amountIn)
	}
	return amountOut, nil
}

// FeeSplitPreview reports the protocol/creator fee split a swap of
// amountIn of the given token would incur, without moving anything.
func (p *Pair) FeeSplitPreview(tokenIn types.Address, amountIn math.Int) (fee.Split, error) {
	switch tokenIn {
	case p.token0.TokenAddress():
		return p.feeEngine.CalculateFees(p.token0, amountIn, p.ponderPair), nil
	case p.token1.TokenAddress():
		return p.feeEngine.CalculateFees(p.token1, amountIn, p.ponderPair), nil
	default:
		return fee.Split{}, types.ErrPairNotFound.Wrapf("token %s is not traded by this pair", tokenIn)
	}
}
