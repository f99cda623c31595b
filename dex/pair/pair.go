// Package pair implements the constant-product trading pair: liquidity
// provision, swaps with flash-swap callbacks, fee accrual, balance
// reconciliation and the cumulative price oracle. Every state-mutating
// operation runs under a per-pair reentrancy guard and commits its state
// once, at the end, so a failed operation leaves no partial writes behind.
package pair

import (
	"context"
	"math/big"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"github.com/ponder-dex/ponder/dex/fee"
	"github.com/ponder-dex/ponder/dex/oracle"
	"github.com/ponder-dex/ponder/dex/types"
)

// Config carries the collaborators a pair needs. Token0 and Token1 must
// already be in canonical order; the factory guarantees this.
type Config struct {
	Address types.Address
	Token0  types.Token
	Token1  types.Token

	// PonderPair marks pairs trading against the protocol token, which
	// selects the launch-token fee schedule variant.
	PonderPair bool

	FeeEngine fee.Engine

	// FeeTo resolves the current protocol fee recipient. A ZeroAddress
	// result disables the fee-on-liquidity mint.
	FeeTo func() types.Address

	Logger  log.Logger
	Events  *types.EventManager
	Metrics *Metrics

	// Now supplies block-style timestamps for the price oracle. Defaults
	// to time.Now.
	Now func() time.Time
}

// Pair is a single two-token constant-product market.
type Pair struct {
	address    types.Address
	token0     types.Token
	token1     types.Token
	ponderPair bool
	feeEngine  fee.Engine
	feeTo      func() types.Address
	logger     log.Logger
	events     *types.EventManager
	metrics    *Metrics
	now        func() time.Time

	guard reentrancyGuard

	// mu protects everything below. It is held only for snapshot and
	// commit sections, never across token or callback calls.
	mu              sync.RWMutex
	reserve0        math.Int
	reserve1        math.Int
	kLast           math.Int
	accumulatedFee0 math.Int
	accumulatedFee1 math.Int
	totalSupply     math.Int
	lpBalances      map[types.Address]math.Int
	accumulator     *oracle.Accumulator
}

// New creates an empty pair. Reserves, fees and liquidity supply all start
// at zero; the first Mint initializes the market.
func New(cfg Config) *Pair {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	events := cfg.Events
	if events == nil {
		events = types.NewEventManager()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = SharedMetrics()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	feeTo := cfg.FeeTo
	if feeTo == nil {
		feeTo = func() types.Address { return types.ZeroAddress }
	}
	return &Pair{
		address:         cfg.Address,
		token0:          cfg.Token0,
		token1:          cfg.Token1,
		ponderPair:      cfg.PonderPair,
		feeEngine:       cfg.FeeEngine,
		feeTo:           feeTo,
		logger:          logger.With("module", types.ModuleName, "pair", string(cfg.Address)),
		events:          events,
		metrics:         metrics,
		now:             now,
		reserve0:        math.ZeroInt(),
		reserve1:        math.ZeroInt(),
		kLast:           math.ZeroInt(),
		accumulatedFee0: math.ZeroInt(),
		accumulatedFee1: math.ZeroInt(),
		totalSupply:     math.ZeroInt(),
		lpBalances:      make(map[types.Address]math.Int),
		accumulator:     oracle.NewAccumulator(),
	}
}

// Address returns the pair's own account, where deposited tokens and
// pending liquidity tokens are held.
func (p *Pair) Address() types.Address { return p.address }

// Token0 returns the canonically first token.
func (p *Pair) Token0() types.Token { return p.token0 }

// Token1 returns the canonically second token.
func (p *Pair) Token1() types.Token { return p.token1 }

// Reserves returns the last persisted reserves and the oracle timestamp of
// the most recent reserve write.
func (p *Pair) Reserves() (reserve0, reserve1 math.Int, blockTimestampLast uint32) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.reserve0, p.reserve1, p.accumulator.TimestampLast()
}

// Observation returns the current cumulative price counters for TWAP
// consumers.
func (p *Pair) Observation() oracle.Observation {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.accumulator.Observe()
}

// CumulativePrices returns the raw accumulator words.
func (p *Pair) CumulativePrices() (price0Cumulative, price1Cumulative math.Int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.accumulator.Price0Cumulative(), p.accumulator.Price1Cumulative()
}

// AccumulatedFees returns protocol fees collected on swaps and not yet
// withdrawn.
func (p *Pair) AccumulatedFees() (fee0, fee1 math.Int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.accumulatedFee0, p.accumulatedFee1
}

// TotalSupply returns the outstanding liquidity token supply.
func (p *Pair) TotalSupply() math.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totalSupply
}

// BalanceOf returns the holder's liquidity token balance.
func (p *Pair) BalanceOf(holder types.Address) math.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if bal, ok := p.lpBalances[holder]; ok {
		return bal
	}
	return math.ZeroInt()
}

// KLast returns the reserve product recorded at the last liquidity event
// while the protocol fee switch was on. Zero means the switch was off.
func (p *Pair) KLast() math.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.kLast
}

// Transfer moves liquidity tokens between holders. Sending to the pair's
// own address stages them for Burn. The burn-address stake is locked
// forever.
func (p *Pair) Transfer(from, to types.Address, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrTransferFailed.Wrap("invalid liquidity amount")
	}
	if from == types.BurnAddress {
		return types.ErrTransferFailed.Wrap("locked liquidity cannot move")
	}
	if to == types.ZeroAddress {
		return types.ErrZeroAddress.Wrap("liquidity transfer recipient")
	}
	if amount.IsZero() {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	bal, ok := p.lpBalances[from]
	if !ok || bal.LT(amount) {
		return types.ErrTransferFailed.Wrapf("liquidity balance %s below %s", bal, amount)
	}
	p.lpBalances[from] = bal.Sub(amount)
	cur, ok := p.lpBalances[to]
	if !ok {
		cur = math.ZeroInt()
	}
	p.lpBalances[to] = cur.Add(amount)
	return nil
}

// snapshot is a consistent copy of the mutable pair state. Operations
// compute against a snapshot and commit the result in one critical
// section.
type snapshot struct {
	reserve0        math.Int
	reserve1        math.Int
	kLast           math.Int
	accumulatedFee0 math.Int
	accumulatedFee1 math.Int
	totalSupply     math.Int
	pairLiquidity   math.Int
}

func (p *Pair) snapshot() snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pairLiq, ok := p.lpBalances[p.address]
	if !ok {
		pairLiq = math.ZeroInt()
	}
	return snapshot{
		reserve0:        p.reserve0,
		reserve1:        p.reserve1,
		kLast:           p.kLast,
		accumulatedFee0: p.accumulatedFee0,
		accumulatedFee1: p.accumulatedFee1,
		totalSupply:     p.totalSupply,
		pairLiquidity:   pairLiq,
	}
}

// lpMint is a pending liquidity issuance applied at commit time.
type lpMint struct {
	to     types.Address
	amount math.Int
}

// commit persists an operation's outcome: the price accumulator advances
// over the pre-operation reserves, then reserves, fee accumulators, kLast
// and liquidity balances are written together. lpBurned is taken from the
// pair's own staged balance.
func (p *Pair) commit(next snapshot, mints []lpMint, lpBurned math.Int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	advanced, err := p.accumulator.Update(p.reserve0, p.reserve1, p.blockTimestamp())
	if err != nil {
		// Accumulator arithmetic wraps rather than fails; an error here
		// means corrupted reserves and is worth a loud log.
		p.logger.Error("price accumulator update failed", "err", err)
	}
	if advanced {
		p.metrics.OracleUpdatesTotal.WithLabelValues(string(p.address)).Inc()
	}

	p.reserve0 = next.reserve0
	p.reserve1 = next.reserve1
	p.kLast = next.kLast
	p.accumulatedFee0 = next.accumulatedFee0
	p.accumulatedFee1 = next.accumulatedFee1
	p.totalSupply = next.totalSupply

	for _, m := range mints {
		cur, ok := p.lpBalances[m.to]
		if !ok {
			cur = math.ZeroInt()
		}
		p.lpBalances[m.to] = cur.Add(m.amount)
	}
	if !lpBurned.IsNil() && lpBurned.IsPositive() {
		staged, ok := p.lpBalances[p.address]
		if !ok {
			staged = math.ZeroInt()
		}
		p.lpBalances[p.address] = staged.Sub(lpBurned)
	}

	p.metrics.ReserveGauge.WithLabelValues(string(p.address), "0").Set(intToFloat(p.reserve0))
	p.metrics.ReserveGauge.WithLabelValues(string(p.address), "1").Set(intToFloat(p.reserve1))
	p.metrics.LPSupplyGauge.WithLabelValues(string(p.address)).Set(intToFloat(p.totalSupply))
	p.metrics.AccumulatedFeeGauge.WithLabelValues(string(p.address), "0").Set(intToFloat(p.accumulatedFee0))
	p.metrics.AccumulatedFeeGauge.WithLabelValues(string(p.address), "1").Set(intToFloat(p.accumulatedFee1))
}

// blockTimestamp is the oracle clock, truncated to 32 bits. Wraparound in
// 2106 is handled by the accumulator's modular arithmetic.
func (p *Pair) blockTimestamp() uint32 {
	return uint32(p.now().Unix())
}

// tradeableBalances returns the token balances backing the market: raw
// pair-account balances minus fees already earmarked for the protocol.
func (p *Pair) tradeableBalances(s snapshot) (math.Int, math.Int, error) {
	balance0, err := types.SafeSub(p.token0.BalanceOf(p.address), s.accumulatedFee0)
	if err != nil {
		return math.Int{}, math.Int{}, types.ErrInvalidReserveState.Wrap("token0 balance below accumulated fees")
	}
	balance1, err := types.SafeSub(p.token1.BalanceOf(p.address), s.accumulatedFee1)
	if err != nil {
		return math.Int{}, math.Int{}, types.ErrInvalidReserveState.Wrap("token1 balance below accumulated fees")
	}
	return balance0, balance1, nil
}

func intToFloat(v math.Int) float64 {
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}

// acquire wraps the reentrancy guard with metrics and context checks.
func (p *Pair) acquire(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.guard.acquire(operation); err != nil {
		p.metrics.ReentrancyRejections.WithLabelValues(string(p.address), operation).Inc()
		p.logger.Warn("reentrant call rejected", "operation", operation)
		return err
	}
	return nil
}
