// Package factory creates and indexes trading pairs and owns the protocol
// fee configuration every pair consults.
package factory

import (
	"context"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"github.com/ponder-dex/ponder/dex/fee"
	"github.com/ponder-dex/ponder/dex/pair"
	"github.com/ponder-dex/ponder/dex/types"
)

// Config carries the factory's collaborators and initial parameters.
type Config struct {
	Params  types.Params
	Logger  log.Logger
	Events  *types.EventManager
	Metrics *pair.Metrics
	Now     func() time.Time
}

// Factory registers one pair per unordered token combination and hands
// each pair a live view of the fee parameters.
type Factory struct {
	logger     log.Logger
	pairLogger log.Logger
	events     *types.EventManager
	metrics    *pair.Metrics
	now        func() time.Time

	mu       sync.RWMutex
	params   types.Params
	pairs    map[types.Address]*pair.Pair
	byTokens map[[2]types.Address]types.Address
}

// New validates the parameters and creates an empty factory.
func New(cfg Config) (*Factory, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
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
		metrics = pair.SharedMetrics()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Factory{
		logger:     logger.With("module", types.ModuleName, "component", "factory"),
		pairLogger: logger,
		events:     events,
		metrics:    metrics,
		now:        now,
		params:     cfg.Params,
		pairs:      make(map[types.Address]*pair.Pair),
		byTokens:   make(map[[2]types.Address]types.Address),
	}, nil
}

// CreatePair deploys the market for an unordered token combination. The
// same two tokens always resolve to the same pair address, and a second
// creation attempt fails.
func (f *Factory) CreatePair(ctx context.Context, tokenA, tokenB types.Token) (*pair.Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tokenA == nil || tokenB == nil ||
		tokenA.TokenAddress() == types.ZeroAddress || tokenB.TokenAddress() == types.ZeroAddress {
		return nil, types.ErrZeroAddress.Wrap("pair token")
	}
	if tokenA.TokenAddress() == tokenB.TokenAddress() {
		return nil, types.ErrIdenticalAddresses.Wrapf("token %s on both sides", tokenA.TokenAddress())
	}

	token0, token1 := types.SortTokens(tokenA, tokenB)
	key := [2]types.Address{token0.TokenAddress(), token1.TokenAddress()}
	addr := types.DerivePairAddress(token0.TokenAddress(), token1.TokenAddress())

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byTokens[key]; exists {
		return nil, types.ErrPairExists.Wrapf("pair %s/%s", key[0], key[1])
	}

	ponderPair := f.params.PonderToken != types.ZeroAddress &&
		(token0.TokenAddress() == f.params.PonderToken || token1.TokenAddress() == f.params.PonderToken)

	p := pair.New(pair.Config{
		Address:    addr,
		Token0:     token0,
		Token1:     token1,
		PonderPair: ponderPair,
		FeeEngine:  fee.NewEngine(f.params.Launcher, f.params.PonderToken),
		FeeTo:      f.FeeTo,
		Logger:     f.pairLogger,
		Events:     f.events,
		Metrics:    f.metrics,
		Now:        f.now,
	})
	f.pairs[addr] = p
	f.byTokens[key] = addr

	f.events.Emit(types.NewEvent(types.EventTypePairCreated,
		types.NewAttribute(types.AttributeKeyPair, string(addr)),
		types.NewAttribute(types.AttributeKeyToken0, string(key[0])),
		types.NewAttribute(types.AttributeKeyToken1, string(key[1])),
	))
	f.logger.Info("pair created", "pair", string(addr),
		"token0", string(key[0]), "token1", string(key[1]), "ponder_pair", ponderPair)
	return p, nil
}

// Pair returns the pair registered at the given address.
func (f *Factory) Pair(address types.Address) (*pair.Pair, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.pairs[address]
	if !ok {
		return nil, types.ErrPairNotFound.Wrapf("address %s", address)
	}
	return p, nil
}

// PairByTokens resolves the pair trading an unordered token combination.
func (f *Factory) PairByTokens(tokenA, tokenB types.Address) (*pair.Pair, error) {
	if tokenA > tokenB {
		tokenA, tokenB = tokenB, tokenA
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	addr, ok := f.byTokens[[2]types.Address{tokenA, tokenB}]
	if !ok {
		return nil, types.ErrPairNotFound.Wrapf("tokens %s/%s", tokenA, tokenB)
	}
	return f.pairs[addr], nil
}

// Pairs returns every registered pair.
func (f *Factory) Pairs() []*pair.Pair {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*pair.Pair, 0, len(f.pairs))
	for _, p := range f.pairs {
		out = append(out, p)
	}
	return out
}

// PairCount returns the number of registered pairs.
func (f *Factory) PairCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.pairs)
}

// Params returns a copy of the current parameters.
func (f *Factory) Params() types.Params {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params
}

// FeeTo returns the current protocol fee recipient. Pairs call this on
// every liquidity event, so parameter changes apply immediately.
func (f *Factory) FeeTo() types.Address {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params.FeeTo
}

// SetFeeTo updates the protocol fee recipient. Only the configured setter
// may call it; a zero address turns the fee switch off.
func (f *Factory) SetFeeTo(caller, feeTo types.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if caller != f.params.FeeToSetter {
		return types.ErrUnauthorized.Wrapf("caller %s is not the fee setter", caller)
	}
	f.params.FeeTo = feeTo
	f.logger.Info("fee recipient updated", "fee_to", string(feeTo))
	return nil
}

// SetFeeToSetter hands fee governance to a new address.
func (f *Factory) SetFeeToSetter(caller, setter types.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if caller != f.params.FeeToSetter {
		return types.ErrUnauthorized.Wrapf("caller %s is not the fee setter", caller)
	}
	if setter == types.ZeroAddress {
		return types.ErrZeroAddress.Wrap("fee setter")
	}
	f.params.FeeToSetter = setter
	f.logger.Info("fee setter updated", "fee_to_setter", string(setter))
	return nil
}

// CollectFees withdraws a pair's accumulated protocol fees to the current
// fee recipient. Gated on the fee setter.
func (f *Factory) CollectFees(ctx context.Context, caller, pairAddress types.Address) (math.Int, math.Int, error) {
	f.mu.RLock()
	setter := f.params.FeeToSetter
	feeTo := f.params.FeeTo
	p, ok := f.pairs[pairAddress]
	f.mu.RUnlock()

	if caller != setter {
		return math.Int{}, math.Int{}, types.ErrUnauthorized.Wrapf("caller %s is not the fee setter", caller)
	}
	if !ok {
		return math.Int{}, math.Int{}, types.ErrPairNotFound.Wrapf("address %s", pairAddress)
	}
	if feeTo == types.ZeroAddress {
		return math.Int{}, math.Int{}, types.ErrZeroAddress.Wrap("fee recipient not configured")
	}
	return p.CollectFees(ctx, feeTo)
}
