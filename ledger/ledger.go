// Package ledger provides in-memory tokens implementing the dex token
// contract. It stands in for the external token contracts the engine
// consumes in production and backs the daemon's demo fixtures and tests.
package ledger

import (
	"sync"

	"cosmossdk.io/math"

	"github.com/ponder-dex/ponder/dex/types"
)

// Token is a plain fungible token. Safe for concurrent use.
type Token struct {
	mu       sync.RWMutex
	address  types.Address
	symbol   string
	balances map[types.Address]math.Int
}

// NewToken creates an empty token identified by address.
func NewToken(address types.Address, symbol string) *Token {
	return &Token{
		address:  address,
		symbol:   symbol,
		balances: make(map[types.Address]math.Int),
	}
}

// TokenAddress implements types.Token.
func (t *Token) TokenAddress() types.Address { return t.address }

// Symbol returns the display symbol.
func (t *Token) Symbol() string { return t.symbol }

// BalanceOf implements types.Token.
func (t *Token) BalanceOf(holder types.Address) math.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if balance, ok := t.balances[holder]; ok {
		return balance
	}
	return math.ZeroInt()
}

// Transfer implements types.Token. It fails on invalid amounts and
// insufficient source balance; the zero amount is a no-op.
func (t *Token) Transfer(from, to types.Address, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrTransferFailed.Wrapf("%s: invalid amount", t.symbol)
	}
	if amount.IsZero() {
		return nil
	}
	if to == types.ZeroAddress {
		return types.ErrTransferFailed.Wrapf("%s: transfer to zero address", t.symbol)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	source, ok := t.balances[from]
	if !ok || source.LT(amount) {
		return types.ErrTransferFailed.Wrapf(
			"%s: %s has %s, needs %s", t.symbol, from, source, amount)
	}
	t.balances[from] = source.Sub(amount)
	t.balances[to] = t.balanceLocked(to).Add(amount)
	return nil
}

// Mint credits freshly issued tokens to a holder. Fixture/test surface; the
// pair engine only ever calls Transfer and BalanceOf.
func (t *Token) Mint(to types.Address, amount math.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances[to] = t.balanceLocked(to).Add(amount)
}

func (t *Token) balanceLocked(holder types.Address) math.Int {
	if balance, ok := t.balances[holder]; ok {
		return balance
	}
	return math.ZeroInt()
}

// LaunchToken is a token issued by the launch platform. It exposes the
// optional classification capability, with a fault-injection switch so
// callers' "treat failure as standard token" policy can be exercised.
type LaunchToken struct {
	*Token

	mu                sync.RWMutex
	launcher          types.Address
	creator           types.Address
	classificationErr error
}

// NewLaunchToken creates a launch token attributed to launcher/creator.
func NewLaunchToken(address types.Address, symbol string, launcher, creator types.Address) *LaunchToken {
	return &LaunchToken{
		Token:    NewToken(address, symbol),
		launcher: launcher,
		creator:  creator,
	}
}

// IsLaunchToken implements types.LaunchToken.
func (t *LaunchToken) IsLaunchToken() (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.classificationErr != nil {
		return false, t.classificationErr
	}
	return true, nil
}

// Launcher implements types.LaunchToken.
func (t *LaunchToken) Launcher() (types.Address, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.classificationErr != nil {
		return types.ZeroAddress, t.classificationErr
	}
	return t.launcher, nil
}

// Creator implements types.LaunchToken.
func (t *LaunchToken) Creator() (types.Address, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.classificationErr != nil {
		return types.ZeroAddress, t.classificationErr
	}
	return t.creator, nil
}

// SetCreator changes the creator-fee recipient.
func (t *LaunchToken) SetCreator(creator types.Address) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.creator = creator
}

// FailClassification makes every capability call return err until reset
// with nil.
func (t *LaunchToken) FailClassification(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.classificationErr = err
}

// Ledger is a registry of tokens by address.
type Ledger struct {
	mu     sync.RWMutex
	tokens map[types.Address]types.Token
}

// NewLedger creates an empty registry.
func NewLedger() *Ledger {
	return &Ledger{tokens: make(map[types.Address]types.Token)}
}

// Register adds a token. Registering the same address twice fails.
func (l *Ledger) Register(token types.Token) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	addr := token.TokenAddress()
	if addr == types.ZeroAddress {
		return types.ErrZeroAddress.Wrap("token address")
	}
	if _, exists := l.tokens[addr]; exists {
		return types.ErrTokenExists.Wrapf("token %s", addr)
	}
	l.tokens[addr] = token
	return nil
}

// Token resolves a token by address.
func (l *Ledger) Token(address types.Address) (types.Token, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	token, ok := l.tokens[address]
	return token, ok
}

// Addresses lists all registered token addresses.
func (l *Ledger) Addresses() []types.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]types.Address, 0, len(l.tokens))
	for addr := range l.tokens {
		out = append(out, addr)
	}
	return out
}
