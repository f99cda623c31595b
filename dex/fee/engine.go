// Package fee computes the protocol/creator split charged on swap inputs.
// The engine is pure: it reports amounts and never moves tokens itself.
package fee

import (
	"cosmossdk.io/math"

	"github.com/ponder-dex/ponder/dex/types"
)

// Engine classifies traded tokens and applies the matching fee schedule.
type Engine struct {
	launcher types.Address
	ponder   types.Address
}

// NewEngine creates a fee engine recognizing launch tokens created by the
// given launcher. ponder is the protocol token address used to tell
// protocol-token pairs from base-asset pairs.
func NewEngine(launcher, ponder types.Address) Engine {
	return Engine{launcher: launcher, ponder: ponder}
}

// Split is the outcome of a fee calculation on one swap input.
type Split struct {
	Protocol math.Int
	Creator  math.Int
}

// CalculateFees returns the protocol and creator shares of amountIn.
// Launch tokens created by the configured launcher use the split schedule;
// every other token, including tokens whose classification call fails, pays
// the standard protocol fee. Integer division truncates toward zero, so
// rounding dust always stays with the protocol, never with the user.
func (e Engine) CalculateFees(token types.Token, amountIn math.Int, ponderPair bool) Split {
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return Split{Protocol: math.ZeroInt(), Creator: math.ZeroInt()}
	}

	if e.isLaunchToken(token) {
		if ponderPair {
			return Split{
				Protocol: bps(amountIn, types.PonderPairProtocolFeeBps),
				Creator:  bps(amountIn, types.PonderPairCreatorFeeBps),
			}
		}
		return Split{
			Protocol: bps(amountIn, types.BasePairProtocolFeeBps),
			Creator:  bps(amountIn, types.BasePairCreatorFeeBps),
		}
	}

	return Split{
		Protocol: bps(amountIn, types.StandardProtocolFeeBps),
		Creator:  math.ZeroInt(),
	}
}

// ResolveFeeRecipient returns the creator entitled to the creator share, or
// ZeroAddress when the token exposes no usable creator. Callers fold an
// unresolvable share into their protocol fee accumulator so it is never
// lost.
func (e Engine) ResolveFeeRecipient(token types.Token) types.Address {
	lt, ok := token.(types.LaunchToken)
	if !ok {
		return types.ZeroAddress
	}
	creator, err := lt.Creator()
	if err != nil {
		return types.ZeroAddress
	}
	return creator
}

// isLaunchToken applies the classification policy: a token qualifies only
// when it exposes the capability, every lookup succeeds, and it names the
// configured launcher. Any failure means the standard schedule.
func (e Engine) isLaunchToken(token types.Token) bool {
	if e.launcher == types.ZeroAddress {
		return false
	}
	lt, ok := token.(types.LaunchToken)
	if !ok {
		return false
	}
	isLaunch, err := lt.IsLaunchToken()
	if err != nil || !isLaunch {
		return false
	}
	launcher, err := lt.Launcher()
	if err != nil || launcher != e.launcher {
		return false
	}
	return true
}

// bps computes amount * n / 10000, truncating.
func bps(amount math.Int, n int64) math.Int {
	return amount.MulRaw(n).QuoRaw(types.FeeDenominator)
}
