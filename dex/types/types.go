package types

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"

	"cosmossdk.io/math"
)

// ModuleName is the codespace for all dex errors and the metric namespace.
const ModuleName = "dex"

// Address identifies an account, token or pair. The zero value is the
// canonical "no address".
type Address string

// ZeroAddress is returned by lookups that resolve to nothing.
const ZeroAddress Address = ""

// BurnAddress holds permanently locked liquidity tokens. Nothing can
// transfer out of it.
const BurnAddress Address = "ponder0dead"

// MinimumLiquidity is the amount of liquidity tokens permanently locked on
// the first mint of every pair. It deters a single LP from capturing all
// rounding dust.
var MinimumLiquidity = math.NewInt(1000)

// MaxReserve is the largest value a single reserve may hold: 2^112 - 1.
// Balances above this cannot be persisted as reserves.
var MaxReserve = math.NewIntFromBigInt(
	new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 112), big.NewInt(1)),
)

// Fee schedule in basis points over FeeDenominator. Launch tokens created
// through the companion launcher trade on a split schedule; everything else
// pays the standard protocol fee.
const (
	FeeDenominator = 10000

	// Launch token paired against PONDER.
	PonderPairProtocolFeeBps = 1
	PonderPairCreatorFeeBps  = 4

	// Launch token paired against the base asset.
	BasePairProtocolFeeBps = 4
	BasePairCreatorFeeBps  = 1

	// Any other token.
	StandardProtocolFeeBps = 5

	// Aggregate swap fee retained by the pool, used by the constant-product
	// check: balance*1000 - amountIn*3.
	SwapFeeNumerator   = 3
	SwapFeeDenominator = 1000
)

// DerivePairAddress deterministically derives the address a pair is known
// by from its canonically ordered tokens. The same token pair always maps
// to the same address.
func DerivePairAddress(token0, token1 Address) Address {
	h := sha256.New()
	h.Write([]byte("ponder/pair"))
	h.Write([]byte{0})
	h.Write([]byte(token0))
	h.Write([]byte{0})
	h.Write([]byte(token1))
	return Address("ponderpair1" + hex.EncodeToString(h.Sum(nil))[:40])
}

// SortTokens returns the pair's tokens in canonical order, lowest address
// first.
func SortTokens(a, b Token) (Token, Token) {
	if a.TokenAddress() < b.TokenAddress() {
		return a, b
	}
	return b, a
}
