package types

import (
	"math/big"

	"cosmossdk.io/math"
)

// Overflow-safe arithmetic over math.Int. All results are bounded to 2^256;
// reserve-width (2^112) bounds are enforced separately by the invariant
// checker.

var maxUint256 = new(big.Int).Lsh(big.NewInt(1), 256)

// SafeAdd adds two values, failing instead of exceeding 2^256.
func SafeAdd(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Add(a.BigInt(), b.BigInt())
	if result.Cmp(maxUint256) >= 0 {
		return math.Int{}, ErrArithmeticOverflow.Wrapf("add: %s + %s", a, b)
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeSub subtracts b from a, failing on underflow below zero.
func SafeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, ErrArithmeticOverflow.Wrapf("sub: %s - %s underflows", a, b)
	}
	return a.Sub(b), nil
}

// SafeMul multiplies two values, failing instead of exceeding 2^256.
func SafeMul(a, b math.Int) (math.Int, error) {
	if a.IsZero() || b.IsZero() {
		return math.ZeroInt(), nil
	}
	result := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if result.Cmp(maxUint256) >= 0 {
		return math.Int{}, ErrArithmeticOverflow.Wrapf("mul: %s * %s", a, b)
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeMulDiv computes (a * b) / c with the product held at full width.
func SafeMulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, ErrDivisionByZero.Wrap("muldiv denominator")
	}
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	result := product.Quo(product, c.BigInt())
	if result.Cmp(maxUint256) >= 0 {
		return math.Int{}, ErrArithmeticOverflow.Wrapf("muldiv: %s * %s / %s", a, b, c)
	}
	return math.NewIntFromBigInt(result), nil
}

// WrapUint256 reduces a value modulo 2^256. Price accumulators wrap rather
// than fail, so the TWAP delta stays correct across overflow.
func WrapUint256(v *big.Int) math.Int {
	if v.Sign() >= 0 && v.Cmp(maxUint256) < 0 {
		return math.NewIntFromBigInt(v)
	}
	return math.NewIntFromBigInt(new(big.Int).Mod(v, maxUint256))
}

// IntSqrt returns the integer square root (floor) of a non-negative value.
func IntSqrt(v math.Int) (math.Int, error) {
	if v.IsNegative() {
		return math.Int{}, ErrArithmeticOverflow.Wrapf("sqrt of negative %s", v)
	}
	return math.NewIntFromBigInt(new(big.Int).Sqrt(v.BigInt())), nil
}

// MinInt returns the smaller of two values.
func MinInt(a, b math.Int) math.Int {
	if a.LT(b) {
		return a
	}
	return b
}
