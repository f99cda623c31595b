// Package fixedpoint implements the UQ112x112 binary fixed-point format
// used for price accumulation: 112 integer bits and 112 fractional bits
// stored in a single 224-bit word.
package fixedpoint

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/ponder-dex/ponder/dex/types"
)

// Q112 is the scaling factor 2^112.
var Q112 = math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 112))

var maxUint256 = new(big.Int).Lsh(big.NewInt(1), 256)

// UQ112x112 is a non-negative fixed-point value. The zero value decodes
// to zero.
type UQ112x112 struct {
	raw math.Int
}

// Zero returns the fixed-point zero.
func Zero() UQ112x112 {
	return UQ112x112{raw: math.ZeroInt()}
}

// FromRaw wraps an already-scaled word, e.g. a persisted accumulator.
func FromRaw(raw math.Int) UQ112x112 {
	return UQ112x112{raw: raw}
}

// Encode converts an integer into fixed point. Values above 2^112-1 do not
// fit the integer bits and fail with ErrArithmeticOverflow.
func Encode(x math.Int) (UQ112x112, error) {
	if x.IsNegative() || x.GT(types.MaxReserve) {
		return UQ112x112{}, types.ErrArithmeticOverflow.Wrapf("encode: %s does not fit 112 bits", x)
	}
	return UQ112x112{raw: x.Mul(Q112)}, nil
}

// Fraction constructs numerator/denominator directly in fixed point.
func Fraction(numerator, denominator math.Int) (UQ112x112, error) {
	if denominator.IsZero() {
		return UQ112x112{}, types.ErrDivisionByZero.Wrap("fraction denominator")
	}
	if numerator.IsNegative() || denominator.IsNegative() {
		return UQ112x112{}, types.ErrArithmeticOverflow.Wrap("fraction operands must be non-negative")
	}
	scaled := new(big.Int).Lsh(numerator.BigInt(), 112)
	result := scaled.Quo(scaled, denominator.BigInt())
	if result.Cmp(maxUint256) >= 0 {
		return UQ112x112{}, types.ErrArithmeticOverflow.Wrapf("fraction: %s/%s", numerator, denominator)
	}
	return UQ112x112{raw: math.NewIntFromBigInt(result)}, nil
}

// Div divides the fixed-point value by an integer.
func (u UQ112x112) Div(y math.Int) (UQ112x112, error) {
	if y.IsZero() {
		return UQ112x112{}, types.ErrDivisionByZero.Wrap("uqdiv divisor")
	}
	if y.IsNegative() {
		return UQ112x112{}, types.ErrArithmeticOverflow.Wrapf("uqdiv: negative divisor %s", y)
	}
	return UQ112x112{raw: u.Raw().Quo(y)}, nil
}

// Mul multiplies the fixed-point value by an integer. Overflow is detected
// by checking that dividing the truncated product by the operand recovers
// the original value.
func (u UQ112x112) Mul(y math.Int) (UQ112x112, error) {
	if y.IsNegative() {
		return UQ112x112{}, types.ErrArithmeticOverflow.Wrapf("uqmul: negative operand %s", y)
	}
	if y.IsZero() || u.Raw().IsZero() {
		return Zero(), nil
	}
	product := new(big.Int).Mul(u.Raw().BigInt(), y.BigInt())
	truncated := new(big.Int).Mod(product, maxUint256)
	recovered := new(big.Int).Quo(truncated, y.BigInt())
	if recovered.Cmp(u.Raw().BigInt()) != 0 {
		return UQ112x112{}, types.ErrArithmeticOverflow.Wrapf("uqmul: %s * %s", u.Raw(), y)
	}
	return UQ112x112{raw: math.NewIntFromBigInt(truncated)}, nil
}

// Decode truncates the fractional bits and returns the integer part.
func (u UQ112x112) Decode() math.Int {
	return math.NewIntFromBigInt(new(big.Int).Rsh(u.Raw().BigInt(), 112))
}

// Raw returns the underlying scaled word. A nil-safe accessor so the zero
// value of UQ112x112 behaves as zero.
func (u UQ112x112) Raw() math.Int {
	if u.raw.IsNil() {
		return math.ZeroInt()
	}
	return u.raw
}

// IsZero reports whether the value is exactly zero.
func (u UQ112x112) IsZero() bool {
	return u.Raw().IsZero()
}

func (u UQ112x112) String() string {
	return u.Raw().String()
}
