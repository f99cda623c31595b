package fixedpoint_test

import (
	"math/big"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ponder-dex/ponder/dex/fixedpoint"
	"github.com/ponder-dex/ponder/dex/types"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, 3, 1000, 1 << 40} {
		encoded, err := fixedpoint.Encode(math.NewInt(v))
		require.NoError(t, err)
		require.True(t, encoded.Decode().Equal(math.NewInt(v)), "round trip of %d", v)
	}

	// Largest encodable value round-trips exactly.
	encoded, err := fixedpoint.Encode(types.MaxReserve)
	require.NoError(t, err)
	require.True(t, encoded.Decode().Equal(types.MaxReserve))
}

func TestEncodeDecodeRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.SliceOfN(rapid.Byte(), 1, 14).Draw(t, "raw")
		v := math.NewIntFromBigInt(new(big.Int).SetBytes(raw))

		encoded, err := fixedpoint.Encode(v)
		require.NoError(t, err)
		require.True(t, encoded.Decode().Equal(v))
	})
}

func TestEncodeOverflow(t *testing.T) {
	tooBig := types.MaxReserve.Add(math.OneInt())
	_, err := fixedpoint.Encode(tooBig)
	require.ErrorIs(t, err, types.ErrArithmeticOverflow)

	_, err = fixedpoint.Encode(math.NewInt(-1))
	require.ErrorIs(t, err, types.ErrArithmeticOverflow)
}

func TestDivByZero(t *testing.T) {
	encoded, err := fixedpoint.Encode(math.NewInt(100))
	require.NoError(t, err)

	_, err = encoded.Div(math.ZeroInt())
	require.ErrorIs(t, err, types.ErrDivisionByZero)
}

func TestDivTruncates(t *testing.T) {
	// encode(3)/2 = 1.5 exactly representable; decode floors to 1.
	encoded, err := fixedpoint.Encode(math.NewInt(3))
	require.NoError(t, err)

	half, err := encoded.Div(math.NewInt(2))
	require.NoError(t, err)
	require.True(t, half.Decode().Equal(math.OneInt()))

	// 1.5 * 2 recovers 3 with no precision loss.
	back, err := half.Mul(math.NewInt(2))
	require.NoError(t, err)
	require.True(t, back.Decode().Equal(math.NewInt(3)))
}

func TestMulOverflowDetection(t *testing.T) {
	encoded, err := fixedpoint.Encode(types.MaxReserve)
	require.NoError(t, err)

	// MaxReserve << 112 occupies 224 bits; multiplying by 2^33 pushes the
	// product past 2^256 and must be rejected.
	factor := math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 33))
	_, err = encoded.Mul(factor)
	require.ErrorIs(t, err, types.ErrArithmeticOverflow)

	// Multiplying by zero is always fine.
	product, err := encoded.Mul(math.ZeroInt())
	require.NoError(t, err)
	require.True(t, product.IsZero())
}

func TestFraction(t *testing.T) {
	// 1/3 decoded floors to zero; scaled back up by 3 it is just shy of 1.
	third, err := fixedpoint.Fraction(math.OneInt(), math.NewInt(3))
	require.NoError(t, err)
	require.True(t, third.Decode().IsZero())

	almostOne, err := third.Mul(math.NewInt(3))
	require.NoError(t, err)
	require.True(t, almostOne.Decode().IsZero())

	// 10/2 = 5 exactly.
	five, err := fixedpoint.Fraction(math.NewInt(10), math.NewInt(2))
	require.NoError(t, err)
	require.True(t, five.Decode().Equal(math.NewInt(5)))

	_, err = fixedpoint.Fraction(math.OneInt(), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrDivisionByZero)
}

func TestFractionMatchesEncodeDiv(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := math.NewInt(rapid.Int64Range(0, 1<<50).Draw(t, "n"))
		d := math.NewInt(rapid.Int64Range(1, 1<<50).Draw(t, "d"))

		viaFraction, err := fixedpoint.Fraction(n, d)
		require.NoError(t, err)

		encoded, err := fixedpoint.Encode(n)
		require.NoError(t, err)
		viaDiv, err := encoded.Div(d)
		require.NoError(t, err)

		require.True(t, viaFraction.Raw().Equal(viaDiv.Raw()),
			"fraction %s/%s: %s != %s", n, d, viaFraction, viaDiv)
	})
}

func TestZeroValueBehavesAsZero(t *testing.T) {
	var u fixedpoint.UQ112x112
	require.True(t, u.IsZero())
	require.True(t, u.Decode().IsZero())
	require.Equal(t, "0", u.String())
}
