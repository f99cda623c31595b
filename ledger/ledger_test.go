package ledger_test

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/ponder-dex/ponder/dex/types"
	"github.com/ponder-dex/ponder/ledger"
)

func TestTransfer(t *testing.T) {
	token := ledger.NewToken("pondertest1kub", "KUB")
	token.Mint("alice", math.NewInt(100))

	require.NoError(t, token.Transfer("alice", "bob", math.NewInt(60)))
	require.True(t, token.BalanceOf("alice").Equal(math.NewInt(40)))
	require.True(t, token.BalanceOf("bob").Equal(math.NewInt(60)))

	// Zero-amount transfers are a no-op.
	require.NoError(t, token.Transfer("alice", "bob", math.ZeroInt()))
	require.True(t, token.BalanceOf("alice").Equal(math.NewInt(40)))
}

func TestTransferFailures(t *testing.T) {
	token := ledger.NewToken("pondertest1kub", "KUB")
	token.Mint("alice", math.NewInt(10))

	err := token.Transfer("alice", "bob", math.NewInt(11))
	require.ErrorIs(t, err, types.ErrTransferFailed)

	err = token.Transfer("nobody", "bob", math.OneInt())
	require.ErrorIs(t, err, types.ErrTransferFailed)

	err = token.Transfer("alice", types.ZeroAddress, math.OneInt())
	require.ErrorIs(t, err, types.ErrTransferFailed)

	err = token.Transfer("alice", "bob", math.NewInt(-5))
	require.ErrorIs(t, err, types.ErrTransferFailed)

	// Failed transfers leave balances untouched.
	require.True(t, token.BalanceOf("alice").Equal(math.NewInt(10)))
	require.True(t, token.BalanceOf("bob").IsZero())
}

func TestLaunchTokenCapability(t *testing.T) {
	lt := ledger.NewLaunchToken("pondertest1meme", "MEME", "pondertest1launcher", "pondertest1creator")

	// The capability is visible through the plain token interface.
	var token types.Token = lt
	capability, ok := token.(types.LaunchToken)
	require.True(t, ok)

	isLaunch, err := capability.IsLaunchToken()
	require.NoError(t, err)
	require.True(t, isLaunch)

	creator, err := capability.Creator()
	require.NoError(t, err)
	require.Equal(t, types.Address("pondertest1creator"), creator)

	// Fault injection: every lookup fails until reset.
	boom := errors.New("execution reverted")
	lt.FailClassification(boom)

	_, err = capability.IsLaunchToken()
	require.ErrorIs(t, err, boom)
	_, err = capability.Launcher()
	require.ErrorIs(t, err, boom)

	lt.FailClassification(nil)
	isLaunch, err = capability.IsLaunchToken()
	require.NoError(t, err)
	require.True(t, isLaunch)
}

func TestLedgerRegistry(t *testing.T) {
	reg := ledger.NewLedger()
	kub := ledger.NewToken("pondertest1kub", "KUB")

	require.NoError(t, reg.Register(kub))
	require.ErrorIs(t, reg.Register(kub), types.ErrTokenExists)

	got, ok := reg.Token("pondertest1kub")
	require.True(t, ok)
	require.Equal(t, kub.TokenAddress(), got.TokenAddress())

	_, ok = reg.Token("pondertest1unknown")
	require.False(t, ok)

	require.Len(t, reg.Addresses(), 1)
}
