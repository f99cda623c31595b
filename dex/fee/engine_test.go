package fee_test

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/ponder-dex/ponder/dex/fee"
	"github.com/ponder-dex/ponder/dex/types"
)

const (
	launcherAddr = types.Address("pondertest1launcher")
	ponderAddr   = types.Address("pondertest1ponder")
	creatorAddr  = types.Address("pondertest1creator")
)

// stubToken implements only the base Token interface.
type stubToken struct {
	addr types.Address
}

func (s stubToken) TokenAddress() types.Address              { return s.addr }
func (s stubToken) BalanceOf(types.Address) math.Int         { return math.ZeroInt() }
func (s stubToken) Transfer(_, _ types.Address, _ math.Int) error { return nil }

// stubLaunchToken adds the classification capability with injectable
// failures.
type stubLaunchToken struct {
	stubToken
	launcher types.Address
	creator  types.Address
	isLaunch bool
	fail     bool
}

func (s stubLaunchToken) IsLaunchToken() (bool, error) {
	if s.fail {
		return false, errors.New("no such method")
	}
	return s.isLaunch, nil
}

func (s stubLaunchToken) Launcher() (types.Address, error) {
	if s.fail {
		return types.ZeroAddress, errors.New("no such method")
	}
	return s.launcher, nil
}

func (s stubLaunchToken) Creator() (types.Address, error) {
	if s.fail {
		return types.ZeroAddress, errors.New("no such method")
	}
	return s.creator, nil
}

func launchToken() stubLaunchToken {
	return stubLaunchToken{
		stubToken: stubToken{addr: "pondertest1memecoin"},
		launcher:  launcherAddr,
		creator:   creatorAddr,
		isLaunch:  true,
	}
}

func TestCalculateFeesSchedules(t *testing.T) {
	engine := fee.NewEngine(launcherAddr, ponderAddr)
	amountIn := math.NewInt(1_000_000)

	tests := []struct {
		name         string
		token        types.Token
		ponderPair   bool
		wantProtocol int64
		wantCreator  int64
	}{
		{"launch token vs ponder", launchToken(), true, 100, 400},
		{"launch token vs base asset", launchToken(), false, 400, 100},
		{"standard token", stubToken{addr: "pondertest1usdc"}, false, 500, 0},
		{"standard token vs ponder", stubToken{addr: "pondertest1usdc"}, true, 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := engine.CalculateFees(tt.token, amountIn, tt.ponderPair)
			require.True(t, split.Protocol.Equal(math.NewInt(tt.wantProtocol)),
				"protocol fee: want %d, got %s", tt.wantProtocol, split.Protocol)
			require.True(t, split.Creator.Equal(math.NewInt(tt.wantCreator)),
				"creator fee: want %d, got %s", tt.wantCreator, split.Creator)
		})
	}
}

func TestCalculateFeesZeroAmount(t *testing.T) {
	engine := fee.NewEngine(launcherAddr, ponderAddr)

	split := engine.CalculateFees(launchToken(), math.ZeroInt(), true)
	require.True(t, split.Protocol.IsZero())
	require.True(t, split.Creator.IsZero())
}

func TestCalculateFeesClassificationFailureFallsBack(t *testing.T) {
	engine := fee.NewEngine(launcherAddr, ponderAddr)
	amountIn := math.NewInt(10_000)

	// Capability present but every call fails: standard schedule.
	broken := launchToken()
	broken.fail = true
	split := engine.CalculateFees(broken, amountIn, true)
	require.True(t, split.Protocol.Equal(math.NewInt(5)))
	require.True(t, split.Creator.IsZero())

	// Capability reports a different launcher: standard schedule.
	foreign := launchToken()
	foreign.launcher = "pondertest1other"
	split = engine.CalculateFees(foreign, amountIn, false)
	require.True(t, split.Protocol.Equal(math.NewInt(5)))
	require.True(t, split.Creator.IsZero())

	// Capability reports not-a-launch-token: standard schedule.
	plain := launchToken()
	plain.isLaunch = false
	split = engine.CalculateFees(plain, amountIn, false)
	require.True(t, split.Protocol.Equal(math.NewInt(5)))
	require.True(t, split.Creator.IsZero())
}

func TestCalculateFeesTruncationFavorsProtocol(t *testing.T) {
	engine := fee.NewEngine(launcherAddr, ponderAddr)

	// 9999 * 5 / 10000 = 4.9995 -> 4; the fractional dust is simply not
	// charged, never granted to the user as extra output.
	split := engine.CalculateFees(stubToken{addr: "pondertest1usdc"}, math.NewInt(9_999), false)
	require.True(t, split.Protocol.Equal(math.NewInt(4)))
}

func TestCalculateFeesDeterministic(t *testing.T) {
	engine := fee.NewEngine(launcherAddr, ponderAddr)
	token := launchToken()
	amountIn := math.NewInt(123_456_789)

	first := engine.CalculateFees(token, amountIn, true)
	for i := 0; i < 10; i++ {
		again := engine.CalculateFees(token, amountIn, true)
		require.True(t, first.Protocol.Equal(again.Protocol))
		require.True(t, first.Creator.Equal(again.Creator))
	}
}

func TestResolveFeeRecipient(t *testing.T) {
	engine := fee.NewEngine(launcherAddr, ponderAddr)

	require.Equal(t, creatorAddr, engine.ResolveFeeRecipient(launchToken()))

	// No capability.
	require.Equal(t, types.ZeroAddress, engine.ResolveFeeRecipient(stubToken{addr: "pondertest1usdc"}))

	// Failing lookup.
	broken := launchToken()
	broken.fail = true
	require.Equal(t, types.ZeroAddress, engine.ResolveFeeRecipient(broken))

	// Zero creator configured.
	unset := launchToken()
	unset.creator = types.ZeroAddress
	require.Equal(t, types.ZeroAddress, engine.ResolveFeeRecipient(unset))
}

func TestNoLauncherConfigured(t *testing.T) {
	engine := fee.NewEngine(types.ZeroAddress, ponderAddr)

	split := engine.CalculateFees(launchToken(), math.NewInt(10_000), true)
	require.True(t, split.Protocol.Equal(math.NewInt(5)))
	require.True(t, split.Creator.IsZero())
}
