package pair

import (
	"sync/atomic"

	"github.com/ponder-dex/ponder/dex/types"
)

// reentrancyGuard is the per-pair exclusive-access token. It is held for
// the whole of a state-mutating operation, including external token and
// flash-callback calls, so any nested entry into the same pair fails fast
// instead of deadlocking. Distinct pairs carry distinct guards and proceed
// independently.
type reentrancyGuard struct {
	locked atomic.Bool
}

// acquire takes the lock or fails with ErrReentrancy when it is already
// held.
func (g *reentrancyGuard) acquire(operation string) error {
	if !g.locked.CompareAndSwap(false, true) {
		return types.ErrReentrancy.Wrapf("operation %s rejected", operation)
	}
	return nil
}

// release frees the lock. Must run on every exit path.
func (g *reentrancyGuard) release() {
	g.locked.Store(false)
}
