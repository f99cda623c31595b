package types

import (
	"cosmossdk.io/math"
)

// Token is the contract the pair consumes from every traded asset. Transfer
// failures surface as errors and abort the surrounding operation.
type Token interface {
	// TokenAddress returns the token's own identity, used for canonical
	// pair ordering and recipient checks.
	TokenAddress() Address

	// BalanceOf reports the holder's current balance.
	BalanceOf(holder Address) math.Int

	// Transfer moves amount from one holder to another. It fails when the
	// source balance is insufficient or the amount is invalid.
	Transfer(from, to Address, amount math.Int) error
}

// LaunchToken is the optional classification capability a token issued by
// the companion launch platform exposes. A token that does not implement it,
// or whose methods return an error, is treated as a standard token. Callers
// must never propagate these errors.
type LaunchToken interface {
	// IsLaunchToken reports whether the token was created via a launcher.
	IsLaunchToken() (bool, error)

	// Launcher returns the launch platform that created the token.
	Launcher() (Address, error)

	// Creator returns the address entitled to the creator fee share.
	// ZeroAddress means no creator is configured.
	Creator() (Address, error)
}

// Recipient is the destination of a swap's output transfer.
type Recipient interface {
	RecipientAddress() Address
}

// FlashCallee is the optional capability a swap recipient exposes to
// receive the flash-swap callback. It is required whenever swap callback
// data is non-empty; the callee must source the owed input before
// returning. Any error aborts the whole swap.
type FlashCallee interface {
	Recipient

	PonderCall(sender Address, amount0, amount1 math.Int, data []byte) error
}

// Account adapts a bare address into a swap recipient with no callback
// capability.
type Account Address

// RecipientAddress implements Recipient.
func (a Account) RecipientAddress() Address { return Address(a) }
