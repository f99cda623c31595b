package types

// Params configures a factory and the pairs it creates.
type Params struct {
	// FeeTo receives the fee-on-liquidity mint. ZeroAddress disables the
	// mechanism; pairs clear kLast while it is disabled.
	FeeTo Address

	// FeeToSetter is the only authority allowed to change FeeTo.
	FeeToSetter Address

	// Launcher is the launch platform whose tokens qualify for the split
	// fee schedule.
	Launcher Address

	// PonderToken is the protocol token. Launch tokens paired against it
	// use the protocol-token-paired schedule.
	PonderToken Address
}

// DefaultParams returns a configuration with the fee switch off.
func DefaultParams() Params {
	return Params{
		FeeTo:       ZeroAddress,
		FeeToSetter: ZeroAddress,
		Launcher:    ZeroAddress,
		PonderToken: ZeroAddress,
	}
}

// Validate checks internal consistency.
func (p Params) Validate() error {
	if p.FeeTo != ZeroAddress && p.FeeToSetter == ZeroAddress {
		return ErrZeroAddress.Wrap("fee recipient set without a fee setter")
	}
	if p.PonderToken != ZeroAddress && p.PonderToken == p.Launcher {
		return ErrIdenticalAddresses.Wrap("protocol token and launcher")
	}
	return nil
}

// FeeOn reports whether the fee-on-liquidity mechanism is active.
func (p Params) FeeOn() bool {
	return p.FeeTo != ZeroAddress
}
