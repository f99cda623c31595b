package types

import (
	"cosmossdk.io/errors"
)

// DEX sentinel errors
var (
	ErrIdenticalAddresses            = errors.Register(ModuleName, 1, "identical token addresses")
	ErrPairExists                    = errors.Register(ModuleName, 2, "pair already exists")
	ErrPairNotFound                  = errors.Register(ModuleName, 3, "pair not found")
	ErrZeroAddress                   = errors.Register(ModuleName, 4, "zero address")
	ErrUnauthorized                  = errors.Register(ModuleName, 5, "unauthorized")
	ErrInsufficientLiquidity         = errors.Register(ModuleName, 6, "insufficient liquidity")
	ErrInsufficientInitialLiquidity  = errors.Register(ModuleName, 7, "initial deposit below minimum liquidity")
	ErrInsufficientLiquidityMinted   = errors.Register(ModuleName, 8, "insufficient liquidity minted")
	ErrInsufficientLiquidityBurned   = errors.Register(ModuleName, 9, "insufficient liquidity burned")
	ErrInsufficientOutputAmount      = errors.Register(ModuleName, 10, "insufficient output amount")
	ErrInsufficientInputAmount       = errors.Register(ModuleName, 11, "insufficient input amount")
	ErrInvalidRecipient              = errors.Register(ModuleName, 12, "invalid swap recipient")
	ErrConstantProductViolation      = errors.Register(ModuleName, 13, "constant product invariant violated")
	ErrReserveOverflow               = errors.Register(ModuleName, 14, "balance exceeds reserve storage width")
	ErrInvalidReserveState           = errors.Register(ModuleName, 15, "invalid reserve state")
	ErrReentrancy                    = errors.Register(ModuleName, 16, "pair is locked")
	ErrArithmeticOverflow            = errors.Register(ModuleName, 17, "arithmetic overflow")
	ErrDivisionByZero                = errors.Register(ModuleName, 18, "division by zero")
	ErrTransferFailed                = errors.Register(ModuleName, 19, "token transfer failed")
	ErrCallbackFailed                = errors.Register(ModuleName, 20, "flash swap callback failed")
	ErrStateCorruption               = errors.Register(ModuleName, 21, "pair state corrupted")
	ErrInvalidTimeWindow             = errors.Register(ModuleName, 22, "invalid oracle time window")
	ErrInsufficientLiquidityInWindow = errors.Register(ModuleName, 23, "no price observation in window")
	ErrTokenExists                   = errors.Register(ModuleName, 24, "token already registered")
)
