package pair

import "errors"

var (
	// ErrInvalidReserve is returned when a reserve used as a divisor is zero.
	ErrInvalidReserve = errors.New("invalid reserve")

	// ErrInsufficientLiquidity is returned when the requested output cannot be
	// taken from the pool, i.e. amountOut >= reserveOut.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrInvalidFee is returned for a fee that is not strictly below its denominator.
	ErrInvalidFee = errors.New("invalid fee")

	// ErrInvalidTolerance is returned for a slippage tolerance above 100%.
	ErrInvalidTolerance = errors.New("invalid slippage tolerance")
)
