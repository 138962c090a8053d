package fixedpoint

import "errors"

var (
	// ErrUnderflow is returned when a subtraction would produce a negative value.
	ErrUnderflow = errors.New("integer underflow")

	// ErrDivisionByZero is returned by every division with a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrInvalidFormat is returned when a wire value is not a plain base-10
	// unsigned integer.
	ErrInvalidFormat = errors.New("invalid decimal integer")

	// ErrNegative is returned when a signed input cannot be represented as Uint.
	ErrNegative = errors.New("negative value")

	// ErrOverflow is returned when a value does not fit in a 256-bit word.
	ErrOverflow = errors.New("value overflows 256 bits")
)
