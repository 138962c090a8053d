package liquidity

import "errors"

// ErrInvalidDecimals is returned when a token price carries decimals or a
// price exponent outside [-MaxDecimals, MaxDecimals].
var ErrInvalidDecimals = errors.New("liquidity: decimals out of range")
