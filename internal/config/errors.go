package config

import "errors"

// ErrMissingRPCEndpoint indicates that the required ETH_RPC_URL variable is
// not set in the environment.
var ErrMissingRPCEndpoint = errors.New("missing ETH_RPC_URL environment variable")

// ErrInvalidNumber indicates that a numeric environment variable is not a
// base-10 unsigned integer.
var ErrInvalidNumber = errors.New("invalid numeric environment variable")

// ErrInvalidFee indicates that FEE_BASIS_POINTS is not below FEE_DENOMINATOR.
var ErrInvalidFee = errors.New("fee basis points must be below the fee denominator")

// ErrInvalidFarm indicates an incomplete or inconsistent farm registry entry.
var ErrInvalidFarm = errors.New("invalid farm definition")
