// Package fixedpoint implements the unsigned arbitrary-precision integer used by
// the pair and farm math. Every division truncates toward zero, matching the
// BigUint semantics of the contracts whose results we reproduce.
package fixedpoint

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// Uint is an immutable non-negative integer. The zero value is 0.
//
// Operations never modify the receiver or their arguments, so a Uint may be
// shared freely between goroutines.
type Uint struct {
	v *big.Int
}

var bigZero = new(big.Int)

// Zero is the Uint 0.
var Zero = Uint{}

// NewUint returns x as a Uint.
func NewUint(x uint64) Uint {
	return Uint{v: new(big.Int).SetUint64(x)}
}

// FromBig copies x into a Uint. A nil x is 0.
func FromBig(x *big.Int) (Uint, error) {
	if x == nil {
		return Zero, nil
	}
	if x.Sign() < 0 {
		return Zero, ErrNegative
	}
	return Uint{v: new(big.Int).Set(x)}, nil
}

// FromUint256 converts an EVM word into a Uint.
func FromUint256(x *uint256.Int) Uint {
	if x == nil {
		return Zero
	}
	return Uint{v: x.ToBig()}
}

// Parse reads the decimal wire format: one or more ASCII digits, nothing else.
// Signs, decimal points, exponents, separators and base prefixes are rejected.
func Parse(s string) (Uint, error) {
	if s == "" {
		return Zero, fmt.Errorf("%w: empty string", ErrInvalidFormat)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return Zero, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return Uint{v: v}, nil
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) Uint {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

func (u Uint) big() *big.Int {
	if u.v == nil {
		return bigZero
	}
	return u.v
}

// Add returns u + o.
func (u Uint) Add(o Uint) Uint {
	return Uint{v: new(big.Int).Add(u.big(), o.big())}
}

// Sub returns u - o, or ErrUnderflow when o > u.
func (u Uint) Sub(o Uint) (Uint, error) {
	if u.Cmp(o) < 0 {
		return Zero, fmt.Errorf("%w: %s - %s", ErrUnderflow, u, o)
	}
	return Uint{v: new(big.Int).Sub(u.big(), o.big())}, nil
}

// Mul returns u * o.
func (u Uint) Mul(o Uint) Uint {
	return Uint{v: new(big.Int).Mul(u.big(), o.big())}
}

// Div returns floor(u / o), or ErrDivisionByZero when o is 0.
func (u Uint) Div(o Uint) (Uint, error) {
	if o.IsZero() {
		return Zero, ErrDivisionByZero
	}
	// Quo truncates toward zero; for non-negative operands that is floor.
	return Uint{v: new(big.Int).Quo(u.big(), o.big())}, nil
}

// Cmp compares u and o and returns -1, 0 or +1.
func (u Uint) Cmp(o Uint) int {
	return u.big().Cmp(o.big())
}

// IsZero reports whether u == 0.
func (u Uint) IsZero() bool {
	return u.big().Sign() == 0
}

// Big returns a copy of u as a big.Int.
func (u Uint) Big() *big.Int {
	return new(big.Int).Set(u.big())
}

// Uint64 returns u as a uint64 and whether it fit.
func (u Uint) Uint64() (uint64, bool) {
	b := u.big()
	if !b.IsUint64() {
		return 0, false
	}
	return b.Uint64(), true
}

// Uint256 returns u as an EVM word, or ErrOverflow if it needs more than 256 bits.
func (u Uint) Uint256() (*uint256.Int, error) {
	w, overflow := uint256.FromBig(u.big())
	if overflow {
		return nil, fmt.Errorf("%w: %s", ErrOverflow, u)
	}
	return w, nil
}

// Hex returns u as a 0x-prefixed quantity, the encoding used in JSON-RPC
// transaction payloads.
func (u Uint) Hex() string {
	return hexutil.EncodeBig(u.big())
}

// String returns the decimal wire representation.
func (u Uint) String() string {
	return u.big().String()
}

// MarshalText implements encoding.TextMarshaler.
func (u Uint) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using the strict wire format.
func (u *Uint) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
