package fixedpoint

import "math/big"

// MulDiv returns floor(a * b / c). The product is computed at full precision
// before dividing.
func MulDiv(a, b, c Uint) (Uint, error) {
	if c.IsZero() {
		return Zero, ErrDivisionByZero
	}
	n := new(big.Int).Mul(a.big(), b.big())
	return Uint{v: n.Quo(n, c.big())}, nil
}

// MulDivCeil returns ceil(a * b / c).
func MulDivCeil(a, b, c Uint) (Uint, error) {
	if c.IsZero() {
		return Zero, ErrDivisionByZero
	}
	n := new(big.Int).Mul(a.big(), b.big())
	q, r := new(big.Int).QuoRem(n, c.big(), new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return Uint{v: q}, nil
}

// RuleOfThree prorates value by part/total: floor(part * value / total).
// It is the single proportional-scaling primitive shared by LP valuation and
// farm position splitting.
func RuleOfThree(part, total, value Uint) (Uint, error) {
	return MulDiv(part, value, total)
}
