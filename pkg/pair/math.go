// Package pair implements constant-product (x*y=k) pair math with the exact
// integer rounding of the pair contract.
package pair

import (
	"fmt"
	"math/big"

	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
)

// Fee is a swap fee expressed as BasisPoints out of Denominator.
type Fee struct {
	BasisPoints uint64
	Denominator uint64
}

// DefaultFee is the pair contract fee: 300 / 100000 => 0.3%.
var DefaultFee = Fee{BasisPoints: 300, Denominator: 100_000}

// Validate checks 0 <= BasisPoints < Denominator.
func (f Fee) Validate() error {
	if f.Denominator == 0 || f.BasisPoints >= f.Denominator {
		return fmt.Errorf("%w: %d/%d", ErrInvalidFee, f.BasisPoints, f.Denominator)
	}
	return nil
}

// multipliers returns (Denominator - BasisPoints, Denominator).
func (f Fee) multipliers() (*big.Int, *big.Int) {
	return new(big.Int).SetUint64(f.Denominator - f.BasisPoints), new(big.Int).SetUint64(f.Denominator)
}

// Quote returns the proportional, fee-free equivalent of amountIn:
// floor(amountIn * reserveOut / reserveIn).
func Quote(amountIn, reserveIn, reserveOut fixedpoint.Uint) (fixedpoint.Uint, error) {
	if reserveIn.IsZero() {
		return fixedpoint.Zero, ErrInvalidReserve
	}
	return fixedpoint.MulDiv(amountIn, reserveOut, reserveIn)
}

// GetAmountOut returns the output of swapping amountIn against the given
// reserves after the fee is taken from the input.
func GetAmountOut(amountIn, reserveIn, reserveOut fixedpoint.Uint, fee Fee) (fixedpoint.Uint, error) {
	if err := fee.Validate(); err != nil {
		return fixedpoint.Zero, err
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return fixedpoint.Zero, ErrInvalidReserve
	}
	feeMul, feeDen := fee.multipliers()

	var dst, t1, t2 big.Int
	out := GetAmountOutInto(&dst, &t1, &t2, amountIn.Big(), reserveIn.Big(), reserveOut.Big(), feeMul, feeDen)
	return fixedpoint.FromBig(out)
}

// GetAmountOutInto is the allocation-free form of GetAmountOut for hot loops.
// dst, t1 and t2 are caller-owned temporaries; the result is written to dst.
// The caller guarantees non-zero reserves and feeMul = feeDen - feeBasisPoints.
func GetAmountOutInto(dst, t1, t2 *big.Int, amountIn, reserveIn, reserveOut, feeMul, feeDen *big.Int) *big.Int {
	// t1 = amountIn * (den - fee)
	t1.Mul(amountIn, feeMul)
	// t2 = reserveIn * den
	t2.Mul(reserveIn, feeDen)
	// t2 = t2 + t1  (denominator)
	t2.Add(t2, t1)
	// dst = t1 * reserveOut (numerator)
	dst.Mul(t1, reserveOut)
	// dst = dst / t2  (avoid aliasing z==y)
	return dst.Quo(dst, t2)
}

// GetAmountIn returns the smallest input that yields at least amountOut.
//
// The result is floor(numerator/denominator) + 1, so it is never short of
// the requested output; callers sending this amount must not round it down.
func GetAmountIn(amountOut, reserveIn, reserveOut fixedpoint.Uint, fee Fee) (fixedpoint.Uint, error) {
	if err := fee.Validate(); err != nil {
		return fixedpoint.Zero, err
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return fixedpoint.Zero, ErrInvalidReserve
	}
	if amountOut.Cmp(reserveOut) >= 0 {
		return fixedpoint.Zero, fmt.Errorf("%w: amount out %s, reserve %s", ErrInsufficientLiquidity, amountOut, reserveOut)
	}

	numerator := reserveIn.Mul(amountOut).Mul(fixedpoint.NewUint(fee.Denominator))
	remaining, err := reserveOut.Sub(amountOut)
	if err != nil {
		return fixedpoint.Zero, err
	}
	denominator := remaining.Mul(fixedpoint.NewUint(fee.Denominator - fee.BasisPoints))

	q, err := numerator.Div(denominator)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return q.Add(fixedpoint.NewUint(1)), nil
}

// GetTokenForGivenPosition returns the share of tokenReserve redeemed by
// burning liquidity LP tokens. An empty pool (totalSupply == 0) yields 0.
func GetTokenForGivenPosition(liquidity, tokenReserve, totalSupply fixedpoint.Uint) (fixedpoint.Uint, error) {
	if totalSupply.IsZero() {
		return fixedpoint.Zero, nil
	}
	return fixedpoint.RuleOfThree(liquidity, totalSupply, tokenReserve)
}
