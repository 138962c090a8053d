package pair

import (
	"fmt"

	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
)

// SlippageDenominator is the scale of slippage tolerances (basis points).
const SlippageDenominator = 10_000

var slippageDen = fixedpoint.NewUint(SlippageDenominator)

// MinAmountWithSlippage returns the amountOutMin guard for a swap:
// floor(amount * (10000 - toleranceBps) / 10000).
func MinAmountWithSlippage(amount fixedpoint.Uint, toleranceBps uint64) (fixedpoint.Uint, error) {
	if toleranceBps > SlippageDenominator {
		return fixedpoint.Zero, fmt.Errorf("%w: %d bps", ErrInvalidTolerance, toleranceBps)
	}
	return fixedpoint.MulDiv(amount, fixedpoint.NewUint(SlippageDenominator-toleranceBps), slippageDen)
}

// MaxAmountWithSlippage returns the amountInMax guard for an exact-output swap.
// It rounds up so the guard never rejects the quoted input itself.
func MaxAmountWithSlippage(amount fixedpoint.Uint, toleranceBps uint64) (fixedpoint.Uint, error) {
	if toleranceBps > SlippageDenominator {
		return fixedpoint.Zero, fmt.Errorf("%w: %d bps", ErrInvalidTolerance, toleranceBps)
	}
	return fixedpoint.MulDivCeil(amount, fixedpoint.NewUint(SlippageDenominator+toleranceBps), slippageDen)
}
