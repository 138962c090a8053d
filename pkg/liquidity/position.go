// Package liquidity values LP positions against a pair's reserves.
package liquidity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
	"github.com/nulln0ne/dex-engine/pkg/pair"
)

// Reserves is an immutable snapshot of a pair.
type Reserves struct {
	First       fixedpoint.Uint
	Second      fixedpoint.Uint
	TotalSupply fixedpoint.Uint
}

// Amounts holds one amount per side of a pair.
type Amounts struct {
	First  fixedpoint.Uint `json:"first_token_amount"`
	Second fixedpoint.Uint `json:"second_token_amount"`
}

// Side selects a token of the pair.
type Side int

const (
	SideFirst Side = iota
	SideSecond
)

func (s Side) String() string {
	switch s {
	case SideFirst:
		return "first"
	case SideSecond:
		return "second"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// TokensForPosition returns the amounts of both tokens redeemed by burning
// liquidity LP tokens. Both sides are 0 for an empty pool.
func TokensForPosition(liquidity fixedpoint.Uint, r Reserves) (Amounts, error) {
	first, err := pair.GetTokenForGivenPosition(liquidity, r.First, r.TotalSupply)
	if err != nil {
		return Amounts{}, fmt.Errorf("first token: %w", err)
	}
	second, err := pair.GetTokenForGivenPosition(liquidity, r.Second, r.TotalSupply)
	if err != nil {
		return Amounts{}, fmt.Errorf("second token: %w", err)
	}
	return Amounts{First: first, Second: second}, nil
}

// EquivalentAmount returns how much of the other token must accompany amount
// of side for a balanced add.
func EquivalentAmount(amount fixedpoint.Uint, side Side, r Reserves) (fixedpoint.Uint, error) {
	switch side {
	case SideFirst:
		return pair.Quote(amount, r.First, r.Second)
	case SideSecond:
		return pair.Quote(amount, r.Second, r.First)
	default:
		return fixedpoint.Zero, fmt.Errorf("unknown side %s", side)
	}
}

// MaxDecimals bounds token decimals and price exponents. A uint256 has at
// most 78 decimal digits.
const MaxDecimals = 77

// TokenPrice is an externally supplied USD price for one whole token.
type TokenPrice struct {
	Decimals int32
	USD      decimal.Decimal
}

// Validate reports whether p can be applied to an amount.
func (p TokenPrice) Validate() error {
	if p.Decimals < 0 || p.Decimals > MaxDecimals {
		return fmt.Errorf("%w: decimals %d", ErrInvalidDecimals, p.Decimals)
	}
	if exp := p.USD.Exponent(); exp < -MaxDecimals || exp > MaxDecimals {
		return fmt.Errorf("%w: price exponent %d", ErrInvalidDecimals, exp)
	}
	return nil
}

// AmountValueUSD converts an integer amount of base units into USD:
// amount / 10^decimals * price.
func AmountValueUSD(amount fixedpoint.Uint, price TokenPrice) (decimal.Decimal, error) {
	if err := price.Validate(); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(amount.Big(), -price.Decimals).Mul(price.USD), nil
}

// ValueUSD returns the USD value of liquidity LP tokens.
func ValueUSD(liquidity fixedpoint.Uint, r Reserves, first, second TokenPrice) (decimal.Decimal, error) {
	amounts, err := TokensForPosition(liquidity, r)
	if err != nil {
		return decimal.Zero, err
	}
	firstUSD, err := AmountValueUSD(amounts.First, first)
	if err != nil {
		return decimal.Zero, fmt.Errorf("first token: %w", err)
	}
	secondUSD, err := AmountValueUSD(amounts.Second, second)
	if err != nil {
		return decimal.Zero, fmt.Errorf("second token: %w", err)
	}
	return firstUSD.Add(secondUSD), nil
}
