package liquidity

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
	"github.com/nulln0ne/dex-engine/pkg/pair"
)

var u = fixedpoint.NewUint

func TestTokensForPosition(t *testing.T) {
	t.Parallel()

	r := Reserves{First: u(1_000_000), Second: u(2_000_003), TotalSupply: u(3_000)}

	got, err := TokensForPosition(u(1_000), r)
	require.NoError(t, err)
	require.Equal(t, "333333", got.First.String())
	require.Equal(t, "666667", got.Second.String())

	got, err = TokensForPosition(u(3_000), r)
	require.NoError(t, err)
	require.Equal(t, r.First.String(), got.First.String())
	require.Equal(t, r.Second.String(), got.Second.String())
}

func TestTokensForPosition_EmptyPool(t *testing.T) {
	t.Parallel()

	got, err := TokensForPosition(fixedpoint.MustParse("500"), Reserves{First: u(1_000), Second: u(1_000)})
	require.NoError(t, err)
	require.True(t, got.First.IsZero())
	require.True(t, got.Second.IsZero())
}

func TestEquivalentAmount(t *testing.T) {
	t.Parallel()

	r := Reserves{First: u(1_000_000), Second: u(2_000_000), TotalSupply: u(1)}

	got, err := EquivalentAmount(u(1_000), SideFirst, r)
	require.NoError(t, err)
	require.Equal(t, "2000", got.String())

	got, err = EquivalentAmount(u(1_001), SideSecond, r)
	require.NoError(t, err)
	require.Equal(t, "500", got.String())

	_, err = EquivalentAmount(u(1), SideFirst, Reserves{Second: u(1)})
	require.ErrorIs(t, err, pair.ErrInvalidReserve)

	_, err = EquivalentAmount(u(1), Side(7), r)
	require.Error(t, err)
}

func TestValueUSD(t *testing.T) {
	t.Parallel()

	// half of a pool holding 2000.000000 USDC (6 decimals) and 1.0 WETH (18 decimals)
	r := Reserves{
		First:       fixedpoint.MustParse("2000000000"),
		Second:      fixedpoint.MustParse("1000000000000000000"),
		TotalSupply: u(1_000),
	}
	usdc := TokenPrice{Decimals: 6, USD: decimal.RequireFromString("1.0001")}
	weth := TokenPrice{Decimals: 18, USD: decimal.RequireFromString("2000.5")}

	got, err := ValueUSD(u(500), r, usdc, weth)
	require.NoError(t, err)
	// 1000 * 1.0001 + 0.5 * 2000.5
	require.True(t, got.Equal(decimal.RequireFromString("2000.35")), "got %s", got)

	got, err = ValueUSD(u(500), Reserves{First: r.First, Second: r.Second}, usdc, weth)
	require.NoError(t, err)
	require.True(t, got.IsZero())
}

func TestAmountValueUSD(t *testing.T) {
	t.Parallel()

	got, err := AmountValueUSD(fixedpoint.MustParse("1"), TokenPrice{Decimals: 18, USD: decimal.NewFromInt(3)})
	require.NoError(t, err)
	require.Equal(t, "0.000000000000000003", got.String())

	got, err = AmountValueUSD(fixedpoint.MustParse("5"), TokenPrice{Decimals: MaxDecimals, USD: decimal.RequireFromString("1e77")})
	require.NoError(t, err)
	require.True(t, got.Equal(decimal.NewFromInt(5)), got.String())
}

func TestAmountValueUSD_DecimalsOutOfRange(t *testing.T) {
	t.Parallel()

	one := decimal.NewFromInt(1)
	cases := map[string]TokenPrice{
		"negative":   {Decimals: -1, USD: one},
		"above max":  {Decimals: MaxDecimals + 1, USD: one},
		"int32 max":  {Decimals: math.MaxInt32, USD: decimal.RequireFromString("0.01")},
		"tiny price": {Decimals: 0, USD: decimal.RequireFromString("1e-2147483647")},
		"huge price": {Decimals: 0, USD: decimal.RequireFromString("1e1000000")},
	}
	for name, price := range cases {
		_, err := AmountValueUSD(u(1_000), price)
		require.ErrorIs(t, err, ErrInvalidDecimals, name)
	}

	r := Reserves{First: u(1_000), Second: u(1_000), TotalSupply: u(1_000)}
	_, err := ValueUSD(u(1), r, TokenPrice{USD: one}, TokenPrice{Decimals: math.MaxInt32, USD: one})
	require.ErrorIs(t, err, ErrInvalidDecimals)
}
