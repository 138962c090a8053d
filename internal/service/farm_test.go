package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nulln0ne/dex-engine/internal/config"
	"github.com/nulln0ne/dex-engine/pkg/farm"
	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
)

const (
	farmV13 = "erd1qqqqqqqqqqqqqpgqv13"
	farmV2  = "erd1qqqqqqqqqqqqqpgqv2"
)

var u = fixedpoint.NewUint

func newFarmService(t *testing.T, concurrency int) *FarmService {
	t.Helper()
	farms, err := FarmsFromConfig(config.Farms{Farms: []config.Farm{
		{
			Address:                farmV13,
			Version:                "v1.3",
			DivisionSafetyConstant: "1000000000000",
			MinimumFarmingEpochs:   20,
			PenaltyPercent:         1_000,
		},
		{
			Address:                        farmV2,
			Version:                        "v2",
			DivisionSafetyConstant:         "1000000000000",
			BoostedYieldsRewardsPercentage: 6_000,
		},
	}})
	require.NoError(t, err)
	return NewFarmService(discardLogger(), farms, concurrency)
}

func testFarmState() FarmState {
	return FarmState{
		RewardPerShare:        u(5_000_000_000),
		FarmTokenSupply:       u(1_000_000),
		PerBlockRewardAmount:  u(100),
		LastRewardBlockNonce:  100,
		CurrentBlockNonce:     110,
		ProduceRewardsEnabled: true,
	}
}

func testPosition(redeemed uint64) FarmPosition {
	return FarmPosition{
		Attributes: farm.TokenAttributes{
			RewardPerShare:       u(2_000_000_000),
			InitialFarmingAmount: u(200_000),
			CompoundedReward:     u(30_000),
			CurrentFarmAmount:    u(500_000),
			EnteringEpoch:        10,
		},
		Redeemed: u(redeemed),
	}
}

func TestFarmRewards(t *testing.T) {
	t.Parallel()

	svc := newFarmService(t, 4)

	got, err := svc.Rewards(context.Background(), farmV13, testFarmState(), testPosition(250_000))
	require.NoError(t, err)
	require.Equal(t, "1000", got.Rewards.String())
	require.Equal(t, "6000000000", got.FutureRewardPerShare.String())
	require.True(t, got.PendingBoostedRewards.IsZero())

	got, err = svc.Rewards(context.Background(), strings.ToUpper(farmV2), testFarmState(), testPosition(250_000))
	require.NoError(t, err)
	require.Equal(t, "850", got.Rewards.String())
	require.Equal(t, "5400000000", got.FutureRewardPerShare.String())
	require.Equal(t, "600", got.PendingBoostedRewards.String())
}

func TestFarmRewards_EmptyFarm(t *testing.T) {
	t.Parallel()

	svc := newFarmService(t, 1)
	state := testFarmState()
	state.FarmTokenSupply = fixedpoint.Zero

	got, err := svc.Rewards(context.Background(), farmV13, state, testPosition(250_000))
	require.NoError(t, err)
	require.True(t, got.Rewards.IsZero())
	require.Equal(t, state.RewardPerShare.String(), got.FutureRewardPerShare.String())
}

func TestFarmRewards_UnknownFarm(t *testing.T) {
	t.Parallel()

	svc := newFarmService(t, 1)

	_, err := svc.Rewards(context.Background(), "erd1unknown", testFarmState(), testPosition(1))
	require.ErrorIs(t, err, ErrUnknownFarm)

	_, err = svc.Exit(context.Background(), "erd1unknown", testFarmState(), testPosition(1), 15)
	require.ErrorIs(t, err, ErrUnknownFarm)

	_, err = svc.RewardsBatch(context.Background(), "erd1unknown", testFarmState(), nil)
	require.ErrorIs(t, err, ErrUnknownFarm)
}

func TestFarmExit(t *testing.T) {
	t.Parallel()

	svc := newFarmService(t, 1)

	payout, err := svc.Exit(context.Background(), farmV13, testFarmState(), testPosition(250_000), 15)
	require.NoError(t, err)
	require.Equal(t, "90000", payout.FarmingTokens.String())
	require.Equal(t, "10000", payout.Penalty.String())
	require.Equal(t, "16000", payout.Rewards.String())
	require.Equal(t, uint64(15), payout.RemainingFarmingEpochs)
}

func TestFarmExit_CanceledContext(t *testing.T) {
	t.Parallel()

	svc := newFarmService(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Exit(ctx, farmV13, testFarmState(), testPosition(250_000), 15)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFarmRewardsBatch_PreservesOrder(t *testing.T) {
	t.Parallel()

	svc := newFarmService(t, 3)

	positions := make([]FarmPosition, 0, 50)
	for i := 0; i < 50; i++ {
		// each 250 redeemed units earn exactly 1
		positions = append(positions, testPosition(uint64(i)*250))
	}

	got, err := svc.RewardsBatch(context.Background(), farmV13, testFarmState(), positions)
	require.NoError(t, err)
	require.Len(t, got, len(positions))
	for i, r := range got {
		require.Equal(t, u(uint64(i)).String(), r.String(), "position %d", i)
	}
}

func TestFarmRewardsBatch_Error(t *testing.T) {
	t.Parallel()

	farms := map[string]FarmParams{
		"broken": {Version: farm.VersionV13},
	}
	svc := NewFarmService(discardLogger(), farms, 2)

	_, err := svc.RewardsBatch(context.Background(), "broken", testFarmState(), []FarmPosition{testPosition(1), testPosition(2)})
	require.ErrorIs(t, err, fixedpoint.ErrDivisionByZero)
}

func TestFarmParamsFromConfig_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		entry config.Farm
		want error
	}{
		"version": {
			entry: config.Farm{Address: "a", Version: "v9", DivisionSafetyConstant: "1"},
			want: farm.ErrUnknownVersion,
		},
		"dsc format": {
			entry: config.Farm{Address: "a", Version: "v2", DivisionSafetyConstant: "1e12"},
			want: fixedpoint.ErrInvalidFormat,
		},
		"dsc zero": {
			entry: config.Farm{Address: "a", Version: "v2", DivisionSafetyConstant: "0"},
			want: fixedpoint.ErrDivisionByZero,
		},
		"boosted": {
			entry: config.Farm{Address: "a", Version: "v2", DivisionSafetyConstant: "1", BoostedYieldsRewardsPercentage: farm.MaxPercent + 1},
			want: farm.ErrInvalidPercentage,
		},
		"penalty": {
			entry: config.Farm{Address: "a", Version: "v2", DivisionSafetyConstant: "1", PenaltyPercent: farm.MaxPenaltyPercent + 1},
			want: farm.ErrInvalidPenalty,
		},
	}
	for name, tc := range cases {
		_, err := FarmParamsFromConfig(tc.entry)
		require.ErrorIs(t, err, tc.want, name)
	}
}

func TestFarmsFromConfig_ExampleRegistry(t *testing.T) {
	t.Parallel()

	registry, err := config.LoadFarms("../../farms.example.yaml")
	require.NoError(t, err)

	farms, err := FarmsFromConfig(registry)
	require.NoError(t, err)
	require.Len(t, farms, 3)

	v2 := farms["erd1qqqqqqqqqqqqqpgqapxdp9gjxtg60mjwhle3n6h88zch9e7kkp2s8aqhkg"]
	require.Equal(t, farm.VersionV2, v2.Version)
	require.Equal(t, "1000000000000000000", v2.DivisionSafetyConstant.String())
	require.Equal(t, farm.ExitPolicy{MinimumFarmingEpochs: 7, PenaltyPercent: 100}, v2.Exit)

	v12 := farms["erd1qqqqqqqqqqqqqpgqnqvjnn4haygsw2hls2k9zjjadnjf9w7g2jpsepn4rl"]
	require.Equal(t, farm.VersionV12, v12.Version)
	require.Equal(t, uint64(2), v12.LockedRewardsAPRMultiplier)
	require.Equal(t, "1000000000000", v12.DivisionSafetyConstant.String())
}
