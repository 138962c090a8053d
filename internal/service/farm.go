package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nulln0ne/dex-engine/internal/config"
	"github.com/nulln0ne/dex-engine/pkg/farm"
	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
)

// FarmParams are the static parameters of a registered farm.
type FarmParams struct {
	Version                        farm.Version
	DivisionSafetyConstant         fixedpoint.Uint
	LockedRewardsAPRMultiplier     uint64
	BoostedYieldsRewardsPercentage uint64
	Exit                           farm.ExitPolicy
}

// FarmParamsFromConfig converts a registry entry.
func FarmParamsFromConfig(f config.Farm) (FarmParams, error) {
	version, err := farm.ParseVersion(f.Version)
	if err != nil {
		return FarmParams{}, fmt.Errorf("farm %s: %w", f.Address, err)
	}
	dsc, err := fixedpoint.Parse(f.DivisionSafetyConstant)
	if err != nil {
		return FarmParams{}, fmt.Errorf("farm %s: division safety constant: %w", f.Address, err)
	}
	if dsc.IsZero() {
		return FarmParams{}, fmt.Errorf("farm %s: division safety constant: %w", f.Address, fixedpoint.ErrDivisionByZero)
	}
	if f.BoostedYieldsRewardsPercentage > farm.MaxPercent {
		return FarmParams{}, fmt.Errorf("farm %s: %w", f.Address, farm.ErrInvalidPercentage)
	}
	if f.PenaltyPercent > farm.MaxPenaltyPercent {
		return FarmParams{}, fmt.Errorf("farm %s: %w", f.Address, farm.ErrInvalidPenalty)
	}
	return FarmParams{
		Version:                        version,
		DivisionSafetyConstant:         dsc,
		LockedRewardsAPRMultiplier:     f.LockedRewardsAPRMultiplier,
		BoostedYieldsRewardsPercentage: f.BoostedYieldsRewardsPercentage,
		Exit: farm.ExitPolicy{
			MinimumFarmingEpochs: f.MinimumFarmingEpochs,
			PenaltyPercent:       f.PenaltyPercent,
		},
	}, nil
}

// FarmsFromConfig builds the registry keyed by lower-case farm address.
func FarmsFromConfig(farms config.Farms) (map[string]FarmParams, error) {
	out := make(map[string]FarmParams, len(farms.Farms))
	for _, f := range farms.Farms {
		params, err := FarmParamsFromConfig(f)
		if err != nil {
			return nil, err
		}
		out[strings.ToLower(f.Address)] = params
	}
	return out, nil
}

// FarmState is the dynamic part of a farm's global state, read by the caller
// from the farm contract.
type FarmState struct {
	RewardPerShare        fixedpoint.Uint
	FarmTokenSupply       fixedpoint.Uint
	PerBlockRewardAmount  fixedpoint.Uint
	LastRewardBlockNonce  uint64
	CurrentBlockNonce     uint64
	ProduceRewardsEnabled bool
}

func (p FarmParams) global(s FarmState) farm.GlobalState {
	return farm.GlobalState{
		Version:                        p.Version,
		RewardPerShare:                 s.RewardPerShare,
		FarmTokenSupply:                s.FarmTokenSupply,
		PerBlockRewardAmount:           s.PerBlockRewardAmount,
		DivisionSafetyConstant:         p.DivisionSafetyConstant,
		LastRewardBlockNonce:           s.LastRewardBlockNonce,
		CurrentBlockNonce:              s.CurrentBlockNonce,
		ProduceRewardsEnabled:          s.ProduceRewardsEnabled,
		LockedRewardsAPRMultiplier:     p.LockedRewardsAPRMultiplier,
		BoostedYieldsRewardsPercentage: p.BoostedYieldsRewardsPercentage,
	}
}

// FarmPosition is a position token and the units of it being redeemed.
type FarmPosition struct {
	Attributes farm.TokenAttributes
	Redeemed   fixedpoint.Uint
}

// RewardsResult is the reward owed to one position plus the farm-wide values
// it was derived from.
type RewardsResult struct {
	Rewards               fixedpoint.Uint `json:"rewards"`
	FutureRewardPerShare  fixedpoint.Uint `json:"future_reward_per_share"`
	PendingBoostedRewards fixedpoint.Uint `json:"pending_boosted_rewards"`
}

// FarmService computes rewards and exits for registered farms.
type FarmService struct {
	BaseService
	farms       map[string]FarmParams
	concurrency int
}

// NewFarmService constructs a FarmService. concurrency bounds RewardsBatch.
func NewFarmService(logger *slog.Logger, farms map[string]FarmParams, concurrency int) *FarmService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &FarmService{
		BaseService: BaseService{logger: logger},
		farms:       farms,
		concurrency: concurrency,
	}
}

// Farm returns the parameters of the farm at address.
func (f *FarmService) Farm(address string) (FarmParams, error) {
	params, ok := f.farms[strings.ToLower(strings.TrimSpace(address))]
	if !ok {
		return FarmParams{}, fmt.Errorf("%w: %s", ErrUnknownFarm, address)
	}
	return params, nil
}

// Rewards returns the rewards owed to pos.
func (f *FarmService) Rewards(ctx context.Context, address string, state FarmState, pos FarmPosition) (RewardsResult, error) {
	if err := ctx.Err(); err != nil {
		return RewardsResult{}, err
	}
	params, err := f.Farm(address)
	if err != nil {
		return RewardsResult{}, err
	}
	g := params.global(state)

	rewards, err := farm.ComputeRewardsForPosition(g, pos.Attributes, pos.Redeemed)
	if err != nil {
		return RewardsResult{}, err
	}
	pending, err := farm.PendingBoostedRewards(g)
	if err != nil {
		return RewardsResult{}, err
	}
	future := g.RewardPerShare
	if !g.FarmTokenSupply.IsZero() {
		if future, err = farm.FutureRewardPerShare(g); err != nil {
			return RewardsResult{}, err
		}
	}

	f.logger.Debug("rewards computed", "farm", address, "version", params.Version, "redeemed", pos.Redeemed, "rewards", rewards)
	return RewardsResult{
		Rewards:               rewards,
		FutureRewardPerShare:  future,
		PendingBoostedRewards: pending,
	}, nil
}

// Exit decomposes an exit of pos at currentEpoch using the farm's exit policy.
func (f *FarmService) Exit(ctx context.Context, address string, state FarmState, pos FarmPosition, currentEpoch uint64) (farm.ExitPayout, error) {
	if err := ctx.Err(); err != nil {
		return farm.ExitPayout{}, err
	}
	params, err := f.Farm(address)
	if err != nil {
		return farm.ExitPayout{}, err
	}

	payout, err := farm.ComputeExitFarm(params.global(state), pos.Attributes, pos.Redeemed, currentEpoch, params.Exit)
	if err != nil {
		return farm.ExitPayout{}, err
	}
	f.logger.Debug("exit computed", "farm", address, "redeemed", pos.Redeemed,
		"farming_tokens", payout.FarmingTokens, "rewards", payout.Rewards, "penalty", payout.Penalty)
	return payout, nil
}

// RewardsBatch computes the rewards of every position against the same farm
// state. Results keep the order of positions; the first error cancels the rest.
func (f *FarmService) RewardsBatch(ctx context.Context, address string, state FarmState, positions []FarmPosition) ([]fixedpoint.Uint, error) {
	params, err := f.Farm(address)
	if err != nil {
		return nil, err
	}
	g := params.global(state)

	results := make([]fixedpoint.Uint, len(positions))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(f.concurrency)
	for i, pos := range positions {
		i, pos := i, pos
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			rewards, err := farm.ComputeRewardsForPosition(g, pos.Attributes, pos.Redeemed)
			if err != nil {
				return fmt.Errorf("position %d: %w", i, err)
			}
			results[i] = rewards
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	f.logger.Debug("batch rewards computed", "farm", address, "positions", len(positions))
	return results, nil
}
