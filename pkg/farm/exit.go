package farm

import (
	"fmt"

	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
)

// MaxPenaltyPercent is the denominator of ExitPolicy.PenaltyPercent.
const MaxPenaltyPercent = 10_000

// ExitPolicy is the farm's minimum lock and early-exit penalty.
type ExitPolicy struct {
	MinimumFarmingEpochs uint64
	PenaltyPercent       uint64
}

// ExitPayout is the decomposition of a full or partial exit.
type ExitPayout struct {
	FarmingTokens          fixedpoint.Uint `json:"farming_tokens"`
	Rewards                fixedpoint.Uint `json:"rewards"`
	Penalty                fixedpoint.Uint `json:"penalty"`
	RemainingFarmingEpochs uint64          `json:"remaining_farming_epochs,string"`
}

// ComputeExitFarm splits an exit of redeemed units into the farming tokens
// returned and the rewards paid.
//
// The stored initial deposit and compounded reward are prorated by
// redeemed / attrs.CurrentFarmAmount. Exiting before the minimum farming
// epochs elapsed burns PenaltyPercent of the prorated deposit. Ownership is not
// checked here.
func ComputeExitFarm(g GlobalState, attrs TokenAttributes, redeemed fixedpoint.Uint, currentEpoch uint64, policy ExitPolicy) (ExitPayout, error) {
	if policy.PenaltyPercent > MaxPenaltyPercent {
		return ExitPayout{}, fmt.Errorf("%w: %d > %d", ErrInvalidPenalty, policy.PenaltyPercent, MaxPenaltyPercent)
	}

	initial, err := fixedpoint.RuleOfThree(redeemed, attrs.CurrentFarmAmount, attrs.InitialFarmingAmount)
	if err != nil {
		return ExitPayout{}, fmt.Errorf("initial farming amount: %w", err)
	}
	compounded, err := fixedpoint.RuleOfThree(redeemed, attrs.CurrentFarmAmount, attrs.CompoundedReward)
	if err != nil {
		return ExitPayout{}, fmt.Errorf("compounded reward: %w", err)
	}

	rewards, err := ComputeRewardsForPosition(g, attrs, redeemed)
	if err != nil {
		return ExitPayout{}, fmt.Errorf("rewards: %w", err)
	}

	payout := ExitPayout{
		FarmingTokens:          initial,
		Rewards:                rewards.Add(compounded),
		RemainingFarmingEpochs: ComputeRemainingFarmingEpochs(currentEpoch, attrs.EnteringEpoch, policy.MinimumFarmingEpochs),
	}
	if payout.RemainingFarmingEpochs == 0 {
		return payout, nil
	}

	penalty, err := fixedpoint.MulDiv(initial, fixedpoint.NewUint(policy.PenaltyPercent), fixedpoint.NewUint(MaxPenaltyPercent))
	if err != nil {
		return ExitPayout{}, err
	}
	if payout.FarmingTokens, err = initial.Sub(penalty); err != nil {
		return ExitPayout{}, err
	}
	payout.Penalty = penalty
	return payout, nil
}
