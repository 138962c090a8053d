// Package farm computes farm position rewards with the reward-per-share model
// and decomposes exits into farming tokens and rewards.
//
// Nothing is stored between calls: every result is recomputed from the global
// state, the position attributes and the amount being redeemed.
package farm

import (
	"errors"
	"fmt"

	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
)

// GlobalState is a snapshot of a farm contract. CurrentBlockNonce is supplied
// by the caller and is not part of the contract storage.
type GlobalState struct {
	Version Version

	// RewardPerShare is scaled by DivisionSafetyConstant.
	RewardPerShare         fixedpoint.Uint
	FarmTokenSupply        fixedpoint.Uint
	PerBlockRewardAmount   fixedpoint.Uint
	DivisionSafetyConstant fixedpoint.Uint
	LastRewardBlockNonce   uint64
	CurrentBlockNonce      uint64
	ProduceRewardsEnabled  bool

	// v1.2 only
	LockedRewardsAPRMultiplier uint64
	// v2 only, out of MaxPercent
	BoostedYieldsRewardsPercentage uint64
}

// TokenAttributes are the immutable attributes of a farm position token.
type TokenAttributes struct {
	// RewardPerShare is the global value when the token was minted or last claimed.
	RewardPerShare       fixedpoint.Uint
	InitialFarmingAmount fixedpoint.Uint
	CompoundedReward     fixedpoint.Uint
	// CurrentFarmAmount is the liquidity the token represented at mint time.
	CurrentFarmAmount fixedpoint.Uint
	EnteringEpoch     uint64
	// LockedRewards marks v1.2 positions that elected locked rewards.
	LockedRewards bool
}

// rewardsToBeMinted returns perBlock * (current - last), or 0 when rewards are
// off or no block passed since the last reward block.
func rewardsToBeMinted(g GlobalState) fixedpoint.Uint {
	if !g.ProduceRewardsEnabled || g.CurrentBlockNonce <= g.LastRewardBlockNonce {
		return fixedpoint.Zero
	}
	return g.PerBlockRewardAmount.Mul(fixedpoint.NewUint(g.CurrentBlockNonce - g.LastRewardBlockNonce))
}

func rewardPerShareIncrease(g GlobalState, shareable fixedpoint.Uint) (fixedpoint.Uint, error) {
	if g.FarmTokenSupply.IsZero() {
		return fixedpoint.Zero, ErrEmptyFarm
	}
	return fixedpoint.MulDiv(shareable, g.DivisionSafetyConstant, g.FarmTokenSupply)
}

// FutureRewardPerShare returns the global reward-per-share as it would be
// after rewards are produced up to CurrentBlockNonce. An empty farm keeps its
// current value.
func FutureRewardPerShare(g GlobalState) (fixedpoint.Uint, error) {
	model, err := modelFor(g)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return futureRewardPerShare(g, model)
}

func futureRewardPerShare(g GlobalState, model accrualModel) (fixedpoint.Uint, error) {
	shareable, err := model.shareable(rewardsToBeMinted(g))
	if err != nil {
		return fixedpoint.Zero, err
	}
	increase, err := rewardPerShareIncrease(g, shareable)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return g.RewardPerShare.Add(increase), nil
}

// ComputeRewardsForPosition returns the rewards owed for redeemed units of a
// position with the given attributes.
//
// The result is 0, not an error, for an empty farm and for a position whose
// snapshot is not behind the global reward-per-share.
func ComputeRewardsForPosition(g GlobalState, attrs TokenAttributes, redeemed fixedpoint.Uint) (fixedpoint.Uint, error) {
	if g.DivisionSafetyConstant.IsZero() {
		return fixedpoint.Zero, fmt.Errorf("division safety constant: %w", fixedpoint.ErrDivisionByZero)
	}
	model, err := modelFor(g)
	if err != nil {
		return fixedpoint.Zero, err
	}

	future, err := futureRewardPerShare(g, model)
	if errors.Is(err, ErrEmptyFarm) {
		return fixedpoint.Zero, nil
	}
	if err != nil {
		return fixedpoint.Zero, err
	}
	if future.Cmp(attrs.RewardPerShare) <= 0 {
		return fixedpoint.Zero, nil
	}

	delta, err := future.Sub(attrs.RewardPerShare)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return fixedpoint.MulDiv(model.weight(attrs, redeemed), delta, g.DivisionSafetyConstant)
}

// ComputeRemainingFarmingEpochs returns max(0, minimum - (current - entering)).
// A current epoch before the entering epoch counts as no time elapsed.
func ComputeRemainingFarmingEpochs(currentEpoch, enteringEpoch, minimumFarmingEpochs uint64) uint64 {
	if currentEpoch <= enteringEpoch {
		return minimumFarmingEpochs
	}
	elapsed := currentEpoch - enteringEpoch
	if elapsed >= minimumFarmingEpochs {
		return 0
	}
	return minimumFarmingEpochs - elapsed
}
