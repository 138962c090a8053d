package farm

import (
	"fmt"

	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
)

// MaxPercent is the denominator of BoostedYieldsRewardsPercentage.
const MaxPercent = 10_000

// WeeklySplitting separates block rewards into the base part, distributed
// through reward-per-share, and the boosted part, accumulated for weekly
// distribution.
type WeeklySplitting struct {
	BoostedYieldsRewardsPercentage uint64
}

// Split returns (base, boosted) with boosted = floor(rewards * pct / MaxPercent)
// and base = rewards - boosted.
func (w WeeklySplitting) Split(rewards fixedpoint.Uint) (fixedpoint.Uint, fixedpoint.Uint, error) {
	if w.BoostedYieldsRewardsPercentage > MaxPercent {
		return fixedpoint.Zero, fixedpoint.Zero, fmt.Errorf("%w: boosted yields %d > %d", ErrInvalidPercentage, w.BoostedYieldsRewardsPercentage, MaxPercent)
	}
	if w.BoostedYieldsRewardsPercentage == 0 {
		return rewards, fixedpoint.Zero, nil
	}
	boosted, err := fixedpoint.MulDiv(rewards, fixedpoint.NewUint(w.BoostedYieldsRewardsPercentage), fixedpoint.NewUint(MaxPercent))
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	base, err := rewards.Sub(boosted)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	return base, boosted, nil
}

// PendingBoostedRewards returns the boosted share of the rewards minted since
// the last reward block. It is always 0 for versions before v2.
func PendingBoostedRewards(g GlobalState) (fixedpoint.Uint, error) {
	if g.Version != VersionV2 {
		return fixedpoint.Zero, nil
	}
	_, boosted, err := WeeklySplitting{BoostedYieldsRewardsPercentage: g.BoostedYieldsRewardsPercentage}.Split(rewardsToBeMinted(g))
	return boosted, err
}
