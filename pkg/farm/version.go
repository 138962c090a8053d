package farm

import (
	"fmt"
	"strings"

	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
)

// Version identifies a farm contract generation. The set is closed.
type Version uint8

const (
	VersionUnknown Version = iota
	VersionV12
	VersionV13
	VersionV2
)

// ParseVersion accepts "v1.2", "v1.3" and "v2" (case-insensitive, "v" optional).
func ParseVersion(s string) (Version, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "v") {
	case "1.2":
		return VersionV12, nil
	case "1.3":
		return VersionV13, nil
	case "2", "2.0":
		return VersionV2, nil
	default:
		return VersionUnknown, fmt.Errorf("%w: %q", ErrUnknownVersion, s)
	}
}

func (v Version) String() string {
	switch v {
	case VersionV12:
		return "v1.2"
	case VersionV13:
		return "v1.3"
	case VersionV2:
		return "v2"
	default:
		return fmt.Sprintf("Version(%d)", uint8(v))
	}
}

// accrualModel is the part of reward accrual that differs between versions.
type accrualModel interface {
	// shareable returns the part of newly minted rewards credited to
	// reward-per-share.
	shareable(toBeMinted fixedpoint.Uint) (fixedpoint.Uint, error)
	// weight returns the farm amount the reward-per-share delta applies to.
	weight(attrs TokenAttributes, redeemed fixedpoint.Uint) fixedpoint.Uint
}

// baseAccrual is the plain reward-per-share model (v1.3).
type baseAccrual struct{}

func (baseAccrual) shareable(toBeMinted fixedpoint.Uint) (fixedpoint.Uint, error) {
	return toBeMinted, nil
}

func (baseAccrual) weight(_ TokenAttributes, redeemed fixedpoint.Uint) fixedpoint.Uint {
	return redeemed
}

// lockedRewardsAccrual multiplies the weight of positions that elected
// locked rewards (v1.2).
type lockedRewardsAccrual struct {
	base          baseAccrual
	aprMultiplier uint64
}

func (m lockedRewardsAccrual) shareable(toBeMinted fixedpoint.Uint) (fixedpoint.Uint, error) {
	return m.base.shareable(toBeMinted)
}

func (m lockedRewardsAccrual) weight(attrs TokenAttributes, redeemed fixedpoint.Uint) fixedpoint.Uint {
	if !attrs.LockedRewards || m.aprMultiplier == 0 {
		return m.base.weight(attrs, redeemed)
	}
	return redeemed.Mul(fixedpoint.NewUint(m.aprMultiplier))
}

// boostedAccrual diverts the boosted share of every block reward to weekly
// distribution before crediting reward-per-share (v2).
type boostedAccrual struct {
	base   baseAccrual
	weekly WeeklySplitting
}

func (m boostedAccrual) shareable(toBeMinted fixedpoint.Uint) (fixedpoint.Uint, error) {
	base, _, err := m.weekly.Split(toBeMinted)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return m.base.shareable(base)
}

func (m boostedAccrual) weight(attrs TokenAttributes, redeemed fixedpoint.Uint) fixedpoint.Uint {
	return m.base.weight(attrs, redeemed)
}

func modelFor(g GlobalState) (accrualModel, error) {
	switch g.Version {
	case VersionV12:
		return lockedRewardsAccrual{aprMultiplier: g.LockedRewardsAPRMultiplier}, nil
	case VersionV13:
		return baseAccrual{}, nil
	case VersionV2:
		return boostedAccrual{weekly: WeeklySplitting{BoostedYieldsRewardsPercentage: g.BoostedYieldsRewardsPercentage}}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, g.Version)
	}
}
