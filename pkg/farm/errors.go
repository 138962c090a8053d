package farm

import "errors"

var (
	// ErrEmptyFarm signals a zero farm token supply during accrual. Callers of
	// ComputeRewardsForPosition never see it: nothing was shareable, so the
	// reward is 0.
	ErrEmptyFarm = errors.New("farm token supply is zero")

	ErrUnknownVersion    = errors.New("unknown farm version")
	ErrInvalidPercentage = errors.New("percentage exceeds maximum")
	ErrInvalidPenalty    = errors.New("penalty percent exceeds maximum")
)
