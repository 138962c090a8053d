package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Farms is the static farm registry. Dynamic farm state (reward per share,
// supply, block nonces) arrives with each request.
type Farms struct {
	Farms []Farm `yaml:"farms"`
}

// Farm describes one farm contract.
type Farm struct {
	Address                        string `yaml:"address"`
	Version                        string `yaml:"version"`
	DivisionSafetyConstant         string `yaml:"division_safety_constant"`
	MinimumFarmingEpochs           uint64 `yaml:"minimum_farming_epochs"`
	PenaltyPercent                 uint64 `yaml:"penalty_percent"`
	LockedRewardsAPRMultiplier     uint64 `yaml:"locked_rewards_apr_multiplier"`
	BoostedYieldsRewardsPercentage uint64 `yaml:"boosted_yields_rewards_percentage"`
}

const defaultDivisionSafetyConstant = "1000000000000"

// LoadFarms reads the farm registry from the supplied path.
func LoadFarms(path string) (Farms, error) {
	farms := Farms{}
	file, err := os.Open(path)
	if err != nil {
		return farms, fmt.Errorf("open farms file: %w", err)
	}
	defer file.Close()
	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(&farms); err != nil {
		return farms, fmt.Errorf("decode farms file: %w", err)
	}
	applyFarmDefaults(&farms)
	if err := validateFarms(farms); err != nil {
		return farms, err
	}
	return farms, nil
}

func applyFarmDefaults(farms *Farms) {
	for i := range farms.Farms {
		f := &farms.Farms[i]
		f.Address = strings.ToLower(strings.TrimSpace(f.Address))
		if f.DivisionSafetyConstant == "" {
			f.DivisionSafetyConstant = defaultDivisionSafetyConstant
		}
	}
}

func validateFarms(farms Farms) error {
	seen := make(map[string]struct{}, len(farms.Farms))
	for i, f := range farms.Farms {
		if f.Address == "" {
			return fmt.Errorf("%w: farm %d: address is required", ErrInvalidFarm, i)
		}
		if _, dup := seen[f.Address]; dup {
			return fmt.Errorf("%w: farm %d: duplicate address %s", ErrInvalidFarm, i, f.Address)
		}
		seen[f.Address] = struct{}{}
		if f.Version == "" {
			return fmt.Errorf("%w: farm %s: version is required", ErrInvalidFarm, f.Address)
		}
	}
	return nil
}
