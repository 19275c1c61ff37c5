package biometric

import (
	"context"

	"presenza.io/infrastructure/biometric/types"
)

// UniquenessChecker guards the population-wide invariant that no two
// identities hold samples closer than the uniqueness threshold. It runs a
// linear scan over all enrolled samples; at tens to low thousands of
// identities with a handful of samples each this is cheap, and the Store
// boundary leaves room to swap in an approximate-nearest-neighbor index
// without changing this contract.
type UniquenessChecker struct {
	store Store
	cfg   UniquenessConfig
}

func NewUniquenessChecker(store Store, cfg UniquenessConfig) *UniquenessChecker {
	return &UniquenessChecker{store: store, cfg: cfg}
}

// CheckUniqueness compares a normalized candidate descriptor against every
// stored sample belonging to any identity other than excludeIdentityID and
// reports the closest conflict under the threshold, if any.
func (c *UniquenessChecker) CheckUniqueness(ctx context.Context, candidate []float64, excludeIdentityID string) (*types.UniquenessResult, error) {
	others, err := c.store.SamplesExcludingIdentity(ctx, excludeIdentityID)
	if err != nil {
		return nil, err
	}

	result := &types.UniquenessResult{}
	closest := c.cfg.Threshold
	for _, other := range others {
		distance := EuclideanDistance(candidate, other.Sample.Descriptor)
		if distance < closest {
			closest = distance
			result.IsDuplicate = true
			result.ConflictingIdentityID = other.IdentityID
			result.Distance = distance
		}
	}
	return result, nil
}
