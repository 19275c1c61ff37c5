package biometric

import (
	"context"
	"time"

	"presenza.io/infrastructure/biometric/types"
	"presenza.io/infrastructure/logger"
)

// Matcher decides whether a live capture matches a previously enrolled
// identity. It is read-only with respect to the biometric record; the only
// write it performs is the append-only attempt log.
type Matcher struct {
	store Store
	cfg   MatcherConfig
}

func NewMatcher(store Store, cfg MatcherConfig) *Matcher {
	return &Matcher{store: store, cfg: cfg}
}

// adaptiveThreshold loosens the match distance for lower-quality stored
// samples: a noisy enrollment sample should not make verification harder
// than a clean one.
func (m *Matcher) adaptiveThreshold(sampleQuality float64) float64 {
	threshold := m.cfg.BaseThreshold + (1-sampleQuality)*m.cfg.AdaptiveRange
	if threshold > m.cfg.MaxThreshold {
		return m.cfg.MaxThreshold
	}
	return threshold
}

// Verify compares the live capture against every stored sample for the
// claimed identity. The decision requires at least one sample within its
// adaptive threshold AND either a confidence above the floor or a strong
// match; a borderline match on a lenient threshold alone is not enough.
// Every attempt is appended to the audit log regardless of the outcome, and
// the caller's attendance side effect must never gate that append.
func (m *Matcher) Verify(ctx context.Context, identityID string, live types.Capture) (*types.VerificationDecision, error) {
	normalized, err := Normalize(live.Descriptor)
	if err != nil {
		return nil, err
	}

	samples, err := m.store.SamplesByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}

	var decision *types.VerificationDecision
	if len(samples) > 0 {
		decision = m.matchMultiSample(normalized, samples)
	} else {
		// records that predate multi-sample enrollment keep a single
		// descriptor; compare against a fixed threshold and tag the result
		legacy, err := m.store.LegacyDescriptor(ctx, identityID)
		if err != nil {
			return nil, err
		}
		if legacy == nil {
			return nil, ErrNotEnrolled
		}
		decision = m.matchLegacy(normalized, legacy)
	}

	m.recordAttempt(ctx, identityID, decision)
	return decision, nil
}

func (m *Matcher) matchMultiSample(live []float64, samples []types.StoredSample) *types.VerificationDecision {
	var best *types.SampleMatch
	anyWithinThreshold := false
	anyStrongMatch := false

	for _, sample := range samples {
		distance := EuclideanDistance(live, sample.Descriptor)
		similarity := DistanceToSimilarity(distance)
		threshold := m.adaptiveThreshold(sample.QualityScore)

		if distance < threshold {
			anyWithinThreshold = true
		}
		if similarity >= m.cfg.StrongMatchSimilarity {
			anyStrongMatch = true
		}
		if best == nil || distance < best.Distance {
			best = &types.SampleMatch{
				Angle:      sample.Angle,
				Distance:   distance,
				Similarity: similarity,
				Threshold:  threshold,
			}
		}
	}

	confidence := best.Similarity * 100
	verified := anyWithinThreshold && (confidence > m.cfg.ConfidenceFloor || anyStrongMatch)

	return &types.VerificationDecision{
		Verified:        verified,
		Confidence:      confidence,
		BestMatch:       best,
		SamplesCompared: len(samples),
		Method:          types.MethodMultiSample,
	}
}

func (m *Matcher) matchLegacy(live []float64, legacy []float64) *types.VerificationDecision {
	normalizedLegacy, err := Normalize(legacy)
	if err != nil {
		// a corrupt legacy record is treated as no record at all
		logger.Warning("legacy descriptor failed normalization", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return &types.VerificationDecision{
			Verified:   false,
			Confidence: 0,
			Method:     types.MethodLegacySingle,
		}
	}

	distance := EuclideanDistance(live, normalizedLegacy)
	similarity := DistanceToSimilarity(distance)
	confidence := similarity * 100

	return &types.VerificationDecision{
		Verified:   distance < m.cfg.LegacyThreshold,
		Confidence: confidence,
		BestMatch: &types.SampleMatch{
			Angle:      types.AngleFront,
			Distance:   distance,
			Similarity: similarity,
			Threshold:  m.cfg.LegacyThreshold,
		},
		SamplesCompared: 1,
		Method:          types.MethodLegacySingle,
	}
}

// recordAttempt appends to the attempt log. A failed append is logged and
// swallowed: the decision already stands and the log must never block or
// invalidate it.
func (m *Matcher) recordAttempt(ctx context.Context, identityID string, decision *types.VerificationDecision) {
	err := m.store.AppendAttempt(ctx, types.VerificationAttempt{
		IdentityClaimed: identityID,
		Succeeded:       decision.Verified,
		Confidence:      decision.Confidence,
		Method:          decision.Method,
		Timestamp:       time.Now(),
	})
	if err != nil {
		logger.Error("could not append verification attempt", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "identityID",
			Data: identityID,
		})
	}
}
