package biometric

import (
	"presenza.io/application/constants"
	"presenza.io/infrastructure/biometric/types"
)

// DescriptorLength is the fixed length every descriptor must have. The
// upstream extractor produces 128-dimensional embeddings.
const DescriptorLength = 128

// QualityConfig collects every knob of the capture quality gate. The weights
// must sum to 1; the overall score is the only scalar gate.
type QualityConfig struct {
	// metric weights
	DetectionWeight float64
	FaceSizeWeight  float64
	PoseWeight      float64
	LightingWeight  float64
	EyesWeight      float64
	SharpnessWeight float64
	CenteringWeight float64

	MinOverallScore float64

	MinDetectionConfidence float64

	// face width bounds in pixels, with the score peaking at OptimalFaceSize
	MinFaceSize     float64
	MaxFaceSize     float64
	OptimalFaceSize float64

	// pose tolerance per axis in degrees, and the yaw offset expected for
	// LEFT/RIGHT captures
	YawTolerance    float64
	PitchTolerance  float64
	RollTolerance   float64
	SideYawDegrees  float64

	// lighting band, 0-255 brightness scale
	MinBrightness     float64
	MaxBrightness     float64
	OptimalBrightness float64
	MinContrast       float64
	MinEvenness       float64

	MinEyeConfidence float64
	MinEyeOpenness   float64

	// Laplacian variance floor and the value at which sharpness saturates
	MinBlurVariance     float64
	OptimalBlurVariance float64

	// maximum face-center offset from image center, as a fraction of the
	// image dimension
	MaxCenterOffset float64
}

// MatcherConfig holds the verification thresholds. These are observed,
// tuned-in-production heuristics, not derived constants; treat them as
// configuration.
type MatcherConfig struct {
	// BaseThreshold is the match distance for a perfect-quality stored
	// sample; lower quality samples get up to AdaptiveRange added so a noisy
	// enrollment sample does not make verification harder than a clean one.
	BaseThreshold         float64
	AdaptiveRange         float64
	MaxThreshold          float64
	ConfidenceFloor       float64
	StrongMatchSimilarity float64
	// LegacyThreshold is the fixed distance used for single-descriptor
	// records that predate multi-sample enrollment.
	LegacyThreshold float64
}

// UniquenessConfig controls the cross-identity collision check. The
// threshold is deliberately stricter than the verification band.
type UniquenessConfig struct {
	Threshold float64
}

// Config is the full tuning surface of the engine.
type Config struct {
	Quality        QualityConfig
	Matcher        MatcherConfig
	Uniqueness     UniquenessConfig
	RequiredAngles []types.CaptureAngle
}

func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		DetectionWeight: 0.20,
		FaceSizeWeight:  0.15,
		PoseWeight:      0.20,
		LightingWeight:  0.15,
		EyesWeight:      0.10,
		SharpnessWeight: 0.10,
		CenteringWeight: 0.10,

		MinOverallScore: 0.7,

		MinDetectionConfidence: 0.8,

		MinFaceSize:     120,
		MaxFaceSize:     600,
		OptimalFaceSize: 320,

		YawTolerance:   12,
		PitchTolerance: 12,
		RollTolerance:  10,
		SideYawDegrees: 20,

		MinBrightness:     70,
		MaxBrightness:     200,
		OptimalBrightness: 130,
		MinContrast:       30,
		MinEvenness:       0.5,

		MinEyeConfidence: 0.6,
		MinEyeOpenness:   0.35,

		MinBlurVariance:     60,
		OptimalBlurVariance: 250,

		MaxCenterOffset: 0.25,
	}
}

func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		BaseThreshold:         0.42,
		AdaptiveRange:         0.12,
		MaxThreshold:          0.55,
		ConfidenceFloor:       70,
		StrongMatchSimilarity: 0.8,
		LegacyThreshold:       0.5,
	}
}

func DefaultUniquenessConfig() UniquenessConfig {
	return UniquenessConfig{Threshold: 0.6}
}

func defaultRequiredAngles() []types.CaptureAngle {
	angles := make([]types.CaptureAngle, 0, len(constants.REQUIRED_CAPTURE_ANGLES))
	for _, angle := range constants.REQUIRED_CAPTURE_ANGLES {
		angles = append(angles, types.CaptureAngle(angle))
	}
	return angles
}

func DefaultConfig() Config {
	return Config{
		Quality:        DefaultQualityConfig(),
		Matcher:        DefaultMatcherConfig(),
		Uniqueness:     DefaultUniquenessConfig(),
		RequiredAngles: defaultRequiredAngles(),
	}
}
