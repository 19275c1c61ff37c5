package biometric

import (
	"strings"
	"testing"

	"presenza.io/infrastructure/biometric/types"
)

// goodSignals is a well-lit, centered, front-facing capture on a 640x480
// frame that clears every metric.
func goodSignals() types.AuxiliarySignals {
	return types.AuxiliarySignals{
		DetectionConfidence: 0.95,
		FaceBox:             types.FaceBox{X: 160, Y: 80, Width: 320, Height: 320},
		ImageWidth:          640,
		ImageHeight:         480,
		Yaw:                 0,
		Pitch:               0,
		Roll:                0,
		Brightness:          130,
		Contrast:            60,
		Evenness:            0.8,
		LeftEye:             types.EyeSignal{Confidence: 0.9, Openness: 0.8},
		RightEye:            types.EyeSignal{Confidence: 0.9, Openness: 0.8},
		BlurVariance:        250,
	}
}

func captureWith(signals types.AuxiliarySignals) types.Capture {
	return types.Capture{
		Descriptor: basisDescriptor(0),
		Signals:    signals,
	}
}

func hasIssueContaining(assessment types.QualityAssessment, fragment string) bool {
	for _, issue := range assessment.Issues {
		if strings.Contains(issue, fragment) {
			return true
		}
	}
	return false
}

func hasFeedbackContaining(assessment types.QualityAssessment, fragment string) bool {
	for _, fb := range assessment.Feedback {
		if strings.Contains(fb, fragment) {
			return true
		}
	}
	return false
}

func TestAssessAcceptsCleanCapture(t *testing.T) {
	assessor := NewAssessor(DefaultQualityConfig())

	assessment := assessor.Assess(captureWith(goodSignals()), types.AngleFront)
	if !assessment.IsValid {
		t.Fatalf("clean capture rejected: score %f, issues %v", assessment.OverallScore, assessment.Issues)
	}
	if assessment.OverallScore < 0.9 {
		t.Errorf("overall score = %f, expected above 0.9 for a clean capture", assessment.OverallScore)
	}
	if len(assessment.Issues) != 0 {
		t.Errorf("unexpected issues: %v", assessment.Issues)
	}
}

func TestAssessRejections(t *testing.T) {
	assessor := NewAssessor(DefaultQualityConfig())

	cases := []struct {
		name         string
		mutate       func(*types.AuxiliarySignals)
		wantIssue    string
		wantFeedback string
	}{
		{
			name:      "low detection confidence",
			mutate:    func(s *types.AuxiliarySignals) { s.DetectionConfidence = 0.5 },
			wantIssue: "detection confidence too low",
		},
		{
			name:         "face too small",
			mutate:       func(s *types.AuxiliarySignals) { s.FaceBox.Width = 80 },
			wantIssue:    "face too small",
			wantFeedback: "move closer",
		},
		{
			name:         "face too large",
			mutate:       func(s *types.AuxiliarySignals) { s.FaceBox.Width = 620 },
			wantIssue:    "face too large",
			wantFeedback: "move further",
		},
		{
			name:         "too dark",
			mutate:       func(s *types.AuxiliarySignals) { s.Brightness = 40 },
			wantIssue:    "too dark",
			wantFeedback: "brighter",
		},
		{
			name:         "eyes closed",
			mutate:       func(s *types.AuxiliarySignals) { s.LeftEye.Openness = 0.1 },
			wantIssue:    "eye closed",
			wantFeedback: "keep both eyes open",
		},
		{
			name:         "blurry",
			mutate:       func(s *types.AuxiliarySignals) { s.BlurVariance = 20 },
			wantIssue:    "too blurry",
			wantFeedback: "hold the camera steady",
		},
		{
			name: "face far off center",
			mutate: func(s *types.AuxiliarySignals) {
				s.FaceBox.X = 0
				s.FaceBox.Y = 0
			},
			wantIssue: "not centered",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			signals := goodSignals()
			c.mutate(&signals)
			assessment := assessor.Assess(captureWith(signals), types.AngleFront)

			if !hasIssueContaining(assessment, c.wantIssue) {
				t.Errorf("issues = %v, want one containing %q", assessment.Issues, c.wantIssue)
			}
			if c.wantFeedback != "" && !hasFeedbackContaining(assessment, c.wantFeedback) {
				t.Errorf("feedback = %v, want one containing %q", assessment.Feedback, c.wantFeedback)
			}
		})
	}
}

func TestAssessPoseTargets(t *testing.T) {
	assessor := NewAssessor(DefaultQualityConfig())

	t.Run("left capture expects negative yaw", func(t *testing.T) {
		signals := goodSignals()
		signals.Yaw = -20
		assessment := assessor.Assess(captureWith(signals), types.AngleLeft)
		if !assessment.IsValid {
			t.Errorf("left capture at -20 yaw rejected: %v", assessment.Issues)
		}
	})

	t.Run("frontal yaw fails a right capture", func(t *testing.T) {
		signals := goodSignals()
		signals.Yaw = -20
		assessment := assessor.Assess(captureWith(signals), types.AngleRight)
		if !hasIssueContaining(assessment, "not turned") {
			t.Errorf("issues = %v, want head-not-turned issue", assessment.Issues)
		}
		if !hasFeedbackContaining(assessment, "right") {
			t.Errorf("feedback = %v, want a turn-right hint", assessment.Feedback)
		}
	})

	t.Run("empty target defaults to front", func(t *testing.T) {
		assessment := assessor.Assess(captureWith(goodSignals()), "")
		if !assessment.IsValid {
			t.Errorf("frontal capture with empty target rejected: %v", assessment.Issues)
		}
	})
}

func TestAssessLivenessFailureZeroesScore(t *testing.T) {
	assessor := NewAssessor(DefaultQualityConfig())

	signals := goodSignals()
	signals.Liveness = &types.LivenessResult{
		Passed:     false,
		Challenges: map[string]bool{"blink": false, "smile": true},
	}
	assessment := assessor.Assess(captureWith(signals), types.AngleFront)

	if assessment.IsValid {
		t.Error("capture with failed liveness accepted")
	}
	if assessment.OverallScore != 0 {
		t.Errorf("overall score = %f, want 0", assessment.OverallScore)
	}
	if !hasIssueContaining(assessment, "liveness") {
		t.Errorf("issues = %v, want liveness issue", assessment.Issues)
	}
	if !hasFeedbackContaining(assessment, "blink") {
		t.Errorf("feedback = %v, want a redo-blink hint", assessment.Feedback)
	}
}

func TestAxisScore(t *testing.T) {
	cases := []struct {
		value, target, tolerance, want float64
	}{
		{0, 0, 12, 1},
		{12, 0, 12, 1},    // exactly on tolerance
		{18, 0, 12, 0.5},  // halfway through the decay band
		{24, 0, 12, 0},    // twice the tolerance
		{-30, -20, 12, 1}, // offset target
	}
	for _, c := range cases {
		if got := axisScore(c.value, c.target, c.tolerance); got != c.want {
			t.Errorf("axisScore(%f, %f, %f) = %f, want %f", c.value, c.target, c.tolerance, got, c.want)
		}
	}
}
