package biometric

import (
	"fmt"
	"math"

	"presenza.io/infrastructure/biometric/types"
)

// Assessor scores a single capture against geometric, photometric and pose
// criteria. It is a pure function of its input: no storage, no side effects.
// Used to gatekeep every enrollment sample and to weight verification
// thresholds through the stored per-sample quality score.
type Assessor struct {
	cfg QualityConfig
}

func NewAssessor(cfg QualityConfig) *Assessor {
	return &Assessor{cfg: cfg}
}

// Assess scores the capture for the given target angle. FRONT is assumed
// when no target is supplied. Failing sub-metrics produce human-readable
// feedback, but the only scalar gate is the overall weighted score.
func (a *Assessor) Assess(capture types.Capture, targetAngle types.CaptureAngle) types.QualityAssessment {
	if targetAngle == "" {
		targetAngle = types.AngleFront
	}

	assessment := types.QualityAssessment{
		MetricScores: map[string]float64{},
		Issues:       []string{},
		Feedback:     []string{},
	}

	detection := a.scoreDetection(capture.Signals, &assessment)
	faceSize := a.scoreFaceSize(capture.Signals, &assessment)
	pose := a.scorePose(capture.Signals, targetAngle, &assessment)
	lighting := a.scoreLighting(capture.Signals, &assessment)
	eyes := a.scoreEyes(capture.Signals, &assessment)
	sharpness := a.scoreSharpness(capture.Signals, &assessment)
	centering := a.scoreCentering(capture.Signals, &assessment)

	assessment.MetricScores["detection"] = detection
	assessment.MetricScores["faceSize"] = faceSize
	assessment.MetricScores["pose"] = pose
	assessment.MetricScores["lighting"] = lighting
	assessment.MetricScores["eyes"] = eyes
	assessment.MetricScores["sharpness"] = sharpness
	assessment.MetricScores["centering"] = centering

	overall := detection*a.cfg.DetectionWeight +
		faceSize*a.cfg.FaceSizeWeight +
		pose*a.cfg.PoseWeight +
		lighting*a.cfg.LightingWeight +
		eyes*a.cfg.EyesWeight +
		sharpness*a.cfg.SharpnessWeight +
		centering*a.cfg.CenteringWeight

	// A failed liveness challenge zeroes the capture without introducing a
	// second scalar gate.
	if capture.Signals.Liveness != nil && !capture.Signals.Liveness.Passed {
		overall = 0
		assessment.Issues = append(assessment.Issues, "liveness challenge failed")
		for challenge, passed := range capture.Signals.Liveness.Challenges {
			if !passed {
				assessment.Feedback = append(assessment.Feedback, fmt.Sprintf("redo the %s challenge", challenge))
			}
		}
	}

	assessment.OverallScore = overall
	assessment.IsValid = overall >= a.cfg.MinOverallScore
	return assessment
}

func (a *Assessor) scoreDetection(signals types.AuxiliarySignals, assessment *types.QualityAssessment) float64 {
	conf := signals.DetectionConfidence
	if conf < a.cfg.MinDetectionConfidence {
		assessment.Issues = append(assessment.Issues, "face detection confidence too low")
		assessment.Feedback = append(assessment.Feedback, "make sure the face is fully visible and unobstructed")
		return 0
	}
	// map [min,1] onto [0.5,1] so a just-passing detection still contributes
	span := 1 - a.cfg.MinDetectionConfidence
	if span <= 0 {
		return 1
	}
	return 0.5 + 0.5*(conf-a.cfg.MinDetectionConfidence)/span
}

func (a *Assessor) scoreFaceSize(signals types.AuxiliarySignals, assessment *types.QualityAssessment) float64 {
	size := signals.FaceBox.Width
	if size < a.cfg.MinFaceSize {
		assessment.Issues = append(assessment.Issues, "face too small in frame")
		assessment.Feedback = append(assessment.Feedback, "move closer to the camera")
		return 0
	}
	if size > a.cfg.MaxFaceSize {
		assessment.Issues = append(assessment.Issues, "face too large in frame")
		assessment.Feedback = append(assessment.Feedback, "move further from the camera")
		return 0
	}
	// peak at the optimal size, decaying to 0.5 at either bound
	var halfSpan float64
	if size < a.cfg.OptimalFaceSize {
		halfSpan = a.cfg.OptimalFaceSize - a.cfg.MinFaceSize
	} else {
		halfSpan = a.cfg.MaxFaceSize - a.cfg.OptimalFaceSize
	}
	if halfSpan <= 0 {
		return 1
	}
	return 1 - 0.5*math.Abs(size-a.cfg.OptimalFaceSize)/halfSpan
}

func (a *Assessor) scorePose(signals types.AuxiliarySignals, targetAngle types.CaptureAngle, assessment *types.QualityAssessment) float64 {
	targetYaw := 0.0
	switch targetAngle {
	case types.AngleLeft:
		targetYaw = -a.cfg.SideYawDegrees
	case types.AngleRight:
		targetYaw = a.cfg.SideYawDegrees
	}

	yawScore := axisScore(signals.Yaw, targetYaw, a.cfg.YawTolerance)
	pitchScore := axisScore(signals.Pitch, 0, a.cfg.PitchTolerance)
	rollScore := axisScore(signals.Roll, 0, a.cfg.RollTolerance)

	if yawScore == 0 {
		assessment.Issues = append(assessment.Issues, fmt.Sprintf("head not turned to the %s position", targetAngle))
		switch targetAngle {
		case types.AngleLeft:
			assessment.Feedback = append(assessment.Feedback, "turn your head slightly to the left")
		case types.AngleRight:
			assessment.Feedback = append(assessment.Feedback, "turn your head slightly to the right")
		default:
			assessment.Feedback = append(assessment.Feedback, "look straight at the camera")
		}
	}
	if pitchScore == 0 {
		assessment.Issues = append(assessment.Issues, "head tilted up or down too far")
		assessment.Feedback = append(assessment.Feedback, "keep your chin level")
	}
	if rollScore == 0 {
		assessment.Issues = append(assessment.Issues, "head rotated sideways")
		assessment.Feedback = append(assessment.Feedback, "keep your head upright")
	}

	return (yawScore + pitchScore + rollScore) / 3
}

// axisScore is 1 inside the tolerance band and decays linearly to 0 at twice
// the tolerance.
func axisScore(value, target, tolerance float64) float64 {
	deviation := math.Abs(value - target)
	if deviation <= tolerance {
		return 1
	}
	if deviation >= 2*tolerance {
		return 0
	}
	return 1 - (deviation-tolerance)/tolerance
}

func (a *Assessor) scoreLighting(signals types.AuxiliarySignals, assessment *types.QualityAssessment) float64 {
	brightness := signals.Brightness
	var brightnessScore float64
	switch {
	case brightness < a.cfg.MinBrightness:
		assessment.Issues = append(assessment.Issues, "image too dark")
		assessment.Feedback = append(assessment.Feedback, "move to a brighter spot or face a light source")
	case brightness > a.cfg.MaxBrightness:
		assessment.Issues = append(assessment.Issues, "image too bright")
		assessment.Feedback = append(assessment.Feedback, "avoid direct light behind or in front of the camera")
	default:
		var halfSpan float64
		if brightness < a.cfg.OptimalBrightness {
			halfSpan = a.cfg.OptimalBrightness - a.cfg.MinBrightness
		} else {
			halfSpan = a.cfg.MaxBrightness - a.cfg.OptimalBrightness
		}
		if halfSpan <= 0 {
			brightnessScore = 1
		} else {
			brightnessScore = 1 - 0.5*math.Abs(brightness-a.cfg.OptimalBrightness)/halfSpan
		}
	}

	contrastScore := 1.0
	if signals.Contrast < a.cfg.MinContrast {
		contrastScore = signals.Contrast / a.cfg.MinContrast
		assessment.Issues = append(assessment.Issues, "image contrast too low")
	}
	evennessScore := 1.0
	if signals.Evenness < a.cfg.MinEvenness {
		evennessScore = signals.Evenness / a.cfg.MinEvenness
		assessment.Issues = append(assessment.Issues, "uneven lighting across the face")
		assessment.Feedback = append(assessment.Feedback, "avoid strong side lighting")
	}

	return 0.6*brightnessScore + 0.2*contrastScore + 0.2*evennessScore
}

func (a *Assessor) scoreEyes(signals types.AuxiliarySignals, assessment *types.QualityAssessment) float64 {
	eyes := []struct {
		name   string
		signal types.EyeSignal
	}{
		{"left", signals.LeftEye},
		{"right", signals.RightEye},
	}
	score := 1.0
	for _, eye := range eyes {
		if eye.signal.Confidence < a.cfg.MinEyeConfidence {
			assessment.Issues = append(assessment.Issues, fmt.Sprintf("%s eye not detected clearly", eye.name))
			assessment.Feedback = append(assessment.Feedback, "remove glasses or hair covering the eyes")
			return 0
		}
		if eye.signal.Openness < a.cfg.MinEyeOpenness {
			assessment.Issues = append(assessment.Issues, fmt.Sprintf("%s eye closed or blinking", eye.name))
			assessment.Feedback = append(assessment.Feedback, "keep both eyes open")
			return 0
		}
		// scale openness above the floor onto [0.5,1]
		span := 1 - a.cfg.MinEyeOpenness
		eyeScore := 1.0
		if span > 0 {
			eyeScore = 0.5 + 0.5*(eye.signal.Openness-a.cfg.MinEyeOpenness)/span
			if eyeScore > 1 {
				eyeScore = 1
			}
		}
		if eyeScore < score {
			score = eyeScore
		}
	}
	return score
}

func (a *Assessor) scoreSharpness(signals types.AuxiliarySignals, assessment *types.QualityAssessment) float64 {
	variance := signals.BlurVariance
	if variance < a.cfg.MinBlurVariance {
		assessment.Issues = append(assessment.Issues, "image too blurry")
		assessment.Feedback = append(assessment.Feedback, "hold the camera steady")
		return 0
	}
	score := variance / a.cfg.OptimalBlurVariance
	if score > 1 {
		score = 1
	}
	return score
}

func (a *Assessor) scoreCentering(signals types.AuxiliarySignals, assessment *types.QualityAssessment) float64 {
	if signals.ImageWidth <= 0 || signals.ImageHeight <= 0 {
		assessment.Issues = append(assessment.Issues, "image dimensions missing")
		return 0
	}
	faceCenterX := signals.FaceBox.X + signals.FaceBox.Width/2
	faceCenterY := signals.FaceBox.Y + signals.FaceBox.Height/2
	offsetX := (faceCenterX - signals.ImageWidth/2) / signals.ImageWidth
	offsetY := (faceCenterY - signals.ImageHeight/2) / signals.ImageHeight
	offset := math.Sqrt(offsetX*offsetX + offsetY*offsetY)

	if offset > a.cfg.MaxCenterOffset {
		assessment.Issues = append(assessment.Issues, "face not centered in frame")
		// the offset direction is actionable: tell the person where to move
		if math.Abs(offsetX) >= math.Abs(offsetY) {
			if offsetX > 0 {
				assessment.Feedback = append(assessment.Feedback, "move left")
			} else {
				assessment.Feedback = append(assessment.Feedback, "move right")
			}
		} else {
			if offsetY > 0 {
				assessment.Feedback = append(assessment.Feedback, "move up")
			} else {
				assessment.Feedback = append(assessment.Feedback, "move down")
			}
		}
		return 0
	}
	return 1 - offset/a.cfg.MaxCenterOffset
}
