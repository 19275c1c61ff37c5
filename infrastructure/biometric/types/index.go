package types

import "time"

// CaptureAngle is the pose a capture was (or should have been) taken at.
type CaptureAngle string

const (
	AngleFront CaptureAngle = "FRONT"
	AngleLeft  CaptureAngle = "LEFT"
	AngleRight CaptureAngle = "RIGHT"
)

// SessionState tracks the enrollment session state machine. Completed and
// cancelled are terminal.
type SessionState string

const (
	SessionActive    SessionState = "active"
	SessionCompleted SessionState = "completed"
	SessionCancelled SessionState = "cancelled"
)

// FaceBox is the detected face bounding box in pixel coordinates.
type FaceBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// EyeSignal carries the per-eye outputs of the upstream detector.
type EyeSignal struct {
	Confidence float64 `json:"confidence"`
	Openness   float64 `json:"openness"`
}

// LivenessResult is the outcome of the client-side liveness challenge
// sequence. Only the result is consumed here; prompting is a UI concern.
type LivenessResult struct {
	Passed     bool            `json:"passed"`
	Challenges map[string]bool `json:"challenges"`
}

// AuxiliarySignals are the detector outputs that travel alongside a
// descriptor. The descriptor-producing service is a black box; this is the
// contract it must satisfy.
type AuxiliarySignals struct {
	DetectionConfidence float64         `json:"detectionConfidence"`
	FaceBox             FaceBox         `json:"faceBox"`
	ImageWidth          float64         `json:"imageWidth"`
	ImageHeight         float64         `json:"imageHeight"`
	Yaw                 float64         `json:"yaw"`
	Pitch               float64         `json:"pitch"`
	Roll                float64         `json:"roll"`
	Brightness          float64         `json:"brightness"`
	Contrast            float64         `json:"contrast"`
	Evenness            float64         `json:"evenness"`
	LeftEye             EyeSignal       `json:"leftEye"`
	RightEye            EyeSignal       `json:"rightEye"`
	BlurVariance        float64         `json:"blurVariance"`
	Liveness            *LivenessResult `json:"liveness"`
}

// Capture is one camera sample as received from the routing layer.
type Capture struct {
	Descriptor  []float64        `json:"descriptor"`
	TargetAngle CaptureAngle     `json:"targetAngle"`
	Signals     AuxiliarySignals `json:"signals"`
	CapturedAt  time.Time        `json:"capturedAt"`
}

// StoredSample is a finalized, normalized capture owned by an identity (or,
// while a session is active, by that session).
type StoredSample struct {
	Descriptor   []float64    `bson:"descriptor" json:"descriptor"`
	Angle        CaptureAngle `bson:"angle" json:"angle"`
	QualityScore float64      `bson:"qualityScore" json:"qualityScore"`
	CapturedAt   time.Time    `bson:"capturedAt" json:"capturedAt"`
}

// IdentitySample pairs a stored sample with the identity that owns it, used
// by the uniqueness scan across the whole population.
type IdentitySample struct {
	IdentityID string
	Sample     StoredSample
}

// SessionRecord is the engine's view of an enrollment session.
type SessionRecord struct {
	SessionID      string         `bson:"sessionID" json:"sessionID"`
	IdentityID     string         `bson:"identityID" json:"identityID"`
	State          SessionState   `bson:"state" json:"state"`
	RequiredAngles []CaptureAngle `bson:"requiredAngles" json:"requiredAngles"`
	Samples        []StoredSample `bson:"samples" json:"samples"`
	Reenrollment   bool           `bson:"reenrollment" json:"reenrollment"`
	StartedAt      time.Time      `bson:"startedAt" json:"startedAt"`
	LastActivityAt time.Time      `bson:"lastActivityAt" json:"lastActivityAt"`
	CompletedAt    *time.Time     `bson:"completedAt" json:"completedAt"`
}

// QualityAssessment is the verdict on a single capture.
type QualityAssessment struct {
	IsValid      bool               `json:"isValid"`
	OverallScore float64            `json:"overallScore"`
	MetricScores map[string]float64 `json:"metricScores"`
	Issues       []string           `json:"issues"`
	Feedback     []string           `json:"feedback"`
}

// UniquenessResult reports whether a candidate descriptor collides with a
// sample already claimed by another identity.
type UniquenessResult struct {
	IsDuplicate           bool    `json:"isDuplicate"`
	ConflictingIdentityID string  `json:"conflictingIdentityID,omitempty"`
	Distance              float64 `json:"distance,omitempty"`
}

// CoverageStatus reports enrollment progress after a sample is accepted.
type CoverageStatus struct {
	SessionID string         `json:"sessionID"`
	Captured  []CaptureAngle `json:"captured"`
	Remaining []CaptureAngle `json:"remaining"`
	Complete  bool           `json:"complete"`
}

// EnrollmentSummary is returned when a session finalizes.
type EnrollmentSummary struct {
	SessionID        string    `json:"sessionID"`
	IdentityID       string    `json:"identityID"`
	SampleCount      int       `json:"sampleCount"`
	AggregateQuality float64   `json:"aggregateQuality"`
	CompletedAt      time.Time `json:"completedAt"`
}

// SampleMatch describes the comparison against one stored sample.
type SampleMatch struct {
	Angle      CaptureAngle `json:"angle"`
	Distance   float64      `json:"distance"`
	Similarity float64      `json:"similarity"`
	Threshold  float64      `json:"threshold"`
}

// Verification methods reported in decisions and attempt logs.
const (
	MethodMultiSample  = "multi-sample"
	MethodLegacySingle = "legacy-single"
)

// VerificationDecision is the outcome of matching a live capture against an
// identity's stored record.
type VerificationDecision struct {
	Verified        bool         `json:"verified"`
	Confidence      float64      `json:"confidence"`
	BestMatch       *SampleMatch `json:"bestMatch,omitempty"`
	SamplesCompared int          `json:"samplesCompared"`
	Method          string       `json:"method"`
}

// VerificationAttempt is the append-only audit entry written for every
// verification, successful or not. Never mutated after creation.
type VerificationAttempt struct {
	IdentityClaimed string    `bson:"identityClaimed" json:"identityClaimed"`
	Succeeded       bool      `bson:"succeeded" json:"succeeded"`
	Confidence      float64   `bson:"confidence" json:"confidence"`
	Method          string    `bson:"method" json:"method"`
	Timestamp       time.Time `bson:"timestamp" json:"timestamp"`
}
