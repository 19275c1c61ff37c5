package biometric

import (
	"errors"
	"fmt"
	"strings"

	"presenza.io/infrastructure/biometric/types"
)

// Sentinel errors for malformed input and state machine violations. All of
// these are caller-visible outcomes and are returned before any state change.
var (
	ErrInvalidDescriptor    = errors.New("descriptor is malformed")
	ErrDegenerateDescriptor = errors.New("descriptor has zero magnitude")
	ErrSessionNotActive     = errors.New("enrollment session is not active")
	ErrActiveSessionExists  = errors.New("an active enrollment session already exists for this identity")
	ErrNotEnrolled          = errors.New("identity has no biometric record")
)

// QualityError carries the full assessment so the caller can surface which
// metric failed and how to fix it.
type QualityError struct {
	Assessment types.QualityAssessment
}

func (e *QualityError) Error() string {
	if len(e.Assessment.Issues) == 0 {
		return fmt.Sprintf("capture rejected: overall quality %.2f below minimum", e.Assessment.OverallScore)
	}
	return fmt.Sprintf("capture rejected: %s", strings.Join(e.Assessment.Issues, "; "))
}

// DuplicateIdentityError names the conflicting identity so staff can
// investigate the collision.
type DuplicateIdentityError struct {
	ConflictingIdentityID string
	Distance              float64
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("face already enrolled for identity %s (distance %.3f)", e.ConflictingIdentityID, e.Distance)
}

// AlreadyEnrolledError is returned when enrollment starts for an identity
// with a live record and no explicit re-enrollment request.
type AlreadyEnrolledError struct {
	IdentityID string
}

func (e *AlreadyEnrolledError) Error() string {
	return fmt.Sprintf("identity %s already has a completed biometric record", e.IdentityID)
}

// IncompleteCoverageError lists the capture angles still missing when a
// session tries to complete.
type IncompleteCoverageError struct {
	Missing []types.CaptureAngle
}

func (e *IncompleteCoverageError) Error() string {
	angles := make([]string, len(e.Missing))
	for i, a := range e.Missing {
		angles[i] = string(a)
	}
	return fmt.Sprintf("enrollment incomplete, missing angles: %s", strings.Join(angles, ", "))
}
