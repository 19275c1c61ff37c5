package dto

import (
	"presenza.io/infrastructure/biometric/types"
)

type StartEnrollmentDTO struct {
	StudentID string `json:"studentID" validate:"required"`
	Reenroll  bool   `json:"reenroll"`
	Reason    string `json:"reason"` // required for re-enrollment, audited
}

type AddEnrollmentSampleDTO struct {
	SessionID string        `json:"sessionID" validate:"required"`
	Capture   types.Capture `json:"capture" validate:"required"`
}

type CompleteEnrollmentDTO struct {
	SessionID string `json:"sessionID" validate:"required"`
}

type CancelEnrollmentDTO struct {
	SessionID string `json:"sessionID" validate:"required"`
}
