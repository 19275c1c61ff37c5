package dto

import (
	"presenza.io/infrastructure/biometric/types"
)

type VerifyStudentDTO struct {
	StudentID string        `json:"studentID" validate:"required"`
	Capture   types.Capture `json:"capture" validate:"required"`
	// MarkAttendance records the student present for today when the
	// verification succeeds. The attendance write never affects the
	// verification outcome.
	MarkAttendance bool `json:"markAttendance"`
}

type VerificationResponse struct {
	Decision   *types.VerificationDecision `json:"decision"`
	Attendance *AttendanceOutcome          `json:"attendance,omitempty"`
}

type AttendanceOutcome struct {
	Marked        bool   `json:"marked"`
	AlreadyMarked bool   `json:"alreadyMarked"`
	Day           string `json:"day"`
	Error         string `json:"error,omitempty"`
}
