package repository

import (
	"testing"
	"time"

	"presenza.io/infrastructure/biometric/types"
)

func TestAttemptEntity(t *testing.T) {
	t.Run("keeps the decision timestamp", func(t *testing.T) {
		decidedAt := time.Date(2026, 3, 9, 8, 15, 0, 0, time.UTC)
		entity := attemptEntity(types.VerificationAttempt{
			IdentityClaimed: "student-1",
			Succeeded:       true,
			Confidence:      91.5,
			Method:          types.MethodMultiSample,
			Timestamp:       decidedAt,
		})
		if !entity.AttemptedAt.Equal(decidedAt) {
			t.Errorf("attemptedAt = %v, want %v", entity.AttemptedAt, decidedAt)
		}
		if entity.IdentityClaimed != "student-1" || !entity.Succeeded || entity.Method != types.MethodMultiSample {
			t.Errorf("unexpected mapping: %+v", entity)
		}
		if entity.Confidence != 91.5 {
			t.Errorf("confidence = %v, want 91.5", entity.Confidence)
		}
	})

	t.Run("falls back to insert time for a zero timestamp", func(t *testing.T) {
		entity := attemptEntity(types.VerificationAttempt{IdentityClaimed: "student-1"})
		if entity.AttemptedAt.IsZero() {
			t.Error("attemptedAt should never be zero")
		}
	})
}
