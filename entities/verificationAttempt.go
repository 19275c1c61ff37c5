package entities

import (
	"time"

	"presenza.io/application/utils"
)

// VerificationAttempt is append-only: written once per verification and
// never mutated. Used for rate limiting and auditing, not for matching.
type VerificationAttempt struct {
	IdentityClaimed string    `bson:"identityClaimed" json:"identityClaimed"`
	Succeeded       bool      `bson:"succeeded" json:"succeeded"`
	Confidence      float64   `bson:"confidence" json:"confidence"`
	Method          string    `bson:"method" json:"method"`
	AttemptedAt     time.Time `bson:"attemptedAt" json:"attemptedAt"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model VerificationAttempt) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}
