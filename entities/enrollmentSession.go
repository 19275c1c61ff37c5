package entities

import (
	"time"

	"presenza.io/application/utils"
	"presenza.io/infrastructure/biometric/types"
)

// EnrollmentSession persists the engine's session record. The session
// manager exclusively owns rows in the active state; completed and cancelled
// rows are inert history.
type EnrollmentSession struct {
	IdentityID     string               `bson:"identityID" json:"identityID"`
	State          types.SessionState   `bson:"state" json:"state"`
	RequiredAngles []types.CaptureAngle `bson:"requiredAngles" json:"requiredAngles"`
	Samples        []types.StoredSample `bson:"samples" json:"samples"`
	Reenrollment   bool                 `bson:"reenrollment" json:"reenrollment"`
	StartedAt      time.Time            `bson:"startedAt" json:"startedAt"`
	LastActivityAt time.Time            `bson:"lastActivityAt" json:"lastActivityAt"`
	CompletedAt    *time.Time           `bson:"completedAt" json:"completedAt"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model EnrollmentSession) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateULIDString()
		}
	}
	model.UpdatedAt = now
	return &model
}
