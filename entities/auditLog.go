package entities

import (
	"time"

	"presenza.io/application/utils"
)

// AuditLog records administrative actions: re-enrollments, deactivations,
// daily resets. Append-only.
type AuditLog struct {
	Actor    string         `bson:"actor" json:"actor"`
	Action   string         `bson:"action" json:"action"`
	TargetID string         `bson:"targetID" json:"targetID,omitempty"`
	Details  map[string]any `bson:"details" json:"details,omitempty"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model AuditLog) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}
