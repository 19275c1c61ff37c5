package entities

import (
	"time"

	"presenza.io/application/utils"
	"presenza.io/infrastructure/biometric/types"
)

// BiometricRecord is a student's finalized sample set. A completed
// enrollment session replaces the whole record; old samples are retired,
// never merged.
type BiometricRecord struct {
	Samples          []types.StoredSample `bson:"samples" json:"samples"`
	AggregateQuality float64              `bson:"aggregateQuality" json:"aggregateQuality"`
	SessionID        string               `bson:"sessionID" json:"sessionID"`
	EnrolledAt       time.Time            `bson:"enrolledAt" json:"enrolledAt"`
}

// This represents a student registered on presenza
type Student struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Grade     string `bson:"grade" json:"grade"`
	Guardian  string `bson:"guardian" json:"guardian,omitempty"`

	BiometricRecord *BiometricRecord `bson:"biometricRecord" json:"-"`
	// LegacyDescriptor predates multi-sample enrollment. Kept only for the
	// verification fallback path; cleared when a multi-sample record lands.
	LegacyDescriptor []float64 `bson:"legacyDescriptor" json:"-"`

	Deactivated       bool       `bson:"deactivated" json:"deactivated"`
	DeactivatedReason *string    `bson:"deactivatedReason" json:"deactivatedReason,omitempty"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model Student) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}
