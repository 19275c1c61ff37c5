package entities

import (
	"time"

	"presenza.io/application/utils"
)

// AttendanceRecord marks one student present for one calendar day. The
// (studentID, day) pair is unique; marking twice is a no-op.
type AttendanceRecord struct {
	StudentID  string  `bson:"studentID" json:"studentID"`
	Day        string  `bson:"day" json:"day"` // 2006-01-02
	Confidence float64 `bson:"confidence" json:"confidence"`
	Method     string  `bson:"method" json:"method"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model AttendanceRecord) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}
