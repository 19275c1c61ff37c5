package dto

type CreateStudentDTO struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Grade     string `json:"grade" validate:"required,max=50"`
	Guardian  string `json:"guardian" validate:"max=200"`
}

type UpdateStudentDTO struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Grade     *string `json:"grade" validate:"omitempty,max=50"`
	Guardian  *string `json:"guardian" validate:"omitempty,max=200"`
}

type DeactivateStudentDTO struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type StudentEnrollmentStatus struct {
	StudentID        string   `json:"studentID"`
	Enrolled         bool     `json:"enrolled"`
	LegacyRecord     bool     `json:"legacyRecord"`
	SampleCount      int      `json:"sampleCount"`
	AggregateQuality *float64 `json:"aggregateQuality,omitempty"`
	EnrolledAt       *string  `json:"enrolledAt,omitempty"`
}
