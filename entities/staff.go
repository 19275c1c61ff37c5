package entities

import (
	"time"

	"presenza.io/application/utils"
)

// This represents a staff member allowed to operate enrollment and manage
// students. Passwords are argon2 hashes.
type Staff struct {
	Email       string `bson:"email" json:"email"`
	Password    string `bson:"password" json:"-"`
	FirstName   string `bson:"firstName" json:"firstName"`
	LastName    string `bson:"lastName" json:"lastName"`
	Role        string `bson:"role" json:"role"`
	Deactivated bool   `bson:"deactivated" json:"deactivated"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model Staff) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}
