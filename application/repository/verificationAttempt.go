package repository

import (
	"sync"

	"presenza.io/entities"
	"presenza.io/infrastructure/database/connection/datastore"
	"presenza.io/infrastructure/database/repository/mongo"
)

var verificationAttemptOnce = sync.Once{}

var verificationAttemptRepository mongo.MongoRepository[entities.VerificationAttempt]

func VerificationAttemptRepo() *mongo.MongoRepository[entities.VerificationAttempt] {
	verificationAttemptOnce.Do(func() {
		verificationAttemptRepository = mongo.MongoRepository[entities.VerificationAttempt]{Model: datastore.VerificationAttemptModel}
	})
	return &verificationAttemptRepository
}
