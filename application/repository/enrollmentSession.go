package repository

import (
	"sync"

	"presenza.io/entities"
	"presenza.io/infrastructure/database/connection/datastore"
	"presenza.io/infrastructure/database/repository/mongo"
)

var enrollmentSessionOnce = sync.Once{}

var enrollmentSessionRepository mongo.MongoRepository[entities.EnrollmentSession]

func EnrollmentSessionRepo() *mongo.MongoRepository[entities.EnrollmentSession] {
	enrollmentSessionOnce.Do(func() {
		enrollmentSessionRepository = mongo.MongoRepository[entities.EnrollmentSession]{Model: datastore.EnrollmentSessionModel}
	})
	return &enrollmentSessionRepository
}
