package repository

import (
	"sync"

	"presenza.io/entities"
	"presenza.io/infrastructure/database/connection/datastore"
	"presenza.io/infrastructure/database/repository/mongo"
)

var staffOnce = sync.Once{}

var staffRepository mongo.MongoRepository[entities.Staff]

func StaffRepo() *mongo.MongoRepository[entities.Staff] {
	staffOnce.Do(func() {
		staffRepository = mongo.MongoRepository[entities.Staff]{Model: datastore.StaffModel}
	})
	return &staffRepository
}
