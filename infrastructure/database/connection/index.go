package connection

import (
	"presenza.io/infrastructure/database/connection/cache"
	"presenza.io/infrastructure/database/connection/datastore"
)

func ConnectToDatabase() {
	datastore.ConnectToDatabase()
	cache.ConnectToCache()
}
