package startup

import (
	"presenza.io/application/repository"
	"presenza.io/infrastructure/biometric"
	"presenza.io/infrastructure/database"
	"presenza.io/infrastructure/database/connection/datastore"
	"presenza.io/infrastructure/logger"
)

// Used to start services such as loggers, databases and the biometric engine.
func StartServices() {
	logger.InitializeLogger()
	database.SetUpDatabase()
	biometric.InitialiseBiometricEngine(repository.BiometricStore())
}

// Used to clean up after services that have been shutdown.
func CleanUpServices() {
	datastore.CleanUp()
}
