package startup

import (
	"verifid.io/infrastructure/biometric"
	"verifid.io/infrastructure/database"
	"verifid.io/infrastructure/database/connection/datastore"
	"verifid.io/infrastructure/logger"
)

// Used to start services such as loggers, databases and the verification
// pipeline.
func StartServices() {
	logger.InitializeLogger()
	database.SetUpDatabase()
	biometric.InitialiseBiometricService()
}

// Used to clean up after services that have been shut down.
func CleanUpServices() {
	datastore.CleanUp()
}
