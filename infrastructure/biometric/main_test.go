package biometric

import (
	"os"
	"testing"

	"presenza.io/infrastructure/logger"
)

func TestMain(m *testing.M) {
	logger.InitializeLogger()
	os.Exit(m.Run())
}
