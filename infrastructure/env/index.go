package env

import (
	"github.com/joho/godotenv"
)

// Loads variables from a local .env file into the process environment.
// Missing files are not fatal since production supplies real env vars.
func LoadEnv() {
	godotenv.Load()
}
