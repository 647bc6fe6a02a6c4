package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var (
	dotenvMu     sync.Mutex
	dotenvValues map[string]string
	dotenvLoaded bool
)

// loadDotenv reads .env in the current directory. Results are cached after
// the first call; a missing or unreadable file yields an empty map.
func loadDotenv() map[string]string {
	dotenvMu.Lock()
	defer dotenvMu.Unlock()

	if dotenvLoaded {
		return dotenvValues
	}
	dotenvLoaded = true

	values, err := godotenv.Read(".env")
	if err != nil {
		values = make(map[string]string)
	}
	dotenvValues = values
	return dotenvValues
}

// resetDotenvCache clears the cached .env values, forcing a reload on the next
// call to Getenv.
func resetDotenvCache() {
	dotenvMu.Lock()
	defer dotenvMu.Unlock()
	dotenvValues = nil
	dotenvLoaded = false
}

// Getenv returns the value of key from the environment, falling back to the
// .env file in the current directory. Environment variables always take
// precedence.
func Getenv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return loadDotenv()[key]
}
