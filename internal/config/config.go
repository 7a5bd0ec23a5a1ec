package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file into the process environment. Deployments
// without one just rely on real environment variables.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns the named variable, or fallback when unset or empty.
func GetEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

// GetIntEnv parses the named variable as an int, falling back on any
// parse failure.
func GetIntEnv(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

// IsProduction reports whether ENV is set to production.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}
