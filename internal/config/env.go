package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads every existing env file. Variables already present in
// the process environment are not overwritten.
func loadEnvFiles() error {
	var existing []string
	for _, path := range envFiles {
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}
	if len(existing) == 0 {
		return errors.New("no .env file found")
	}
	return godotenv.Load(existing...)
}
