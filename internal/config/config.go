// Package config provides functionality for loading and accessing environment variables.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file if one exists in the
// working directory or its parent. It returns the file that was loaded, or ""
// when none was found. Only the first call has an effect.
func LoadEnv() (loaded string, err error) {
	once.Do(func() {
		envFile := findEnvFile()
		if envFile == "" {
			return
		}
		if err = godotenv.Load(envFile); err != nil {
			return
		}
		loaded = envFile
	})
	return loaded, err
}

func findEnvFile() string {
	for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
