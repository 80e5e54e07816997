//go:build dev

package config

import (
	"os"

	"github.com/joho/godotenv"
)

func loadDotEnv() error {
	path := os.Getenv("WALLETDASH_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}
