package utils

import "os"

// GetEnv returns the deployment environment name.
func GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}
	return env
}

// IsProduction reports whether the service runs in production mode.
func IsProduction() bool {
	return GetEnv() == "production"
}
