package main

import (
	"os"
	"time"
)

// Config holds environment-driven server settings. Tuning knobs that never
// change per deployment live in constants.go instead.
type Config struct {
	ServerAddress   string
	PublicHost      string
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		ServerAddress:   getEnv("SERVER_ADDRESS", ":8091"),
		PublicHost:      getEnv("PUBLIC_HOST", "localhost:8091"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", GracefulShutdownTimeout),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
