package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration values.
type Config struct {
	BackendURL     string
	SettingsDSN    string
	HTTPPort       string
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		backendURL = "http://localhost:5000"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("SETTINGS_DB")
	if dsn == "" {
		dsn = "salesdesk.db"
	}

	timeout := 15 * time.Second
	if raw := os.Getenv("REQUEST_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		} else {
			log.Printf("invalid REQUEST_TIMEOUT_SECONDS value %q, keeping default", raw)
		}
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	return Config{
		BackendURL:     backendURL,
		SettingsDSN:    dsn,
		HTTPPort:       port,
		RequestTimeout: timeout,
	}
}
