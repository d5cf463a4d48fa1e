package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	ServiceName string
	Version     string

	// Game rules file; a missing file falls back to the built-in rules
	RulesPath string

	// Session store
	SessionCacheSize int
	SessionTTL       time.Duration

	CORSAllowedOrigins []string
	TrustedProxies     []string // Remote addresses allowed to set X-Forwarded-For

	// Event publishing
	EventMaxRetries     int
	EventRetryDelay     time.Duration
	EventDeadLetterPath string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	return &Config{
		Port:                getEnvAsInt(EnvPort, DefaultPort),
		LogLevel:            strings.ToLower(getEnv(EnvLogLevel, DefaultLogLevel)),
		LogFormat:           strings.ToLower(getEnv(EnvLogFormat, DefaultLogFormat)),
		LogDir:              getEnv(EnvLogDir, DefaultLogDir),
		Environment:         getEnv(EnvEnvironment, DefaultEnvironment),
		ServiceName:         getEnv(EnvServiceName, DefaultServiceName),
		Version:             getEnv(EnvVersion, DefaultVersion),
		RulesPath:           getEnv(EnvRulesPath, ConfigPathRules),
		SessionCacheSize:    getEnvAsInt(EnvSessionCacheSize, DefaultSessionCacheSize),
		SessionTTL:          getEnvAsDuration(EnvSessionTTL, DefaultSessionTTL),
		CORSAllowedOrigins:  getEnvAsList(EnvCORSAllowedOrigins, DefaultCORSAllowedOrigins),
		TrustedProxies:      getEnvAsList(EnvTrustedProxies, ""),
		EventMaxRetries:     getEnvAsInt(EnvEventMaxRetries, DefaultEventMaxRetries),
		EventRetryDelay:     getEnvAsDuration(EnvEventRetryDelay, DefaultEventRetryDelay),
		EventDeadLetterPath: getEnv(EnvEventDeadLetter, DefaultEventDeadLetterPath),
	}, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns the integer value of key, or the default when unset or malformed
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration returns the duration value of key, or the default when unset or malformed
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated variable, dropping empty entries
func getEnvAsList(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
