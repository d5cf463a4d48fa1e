package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ExpectedEnvSchemaVersion is the schema version that the application expects
const ExpectedEnvSchemaVersion = "1.0"

// ErrInvalidConfig is wrapped by every environment and rules file validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

var (
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats = []string{"json", "text"}
)

const maxPort = 65535

// ValidateEnv checks every set variable and reports all problems together.
// Unset variables are fine; Load falls back to defaults for them.
func ValidateEnv() error {
	var problems []string

	if v, ok := lookup(EnvSchemaVersion); ok && v != ExpectedEnvSchemaVersion {
		problems = append(problems, fmt.Sprintf(ErrMsgSchemaMismatchFmt, EnvSchemaVersion, ExpectedEnvSchemaVersion, v))
	}

	if v, ok := lookup(EnvPort); ok {
		problems = appendIntRange(problems, EnvPort, v, 1, maxPort)
	}
	if v, ok := lookup(EnvSessionCacheSize); ok {
		problems = appendIntRange(problems, EnvSessionCacheSize, v, 1, int(^uint32(0)>>1))
	}
	if v, ok := lookup(EnvEventMaxRetries); ok {
		problems = appendIntRange(problems, EnvEventMaxRetries, v, 0, 100)
	}

	for _, key := range []string{EnvSessionTTL, EnvEventRetryDelay} {
		if v, ok := lookup(key); ok {
			problems = appendPositiveDuration(problems, key, v)
		}
	}

	if v, ok := lookup(EnvLogLevel); ok && !slices.Contains(validLogLevels, strings.ToLower(v)) {
		problems = append(problems, fmt.Sprintf(ErrMsgNotOneOfFmt, EnvLogLevel, strings.Join(validLogLevels, "|"), v))
	}
	if v, ok := lookup(EnvLogFormat); ok && !slices.Contains(validLogFormats, strings.ToLower(v)) {
		problems = append(problems, fmt.Sprintf(ErrMsgNotOneOfFmt, EnvLogFormat, strings.Join(validLogFormats, "|"), v))
	}

	if len(problems) > 0 {
		return fmt.Errorf(ErrMsgInvalidEnvFmt, strings.Join(problems, "; "), ErrInvalidConfig)
	}
	return nil
}

// ValidateEnvWithWarnings returns warnings for settings that work but are
// unsuitable for the configured environment
func ValidateEnvWithWarnings(cfg *Config) []string {
	if cfg.Environment != "prod" && cfg.Environment != "production" {
		return nil
	}

	var warnings []string
	if slices.Contains(cfg.CORSAllowedOrigins, "*") {
		warnings = append(warnings, WarnMsgWildcardCORS)
	}
	if cfg.LogFormat != "json" {
		warnings = append(warnings, WarnMsgTextLogsInProd)
	}
	return warnings
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	return v, ok && v != ""
}

func appendIntRange(problems []string, key, raw string, lo, hi int) []string {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return append(problems, fmt.Sprintf(ErrMsgNotIntegerFmt, key, raw))
	}
	if n < lo || n > hi {
		return append(problems, fmt.Sprintf(ErrMsgOutOfRangeFmt, key, lo, hi, n))
	}
	return problems
}

func appendPositiveDuration(problems []string, key, raw string) []string {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return append(problems, fmt.Sprintf(ErrMsgNotDurationFmt, key, raw))
	}
	if d <= 0 {
		return append(problems, fmt.Sprintf(ErrMsgNotPositiveFmt, key, raw))
	}
	return problems
}
