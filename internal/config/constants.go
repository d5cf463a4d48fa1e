package config

import "time"

// Environment variable names
const (
	EnvSchemaVersion      = "ENV_SCHEMA_VERSION"
	EnvPort               = "PORT"
	EnvLogLevel           = "LOG_LEVEL"
	EnvLogFormat          = "LOG_FORMAT"
	EnvLogDir             = "LOG_DIR"
	EnvEnvironment        = "ENVIRONMENT"
	EnvServiceName        = "SERVICE_NAME"
	EnvVersion            = "VERSION"
	EnvRulesPath          = "RULES_PATH"
	EnvSessionCacheSize   = "SESSION_CACHE_SIZE"
	EnvSessionTTL         = "SESSION_TTL"
	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"
	EnvTrustedProxies     = "TRUSTED_PROXIES"
	EnvEventMaxRetries    = "EVENT_MAX_RETRIES"
	EnvEventRetryDelay    = "EVENT_RETRY_DELAY"
	EnvEventDeadLetter    = "EVENT_DEADLETTER_PATH"
)

// Defaults
const (
	DefaultPort                = 8080
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"
	DefaultLogDir              = "logs"
	DefaultEnvironment         = "dev"
	DefaultServiceName         = "quota-pit"
	DefaultVersion             = "dev"
	DefaultSessionCacheSize    = 10000
	DefaultSessionTTL          = 2 * time.Hour
	DefaultCORSAllowedOrigins  = "*"
	DefaultEventMaxRetries     = 5
	DefaultEventRetryDelay     = 2 * time.Second
	DefaultEventDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Configuration file paths
const (
	ConfigPathRules = "configs/rules.yaml"
)

// Rules file schema
const (
	RulesSchemaVersion = "1.0"
)

// ==================== Error Messages ====================

const (
	ErrMsgInvalidEnvFmt     = "invalid environment: %s: %w"
	ErrMsgSchemaMismatchFmt = "%s mismatch: expected %s, got %s - your .env file may be outdated"
	ErrMsgNotIntegerFmt     = "%s must be an integer, got %q"
	ErrMsgNotDurationFmt    = "%s must be a duration such as 90s or 2h, got %q"
	ErrMsgOutOfRangeFmt     = "%s must be between %d and %d, got %d"
	ErrMsgNotPositiveFmt    = "%s must be positive, got %q"
	ErrMsgNotOneOfFmt       = "%s must be one of %s, got %q"
	ErrMsgReadRulesFmt      = "failed to read rules file %s: %w"
	ErrMsgInvalidRulesFmt   = "invalid rules file %s: %w"
	ErrMsgRulesVersionFmt   = "version must be %q, got %q"
	WarnMsgWildcardCORS     = "CORS_ALLOWED_ORIGINS is '*' in production - restrict it to the renderer's origin"
	WarnMsgTextLogsInProd   = "LOG_FORMAT is text in production - json is easier to aggregate"
	LogMsgRulesFileMissing  = "Rules file not found, using built-in rules"
	LogMsgRulesLoaded       = "Rules loaded"
)
