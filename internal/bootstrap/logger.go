package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/osse101/QuotaPit_Go/internal/config"
	"github.com/osse101/QuotaPit_Go/internal/logger"
)

// SetupLogger initializes the default logger writing to stdout and to a
// timestamped file under cfg.LogDir, pruning old files first.
// Returns the log file handle, which the caller must close.
func SetupLogger(cfg *config.Config) (*os.File, error) {
	return setupLogger(cfg, os.Stdout, time.Now())
}

func setupLogger(cfg *config.Config, stdout io.Writer, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateLogsDir, err)
	}

	cleanupLogs(cfg.LogDir)

	name := filepath.Join(cfg.LogDir, fmt.Sprintf(LogFileNamePattern, now.Format(LogFileTimestampFormat)))
	logFile, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermission)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedOpenLogFile, err)
	}

	logCfg := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		logger.IsDevelopment(cfg.Environment),
	)
	logger.InitLoggerWithWriter(logCfg, io.MultiWriter(stdout, logFile))

	slog.Info(LogMsgLoggingInitialized, "level", logCfg.LogLevel(), "file", name)
	slog.Info(LogMsgStarting,
		"environment", cfg.Environment,
		"log_format", cfg.LogFormat,
		"version", cfg.Version)
	slog.Debug(LogMsgConfigurationLoaded,
		"port", cfg.Port,
		"rules_path", cfg.RulesPath,
		"session_cache_size", cfg.SessionCacheSize,
		"session_ttl", cfg.SessionTTL,
		"cors_origins", cfg.CORSAllowedOrigins)

	return logFile, nil
}

// cleanupLogs removes the oldest log files so that, with the file about to be
// created, at most LogFileRetentionLimit remain. Names sort by timestamp.
func cleanupLogs(logDir string) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	var logFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), LogFileExtension) {
			logFiles = append(logFiles, entry.Name())
		}
	}
	sort.Strings(logFiles)

	for len(logFiles) > LogFileRetentionCount {
		if err := os.Remove(filepath.Join(logDir, logFiles[0])); err != nil {
			fmt.Fprintf(os.Stderr, LogMsgFailedDeleteOldLog, logFiles[0], err)
		}
		logFiles = logFiles[1:]
	}
}
