package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/config"
	"github.com/osse101/BrandishIdle_Go/internal/logger"
)

// SetupLogger initializes the application logger. With cfg.LogDir set, output
// also goes to a timestamped session file and old sessions are pruned.
// The returned file is nil when no log directory is configured; the caller closes it.
func SetupLogger(cfg *config.Config) (*os.File, error) {
	loggerConfig := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		cfg.IsDevelopment(),
	)

	if cfg.LogDir == "" {
		logger.InitLogger(loggerConfig)
		logStartup(cfg)
		return nil, nil
	}

	if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateLogsDir, err)
	}
	cleanupLogs(cfg.LogDir)

	name := filepath.Join(cfg.LogDir, fmt.Sprintf(LogFileNamePattern, time.Now().Format(LogFileTimestampFormat)))
	logFile, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermission)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgOpenLogFile, err)
	}

	logger.InitLoggerWithWriter(loggerConfig, io.MultiWriter(os.Stdout, logFile))
	logStartup(cfg)
	return logFile, nil
}

func logStartup(cfg *config.Config) {
	slog.Default().Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "format", cfg.LogFormat)
	slog.Default().Info(LogMsgStarting,
		"environment", cfg.Environment,
		"version", cfg.Version,
		"store", cfg.StoreBackend)
	slog.Default().Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"tick_interval", cfg.TickInterval,
		"reconcile_interval", cfg.ReconcileInterval)
}

// cleanupLogs removes the oldest session files so that, with the file about
// to be created, at most LogFileRetentionCount+1 remain
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
	// timestamped names sort chronologically
	slices.Sort(logFiles)

	for len(logFiles) > LogFileRetentionCount {
		if err := os.Remove(filepath.Join(logDir, logFiles[0])); err != nil {
			slog.Default().Warn(LogMsgFailedDeleteOldLog, "file", logFiles[0], "error", err)
		}
		logFiles = logFiles[1:]
	}
}
