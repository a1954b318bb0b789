package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/agentpay-wallet-ledger/internal/config"
)

// NewLogger builds the JSON slog.Logger shared by the ledger API and the
// settlement worker. Source locations are only attached at debug level.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts))
	if cfg.Application.Name != "" {
		logger = logger.With("app", cfg.Application.Name)
	}

	logger.Info("logger initialized", "level", level)

	return logger
}
