package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/nerrad567/solar-grabber/internal/infrastructure/config"
)

// serviceName is attached to every record as the "service" attribute.
const serviceName = "solargrabber"

// Logger wraps slog.Logger with solar-grabber specific defaults.
//
// Every record carries the service name, the build version and the ID of
// the run that produced it, so records from consecutive scheduler
// invocations can be told apart.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Logger struct {
	*slog.Logger
	runID string
}

// New creates a new Logger with the specified configuration.
//
// It configures:
//   - Output format (JSON or text)
//   - Log level filtering
//   - Default fields (service, version, run_id)
//   - Output destination
//
// Parameters:
//   - cfg: Logging configuration
//   - version: Application version for default field
//   - runID: Run identifier; a new one is generated when empty
func New(cfg config.LoggingConfig, version string, runID string) *Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
	default:
		output = os.Stderr
	}
	return newWithWriter(output, cfg, version, runID)
}

func newWithWriter(output io.Writer, cfg config.LoggingConfig, version string, runID string) *Logger {
	if runID == "" {
		runID = NewRunID()
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", serviceName),
		slog.String("version", version),
		slog.String("run_id", runID),
	})

	return &Logger{
		Logger: slog.New(handler),
		runID:  runID,
	}
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// RunID returns the run identifier attached to every record.
func (l *Logger) RunID() string {
	return l.runID
}

// parseLevel converts a string log level to slog.Level.
//
// Supported levels: debug, info, warn, error
// Defaults to info if unrecognised.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a new Logger with additional default attributes.
//
// Example:
//
//	devLog := logger.With("device", "roof")
//	devLog.Info("polled") // Includes device=roof
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
		runID:  l.runID,
	}
}

// Default creates a default logger for use before configuration is loaded.
//
// It writes text records at info level to stderr under the given run ID.
func Default(version string, runID string) *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "text",
		Output: "stderr",
	}, version, runID)
}
