// Package logging provides structured logging for solar-grabber.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the run.
//
// # Features
//
//   - JSON output for log shippers, text output for a terminal or journal
//   - Default fields (service, version, run_id) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0", "")
//	logger.Error("failed to receive data", "device", "roof", "error", err)
//
// # Security
//
// Never log device passwords or backend tokens.
package logging
