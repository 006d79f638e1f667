// Package grabber runs one polling cycle: every configured device is
// polled once and each reading is handed to every publish target.
//
// # Usage
//
//	summary := grabber.Run(ctx, sources, publishers, logger)
//	logger.Info("run complete", summary.LogArgs()...)
//
// Sources and publishers are visited sequentially in configuration order.
// Failures are logged and counted, never returned.
package grabber
