// Package influxdb writes solargrabber readings to InfluxDB v2.
//
// It wraps the official influxdb-client-go v2 blocking write API. Each
// configured backend becomes a Target; every reading is encoded as one
// line-protocol line by package lineprotocol and POSTed to
// <influxUrl>/api/v2/write with the target's org and bucket and an
// "Authorization: Token" header.
//
// # Usage
//
//	targets, err := influxdb.NewTargets(cfg.Targets, cfg.GetHTTPTimeout())
//	if err != nil {
//	    return err
//	}
//	defer func() {
//	    for _, t := range targets {
//	        t.Close()
//	    }
//	}()
//
//	if err := targets[0].Publish(ctx, data); err != nil {
//	    log.Error("error publishing reading", "target", targets[0].Name(), "error", err)
//	}
//
// # Error Handling
//
// Writes are not retried. A failure is returned wrapped in ErrWriteFailed
// and the next reading is written independently.
//
// # Base URL
//
// The write path is appended to influxUrl, so a URL with a path prefix
// (a reverse proxy, for example) keeps that prefix.
package influxdb
