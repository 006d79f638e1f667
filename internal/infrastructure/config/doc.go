// Package config handles loading and validating solar-grabber configuration.
//
// This package manages:
//   - Choosing between the inline channel and the config file
//   - Loading configuration from YAML (or JSON) files
//   - Overriding with environment variables
//   - Validation of required fields
//
// # Channels
//
// Sources and targets are read from exactly one channel:
//
//	SG_SOURCES='[{"type":"Tasmota","ip":"192.168.1.20","device_name":"plug"}]'
//	SG_INFLUXDBS='[{"influxUrl":"http://influx:8086","bucket":"b","org":"o","token":"t","measurement":"solar"}]'
//
// or, when neither variable is set, from the config file (default
// /etc/solargrabber.conf). Setting only one of the two variables is an
// error.
//
// Security Considerations:
//   - Tokens and device passwords live in the config file or environment;
//     the file should have restricted permissions (0600)
//   - Never log Password or Token values
//
// Usage:
//
//	cfg, err := config.Load(config.Channels{Path: "/etc/solargrabber.conf"})
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
