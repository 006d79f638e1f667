// Package lineprotocol encodes metric.PublishData as InfluxDB line protocol.
//
// One PublishData becomes one line:
//
//	measurement,tagKey=tagValue,... fieldKey=fieldValue,...
//
// Escaping depends on where text appears:
//   - measurement: comma and space
//   - tag keys, tag values, field keys: comma, equals sign and space
//   - string field values: double quote and backslash, wrapped in quotes
//
// Numbers are written as plain decimals and are never escaped. Tags and
// fields keep their insertion order, so the same data always encodes to the
// same bytes.
package lineprotocol
