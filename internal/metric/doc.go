// Package metric holds the generic tagged data model that sits between
// device scrapers and publishers.
//
// A scraper builds one PublishData per poll by appending tags (indexed
// identity data such as the device name) and fields (measured values such
// as current power). Publishers only read it; the line-protocol encoder
// turns it into one point.
//
// # Usage
//
//	data := metric.NewPublishData()
//	data.AddTag("deviceName", metric.String("garage"))
//	data.AddField("currentPower", metric.Float(344))
//
//	v, ok := data.Get("currentPower")
package metric
