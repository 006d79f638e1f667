// Package device polls the energy devices solargrabber reads from.
//
// Each device kind scrapes a small HTML status page served by the device
// itself and turns it into a metric.PublishData reading:
//
//   - Inverter: a solar micro-inverter status page behind HTTP Basic auth.
//     Readings are tagged with the inverter serial. A reading where power
//     and both yields are zero is dropped with ErrNoData.
//   - Tasmota: a Tasmota smart plug's /?m=1 fragment. No authentication,
//     and zero readings are kept.
//
// # Usage
//
//	sources, err := device.NewAll(cfg.Sources, httpClient)
//	if err != nil {
//	    return err
//	}
//	for _, src := range sources {
//	    data, err := src.Poll(ctx)
//	    ...
//	}
//
// Sources are stateless; every Poll is a single fresh request with no
// retry.
package device
