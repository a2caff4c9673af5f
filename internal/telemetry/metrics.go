package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "url-monitor"

// WithAttrs returns a metric.MeasurementOption from attribute key-value pairs.
func WithAttrs(attrs ...attribute.KeyValue) metric.MeasurementOption {
	return metric.WithAttributes(attrs...)
}

// Meters holds the instruments recorded by the prober and the monitor loop.
type Meters struct {
	ProbeDuration metric.Float64Histogram
	ProbeCount    metric.Int64Counter
	ProbeFailures metric.Int64Counter
	LogRotations  metric.Int64Counter
}

// NewMeters creates the instruments on the global meter provider.
func NewMeters() (*Meters, error) {
	return NewMetersFrom(otel.GetMeterProvider())
}

func NewMetersFrom(provider metric.MeterProvider) (*Meters, error) {
	meter := provider.Meter(instrumentationName)

	probeDuration, err := meter.Float64Histogram(
		"url_monitor.probe.duration",
		metric.WithDescription("Time until response headers of a successful probe"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	probeCount, err := meter.Int64Counter(
		"url_monitor.probe.count",
		metric.WithDescription("Number of completed probes, any status code"),
	)
	if err != nil {
		return nil, err
	}

	probeFailures, err := meter.Int64Counter(
		"url_monitor.probe.failures",
		metric.WithDescription("Probes that failed at the transport level"),
	)
	if err != nil {
		return nil, err
	}

	logRotations, err := meter.Int64Counter(
		"url_monitor.log.rotations",
		metric.WithDescription("CSV log rotations"),
	)
	if err != nil {
		return nil, err
	}

	return &Meters{
		ProbeDuration: probeDuration,
		ProbeCount:    probeCount,
		ProbeFailures: probeFailures,
		LogRotations:  logRotations,
	}, nil
}
