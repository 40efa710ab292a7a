// Package metrics records what a run did (pipelines executed, URLs kept or
// dropped, domains written) with OpenTelemetry instruments. The instruments
// are exported through a Prometheus registry that can be dumped to a
// textfile for node_exporter's textfile collector; nothing is served.
package metrics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides histogram buckets in seconds. External recon tools
// routinely run for minutes, so the tail is long.
var DefaultBuckets = []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600} //nolint: gochecknoglobals

// URL outcomes.
const (
	URLKept     = "kept"
	URLRejected = "rejected"
	URLInvalid  = "invalid"
)

// Domain outcomes.
const (
	DomainWritten = "written"
	DomainEmpty   = "empty"
	DomainFailed  = "failed"
)

// Recorder holds the instruments. A nil *Recorder is valid and records nothing.
type Recorder struct {
	commands        metric.Int64Counter
	commandDuration metric.Float64Histogram
	urls            metric.Int64Counter
	domains         metric.Int64Counter
}

// NewRecorder creates the instruments on meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	commands, err := meter.Int64Counter("passive_commands",
		metric.WithDescription("External pipelines executed, by exit code."))
	if err != nil {
		return nil, fmt.Errorf("could not create commands counter: %w", err)
	}
	commandDuration, err := meter.Float64Histogram("passive_command_duration",
		metric.WithDescription("Wall time of external pipelines."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create command duration histogram: %w", err)
	}
	urls, err := meter.Int64Counter("passive_urls",
		metric.WithDescription("Staging lines seen by the filter, by outcome."))
	if err != nil {
		return nil, fmt.Errorf("could not create urls counter: %w", err)
	}
	domains, err := meter.Int64Counter("passive_domains",
		metric.WithDescription("Domains processed, by outcome."))
	if err != nil {
		return nil, fmt.Errorf("could not create domains counter: %w", err)
	}

	return &Recorder{
		commands:        commands,
		commandDuration: commandDuration,
		urls:            urls,
		domains:         domains,
	}, nil
}

// NewNop returns a Recorder backed by a no-op meter.
func NewNop() *Recorder {
	r, _ := NewRecorder(noop.NewMeterProvider().Meter("passive"))

	return r
}

// CommandFinished records one pipeline run.
func (r *Recorder) CommandFinished(ctx context.Context, exitCode int, d time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("exit_code", strconv.Itoa(exitCode)))
	r.commands.Add(ctx, 1, attrs)
	r.commandDuration.Record(ctx, d.Seconds(), attrs)
}

// URLs records n staging lines with the given outcome.
func (r *Recorder) URLs(ctx context.Context, outcome string, n int) {
	if r == nil || n == 0 {
		return
	}
	r.urls.Add(ctx, int64(n), metric.WithAttributes(attribute.String("outcome", outcome)))
}

// Domain records one processed domain.
func (r *Recorder) Domain(ctx context.Context, outcome string) {
	if r == nil {
		return
	}
	r.domains.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// Exporter bridges OpenTelemetry to a private Prometheus registry.
type Exporter struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider
}

// NewExporter creates a meter provider whose reader feeds a fresh registry.
func NewExporter() (*Exporter, error) {
	registry := prometheus.NewRegistry()
	exp, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	return &Exporter{
		registry: registry,
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)),
	}, nil
}

// Meter returns the meter instruments should be created on.
func (e *Exporter) Meter() metric.Meter {
	return e.provider.Meter("passive")
}

// WriteTextfile dumps the current values in the Prometheus text format. The
// file is written atomically.
func (e *Exporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("could not write metrics textfile: %w", err)
	}

	return nil
}

// Shutdown stops the meter provider.
func (e *Exporter) Shutdown(ctx context.Context) error {
	if err := e.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not shut down meter provider: %w", err)
	}

	return nil
}
