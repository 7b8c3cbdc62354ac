// Package metrics exports timer activity to an OpenTelemetry collector.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/models"
)

// Recorder receives one call per finished session
type Recorder interface {
	SessionCompleted(ctx context.Context, st models.SessionType, seconds int)
	Close(ctx context.Context) error
}

// Config holds OTLP exporter settings
type Config struct {
	Endpoint string
	Enabled  bool
	Insecure bool
}

// Exporter records session counters on an OTel meter provider
type Exporter struct {
	provider      *sdkmetric.MeterProvider
	sessionsTotal metric.Int64Counter
	secondsTotal  metric.Int64Counter
	workTotal     metric.Int64Counter
}

// New returns an OTLP/gRPC backed exporter, or a Noop when disabled
func New(ctx context.Context, cfg Config) (Recorder, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return Noop{}, nil
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(constants.AppName),
			semconv.ServiceVersion(constants.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	e, err := NewWithReader(sdkmetric.NewPeriodicReader(exp), sdkmetric.WithResource(res))
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(e.provider)
	return e, nil
}

// NewWithReader builds an Exporter on top of an arbitrary reader
func NewWithReader(reader sdkmetric.Reader, opts ...sdkmetric.Option) (*Exporter, error) {
	provider := sdkmetric.NewMeterProvider(append(opts, sdkmetric.WithReader(reader))...)
	meter := provider.Meter(constants.AppName)

	sessionsTotal, err := meter.Int64Counter(
		"pomolit_sessions_total",
		metric.WithDescription("Finished timer sessions by type"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}

	secondsTotal, err := meter.Int64Counter(
		"pomolit_session_seconds_total",
		metric.WithDescription("Seconds spent in finished sessions by type"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating seconds counter: %w", err)
	}

	workTotal, err := meter.Int64Counter(
		"pomolit_work_sessions_completed_total",
		metric.WithDescription("Completed work sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating work counter: %w", err)
	}

	return &Exporter{
		provider:      provider,
		sessionsTotal: sessionsTotal,
		secondsTotal:  secondsTotal,
		workTotal:     workTotal,
	}, nil
}

func (e *Exporter) SessionCompleted(ctx context.Context, st models.SessionType, seconds int) {
	opt := metric.WithAttributes(attribute.String("session_type", st.String()))
	e.sessionsTotal.Add(ctx, 1, opt)
	e.secondsTotal.Add(ctx, int64(seconds), opt)
	if st.IsWork() {
		e.workTotal.Add(ctx, 1)
	}
}

// Close flushes pending metrics and shuts the provider down
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}

// Noop discards everything
type Noop struct{}

func (Noop) SessionCompleted(context.Context, models.SessionType, int) {}

func (Noop) Close(context.Context) error { return nil }
