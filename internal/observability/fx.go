// Package observability wires logging, tracing and metrics into the fx app.
package observability

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"

	"github.com/careertrail/careertrail/internal/config"
	"github.com/careertrail/careertrail/internal/observability/logger"
	"github.com/careertrail/careertrail/internal/observability/metrics"
	"github.com/careertrail/careertrail/internal/observability/tracing"
)

var Module = fx.Options(
	logger.Module,
	fx.Module("tracing",
		fx.Provide(func(cfg config.Config) tracing.Config {
			return tracing.Config{
				Enabled:          cfg.Tracing.Enabled,
				ServiceName:      cfg.ServiceName,
				ServiceVersion:   cfg.ServiceVersion,
				Environment:      cfg.Environment,
				ExporterEndpoint: cfg.Tracing.ExporterEndpoint,
				ExporterProtocol: cfg.Tracing.ExporterProtocol,
				SamplingRatio:    cfg.Tracing.SamplingRatio,
			}
		}),
		fx.Provide(tracing.NewProvider),
		fx.Invoke(func(*sdktrace.TracerProvider) {}),
	),
	fx.Module("metrics",
		fx.Provide(func(cfg config.Config) *metrics.EngineMetrics {
			return metrics.EngineWithConfig(metrics.Config{
				ServiceName: cfg.ServiceName,
				Environment: cfg.Environment,
			})
		}),
	),
)
