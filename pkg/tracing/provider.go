package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Ramsey-B/clover/pkg/tracing/exporters"
)

// Provider owns the sdk tracer provider and implements startup.StartupDependency.
type Provider struct {
	serviceName string
	enabled     bool
	otlp        exporters.OTLPConfig
	provider    *sdktrace.TracerProvider
}

func NewProvider(serviceName string, enabled bool, otlp exporters.OTLPConfig) *Provider {
	return &Provider{
		serviceName: serviceName,
		enabled:     enabled,
		otlp:        otlp,
	}
}

func (p *Provider) GetName() string {
	return "tracing"
}

func (p *Provider) DependsOn() []string {
	return nil
}

func (p *Provider) Start(ctx context.Context) error {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", p.serviceName))),
	}

	if p.enabled {
		exporter, err := exporters.NewOTLPExporter(ctx, p.otlp)
		if err != nil {
			return err
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	p.provider = sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(p.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	SetTracer(p.provider.Tracer(p.serviceName))
	return nil
}

func (p *Provider) Stop(ctx context.Context) error {
	if p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
