package observability

import (
	"context"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupTracing(t *testing.T) {
	ctx := context.Background()

	t.Run("Disabled", func(t *testing.T) {
		// Act
		shutdown, err := SetupTracing(ctx, config.OTel{Enabled: false}, "test")

		// Assert
		require.NoError(t, err)
		assert.NoError(t, shutdown(ctx))
		assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
	})

	t.Run("Enabled", func(t *testing.T) {
		// Arrange
		previous := otel.GetTracerProvider()
		t.Cleanup(func() { otel.SetTracerProvider(previous) })

		// Act
		shutdown, err := SetupTracing(ctx, config.OTel{
			Enabled:          true,
			ServiceName:      "storefront-checkout",
			ExporterEndpoint: "localhost:4318",
			SamplerRatio:     0.5,
		}, "test")

		// Assert
		require.NoError(t, err)

		_, span := otel.Tracer("test").Start(ctx, "noop")
		assert.True(t, span.SpanContext().IsValid())
		span.End()

		shutdownCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		defer cancel()
		_ = shutdown(shutdownCtx)
	})
}
