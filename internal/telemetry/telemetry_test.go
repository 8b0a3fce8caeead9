package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
)

func TestSetup_NoEndpoint_ReturnsNoop(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown := Setup(context.Background(), Config{ServiceName: "eduportal"})
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Error("global tracer provider should not change without an endpoint")
	}
}

func TestSetup_WithEndpoint_RegistersProvider(t *testing.T) {
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	// gRPC接続は遅延されるため、到達不能なエンドポイントでも生成は成功する
	shutdown := Setup(context.Background(), Config{
		ServiceName: "eduportal",
		Endpoint:    "127.0.0.1:1",
		Insecure:    true,
	})

	if otel.GetTracerProvider() == before {
		t.Error("expected global tracer provider to be replaced")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = shutdown(ctx)
}
