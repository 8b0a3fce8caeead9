// Package telemetry はOpenTelemetryのトレース出力を設定する。
package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ShutdownFunc はバッファ済みのスパンを送信して終了する。
type ShutdownFunc func(context.Context) error

// Config はトレース出力の設定。
type Config struct {
	ServiceName string
	Endpoint    string // 空ならトレースを出力しない
	Insecure    bool
}

// Setup はOTLP gRPCエクスポーターを持つTracerProviderをグローバルに登録する。
// エンドポイント未設定またはエクスポーター生成に失敗した場合は何もしない終了関数を返す。
func Setup(ctx context.Context, cfg Config) ShutdownFunc {
	noop := func(context.Context) error { return nil }
	if cfg.Endpoint == "" {
		return noop
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		slog.Error("failed to create otlp exporter", slog.String("error", err.Error()))
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		slog.Warn("failed to build otel resource", slog.String("error", err.Error()))
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	slog.Info("tracing enabled", slog.String("endpoint", cfg.Endpoint))
	return provider.Shutdown
}
