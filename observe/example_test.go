package observe_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/sweengineeringlabs/guardrail/observe"
	"github.com/sweengineeringlabs/guardrail/ratelimit"
)

func ExampleNewObserver() {
	cfg := observe.Config{
		ServiceName: "example-service",
		Version:     "1.0.0",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: false},
		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
	}

	ctx := context.Background()
	obs, err := observe.NewObserver(ctx, cfg)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	fmt.Println("Observer created successfully")
	// Output:
	// Observer created successfully
}

func ExampleNewObserver_validation() {
	// Missing service name triggers validation error
	cfg := observe.Config{
		ServiceName: "", // Empty - will fail validation
	}

	ctx := context.Background()
	_, err := observe.NewObserver(ctx, cfg)
	if errors.Is(err, observe.ErrMissingServiceName) {
		fmt.Println("Caught: missing service name")
	}
	// Output:
	// Caught: missing service name
}

func ExampleConfig_Validate() {
	cfg := observe.Config{
		ServiceName: "my-service",
		Version:     "1.0.0",
		Tracing: observe.TracingConfig{
			Enabled:   true,
			Exporter:  "stdout",
			SamplePct: 0.5, // 50% sampling
		},
		Metrics: observe.MetricsConfig{
			Enabled:  true,
			Exporter: "prometheus",
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}

	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid:", err)
	} else {
		fmt.Println("Configuration is valid")
	}
	// Output:
	// Configuration is valid
}

func ExampleGuardMeta_SpanName() {
	// With kind
	meta := observe.GuardMeta{
		Kind: "limiter",
		Name: "payments-api",
	}
	fmt.Println(meta.SpanName())

	// Without kind
	meta2 := observe.GuardMeta{
		Name: "checkout",
	}
	fmt.Println(meta2.SpanName())
	// Output:
	// guard.exec.limiter.payments-api
	// guard.exec.checkout
}

func ExampleGuardMeta_GuardID() {
	meta := observe.GuardMeta{
		Kind: "breaker",
		Name: "db-primary",
	}
	fmt.Println(meta.GuardID())

	meta2 := observe.GuardMeta{
		Name: "db-primary",
	}
	fmt.Println(meta2.GuardID())
	// Output:
	// breaker.db-primary
	// db-primary
}

func ExampleNewLoggerWithWriter() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	ctx := context.Background()
	logger.Info(ctx, "application started", observe.Field{Key: "version", Value: "1.0.0"})

	// Output contains JSON with timestamp, level, msg, and version field
	fmt.Println("Logged message contains 'application started':", bytes.Contains(buf.Bytes(), []byte("application started")))
	// Output:
	// Logged message contains 'application started': true
}

func ExampleLogger_WithGuard() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	meta := observe.GuardMeta{
		Kind: "limiter",
		Name: "payments-api",
	}

	// Create guard-scoped logger
	guardLogger := logger.WithGuard(meta)

	ctx := context.Background()
	guardLogger.Info(ctx, "request denied")

	output := buf.String()
	fmt.Println("Contains guard.name:", bytes.Contains([]byte(output), []byte("guard.name")))
	fmt.Println("Contains guard.kind:", bytes.Contains([]byte(output), []byte("guard.kind")))
	// Output:
	// Contains guard.name: true
	// Contains guard.kind: true
}

func ExampleInstrumenter_Wrap() {
	ctx := context.Background()

	// Observer with disabled exporters for the example
	cfg := observe.Config{
		ServiceName: "example",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     observe.LoggingConfig{Enabled: false},
	}
	obs, _ := observe.NewObserver(ctx, cfg)
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	in, _ := observe.InstrumenterFromObserver(obs)

	// Wrap the operation with tracing, metrics, and logging
	wrapped := in.Wrap(observe.GuardMeta{Kind: "executor", Name: "checkout"},
		func(ctx context.Context) error {
			return nil
		})

	if err := wrapped(ctx); err != nil {
		fmt.Println("Error:", err)
	} else {
		fmt.Println("Operation completed")
	}
	// Output:
	// Operation completed
}

func ExampleNewInstrumentedLimiter() {
	ctx := context.Background()

	cfg := observe.Config{ServiceName: "example"}
	obs, _ := observe.NewObserver(ctx, cfg)

	limiter := ratelimit.NewTokenBucket(ratelimit.TokenBucketConfig{
		Capacity:   1,
		RefillRate: 1,
	})

	il := observe.NewInstrumentedLimiter(limiter, observe.GuardMeta{Name: "payments-api"}, nil, obs.Logger())

	fmt.Println(il.Allow())
	fmt.Println(il.Allow())
	// Output:
	// true
	// false
}

func ExampleParseLogLevel() {
	levels := []string{"debug", "info", "warn", "error", "unknown"}
	for _, s := range levels {
		level := observe.ParseLogLevel(s)
		fmt.Printf("%s -> %s\n", s, level)
	}
	// Output:
	// debug -> debug
	// info -> info
	// warn -> warn
	// error -> error
	// unknown -> info
}
