// Package observability exports registry activity through OpenTelemetry.
//
// Providers:
//
//	tel, err := observability.Init(ctx, observability.Config{ServiceName: "depengine", Endpoint: "localhost:4318"})
//	defer tel.Shutdown(ctx)
//
// Registry instrumentation:
//
//	obs, err := observability.NewRegistryObserver(otel.GetMeterProvider(), otel.GetTracerProvider())
//	reg := di.New(di.WithObserver(obs))
//
// Every Resolve increments di.resolve.total, every mutation increments
// di.mutation.total, and every lazy factory run records
// di.materialize.duration plus a di.materialize span.
package observability
