// Package observability provides OpenTelemetry metrics and tracing for
// depkit containers.
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter(observability.DefaultMeterName))
//	metrics.RecordResolution(ctx, observability.SourceDefault, "app.fooKey")
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartScopeSpan(ctx, 1)
//	span.SetAttributes(observability.ScopeAttributes(2, keys)...)
//	defer observability.EndScopeSpan(span, "ok", nil)
package observability
