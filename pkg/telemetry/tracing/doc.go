// Package tracing provides OpenTelemetry tracing for adjudication.
//
// The tracer exports spans over OTLP gRPC. When tracing is disabled a
// noop tracer is returned, so callers never branch on whether tracing
// is configured.
//
// # Basic Usage
//
//	tracer, err := tracing.New(&tracing.Config{
//	    Enabled:     true,
//	    ServiceName: "agent-runtime",
//	    Endpoint:    "localhost:4317",
//	    Sampler:     tracing.SamplerRatio,
//	    SampleRatio: 0.1,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "agent.step")
//	defer span.End()
//	d := eng.Evaluate(ctx, act)
//
// New sets the global tracer provider and the W3C Trace Context
// propagator, so spans the engine starts during Evaluate become
// children of the caller's span.
//
// # Propagation
//
// Runtimes that receive work over a wire can carry trace context into
// adjudication with the Extract helpers:
//
//	ctx := tracing.Extract(r.Context(), r.Header)
//	d := eng.Evaluate(ctx, act)
package tracing
