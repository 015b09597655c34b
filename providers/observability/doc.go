// Package observability defines the tracing, metrics and logging interfaces
// used by the tool layer and the quercle client, together with the
// attribute and span naming conventions in semconv.go.
//
// A [Provider] and the active [Span] travel through [context.Context]:
// store them with [ContextWithObserver] and [ContextWithSpan], read them
// back with [ObserverFromContext] and [SpanFromContext]. Code that finds no
// span in its context simply records nothing.
package observability
