package tool

import (
	"context"
	"encoding/json"
	"time"

	"github.com/quercle/quercle-aigo/core/cost"
	"github.com/quercle/quercle-aigo/core/parse"
	"github.com/quercle/quercle-aigo/internal/jsonschema"
	"github.com/quercle/quercle-aigo/providers/observability"
)

// Tool is a typed, callable tool an agent runtime can advertise to a model.
// It binds a name and description to a Go function and derives JSON schemas
// for input I and output O by reflection. Use [NewTool] to build one.
type Tool[I, O any] struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Output      *jsonschema.Schema
	Function    func(ctx context.Context, input I) (O, error)
	// Metrics contains optional cost and performance metrics for one execution.
	Metrics *cost.ToolMetrics
}

// GenericTool hides the type parameters of [Tool] so tools of different
// shapes can be stored and dispatched together.
type GenericTool interface {
	// ToolInfo returns the name, description and parameter schema used to
	// advertise the tool.
	ToolInfo() Description

	// Call runs the tool with JSON input and returns JSON output.
	Call(ctx context.Context, inputJSON string) (string, error)

	// GetMetrics returns the tool's cost metrics, or nil.
	GetMetrics() *cost.ToolMetrics
}

// Description is what a host runtime needs to offer a tool to a model.
type Description struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
	Metrics     *cost.ToolMetrics  `json:"metrics,omitempty"`
}

type funcToolOptions struct {
	Description string
	Metrics     *cost.ToolMetrics
}

// WithDescription sets the description shown to the model.
func WithDescription(description string) func(tool *funcToolOptions) {
	return func(s *funcToolOptions) {
		s.Description = description
	}
}

// WithMetrics sets the cost metrics for executing this tool.
func WithMetrics(toolMetrics cost.ToolMetrics) func(tool *funcToolOptions) {
	return func(s *funcToolOptions) {
		s.Metrics = &toolMetrics
	}
}

// NewTool constructs a [Tool] with the given name and handler. Schemas for
// I and O are derived from their struct tags; an invalid tag panics.
//
// Example:
//
//	searchTool := tool.NewTool("quercle_search", search,
//	    tool.WithDescription("Search the web and get an AI-synthesized answer."),
//	    tool.WithMetrics(cost.ToolMetrics{Amount: 0.01, Currency: "USD"}),
//	)
func NewTool[I, O any](name string, function func(ctx context.Context, input I) (O, error), options ...func(tool *funcToolOptions)) *Tool[I, O] {
	toolOptions := &funcToolOptions{}
	for _, option := range options {
		option(toolOptions)
	}

	return &Tool[I, O]{
		Name:        name,
		Description: toolOptions.Description,
		Parameters:  jsonschema.MustGenerateJSONSchema[I](),
		Output:      jsonschema.MustGenerateJSONSchema[O](),
		Function:    function,
		Metrics:     toolOptions.Metrics,
	}
}

// ToolInfo returns the [Description] used to advertise this tool.
func (t *Tool[I, O]) ToolInfo() Description {
	return Description{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
		Metrics:     t.Metrics,
	}
}

// Call parses inputJSON into I, runs the function and returns the output as
// JSON. Errors returned by the function are passed back unchanged.
//
// When ctx carries a span, execution start and end events are added to it;
// when it carries an observer, call count, duration and error metrics are
// recorded.
func (t *Tool[I, O]) Call(ctx context.Context, inputJSON string) (string, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)
	nameAttr := observability.String(observability.AttrToolName, t.Name)

	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			nameAttr,
			observability.String(observability.AttrToolInput, inputJSON),
		)
		defer span.AddEvent(observability.EventToolExecutionEnd, nameAttr)
	}
	if observer != nil {
		observer.Counter(observability.MetricToolCallCount).Add(ctx, 1, nameAttr)
	}

	start := time.Now()

	parsedInput, err := parse.ParseStringAs[I](inputJSON)
	if err != nil {
		t.recordFailure(ctx, span, observer, err, time.Since(start))
		return "", err
	}

	output, err := t.Function(ctx, parsedInput)
	duration := time.Since(start)
	if observer != nil {
		observer.Histogram(observability.MetricToolCallDuration).Record(ctx, float64(duration.Milliseconds()), nameAttr)
	}
	if err != nil {
		t.recordFailure(ctx, span, observer, err, duration)
		return "", err
	}

	outputBytes, err := json.Marshal(output)
	if err != nil {
		t.recordFailure(ctx, span, observer, err, duration)
		return "", err
	}

	if span != nil {
		attrs := []observability.Attribute{
			observability.String(observability.AttrToolOutput, string(outputBytes)),
			observability.Duration(observability.AttrToolDuration, duration),
		}
		if t.Metrics != nil {
			attrs = append(attrs,
				observability.Float64("tool.cost.amount", t.Metrics.Amount),
				observability.String("tool.cost.currency", t.Metrics.Currency),
			)
			if t.Metrics.CostDescription != "" {
				attrs = append(attrs, observability.String("tool.cost.description", t.Metrics.CostDescription))
			}
		}
		span.SetAttributes(attrs...)
	}

	return string(outputBytes), nil
}

func (t *Tool[I, O]) recordFailure(ctx context.Context, span observability.Span, observer observability.Provider, err error, duration time.Duration) {
	if span != nil {
		span.RecordError(err)
		span.SetAttributes(
			observability.String(observability.AttrToolError, err.Error()),
			observability.Duration(observability.AttrToolDuration, duration),
		)
	}
	if observer != nil {
		observer.Counter(observability.MetricToolErrorCount).Add(ctx, 1,
			observability.String(observability.AttrToolName, t.Name))
	}
}

// GetMetrics returns the cost metrics for this tool, if any.
func (t *Tool[I, O]) GetMetrics() *cost.ToolMetrics {
	return t.Metrics
}
