package slogobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/quercle/quercle-aigo/providers/observability"
)

// LevelTrace sits below slog.LevelDebug and is used for request and
// response payloads.
const LevelTrace = slog.LevelDebug - 4

// Observer implements observability.Provider on top of log/slog. Spans are
// logged when they start and end, counters keep a running total, and both
// counters and histograms log every update at debug level.
type Observer struct {
	logger   *slog.Logger
	counters sync.Map // name -> *slogCounter
}

var _ observability.Provider = (*Observer)(nil)

// New creates an Observer. Without options it reads QUERCLE_LOG_FORMAT and
// QUERCLE_LOG_LEVEL and writes to stderr.
//
//	observer := slogobs.New(slogobs.WithLevel(slog.LevelDebug))
//	ctx = observability.ContextWithObserver(ctx, observer)
func New(opts ...Option) *Observer {
	cfg := applyOptions(opts...)

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(newHandler(cfg.format, cfg.level, cfg.output))
	}
	return &Observer{logger: logger}
}

// Logger returns the underlying slog.Logger, e.g. to hand it to an HTTP
// client that logs retries.
func (o *Observer) Logger() *slog.Logger {
	return o.logger
}

// --- TRACING ---

// StartSpan logs the span start and returns a context carrying the new span.
func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	span := &slogSpan{
		name:      name,
		startTime: time.Now(),
		logger:    o.logger,
		attrs:     append([]observability.Attribute(nil), attrs...),
	}
	o.logger.LogAttrs(ctx, slog.LevelDebug, "span started", toSlog(attrs, slog.String("span", name))...)
	return observability.ContextWithSpan(ctx, span), span
}

type slogSpan struct {
	mu        sync.Mutex
	name      string
	startTime time.Time
	logger    *slog.Logger
	attrs     []observability.Attribute
	failed    bool
}

// End logs the span with its accumulated attributes. Failed spans are
// logged at warn level, the rest at info.
func (s *slogSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	level := slog.LevelInfo
	if s.failed {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(context.Background(), level, "span ended",
		toSlog(s.attrs, slog.String("span", s.name), slog.Duration("duration", time.Since(s.startTime)))...)
}

func (s *slogSpan) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

func (s *slogSpan) SetStatus(code observability.StatusCode, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := "unset"
	switch code {
	case observability.StatusOK:
		status = "ok"
	case observability.StatusError:
		status = "error"
		s.failed = true
	}

	s.attrs = append(s.attrs, observability.String(observability.AttrStatus, status))
	if description != "" {
		s.attrs = append(s.attrs, observability.String(observability.AttrStatusDescription, description))
	}
}

func (s *slogSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failed = true
	s.attrs = append(s.attrs, observability.Error(err))
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "span error",
		slog.String("span", s.name), slog.String("error", err.Error()))
}

func (s *slogSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, name, toSlog(attrs, slog.String("span", s.name))...)
}

// --- METRICS ---

func (o *Observer) Counter(name string) observability.Counter {
	counter, _ := o.counters.LoadOrStore(name, &slogCounter{name: name, logger: o.logger})
	return counter.(*slogCounter)
}

func (o *Observer) Histogram(name string) observability.Histogram {
	return &slogHistogram{name: name, logger: o.logger}
}

type slogCounter struct {
	name   string
	logger *slog.Logger
	mu     sync.Mutex
	value  int64
}

func (c *slogCounter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	c.mu.Lock()
	c.value += value
	current := c.value
	c.mu.Unlock()

	c.logger.LogAttrs(ctx, slog.LevelDebug, "counter",
		toSlog(attrs, slog.String("metric", c.name), slog.Int64("value", current), slog.Int64("delta", value))...)
}

// Value returns the running total.
func (c *slogCounter) Value() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

type slogHistogram struct {
	name   string
	logger *slog.Logger
}

func (h *slogHistogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	h.logger.LogAttrs(ctx, slog.LevelDebug, "histogram",
		toSlog(attrs, slog.String("metric", h.name), slog.Float64("value", value))...)
}

// --- LOGGING ---

func (o *Observer) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, LevelTrace, msg, toSlog(attrs)...)
}

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelDebug, msg, toSlog(attrs)...)
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelInfo, msg, toSlog(attrs)...)
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelWarn, msg, toSlog(attrs)...)
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelError, msg, toSlog(attrs)...)
}

// toSlog converts attributes, placing the given leading attrs first.
func toSlog(attrs []observability.Attribute, leading ...slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(leading)+len(attrs))
	out = append(out, leading...)
	for _, attr := range attrs {
		out = append(out, slog.Any(attr.Key, attr.Value))
	}
	return out
}
