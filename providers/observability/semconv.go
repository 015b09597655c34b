package observability

// Attribute keys, span names, event names and metric names shared by the
// tool layer, the quercle client and the slog observer.

// --- Tool Execution Attributes ---

const (
	AttrToolName     = "tool.name"
	AttrToolInput    = "tool.input"
	AttrToolOutput   = "tool.output"
	AttrToolDuration = "tool.duration"
	AttrToolError    = "tool.error"
)

// --- HTTP Attributes ---

const (
	AttrHTTPMethod           = "http.method"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPURL              = "http.url"
	AttrHTTPRequestBodySize  = "http.request.body.size"
	AttrHTTPResponseBodySize = "http.response.body.size"
	AttrHTTPDuration         = "http.request.duration"
	AttrHTTPRequestID        = "http.request.id"
)

// --- Quercle Attributes ---

const (
	// AttrQuercleOperation is the service operation ("search", "fetch", "raw_search", ...)
	AttrQuercleOperation = "quercle.operation"

	// AttrQuercleDomainsAllowed is the allow-list forwarded with a search
	AttrQuercleDomainsAllowed = "quercle.domains.allowed"

	// AttrQuercleDomainsBlocked is the block-list forwarded with a search
	AttrQuercleDomainsBlocked = "quercle.domains.blocked"
)

// --- General Attributes ---

const (
	AttrError             = "error"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	SpanToolExecution  = "tool.execution"
	SpanQuercleRequest = "quercle.request"
)

// --- Event Names ---

const (
	EventToolExecutionStart = "tool.execution.start"
	EventToolExecutionEnd   = "tool.execution.end"
	EventHTTPPrepared       = "http.request.prepared"
	EventHTTPReceived       = "http.response.received"
	EventHTTPError          = "http.request.error"
)

// --- Metric Names ---

const (
	MetricToolCallCount    = "quercle.tool.call.count"
	MetricToolCallDuration = "quercle.tool.call.duration"
	MetricToolErrorCount   = "quercle.tool.error.count"
)
