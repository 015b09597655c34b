package cost

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ToolMetrics describes what a single tool invocation costs and how well it
// tends to perform. Providers surface it to the model so it can weigh tools
// against each other, and [Tracker] uses Amount to accumulate spend.
//
// Example usage:
//
//	metrics := cost.ToolMetrics{
//	    Amount:          0.005,
//	    Currency:        "USD",
//	    CostDescription: "per search query",
//	}
type ToolMetrics struct {
	// Amount is the cost value for executing the tool once
	Amount float64 `json:"amount"`

	// Currency is the currency or unit for the cost (e.g., "USD", "credits")
	Currency string `json:"currency,omitempty"`

	// CostDescription gives context about the cost (e.g., "per search query")
	CostDescription string `json:"cost_description,omitempty"`

	// Accuracy is a reliability score between 0.0 and 1.0
	Accuracy float64 `json:"accuracy,omitempty"`

	// AverageDurationInMillis is the typical wall-clock duration of one call
	AverageDurationInMillis int64 `json:"average_duration_ms,omitempty"`
}

// String returns a formatted string representation of the cost.
func (tm ToolMetrics) String() string {
	currency := tm.Currency
	if currency == "" {
		currency = "USD"
	}

	result := fmt.Sprintf("%.6f %s", tm.Amount, currency)
	if tm.CostDescription != "" {
		result = fmt.Sprintf("%s (%s)", result, tm.CostDescription)
	}
	return result
}

// MetricsString returns the quality metrics formatted for display.
// Returns an empty string when no metric is set.
func (tm ToolMetrics) MetricsString() string {
	var parts []string
	if tm.Accuracy > 0 {
		parts = append(parts, fmt.Sprintf("Accuracy: %.1f%%", tm.Accuracy*100))
	}
	if tm.AverageDurationInMillis > 0 {
		parts = append(parts, fmt.Sprintf("Avg duration: %dms", tm.AverageDurationInMillis))
	}
	return strings.Join(parts, ", ")
}

// Summary is a breakdown of the tool spend recorded by a [Tracker].
type Summary struct {
	// ToolCosts maps tool names to their accumulated execution costs
	ToolCosts map[string]float64 `json:"tool_costs,omitempty"`

	// ToolExecutionCount tracks how many times each tool was called
	ToolExecutionCount map[string]int `json:"tool_execution_count,omitempty"`

	// TotalToolCost is the sum of all tool execution costs
	TotalToolCost float64 `json:"total_tool_cost"`

	// Currency is always "USD" for consistency
	Currency string `json:"currency"`
}

// String renders the summary one tool per line, sorted by name, followed by
// the total.
func (s Summary) String() string {
	names := make([]string, 0, len(s.ToolCosts))
	for name := range s.ToolCosts {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s: %d call(s), %.6f %s\n", name, s.ToolExecutionCount[name], s.ToolCosts[name], s.Currency)
	}
	fmt.Fprintf(&b, "total: %.6f %s", s.TotalToolCost, s.Currency)
	return b.String()
}

// Tracker accumulates tool costs across calls. It is safe for concurrent use.
// The zero value is ready to use.
type Tracker struct {
	mu     sync.Mutex
	costs  map[string]float64
	counts map[string]int
	total  float64
}

// Record adds one execution of the named tool. A nil metrics value counts
// the call without adding cost.
func (t *Tracker) Record(toolName string, metrics *ToolMetrics) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.costs == nil {
		t.costs = make(map[string]float64)
		t.counts = make(map[string]int)
	}

	t.counts[toolName]++
	if metrics == nil {
		if _, ok := t.costs[toolName]; !ok {
			t.costs[toolName] = 0
		}
		return
	}
	t.costs[toolName] += metrics.Amount
	t.total += metrics.Amount
}

// Summary returns a snapshot of everything recorded so far.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	summary := Summary{
		ToolCosts:          make(map[string]float64, len(t.costs)),
		ToolExecutionCount: make(map[string]int, len(t.counts)),
		TotalToolCost:      t.total,
		Currency:           "USD",
	}
	for name, amount := range t.costs {
		summary.ToolCosts[name] = amount
	}
	for name, count := range t.counts {
		summary.ToolExecutionCount[name] = count
	}
	return summary
}
