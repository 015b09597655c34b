package cost

import (
	"strings"
	"sync"
	"testing"
)

func TestToolMetricsString(t *testing.T) {
	metrics := ToolMetrics{
		Amount:   0.001,
		Currency: "USD",
	}
	expected := "0.001000 USD"

	if metrics.String() != expected {
		t.Errorf("Expected %s, got %s", expected, metrics.String())
	}
}

func TestToolMetricsStringWithCostDescription(t *testing.T) {
	metrics := ToolMetrics{
		Amount:          0.001,
		Currency:        "USD",
		CostDescription: "per API call",
	}
	expected := "0.001000 USD (per API call)"

	if metrics.String() != expected {
		t.Errorf("Expected %s, got %s", expected, metrics.String())
	}
}

func TestToolMetricsStringDefaultsCurrency(t *testing.T) {
	metrics := ToolMetrics{Amount: 0.5}
	if metrics.String() != "0.500000 USD" {
		t.Errorf("Expected default USD currency, got %s", metrics.String())
	}
}

func TestToolMetricsMetricsString(t *testing.T) {
	metrics := ToolMetrics{Accuracy: 0.9, AverageDurationInMillis: 1200}
	got := metrics.MetricsString()

	if !strings.Contains(got, "Accuracy: 90.0%") {
		t.Errorf("Expected accuracy in %q", got)
	}
	if !strings.Contains(got, "Avg duration: 1200ms") {
		t.Errorf("Expected duration in %q", got)
	}

	if (ToolMetrics{}).MetricsString() != "" {
		t.Error("Expected empty metrics string for zero metrics")
	}
}

func TestTrackerRecord(t *testing.T) {
	var tracker Tracker

	tracker.Record("quercle_search", &ToolMetrics{Amount: 0.01})
	tracker.Record("quercle_search", &ToolMetrics{Amount: 0.01})
	tracker.Record("quercle_raw_fetch", nil)

	summary := tracker.Summary()
	if summary.ToolExecutionCount["quercle_search"] != 2 {
		t.Errorf("Expected 2 search calls, got %d", summary.ToolExecutionCount["quercle_search"])
	}
	if summary.ToolExecutionCount["quercle_raw_fetch"] != 1 {
		t.Errorf("Expected 1 raw fetch call, got %d", summary.ToolExecutionCount["quercle_raw_fetch"])
	}
	if summary.TotalToolCost < 0.0199 || summary.TotalToolCost > 0.0201 {
		t.Errorf("Expected total 0.02, got %f", summary.TotalToolCost)
	}
	if summary.Currency != "USD" {
		t.Errorf("Expected USD, got %s", summary.Currency)
	}

	out := summary.String()
	if !strings.Contains(out, "quercle_raw_fetch: 1 call(s)") {
		t.Errorf("Expected raw fetch line in %q", out)
	}
	if strings.Index(out, "quercle_raw_fetch") > strings.Index(out, "quercle_search") {
		t.Errorf("Expected tools sorted by name in %q", out)
	}
}

func TestTrackerSummaryIsSnapshot(t *testing.T) {
	var tracker Tracker
	tracker.Record("a", &ToolMetrics{Amount: 1})

	summary := tracker.Summary()
	summary.ToolCosts["a"] = 100

	if tracker.Summary().ToolCosts["a"] != 1 {
		t.Error("Expected summary mutation not to affect tracker")
	}
}

func TestTrackerConcurrentRecord(t *testing.T) {
	var tracker Tracker
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Record("tool", &ToolMetrics{Amount: 1})
		}()
	}
	wg.Wait()

	summary := tracker.Summary()
	if summary.ToolExecutionCount["tool"] != 50 {
		t.Errorf("Expected 50 calls, got %d", summary.ToolExecutionCount["tool"])
	}
	if summary.TotalToolCost != 50 {
		t.Errorf("Expected total 50, got %f", summary.TotalToolCost)
	}
}
