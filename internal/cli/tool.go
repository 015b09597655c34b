package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quercle/quercle-aigo/core/cost"
	"github.com/quercle/quercle-aigo/internal/utils"
	"github.com/quercle/quercle-aigo/providers/observability"
	"github.com/quercle/quercle-aigo/providers/tool"
)

func newToolCommand(a *app) *cobra.Command {
	toolCmd := &cobra.Command{
		Use:   "tool",
		Short: "List, describe and call tools",
	}

	toolCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(cmd)
		},
	})

	toolCmd.AddCommand(&cobra.Command{
		Use:   "describe <name>",
		Short: "Show tool details and input schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.describe(cmd, args[0])
		},
	})

	toolCmd.AddCommand(&cobra.Command{
		Use:   "call <name> <json>",
		Short: "Validate the input and call a tool",
		Example: `  quercle tool call quercle_search '{"query": "latest Go release"}'
  quercle tool call quercle_raw_fetch '{"url": "https://go.dev", "format": "markdown"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, args[0], args[1])
		},
	})

	return toolCmd
}

func (a *app) list(cmd *cobra.Command) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tCOST\tDESCRIPTION\n")

	for _, name := range a.catalog.Names() {
		t, _ := a.catalog.Get(name)
		info := t.ToolInfo()
		price := "-"
		if info.Metrics != nil {
			price = info.Metrics.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, price, firstSentence(info.Description))
	}
	return w.Flush()
}

func (a *app) describe(cmd *cobra.Command, name string) error {
	t, err := a.lookup(name)
	if err != nil {
		return err
	}
	info := t.ToolInfo()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Name:        %s\n", info.Name)
	fmt.Fprintf(out, "Description: %s\n", info.Description)
	if info.Metrics != nil {
		fmt.Fprintf(out, "Cost:        %s\n", info.Metrics.String())
		fmt.Fprintf(out, "Metrics:     %s\n", info.Metrics.MetricsString())
	}
	fmt.Fprintf(out, "\nInput Schema:\n%s\n", utils.JSONToString(info.Parameters, true))
	return nil
}

func (a *app) call(cmd *cobra.Command, name, input string) error {
	t, err := a.lookup(name)
	if err != nil {
		return err
	}

	problems, err := tool.ValidateInput(t, input)
	if err != nil {
		return err
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid input for %s:\n  %s", name, strings.Join(problems, "\n  "))
	}

	ctx := observability.ContextWithObserver(cmd.Context(), a.observer)
	ctx, span := a.observer.StartSpan(ctx, observability.SpanToolExecution,
		observability.String(observability.AttrToolName, name))
	defer span.End()

	output, err := t.Call(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, err.Error())
		return err
	}
	span.SetStatus(observability.StatusOK, "")

	var tracker cost.Tracker
	tracker.Record(name, t.GetMetrics())
	a.observer.Debug(ctx, "tool cost", observability.String("summary", tracker.Summary().String()))

	fmt.Fprintln(cmd.OutOrStdout(), prettyJSON(output))
	return nil
}

// prettyJSON indents a JSON document and prints JSON strings unquoted.
func prettyJSON(raw string) string {
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}

func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i+1]
	}
	return s
}
