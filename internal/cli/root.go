// Package cli implements the quercle command.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/quercle/quercle-aigo/internal/config"
	"github.com/quercle/quercle-aigo/providers/observability/slogobs"
	"github.com/quercle/quercle-aigo/providers/tool"
	quercletool "github.com/quercle/quercle-aigo/providers/tool/quercle"
	"github.com/quercle/quercle-aigo/quercle"
)

// app holds what the subcommands share once the config is loaded.
type app struct {
	cfgFile  string
	verbose  bool
	observer *slogobs.Observer
	catalog  *tool.Catalog
}

// NewRootCommand builds the quercle command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "quercle",
		Short:         "Inspect and call the Quercle web search tools",
		Long:          "quercle lists, describes and calls the tools that expose the Quercle web search and fetch API to agents.",
		Version:       quercle.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file path (YAML)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newToolCommand(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if config.IsValidationError(err) {
		source := "environment"
		if a.cfgFile != "" {
			source = a.cfgFile + " and environment"
		}
		return fmt.Errorf("%w (check %s)", err, source)
	}
	if err != nil {
		return err
	}

	opts := []slogobs.Option{slogobs.WithOutput(cmd.ErrOrStderr())}
	if cfg.Log.Format != "" {
		opts = append(opts, slogobs.WithFormat(slogobs.ParseFormat(cfg.Log.Format)))
	}
	switch {
	case a.verbose:
		opts = append(opts, slogobs.WithLevel(slog.LevelDebug))
	case cfg.Log.Level != "":
		opts = append(opts, slogobs.WithLevel(slogobs.ParseLevel(cfg.Log.Level)))
	}
	a.observer = slogobs.New(opts...)

	a.catalog = quercletool.NewToolset(cfg.ToolsetOptions(a.observer.Logger())...).Catalog()
	return nil
}

func (a *app) lookup(name string) (tool.GenericTool, error) {
	t, ok := a.catalog.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown tool: %q (available: %v)", name, a.catalog.Names())
	}
	return t, nil
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
