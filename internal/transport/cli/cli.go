// Package cli это командная строка storepilot поверх application.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"storepilot/internal/application"
	"storepilot/internal/config"
	"storepilot/pkg/contextx"
	"storepilot/pkg/logx"
)

// state is filled by the root PersistentPreRunE.
type state struct {
	cfg config.Config
}

func NewRootCommand() *cobra.Command {
	st := &state{}

	root := &cobra.Command{
		Use:   "storepilot",
		Short: "Find trending products, source suppliers and launch a store",
		Long: `storepilot runs the store launch pipeline: trend scan, margin filter,
supplier search, negotiation drafts, store provisioning, policy drafts and
ad performance estimates.

Configuration comes from the environment and an optional .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config.Load: %w", err)
			}

			st.cfg = cfg

			log := logx.NewLogger(cmd.ErrOrStderr(), cfg.App.LogFormat, cfg.App.LogLevel).
				With(slog.String(logx.FieldAppName, cfg.App.Name))
			slog.SetDefault(log)
			cmd.SetContext(contextx.WithLogger(cmd.Context(), log))

			return nil
		},
	}

	root.AddCommand(
		newRunCommand(st),
		newServeCommand(st),
		newWorkerCommand(st),
		newWatchCommand(st),
		newVersionCommand(st),
	)

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCommand()

	if err := root.ExecuteContext(ctx); err != nil {
		logger(ctx).Error("storepilot failed", logx.Error(err))

		return 1
	}

	return 0
}

func withApp(cmd *cobra.Command, st *state, fn func(ctx context.Context, app *application.App) error) error {
	ctx := cmd.Context()

	app, err := application.New(ctx, st.cfg)
	if err != nil {
		return fmt.Errorf("application.New: %w", err)
	}
	defer app.Close(ctx)

	return fn(ctx, app)
}

func newServeCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with probe and metrics servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, st, func(ctx context.Context, app *application.App) error {
				return app.Serve(ctx)
			})
		},
	}
}

func newWorkerCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Process queued pipeline runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, st, func(ctx context.Context, app *application.App) error {
				return app.Worker(ctx)
			})
		},
	}
}

func newWatchCommand(st *state) *cobra.Command {
	var categories []string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rescan categories periodically and alert on newly trending products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, st, func(ctx context.Context, app *application.App) error {
				return app.Watch(ctx, categories)
			})
		},
	}

	cmd.Flags().StringSliceVar(&categories, "category", nil, "category to watch, repeatable (default WATCH_CATEGORIES)")

	return cmd
}

func newVersionCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", st.cfg.App.Name, st.cfg.App.Version)
		},
	}
}
