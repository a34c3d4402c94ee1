package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"TrendRadar/internal/app"
	"TrendRadar/internal/config"
	"TrendRadar/internal/logging"
	"TrendRadar/internal/report"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "trendradar",
		Short:         "Competitive intelligence tracker and trend newsletter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(trackCommand(), statusCommand(), newsletterCommand(), scheduleCommand())
	return root
}

func newApplication() *app.Application {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	return app.New(cfg, logger)
}

func trackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "track",
		Short: "Capture competitor snapshots and report changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application := newApplication()
			defer application.Close()

			results, err := application.Track(cmd.Context())
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			for _, result := range results {
				if result.FirstCapture {
					fmt.Fprintf(cmd.OutOrStdout(), "=== %s ===\nFirst capture, baseline stored.\n", result.CompanyID)
					continue
				}
				fmt.Fprint(cmd.OutOrStdout(), report.RenderTerminal(result.CompanyID, result.Changes, now))
			}
			return nil
		},
	}
}

func statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the latest stored snapshot per company",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application := newApplication()
			defer application.Close()

			snapshots, err := application.Status(cmd.Context())
			if err != nil {
				return err
			}

			ids := make([]string, 0, len(snapshots))
			for id := range snapshots {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			for _, id := range ids {
				snap := snapshots[id]
				if snap == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s no snapshots yet\n", id)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s captured %s  services=%d locations=%d promotions=%d\n",
					id, snap.CapturedAt.Format("2006-01-02 15:04"),
					len(snap.Services), len(snap.Locations), len(snap.Promotions))
			}
			return nil
		},
	}
}

func newsletterCommand() *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "newsletter",
		Short: "Build and send the weekly trend issue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application := newApplication()
			defer application.Close()

			result, err := application.Newsletter(cmd.Context(), preview)
			if err != nil {
				return err
			}
			if result == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No articles cleared the relevance bar; no issue produced.")
				return nil
			}

			if preview {
				fmt.Fprintln(cmd.OutOrStdout(), result.Subject)
				fmt.Fprintln(cmd.OutOrStdout(), result.Text)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Issue %s sent with %d articles.\n", result.Issue.ID, len(result.Selected))
			return nil
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "render the issue without sending or recording it")
	return cmd
}

func scheduleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run both pipelines on the configured interval",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application := newApplication()
			defer application.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return application.Schedule(ctx)
		},
	}
}
