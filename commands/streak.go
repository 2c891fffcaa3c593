package commands

import (
	"github.com/penwyp/go-lecture-monitor/internal/core/analytics"
	"github.com/penwyp/go-lecture-monitor/internal/presentation/display"
	"github.com/penwyp/go-lecture-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-lecture-monitor/internal/presentation/layout"
	"github.com/spf13/cobra"
)

func newStreakCmd(a *app) *cobra.Command {
	var (
		output string
		view   string
	)

	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show the listening streak",
		Long: `Shows the current and longest streak, today's progress towards the
threshold and a listening chart. Use -o for machine-readable output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output, "panel"); err != nil {
				return err
			}
			v, err := analytics.ParseView(view)
			if err != nil {
				return err
			}

			tracker := a.streakTracker(cmd.Context())
			summary := tracker.Summary()
			daily := tracker.DailyTimes()
			total := analytics.TotalSeconds(daily)
			a.metrics.ObserveSummary(summary)

			if output != "panel" {
				return writeDataset(cmd.OutOrStdout(), output, formatter.StreakDataset(summary, tracker.Threshold(), total))
			}

			points, err := analytics.BuildSeries(v, daily, a.clock.Now())
			if err != nil {
				return err
			}
			width, _ := layout.NewSizer().Size()
			return display.RenderStreakPanel(cmd.OutOrStdout(), display.StreakPanel{
				Summary:      summary,
				Threshold:    tracker.Threshold(),
				TotalSeconds: total,
				View:         v,
				Points:       points,
			}, width)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "panel", "Output format (panel, table, json, csv, summary)")
	cmd.Flags().StringVar(&view, "view", string(analytics.ViewWeek), "Chart granularity for the panel (week, month, year)")
	return cmd
}
