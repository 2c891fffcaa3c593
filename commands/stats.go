package commands

import (
	"fmt"

	"github.com/penwyp/go-lecture-monitor/internal/core/analytics"
	"github.com/penwyp/go-lecture-monitor/internal/presentation/display"
	"github.com/penwyp/go-lecture-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-lecture-monitor/internal/presentation/layout"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	var (
		view   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show listening time per day or month",
		Long: `Buckets daily listening totals for a view:
  week   the last 7 days
  month  the last 30 days
  year   the last 12 calendar months`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output, "chart"); err != nil {
				return err
			}
			v, err := analytics.ParseView(view)
			if err != nil {
				return err
			}

			tracker := a.streakTracker(cmd.Context())
			points, err := analytics.BuildSeries(v, tracker.DailyTimes(), a.clock.Now())
			if err != nil {
				return err
			}
			a.metrics.ObserveSummary(tracker.Summary())

			if output == "chart" {
				width, _ := layout.NewSizer().Size()
				for _, line := range display.RenderChart(v, points, width) {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
						return err
					}
				}
				return nil
			}
			return writeDataset(cmd.OutOrStdout(), output, formatter.SeriesDataset(v, points))
		},
	}

	cmd.Flags().StringVar(&view, "view", string(analytics.ViewWeek), "Granularity (week, month, year)")
	cmd.Flags().StringVarP(&output, "output", "o", "chart", "Output format (chart, table, json, csv, summary)")
	return cmd
}
