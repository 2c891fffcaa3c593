package commands

import (
	"fmt"

	"github.com/penwyp/go-lecture-monitor/internal/core/analytics"
	"github.com/penwyp/go-lecture-monitor/internal/util"
	"github.com/spf13/cobra"
)

func newListenCmd(a *app) *cobra.Command {
	var seconds int

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Credit listening time to today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tracker := a.streakTracker(ctx)

			crossed, err := tracker.AddListeningTime(ctx, seconds)
			if err != nil {
				return err
			}

			summary := tracker.Summary()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %s. Today: %s / %s (%d%%)\n",
				util.FormatListenTime(seconds),
				util.FormatListenTime(summary.TodaySeconds),
				util.FormatListenTime(tracker.Threshold()),
				analytics.TodayPercent(summary.TodaySeconds, tracker.Threshold()))
			if crossed {
				fmt.Fprintf(out, "Streak day reached! Current streak: %d day(s)\n", summary.CurrentStreak)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&seconds, "seconds", 0, "Seconds of listening to add")
	_ = cmd.MarkFlagRequired("seconds")
	return cmd
}
