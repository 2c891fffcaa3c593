package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(a *app) *cobra.Command {
	var withHistory bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear listening time and streak days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a.streakTracker(ctx).Clear(ctx)
			if withHistory {
				a.playbackHistory(ctx).Clear(ctx)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Listening data cleared")
			if withHistory {
				fmt.Fprintln(out, "Playback history cleared")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withHistory, "history", false, "Also clear playback history")
	return cmd
}
