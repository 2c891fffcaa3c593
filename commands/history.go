package commands

import (
	"fmt"

	"github.com/penwyp/go-lecture-monitor/internal/presentation/formatter"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		clearAll bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently played lectures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h := a.playbackHistory(ctx)

			if clearAll {
				h.Clear(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), "Playback history cleared")
				return nil
			}
			if err := checkFormat(output); err != nil {
				return err
			}
			items := h.Items()
			if len(items) == 0 && output == "table" {
				fmt.Fprintln(cmd.OutOrStdout(), "No lectures played yet")
				return nil
			}
			return writeDataset(cmd.OutOrStdout(), output, formatter.HistoryDataset(items, a.clock.Location()))
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "Remove every history entry")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json, csv, summary)")
	return cmd
}
