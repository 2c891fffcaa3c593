package commands

import (
	"fmt"
	"time"

	"github.com/penwyp/go-lecture-monitor/internal/core/caption"
	"github.com/penwyp/go-lecture-monitor/internal/core/constants"
	"github.com/penwyp/go-lecture-monitor/internal/data/parser"
	"github.com/penwyp/go-lecture-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-lecture-monitor/internal/util"
	"github.com/spf13/cobra"
)

type captionsOptions struct {
	at     time.Duration
	search string
	output string
}

func newCaptionsCmd(a *app) *cobra.Command {
	opts := &captionsOptions{}

	cmd := &cobra.Command{
		Use:   "captions <lecture-file>",
		Short: "Parse a lecture's captions and resolve the active line",
		Long: `Parses the captions of a lecture file (.srt, .txt or a .json lecture record)
and lists them. With --at the entry active at that playback position is marked;
untimed transcripts advance one line every 5 seconds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCaptions(cmd, a, opts, args[0])
		},
	}

	cmd.Flags().DurationVar(&opts.at, "at", 0, "Playback position to resolve (e.g., 2.5s, 1m30s)")
	cmd.Flags().StringVar(&opts.search, "search", "", "Only list entries containing this text")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json, csv, summary)")
	return cmd
}

func runCaptions(cmd *cobra.Command, a *app, opts *captionsOptions, path string) error {
	if err := checkFormat(opts.output); err != nil {
		return err
	}

	lecture, files, err := parser.NewParser(1).LoadLecture(path)
	if err != nil {
		return fmt.Errorf("failed to load lecture: %w", err)
	}
	set, stats := lecture.CaptionsWithStats()
	a.metrics.CaptionsParsed(stats)
	if stats.Dropped > 0 {
		util.LogWarn("Dropped malformed caption blocks",
			util.F("file", path),
			util.F("dropped", stats.Dropped),
			util.F("kept", stats.Entries))
	}
	util.LogDebug("Captions loaded", util.F("files", files), util.F("entries", set.Len()), util.F("timed", set.Timed))

	resolve := cmd.Flags().Changed("at")
	active := caption.None
	if resolve {
		if active, err = activeAt(set, opts.at); err != nil {
			return fmt.Errorf("invalid --at %s: %w", opts.at, err)
		}
	}

	entries := set.Entries
	filteredActive := active
	if opts.search != "" {
		entries = caption.Filter(set, opts.search)
		filteredActive = caption.None
		if e, ok := set.At(active); ok {
			for i, f := range entries {
				if f.Ordinal == e.Ordinal {
					filteredActive = i
					break
				}
			}
		}
	}

	title := lecture.Title
	if title == "" {
		title = path
	}
	if resolve {
		title = fmt.Sprintf("%s @ %s", title, util.FormatPosition(opts.at))
	}
	return writeDataset(cmd.OutOrStdout(), opts.output, formatter.CaptionsDataset(title, entries, filteredActive))
}

// activeAt resolves pos against timed captions, or cycles untimed ones.
// Negative positions are rejected for both.
func activeAt(set caption.Set, pos time.Duration) (int, error) {
	if pos < 0 {
		return caption.None, caption.ErrInvalidPosition
	}
	if set.Timed {
		return caption.Resolve(set, pos.Milliseconds())
	}
	return caption.CycleIndex(set, int(pos/constants.UntimedLineInterval)), nil
}
