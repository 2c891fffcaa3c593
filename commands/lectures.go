package commands

import (
	"fmt"
	"runtime"

	"github.com/penwyp/go-lecture-monitor/internal/core/model"
	"github.com/penwyp/go-lecture-monitor/internal/data/parser"
	"github.com/penwyp/go-lecture-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-lecture-monitor/internal/presentation/interaction"
	"github.com/spf13/cobra"
)

type libraryOptions struct {
	dir  string
	sort string
	desc bool
}

func (o *libraryOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.dir, "dir", "", "Lecture library directory (default player.library_dir)")
	cmd.Flags().StringVar(&o.sort, "sort", "title", "Sort by title, date, speaker or id")
	cmd.Flags().BoolVar(&o.desc, "desc", false, "Sort in descending order")
}

// load reads and sorts the library.
func (o *libraryOptions) load(cmd *cobra.Command, a *app) ([]*model.Lecture, error) {
	dir := o.dir
	if dir == "" {
		dir = a.cfg.Player.LibraryDir
	}
	if dir == "" {
		return nil, fmt.Errorf("no lecture library: pass --dir or set player.library_dir")
	}
	field, err := interaction.ParseSortField(o.sort)
	if err != nil {
		return nil, err
	}

	lectures, err := parser.NewParser(runtime.NumCPU()).LoadLibrary(cmd.Context(), dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}

	sorter := interaction.NewLectureSorter()
	sorter.SetField(field)
	if o.desc {
		sorter.SetOrder(interaction.SortDescending)
	}
	sorter.Sort(lectures)
	return lectures, nil
}

func newLecturesCmd(a *app) *cobra.Command {
	lib := &libraryOptions{}
	var output string

	cmd := &cobra.Command{
		Use:   "lectures",
		Short: "List the lectures in a library directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			lectures, err := lib.load(cmd, a)
			if err != nil {
				return err
			}
			return writeDataset(cmd.OutOrStdout(), output, formatter.LecturesDataset(lectures))
		},
	}

	lib.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json, csv, summary)")
	return cmd
}
