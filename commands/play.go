package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/go-lecture-monitor/internal/application/player"
	"github.com/penwyp/go-lecture-monitor/internal/data/parser"
	"github.com/penwyp/go-lecture-monitor/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type playOptions struct {
	library  libraryOptions
	duration time.Duration
	speed    float64
	skip     time.Duration
	headless bool
	playFor  time.Duration
	noWatch  bool
	autoplay bool
}

func newPlayCmd(a *app) *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play [lecture-file...]",
		Short: "Play lectures with synchronized captions",
		Long: `Simulates playback of one or more lectures and shows the active caption.
While playing, every second is credited to today's listening time.

Keys:
  space/p  play or pause       ←/→  skip back or forward
  s        cycle speed         n/b  next or previous lecture
  h/?      help                q    quit

Without a terminal, or with --headless, active captions are printed as they
change until the lecture ends.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, a, opts, args)
		},
	}

	opts.library.bind(cmd)
	cmd.Flags().DurationVar(&opts.duration, "duration", 0, "Media length (default: end of the last timed caption)")
	cmd.Flags().Float64Var(&opts.speed, "speed", 0, "Playback speed (0.5, 0.75, 1, 1.25, 1.5, 2)")
	cmd.Flags().DurationVar(&opts.skip, "skip", 0, "Skip step for the arrow keys")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Print captions instead of drawing the player")
	cmd.Flags().DurationVar(&opts.playFor, "for", 0, "Stop a headless run after this long")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "Do not reload captions when lecture files change")
	cmd.Flags().BoolVar(&opts.autoplay, "autoplay", true, "Start playing as soon as a lecture loads")
	return cmd
}

func runPlay(cmd *cobra.Command, a *app, opts *playOptions, args []string) error {
	queue := args
	if len(queue) == 0 {
		lectures, err := opts.library.load(cmd, a)
		if err != nil {
			return err
		}
		for _, l := range lectures {
			queue = append(queue, l.Source)
		}
	}
	if len(queue) == 0 {
		return fmt.Errorf("no lectures to play")
	}

	speed := opts.speed
	if speed == 0 {
		speed = a.cfg.Player.Speed
	}
	skip := opts.skip
	if skip == 0 {
		skip = a.cfg.Player.SkipStep
	}
	headless := opts.headless || !term.IsTerminal(int(os.Stdout.Fd()))

	cfg := &player.PlayerConfig{
		Duration:      opts.duration,
		Speed:         speed,
		SkipStep:      skip,
		Autoplay:      opts.autoplay,
		UIRefreshRate: a.cfg.Player.RefreshRate,
		Watch:         a.cfg.Player.Watch && !opts.noWatch,
		Headless:      headless,
		PlayFor:       opts.playFor,
	}
	if headless {
		// headless advances at the player's own tick
		cfg.UIRefreshRate = 0
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := player.Dependencies{
		Tracker: a.streakTracker(ctx),
		History: a.playbackHistory(ctx),
		Parser:  parser.NewParser(1),
		Metrics: a.metrics,
	}
	orch, err := player.NewOrchestrator(cfg, queue, deps, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	util.LogInfo("Starting playback", util.F("lectures", len(queue)), util.F("headless", headless))
	if err := orch.Run(ctx); err != nil {
		return err
	}

	if p := orch.Player(); p != nil {
		summary := deps.Tracker.Summary()
		fmt.Fprintf(cmd.OutOrStdout(), "Listened %s this session. Today: %s, streak %d day(s)\n",
			util.FormatListenTime(int(p.ListenedSeconds())),
			util.FormatListenTime(summary.TodaySeconds),
			summary.CurrentStreak)
	}
	return nil
}
