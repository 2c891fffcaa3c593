package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/penwyp/go-lecture-monitor/internal/config"
	"github.com/penwyp/go-lecture-monitor/internal/core/streak"
	"github.com/penwyp/go-lecture-monitor/internal/data/history"
	"github.com/penwyp/go-lecture-monitor/internal/data/kv"
	"github.com/penwyp/go-lecture-monitor/internal/metrics"
	"github.com/penwyp/go-lecture-monitor/internal/util"
	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags. Empty or zero values leave the
// config file setting in place.
type rootOptions struct {
	configPath  string
	dataDir     string
	store       string
	timezone    string
	redisAddr   string
	metricsFile string
	threshold   int
	debug       bool
}

// app holds what a command run shares: config, store and metrics.
type app struct {
	opts rootOptions

	cfg     *config.Config
	clock   *util.TimeProvider
	store   *kv.Resilient
	metrics *metrics.Metrics
	tracker *streak.Tracker
	history *history.History
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "go-lecture-monitor",
		Short: "Lecture captions, listening time and streak tracking",
		Long: `go-lecture-monitor plays local lecture files with synchronized captions,
credits listening time to the current day and tracks daily listening streaks.

A day counts towards the streak once its listening time reaches the threshold
(10 minutes by default).

Examples:
  go-lecture-monitor play talks/intro.json            # Play a lecture with captions
  go-lecture-monitor captions talk.srt --at 1m30s     # Show the caption active at 1:30
  go-lecture-monitor listen --seconds 300             # Credit five minutes to today
  go-lecture-monitor streak                           # Show the streak panel
  go-lecture-monitor stats --view month -o csv        # Export the monthly series`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "",
		"Config file (default ~/"+config.AppDirName+"/"+config.FileName+")")
	flags.StringVar(&a.opts.dataDir, "data-dir", "",
		"Directory for listening data and logs")
	flags.StringVar(&a.opts.store, "store", "",
		"Storage backend (memory, file, badger, sqlite, redis)")
	flags.StringVar(&a.opts.timezone, "timezone", "",
		"Timezone that decides the listening day (e.g., Local, UTC, Europe/Berlin)")
	flags.StringVar(&a.opts.redisAddr, "redis-addr", "",
		"Redis address for the redis backend")
	flags.StringVar(&a.opts.metricsFile, "metrics-file", "",
		"Write Prometheus textfile metrics here after the command")
	flags.IntVar(&a.opts.threshold, "threshold", 0,
		"Seconds of listening that make a streak day")
	flags.BoolVar(&a.opts.debug, "debug", false,
		"Enable debug mode")

	rootCmd.AddCommand(
		newCaptionsCmd(a),
		newListenCmd(a),
		newStreakCmd(a),
		newStatsCmd(a),
		newPlayCmd(a),
		newHistoryCmd(a),
		newLecturesCmd(a),
		newResetCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

// Execute runs the command line and releases what the command opened.
func Execute() error {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// setup loads config, applies flag overrides and starts logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return err
	}
	a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.opts.debug {
		level = "debug"
	}
	if err := util.InitLogger(util.LoggerOptions{
		Level:   level,
		File:    cfg.LogFile(),
		Format:  util.LogFormat(cfg.Log.Format),
		Console: a.opts.debug,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return err
	}
	a.clock = util.GetTimeProvider()
	a.metrics = metrics.New()

	util.LogDebug("Command starting",
		util.F("command", cmd.Name()),
		util.F("store", cfg.Store.Backend),
		util.F("timezone", cfg.Timezone))
	return nil
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("data-dir") {
		cfg.DataDir = a.opts.dataDir
	}
	if changed("store") {
		cfg.Store.Backend = a.opts.store
	}
	if changed("timezone") {
		cfg.Timezone = a.opts.timezone
	}
	if changed("redis-addr") {
		cfg.Store.Redis.Addr = a.opts.redisAddr
	}
	if changed("metrics-file") {
		cfg.MetricsFile = a.opts.metricsFile
	}
	if changed("threshold") {
		cfg.Threshold = a.opts.threshold
	}
}

// openStore opens the configured backend once.
func (a *app) openStore() *kv.Resilient {
	if a.store == nil {
		a.store = kv.OpenResilient(a.cfg.KV())
		a.metrics.WatchStoreFailures(a.store.Failures)
	}
	return a.store
}

func (a *app) streakTracker(ctx context.Context) *streak.Tracker {
	if a.tracker == nil {
		a.tracker = streak.NewTracker(ctx, a.openStore(), a.clock,
			streak.WithThreshold(a.cfg.Threshold),
			streak.WithRecorder(a.metrics))
	}
	return a.tracker
}

func (a *app) playbackHistory(ctx context.Context) *history.History {
	if a.history == nil {
		a.history = history.Load(ctx, a.openStore(), a.clock)
	}
	return a.history
}

// close writes metrics, then closes the store and the logger.
func (a *app) close() error {
	var firstErr error
	if a.cfg != nil && a.cfg.MetricsFile != "" {
		if a.tracker != nil {
			a.metrics.ObserveSummary(a.tracker.Summary())
		}
		if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
			firstErr = fmt.Errorf("write metrics: %w", err)
		}
	}
	if a.store != nil {
		if a.store.Degraded() {
			util.LogWarnf("Store was degraded during this run (%d failures)", a.store.Failures())
		}
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.store = nil
	}
	util.CloseLogger()
	return firstErr
}
