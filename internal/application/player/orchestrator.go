package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/penwyp/go-lecture-monitor/internal/core/caption"
	"github.com/penwyp/go-lecture-monitor/internal/core/model"
	"github.com/penwyp/go-lecture-monitor/internal/core/streak"
	"github.com/penwyp/go-lecture-monitor/internal/data/parser"
	"github.com/penwyp/go-lecture-monitor/internal/metrics"
	"github.com/penwyp/go-lecture-monitor/internal/presentation/display"
	"github.com/penwyp/go-lecture-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// KeySource delivers key presses.
type KeySource interface {
	Events() <-chan interaction.KeyEvent
	Close() error
}

// Dependencies are the long-lived services the player works with.
type Dependencies struct {
	Tracker *streak.Tracker
	History HistoryRecorder
	Parser  *parser.Parser
	Metrics *metrics.Metrics
}

// Orchestrator coordinates playback, keyboard, display and caption reload
// for the play command.
type Orchestrator struct {
	config *PlayerConfig
	deps   Dependencies

	queue    []string
	queueIdx int

	player   *Player
	state    *StateManager
	display  *display.TerminalDisplay
	keyboard KeySource
	watcher  *CaptionWatcher
	reloads  chan string

	// out receives caption lines in headless mode.
	out io.Writer
}

// NewOrchestrator plays the lecture files in queue, starting with the first.
func NewOrchestrator(config *PlayerConfig, queue []string, deps Dependencies, out io.Writer) (*Orchestrator, error) {
	if len(queue) > 0 && config.LecturePath == "" {
		config.LecturePath = queue[0]
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if len(queue) == 0 {
		queue = []string{config.LecturePath}
	}
	if deps.Parser == nil {
		deps.Parser = parser.NewParser(1)
	}

	idx := 0
	for i, path := range queue {
		if path == config.LecturePath {
			idx = i
			break
		}
	}

	return &Orchestrator{
		config:   config,
		deps:     deps,
		queue:    queue,
		queueIdx: idx,
		state:    NewStateManager(),
		reloads:  make(chan string, 4),
		out:      out,
	}, nil
}

// Run plays until the user quits, the context ends or, headless, the
// lecture finishes.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer o.Close()

	var sink ListeningSink
	if o.deps.Tracker != nil {
		sink = o.deps.Tracker
	}
	o.player = NewPlayer(ctx, o.config, sink, o.deps.History, o.deps.Metrics)
	o.player.OnStreak = func() {
		o.state.SetStatus("Streak day reached!", util.GetTimeProvider().Now())
	}

	if err := o.loadLecture(o.queueIdx); err != nil {
		return err
	}

	if o.config.Headless {
		return o.runHeadless(ctx)
	}

	if o.keyboard == nil {
		keyboard, err := interaction.NewKeyboardReader()
		if err != nil {
			return fmt.Errorf("failed to initialize keyboard: %w", err)
		}
		o.keyboard = keyboard
	}
	if o.display == nil {
		o.display = display.NewTerminalDisplay()
	}
	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	util.LogInfo("Starting lecture player...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return o.reloadLoop(gctx) })
	g.Go(func() error { return o.eventLoop(gctx) })
	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

// errQuit ends the event loop and, through the errgroup, the reload loop.
var errQuit = errors.New("quit requested")

func (o *Orchestrator) eventLoop(ctx context.Context) error {
	uiTicker := time.NewTicker(o.config.UIRefreshRate)
	defer uiTicker.Stop()

	last := time.Now()
	o.updateDisplay()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down lecture player...")
			return nil

		case now := <-uiTicker.C:
			if o.player.Advance(now.Sub(last)) {
				o.state.SetStatus("Lecture finished", util.GetTimeProvider().Now())
			}
			last = now
			o.updateDisplay()

		case event, ok := <-o.watcherEvents():
			if !ok {
				o.watcher = nil
				continue
			}
			select {
			case o.reloads <- event.Path:
			default:
			}

		case key := <-o.keyEvents():
			if o.handleKeyboard(key) {
				return errQuit
			}
			o.updateDisplay()
		}
	}
}

// reloadLoop re-parses lecture files off the UI goroutine.
func (o *Orchestrator) reloadLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-o.reloads:
			o.reloadCaptions(path)
		}
	}
}

func (o *Orchestrator) reloadCaptions(changed string) {
	s := o.player.Current()
	if s == nil || len(s.Files) == 0 {
		return
	}
	for _, f := range s.Files {
		o.deps.Parser.Invalidate(f)
	}
	lecture, _, err := o.deps.Parser.LoadLecture(s.Files[0])
	if err != nil {
		util.LogWarnf("Caption reload after change to %s failed: %v", changed, err)
		return
	}
	if o.player.ReloadCaptions(s.ID, lecture) {
		o.state.SetStatus("Captions reloaded", util.GetTimeProvider().Now())
	}
}

func (o *Orchestrator) keyEvents() <-chan interaction.KeyEvent {
	if o.keyboard == nil {
		return nil
	}
	return o.keyboard.Events()
}

func (o *Orchestrator) watcherEvents() <-chan FileEvent {
	if o.watcher == nil {
		return nil
	}
	return o.watcher.Events()
}

// loadLecture switches to queue[idx], replacing the watcher.
func (o *Orchestrator) loadLecture(idx int) error {
	path := o.queue[idx]
	lecture, files, err := o.deps.Parser.LoadLecture(path)
	if err != nil {
		return fmt.Errorf("load lecture %s: %w", path, err)
	}
	o.queueIdx = idx
	o.player.Load(lecture, files)

	if o.watcher != nil {
		_ = o.watcher.Close()
		o.watcher = nil
	}
	if o.config.Watch {
		watcher, err := NewCaptionWatcher(files)
		if err != nil {
			util.LogWarnf("Caption hot reload disabled: %v", err)
		} else {
			o.watcher = watcher
		}
	}
	return nil
}

// step moves through the queue by delta, wrapping.
func (o *Orchestrator) step(delta int) {
	if len(o.queue) < 2 {
		return
	}
	idx := (o.queueIdx + delta + len(o.queue)) % len(o.queue)
	if err := o.loadLecture(idx); err != nil {
		util.LogWarnf("Failed to switch lecture: %v", err)
		o.state.SetStatus("Cannot open "+o.queue[idx], util.GetTimeProvider().Now())
	}
}

// handleKeyboard applies a key press and reports whether to quit.
func (o *Orchestrator) handleKeyboard(event interaction.KeyEvent) bool {
	now := util.GetTimeProvider().Now()

	switch event.Type {
	case interaction.KeyInterrupt:
		return true
	case interaction.KeyEscape:
		if o.state.GetInteractionState().ShowHelp {
			o.state.UpdateInteractionState(func(s *InteractionState) { s.ShowHelp = false })
			return false
		}
		return true
	case interaction.KeyLeft:
		o.player.Skip(-1)
	case interaction.KeyRight:
		o.player.Skip(1)
	case interaction.KeyChar:
		switch event.Key {
		case 'q', 'Q':
			return true
		case ' ', 'p', 'P':
			state := o.player.Toggle().String()
			o.state.SetStatus(strings.ToUpper(state[:1])+state[1:], now)
		case 's', 'S':
			o.state.SetStatus(fmt.Sprintf("Speed %.2fx", o.player.CycleSpeed()), now)
		case 'n', 'N':
			o.step(1)
		case 'b', 'B':
			o.step(-1)
		case 'h', 'H', '?':
			o.state.UpdateInteractionState(func(s *InteractionState) { s.ShowHelp = !s.ShowHelp })
		}
	}
	return false
}

func (o *Orchestrator) view() display.PlayerView {
	s := o.player.Current()
	now := util.GetTimeProvider().Now()
	v := display.PlayerView{
		QueueIndex: o.queueIdx,
		QueueLen:   len(o.queue),
		ShowHelp:   o.state.GetInteractionState().ShowHelp,
		Status:     o.state.StatusAt(now),
		Active:     caption.None,
	}
	if o.deps.Tracker != nil {
		v.Summary = o.deps.Tracker.Summary()
		v.Threshold = o.deps.Tracker.Threshold()
		o.deps.Metrics.ObserveSummary(v.Summary)
	}
	if s == nil {
		return v
	}

	v.SessionID = s.ID
	v.Title = s.Lecture.Title
	v.Byline = byline(s.Lecture)
	v.State = s.Playback.State().String()
	v.Position = s.Playback.Position()
	v.Duration = s.Playback.Duration()
	v.Speed = s.Playback.Speed()
	v.Captions = s.Captions.Load()
	v.Active = s.ActiveIndex()
	return v
}

func (o *Orchestrator) updateDisplay() {
	if o.display == nil {
		return
	}
	o.display.Render(o.view())
}

// runHeadless plays without a terminal, printing each caption as it
// becomes active.
func (o *Orchestrator) runHeadless(ctx context.Context) error {
	if o.config.PlayFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.PlayFor)
		defer cancel()
	}

	s := o.player.Current()
	o.player.Play()

	ticker := time.NewTicker(o.config.UIRefreshRate)
	defer ticker.Stop()

	last := time.Now()
	printed := caption.None
	o.printActive(s, &printed)
	for {
		select {
		case <-ctx.Done():
			o.player.Stop()
			return nil
		case event, ok := <-o.watcherEvents():
			if !ok {
				o.watcher = nil
				continue
			}
			o.reloadCaptions(event.Path)
		case now := <-ticker.C:
			ended := o.player.Advance(now.Sub(last))
			last = now
			o.printActive(s, &printed)
			if ended {
				o.player.Stop()
				return nil
			}
		}
	}
}

func (o *Orchestrator) printActive(s *Session, printed *int) {
	if o.out == nil {
		return
	}
	idx := s.ActiveIndex()
	if idx == *printed || idx == caption.None {
		return
	}
	*printed = idx
	entry, ok := s.Captions.Load().At(idx)
	if !ok {
		return
	}
	fmt.Fprintf(o.out, "[%s] %s\n", util.FormatPosition(s.Playback.Position()), entry.Text)
}

// Player exposes the underlying player.
func (o *Orchestrator) Player() *Player {
	return o.player
}

// Close stops playback and releases the keyboard and watcher.
func (o *Orchestrator) Close() {
	if o.player != nil {
		o.player.Stop()
	}
	if o.watcher != nil {
		_ = o.watcher.Close()
		o.watcher = nil
	}
	if o.keyboard != nil {
		_ = o.keyboard.Close()
		o.keyboard = nil
	}
}

func byline(l *model.Lecture) string {
	var parts []string
	for _, p := range []string{l.Speaker, l.Place.String(), l.Date} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}
