package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/penwyp/go-lecture-monitor/internal/core/analytics"
	"github.com/penwyp/go-lecture-monitor/internal/core/caption"
	"github.com/penwyp/go-lecture-monitor/internal/core/streak"
	"github.com/penwyp/go-lecture-monitor/internal/presentation/layout"
	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// PlayerView is everything the player screen shows for one frame.
type PlayerView struct {
	SessionID string
	Title     string
	Byline    string

	State    string
	Position time.Duration
	Duration time.Duration
	Speed    float64

	Captions caption.Set
	Active   int

	Summary   streak.Summary
	Threshold int

	QueueIndex int
	QueueLen   int

	ShowHelp bool
	Status   string
}

// TerminalDisplay draws the player on an ANSI terminal.
type TerminalDisplay struct {
	out               io.Writer
	sizer             *layout.Sizer
	inAlternateScreen bool
	lastFrame         string
}

// NewTerminalDisplay draws to stdout, sized to the terminal.
func NewTerminalDisplay() *TerminalDisplay {
	return NewTerminalDisplayTo(os.Stdout, layout.NewSizer())
}

// NewTerminalDisplayTo draws to out using sizer.
func NewTerminalDisplayTo(out io.Writer, sizer *layout.Sizer) *TerminalDisplay {
	return &TerminalDisplay{out: out, sizer: sizer}
}

// EnterAlternateScreen switches to the alternate buffer and hides the cursor.
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, "\033[?1049h", util.ClearScreen, util.MoveCursorHome, util.HideCursor)
	td.inAlternateScreen = true
	td.lastFrame = ""
}

// ExitAlternateScreen restores the normal buffer and the cursor.
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.ClearScreen, util.MoveCursorHome, util.ShowCursor, "\033[?1049l")
	td.inAlternateScreen = false
}

// ClearScreen clears the terminal screen
func (td *TerminalDisplay) ClearScreen() {
	fmt.Fprint(td.out, util.ClearScreen, util.MoveCursorHome)
	td.lastFrame = ""
}

// Render draws view, skipping the write when nothing changed.
func (td *TerminalDisplay) Render(view PlayerView) {
	width, height := td.sizer.Size()
	lines := RenderFrame(view, width, height)

	var b strings.Builder
	b.WriteString(util.MoveCursorHome)
	for _, line := range lines {
		b.WriteString(util.ClearLine)
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	b.WriteString("\033[J")

	frame := b.String()
	if frame == td.lastFrame {
		return
	}
	td.lastFrame = frame
	fmt.Fprint(td.out, frame)
}

// RenderFrame lays view out in width x height cells.
func RenderFrame(view PlayerView, width, height int) []string {
	sep := util.FormatSectionSeparator(width)

	header := util.FormatHeaderTitle("LECTURE MONITOR")
	if view.QueueLen > 1 {
		header += fmt.Sprintf("  %s(%d/%d)%s", util.ColorDim, view.QueueIndex+1, view.QueueLen, util.ColorReset)
	}
	lines := []string{
		header,
		sep,
		util.ColorBold + util.Truncate(view.Title, width) + util.ColorReset,
	}
	if view.Byline != "" {
		lines = append(lines, util.ColorDim+util.Truncate(view.Byline, width)+util.ColorReset)
	}
	lines = append(lines, sep)

	footer := renderFooter(view, width)
	transcriptHeight := height - len(lines) - len(footer) - 1
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}

	if view.ShowHelp {
		lines = append(lines, fitLines(helpLines(), transcriptHeight)...)
	} else {
		lines = append(lines, transcriptWindow(view.Captions, view.Active, width, transcriptHeight)...)
	}
	lines = append(lines, sep)
	return append(lines, footer...)
}

func renderFooter(view PlayerView, width int) []string {
	barWidth := width - 36
	if barWidth < 10 {
		barWidth = 10
	}

	var progress float64
	if view.Duration > 0 {
		progress = float64(view.Position) / float64(view.Duration) * 100
	}
	end := "--:--"
	if view.Duration > 0 {
		end = util.FormatPosition(view.Duration)
	}
	icon := "▶"
	if view.State != "playing" {
		icon = "❚❚"
	}
	transport := fmt.Sprintf("%s %s %s %s  %.2fx  %s",
		icon,
		util.FormatPosition(view.Position),
		util.CreateProgressBar(progress, barWidth),
		end,
		view.Speed,
		view.State)

	pct := analytics.TodayPercent(view.Summary.TodaySeconds, view.Threshold)
	today := fmt.Sprintf("Today %s %s%s%s %d%%   Streak %d (best %d)",
		util.FormatListenTime(view.Summary.TodaySeconds),
		util.ProgressColor(float64(pct)),
		util.CreateProgressBar(float64(pct), 20),
		util.ColorReset,
		pct,
		view.Summary.CurrentStreak,
		view.Summary.LongestStreak)

	status := util.ColorDim + "space play/pause  ←/→ skip  s speed  n/b next/prev  h help  q quit" + util.ColorReset
	if view.Status != "" {
		status = util.ColorYellow + view.Status + util.ColorReset
	}
	return []string{
		util.Truncate(transport, width),
		today,
		status,
	}
}

// transcriptWindow shows height lines of captions around the active entry.
func transcriptWindow(set caption.Set, active, width, height int) []string {
	if set.IsEmpty() {
		return fitLines([]string{util.ColorDim + "No transcript available" + util.ColorReset}, height)
	}

	start := 0
	if active > height/2 {
		start = active - height/2
	}
	if start+height > set.Len() {
		start = set.Len() - height
	}
	if start < 0 {
		start = 0
	}

	textWidth := width - 14
	if textWidth < 10 {
		textWidth = 10
	}
	lines := make([]string, 0, height)
	for i := start; i < set.Len() && len(lines) < height; i++ {
		e := set.Entries[i]
		stamp := "          "
		if e.IsTimed() {
			stamp = fmt.Sprintf("%10s", util.FormatPosition(time.Duration(e.StartMs)*time.Millisecond))
		}
		text := util.Truncate(e.Text, textWidth)
		if i == active {
			lines = append(lines, fmt.Sprintf("%s ▶ %s%s%s", stamp, util.ColorBold+util.ColorReverse, text, util.ColorReset))
		} else {
			lines = append(lines, fmt.Sprintf("%s   %s%s%s", stamp, util.ColorDim, text, util.ColorReset))
		}
	}
	return fitLines(lines, height)
}

func helpLines() []string {
	return []string{
		util.FormatDataTitle("Keys"),
		"  space, p      play / pause",
		"  ← / →         skip back / forward",
		"  s             cycle playback speed",
		"  n / b         next / previous lecture",
		"  h             toggle this help",
		"  q, Esc        quit",
	}
}

// fitLines pads or cuts lines to exactly height entries.
func fitLines(lines []string, height int) []string {
	if len(lines) > height {
		return lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}
