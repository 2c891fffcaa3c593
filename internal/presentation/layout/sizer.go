package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	fallbackWidth  = 80
	fallbackHeight = 24
	maxWidth       = 120
	minHeight      = 12
)

// Sizer measures the terminal and pads text by display width.
type Sizer struct {
	fd int
	// override is used when the size is fixed, as in tests and piped output.
	overrideWidth, overrideHeight int
}

// NewSizer measures stdout.
func NewSizer() *Sizer {
	return &Sizer{fd: int(os.Stdout.Fd())}
}

// NewFixedSizer always reports width x height.
func NewFixedSizer(width, height int) *Sizer {
	return &Sizer{fd: -1, overrideWidth: width, overrideHeight: height}
}

// Size returns the usable width and height. Widths are capped so lines stay
// readable on very wide terminals.
func (s *Sizer) Size() (int, int) {
	width, height := s.overrideWidth, s.overrideHeight
	if width == 0 || height == 0 {
		w, h, err := term.GetSize(s.fd)
		if err != nil || w <= 0 || h <= 0 {
			w, h = fallbackWidth, fallbackHeight
		}
		width, height = w, h
	}
	return clampWidth(width), clampHeight(height)
}

func clampWidth(w int) int {
	if w > maxWidth {
		return maxWidth
	}
	return w
}

func clampHeight(h int) int {
	if h < minHeight {
		return minHeight
	}
	return h
}

// PadString pads s to width display columns.
func (s *Sizer) PadString(text string, width int, leftAlign bool) string {
	actual := runewidth.StringWidth(text)
	if actual >= width {
		return text
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return text + padding
	}
	return padding + text
}

// Wrap breaks text into lines of at most width display columns, on spaces
// where possible.
func (s *Sizer) Wrap(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, word := range words {
		w := runewidth.StringWidth(word)
		for w > width {
			if lineWidth > 0 {
				lines = append(lines, line.String())
				line.Reset()
				lineWidth = 0
			}
			head := runewidth.Truncate(word, width, "")
			lines = append(lines, head)
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		if word == "" {
			continue
		}
		if lineWidth > 0 && lineWidth+1+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += w
	}
	if lineWidth > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
