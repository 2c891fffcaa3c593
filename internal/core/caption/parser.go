package caption

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// timeSeparator splits the start and end of a time-range line.
const timeSeparator = "-->"

var errBadTimestamp = errors.New("malformed timestamp")

// Parse turns block-oriented timed subtitle text into a timed Set.
// Malformed blocks are dropped; Parse never fails.
func Parse(raw string) Set {
	set, _ := ParseWithStats(raw)
	return set
}

// ParseWithStats is Parse plus a record of what was dropped and why.
func ParseWithStats(raw string) (Set, ParseStats) {
	var stats ParseStats
	blocks := splitBlocks(raw)
	stats.Blocks = len(blocks)

	entries := make([]Entry, 0, len(blocks))
	for _, lines := range blocks {
		if len(lines) < 3 {
			stats.ShortBlocks++
			continue
		}

		startMs, endMs, err := parseTimeRange(lines[1])
		if err != nil {
			util.LogDebugf("Skip caption block %q: %v", lines[0], err)
			stats.BadTimings++
			continue
		}
		if endMs < startMs {
			endMs = startMs
			stats.ClampedEnds++
		}

		text := joinText(lines[2:])
		if text == "" {
			stats.EmptyTexts++
			continue
		}

		ordinal, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil || ordinal < 1 {
			ordinal = len(entries) + 1
			stats.BadOrdinals++
		}

		entries = append(entries, Entry{
			Ordinal: ordinal,
			StartMs: startMs,
			EndMs:   endMs,
			Text:    text,
		})
	}

	stats.Entries = len(entries)
	stats.Dropped = stats.Blocks - stats.Entries
	return Set{Entries: entries, Timed: true}, stats
}

// ParseTranscript builds an untimed Set from a plain transcript, one entry per
// non-empty line.
func ParseTranscript(plain string) Set {
	lines := strings.Split(normalizeNewlines(plain), "\n")
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		entries = append(entries, Entry{
			Ordinal: len(entries) + 1,
			StartMs: Untimed,
			EndMs:   Untimed,
			Text:    text,
		})
	}
	return Set{Entries: entries, Timed: false}
}

// Load prefers timed subtitle text and falls back to the plain transcript
// when no timed text is supplied.
func Load(timedRaw, plain string) Set {
	if strings.TrimSpace(timedRaw) != "" {
		return Parse(timedRaw)
	}
	return ParseTranscript(plain)
}

// splitBlocks splits raw text on runs of blank lines. Whitespace-only lines
// count as blank.
func splitBlocks(raw string) [][]string {
	raw = strings.TrimPrefix(normalizeNewlines(raw), "\ufeff")

	var blocks [][]string
	var current []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func joinText(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if t := strings.TrimSpace(line); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// parseTimeRange parses "start --> end". Anything after the end timestamp
// (cue settings) is ignored.
func parseTimeRange(line string) (int64, int64, error) {
	idx := strings.Index(line, timeSeparator)
	if idx < 0 {
		return 0, 0, fmt.Errorf("missing %q in %q", timeSeparator, line)
	}

	start, err := ParseTimestamp(line[:idx])
	if err != nil {
		return 0, 0, fmt.Errorf("start: %w", err)
	}

	rest := strings.Fields(line[idx+len(timeSeparator):])
	if len(rest) == 0 {
		return 0, 0, fmt.Errorf("end: %w", errBadTimestamp)
	}
	end, err := ParseTimestamp(rest[0])
	if err != nil {
		return 0, 0, fmt.Errorf("end: %w", err)
	}
	return start, end, nil
}

// ParseTimestamp converts "[hh:]mm:ss[,mmm]" into milliseconds. A '.'
// millisecond separator is accepted as well.
func ParseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errBadTimestamp
	}

	clock, frac := s, ""
	if i := strings.LastIndexAny(s, ",."); i >= 0 {
		clock, frac = s[:i], s[i+1:]
	}

	var ms int64
	if frac != "" {
		v, err := parseComponent(frac)
		if err != nil {
			return 0, err
		}
		ms = v
	}

	parts := strings.Split(clock, ":")
	var hours, minutes, seconds int64
	var err error
	switch len(parts) {
	case 2:
		if minutes, err = parseComponent(parts[0]); err != nil {
			return 0, err
		}
		if seconds, err = parseComponent(parts[1]); err != nil {
			return 0, err
		}
	case 3:
		if hours, err = parseComponent(parts[0]); err != nil {
			return 0, err
		}
		if minutes, err = parseComponent(parts[1]); err != nil {
			return 0, err
		}
		if seconds, err = parseComponent(parts[2]); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("%w: %q", errBadTimestamp, s)
	}

	return ((hours*3600)+(minutes*60)+seconds)*1000 + ms, nil
}

func parseComponent(s string) (int64, error) {
	if s == "" {
		return 0, errBadTimestamp
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", errBadTimestamp, s)
		}
	}
	return strconv.ParseInt(s, 10, 64)
}
