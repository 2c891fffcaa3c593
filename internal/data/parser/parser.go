package parser

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/sync/errgroup"

	"github.com/penwyp/go-lecture-monitor/internal/core/model"
	"github.com/penwyp/go-lecture-monitor/internal/data/scanner"
	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// Parser loads lecture records from files. Results are cached per path
// until Invalidate is called.
type Parser struct {
	concurrency int
	mu          sync.Mutex
	cache       map[string]*model.Lecture
}

// ParseResult is the outcome of loading a single file.
type ParseResult struct {
	File    string
	Lecture *model.Lecture
	Error   error
}

// NewParser creates a Parser loading at most concurrency files at once.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		cache:       make(map[string]*model.Lecture),
	}
}

// ParseFile loads one lecture. JSON files hold a full lecture record; .srt
// and .txt files become a lecture whose transcript is the file content.
func (p *Parser) ParseFile(path string) (*model.Lecture, error) {
	p.mu.Lock()
	if cached, ok := p.cache[path]; ok {
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	util.LogDebug(fmt.Sprintf("Start loading lecture file: %s", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	lecture := &model.Lecture{}

	switch strings.ToLower(filepath.Ext(path)) {
	case scanner.ExtJSON:
		if err := sonic.Unmarshal(data, lecture); err != nil {
			return nil, fmt.Errorf("decode lecture %s: %w", path, err)
		}
	case scanner.ExtSRT:
		lecture.TranscriptSRT = string(data)
	case scanner.ExtText:
		lecture.Transcript = string(data)
	default:
		return nil, fmt.Errorf("unsupported lecture file %s", path)
	}

	if lecture.Title == "" {
		lecture.Title = base
	}
	if lecture.ID == 0 {
		lecture.ID = idFromName(base)
	}
	lecture.Source = path

	p.mu.Lock()
	p.cache[path] = lecture
	p.mu.Unlock()
	return lecture, nil
}

// idFromName derives a stable positive id for files that carry none.
func idFromName(name string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum32())
}

// Invalidate drops the cached record for path.
func (p *Parser) Invalidate(path string) {
	p.mu.Lock()
	delete(p.cache, path)
	p.mu.Unlock()
}

// ParseFiles loads files concurrently. Per-file failures are reported in
// the results, in input order; only cancellation aborts the batch.
func (p *Parser) ParseFiles(ctx context.Context, files []string) ([]ParseResult, error) {
	start := time.Now()
	results := make([]ParseResult, len(files))

	util.LogDebug(fmt.Sprintf("Start concurrent loading of %d files, concurrency: %d", len(files), p.concurrency))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lecture, err := p.ParseFile(file)
			if err != nil {
				util.LogDebug(fmt.Sprintf("Lecture loading failed: %s - %v", file, err))
			}
			results[i] = ParseResult{File: file, Lecture: lecture, Error: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	util.LogDebug(fmt.Sprintf("Concurrent loading finished, total duration: %v", time.Since(start)))
	return results, nil
}

// LoadLibrary scans dir and loads every lecture in it. When two files
// share a base name the JSON record wins and a timed or plain transcript
// file fills in what it lacks.
func (p *Parser) LoadLibrary(ctx context.Context, dir string) ([]*model.Lecture, error) {
	files, err := scanner.NewFileScanner(dir).Scan()
	if err != nil {
		return nil, err
	}
	results, err := p.ParseFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	byBase := make(map[string]*model.Lecture)
	var order []string
	for _, r := range results {
		if r.Error != nil {
			util.LogWarnf("Skipping lecture file %s: %v", r.File, r.Error)
			continue
		}
		key := strings.TrimSuffix(r.File, filepath.Ext(r.File))
		existing, ok := byBase[key]
		if !ok {
			byBase[key] = r.Lecture
			order = append(order, key)
			continue
		}
		byBase[key] = merge(existing, r.Lecture)
	}

	lectures := make([]*model.Lecture, 0, len(order))
	for _, key := range order {
		lectures = append(lectures, byBase[key])
	}
	return lectures, nil
}

// LoadLecture loads path merged with any sibling lecture files sharing its
// base name. It returns the files that contributed, path first.
func (p *Parser) LoadLecture(path string) (*model.Lecture, []string, error) {
	lecture, err := p.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	files := []string{path}

	stem := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range []string{scanner.ExtJSON, scanner.ExtSRT, scanner.ExtText} {
		sibling := stem + ext
		if sibling == path {
			continue
		}
		if _, err := os.Stat(sibling); err != nil {
			continue
		}
		other, err := p.ParseFile(sibling)
		if err != nil {
			util.LogWarnf("Ignoring sibling lecture file %s: %v", sibling, err)
			continue
		}
		lecture = merge(lecture, other)
		files = append(files, sibling)
	}
	return lecture, files, nil
}

// merge combines two records of the same lecture, preferring the JSON one.
func merge(a, b *model.Lecture) *model.Lecture {
	primary, secondary := a, b
	if strings.EqualFold(filepath.Ext(b.Source), scanner.ExtJSON) {
		primary, secondary = b, a
	}
	out := *primary
	if out.TranscriptSRT == "" {
		out.TranscriptSRT = secondary.TranscriptSRT
	}
	if out.Transcript == "" {
		out.Transcript = secondary.Transcript
	}
	return &out
}
