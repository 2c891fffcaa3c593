package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// Lecture file extensions, in the order a base name prefers them.
const (
	ExtJSON = ".json"
	ExtSRT  = ".srt"
	ExtText = ".txt"
)

var lectureExts = []string{ExtJSON, ExtSRT, ExtText}

// FileScanner finds lecture files under a library directory.
type FileScanner struct {
	baseDir    string
	extensions []string
}

func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{
		baseDir:    baseDir,
		extensions: lectureExts,
	}
}

// IsLectureFile reports whether path has a lecture file extension.
func IsLectureFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range lectureExts {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan walks the library and returns lecture file paths in lexical order.
// Unreadable entries are skipped.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning lecture library: %s", s.baseDir))

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", path, err))
			return nil
		}
		if info.IsDir() {
			if path != s.baseDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			dirCount++
			return nil
		}

		totalCount++
		if IsLectureFile(path) {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	util.LogDebug(fmt.Sprintf("Library scan completed: duration %v, scanned %d directories, %d files, found %d lecture files",
		time.Since(start), dirCount, totalCount, len(files)))

	return files, err
}
