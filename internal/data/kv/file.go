package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/penwyp/go-lecture-monitor/internal/util"
)

const fileExt = ".json"

// FileStore writes one file per key under baseDir and keeps a read-through
// memory cache. Writes replace the file atomically.
type FileStore struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]string
}

func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileStore{
		baseDir:     baseDir,
		memoryCache: make(map[string]string),
	}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.baseDir, key+fileExt)
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	if v, ok := s.memoryCache[key]; ok {
		s.mu.RUnlock()
		return v, true, nil
	}
	s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}

	s.mu.Lock()
	s.memoryCache[key] = string(data)
	s.mu.Unlock()
	return string(data), true, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to disk first so the cache never holds a value that was not persisted.
	if err := renameio.WriteFile(s.path(key), []byte(value), 0644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	s.memoryCache[key] = value
	return nil
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.memoryCache, key)
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memoryCache = make(map[string]string)
	return nil
}

// Clear removes every stored key.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.memoryCache = make(map[string]string)
	files, err := s.listFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (s *FileStore) listFiles() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), fileExt) {
			files = append(files, filepath.Join(s.baseDir, e.Name()))
		}
	}
	return files, nil
}

type preloadResult struct {
	filePath string
	key      string
	value    string
	err      error
}

// Preload reads every stored key into memory using a small worker pool.
func (s *FileStore) Preload() error {
	files, err := s.listFiles()
	if err != nil {
		return fmt.Errorf("failed to scan store directory: %w", err)
	}
	if len(files) == 0 {
		util.LogDebug("Store directory is empty, skipping preload")
		return nil
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	filesChan := make(chan string, len(files))
	resultsChan := make(chan preloadResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go preloadWorker(filesChan, resultsChan, &wg)
	}
	for _, f := range files {
		filesChan <- f
	}
	close(filesChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	loaded, failed := 0, 0
	s.mu.Lock()
	for result := range resultsChan {
		if result.err != nil {
			failed++
			util.LogWarnf("Failed to preload %s: %v", result.filePath, result.err)
			continue
		}
		s.memoryCache[result.key] = result.value
		loaded++
	}
	s.mu.Unlock()

	util.LogDebugf("Store preload complete: %d loaded, %d errors", loaded, failed)
	return nil
}

func preloadWorker(filesChan <-chan string, resultsChan chan<- preloadResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for filePath := range filesChan {
		result := preloadResult{
			filePath: filePath,
			key:      strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath)),
		}
		data, err := os.ReadFile(filePath)
		if err != nil {
			result.err = err
		} else {
			result.value = string(data)
		}
		resultsChan <- result
	}
}

// Stats reports how many keys are cached in memory and stored on disk.
func (s *FileStore) Stats() (memoryCount, fileCount int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	memoryCount = len(s.memoryCache)
	files, _ := s.listFiles()
	return memoryCount, len(files)
}
