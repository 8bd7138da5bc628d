package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/linarith/internal/types"
)

// debounceDelay groups the writes of one save into a single run.
const debounceDelay = 100 * time.Millisecond

var (
	ErrAlreadyWatching = errors.New("already watching")
	ErrNotWatching     = errors.New("not watching")
)

// WatchResult is delivered for every problem file re-run in watch mode.
type WatchResult struct {
	Filename string
	Results  []tt.Result
	Err      error
}

// StartWatching watches dirs recursively and re-runs problem files as they
// change. Results are delivered on the channel returned by Results.
func (e *Engine) StartWatching(dirs ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.watcher != nil {
		return ErrAlreadyWatching
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			_ = watcher.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watcher = watcher
	e.watchDirs = dirs
	e.results = make(chan WatchResult, 16)
	e.stop = make(chan struct{})
	e.done = make(chan struct{})

	go e.watchLoop(watcher, e.results, e.stop, e.done)
	return nil
}

// Results returns the channel of watch results. It is closed by
// StopWatching.
func (e *Engine) Results() <-chan WatchResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.results
}

// StopWatching stops the watcher and waits for the watch loop to exit.
func (e *Engine) StopWatching() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.watcher == nil {
		return ErrNotWatching
	}

	close(e.stop)
	err := e.watcher.Close()
	<-e.done

	e.watcher = nil
	e.watchDirs = nil
	return err
}

func (e *Engine) watchLoop(watcher *fsnotify.Watcher, results chan<- WatchResult, stop, done chan struct{}) {
	defer close(done)
	defer close(results)

	for {
		select {
		case <-stop:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isProblemEvent(event) {
				continue
			}
			// wait for a while after file change to consider multiple changes as one
			select {
			case <-time.After(debounceDelay):
			case <-stop:
				return
			}
			res := e.runChanged(event.Name)
			select {
			case results <- res:
			case <-stop:
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) runChanged(filename string) WatchResult {
	results, err := e.Run(filename)
	if err != nil {
		e.logger.Error("error checking problem file", zap.String("file", filename), zap.Error(err))
		return WatchResult{Filename: filename, Err: err}
	}

	mismatches := 0
	for _, r := range results {
		if r.Mismatch {
			mismatches++
		}
	}
	e.logger.Info("problem file checked",
		zap.String("file", filename),
		zap.Int("problems", len(results)),
		zap.Int("mismatches", mismatches),
	)
	return WatchResult{Filename: filename, Results: results}
}

func isProblemEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return IsProblemFile(event.Name)
}

// ConfigFileName is the configuration file, never read as a problem file.
const ConfigFileName = ".linarith.yaml"

// IsProblemFile reports whether path names a YAML problem file.
func IsProblemFile(path string) bool {
	if filepath.Base(path) == ConfigFileName {
		return false
	}
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}
