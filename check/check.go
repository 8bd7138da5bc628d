package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/linarith/internal"
	tt "github.com/gnolang/linarith/internal/types"
)

// CheckEngine decides the problems of a file or source.
type CheckEngine interface {
	Run(filePath string) ([]tt.Result, error)
	RunSource(source []byte) ([]tt.Result, error)
}

// New creates an engine from the configuration file at configPath.
func New(configPath string, logger *zap.Logger) (*internal.Engine, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(config, logger)
}

// NewFromConfig creates an engine from config, opening the result cache
// when one is configured.
func NewFromConfig(config Config, logger *zap.Logger) (*internal.Engine, error) {
	proverConfig, err := config.ProverConfig()
	if err != nil {
		return nil, err
	}

	engine := internal.NewEngine(proverConfig, logger)
	if config.Cache.Dir == "" {
		return engine, nil
	}

	maxAge, err := config.CacheMaxAge()
	if err != nil {
		return nil, err
	}
	cache, err := internal.NewCache(config.Cache.Dir, maxAge)
	if err != nil {
		return nil, err
	}
	engine.SetCache(cache)
	return engine, nil
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine CheckEngine,
	sources [][]byte,
	processor func(CheckEngine, []byte) ([]tt.Result, error),
) ([]tt.Result, error) {
	var allResults []tt.Result
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allResults, err
		}
		results, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allResults = append(allResults, results...)
	}

	return allResults, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine CheckEngine,
	paths []string,
	processor func(CheckEngine, string) ([]tt.Result, error),
) ([]tt.Result, error) {
	var allResults []tt.Result
	for _, path := range paths {
		results, err := ProcessPath(ctx, logger, engine, path, processor)
		allResults = append(allResults, results...)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return allResults, err
		}
	}

	return allResults, nil
}

// ProcessPath checks a problem file, or every problem file below a
// directory. Directory entries are processed by a bounded worker pool.
// Files that fail to load are skipped and their errors returned together
// with the results of the other files.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine CheckEngine,
	path string,
	processor func(CheckEngine, string) ([]tt.Result, error),
) ([]tt.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !internal.IsProblemFile(path) {
			return nil, nil
		}
		return processor(engine, path)
	}

	var files []string
	err = filepath.Walk(path, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fileInfo.IsDir() && internal.IsProblemFile(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", path, err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription(path),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var (
		mu       sync.Mutex
		byFile   = make(map[string][]tt.Result, len(files))
		fileErrs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, filePath := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results, err := processor(engine, filePath)
			_ = bar.Add(1)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", filePath), zap.Error(err))
				}
				fileErrs = append(fileErrs, err)
				return nil
			}
			byFile[filePath] = results
			return nil
		})
	}
	waitErr := g.Wait()
	_ = bar.Finish()

	results := collect(byFile)
	if waitErr != nil {
		return results, waitErr
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, errors.Join(fileErrs...)
}

// collect flattens per-file results in file name order.
func collect(byFile map[string][]tt.Result) []tt.Result {
	names := make([]string, 0, len(byFile))
	for name := range byFile {
		names = append(names, name)
	}
	sort.Strings(names)

	results := []tt.Result{}
	for _, name := range names {
		results = append(results, byFile[name]...)
	}
	return results
}

func ProcessFile(engine CheckEngine, filePath string) ([]tt.Result, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine CheckEngine, source []byte) ([]tt.Result, error) {
	return engine.RunSource(source)
}

// HasMismatch reports whether any result contradicts its expectation.
func HasMismatch(results []tt.Result) bool {
	for _, r := range results {
		if r.Mismatch {
			return true
		}
	}
	return false
}
