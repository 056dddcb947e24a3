package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ErrDataLoad reports a missing, unreadable or malformed source file.
var ErrDataLoad = errors.New("data load failed")

type Option func(*Loader)

// WithCacheDir enables the parsed-rows snapshot under dir.
func WithCacheDir(dir string) Option {
	return func(l *Loader) {
		l.cacheDir = dir
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader reads the source table once. Every later Load returns the same
// table, or the same error. A load cut short by its context is not kept,
// so the next caller retries.
type Loader struct {
	path     string
	cacheDir string
	logger   *slog.Logger

	mu     sync.Mutex
	loaded bool
	table  *Table
	err    error
}

func NewLoader(path string, opts ...Option) *Loader {
	l := &Loader{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Path() string {
	return l.path
}

func (l *Loader) Load(ctx context.Context) (*Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.table, l.err
	}

	table, err := l.load(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	l.table, l.err, l.loaded = table, err, true
	return table, err
}

func (l *Loader) load(ctx context.Context) (*Table, error) {
	fileInfo, err := os.Stat(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}

	if l.cacheDir != "" {
		if cached, err := loadSnapshot(l.cacheDir, l.path); err == nil && fileInfo.ModTime().Before(cached.CreatedAt) {
			l.logger.Info("loaded from cache", "records", len(cached.Rows))
			return NewTable(cached.Rows), nil
		}
	}

	start := time.Now()
	l.logger.Info("processing CSV file", "filename", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	defer file.Close()

	rows, err := Parse(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.path, err)
	}

	if l.cacheDir != "" {
		if err := saveSnapshot(l.cacheDir, l.path, rows); err != nil {
			l.logger.Warn("failed to save cache", "error", err)
		}
	}

	duration := time.Since(start)
	l.logger.Info("csv processing complete",
		"records", len(rows),
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(len(rows))/duration.Seconds()))

	return NewTable(rows), nil
}
