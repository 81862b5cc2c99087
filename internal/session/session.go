// Package session owns the live property context of a property sheet.
//
// A Session loads its context asynchronously and publishes it only once it
// is fully built. With Watch it rebuilds the context whenever the catalog
// file changes; a failed rebuild keeps the previous context.
package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/propsheet/internal/notify"
	"github.com/dshills/propsheet/internal/property"
)

// FieldContext is the notify field raised when the current context is replaced.
const FieldContext = "Context"

// Loader builds a property context.
type Loader interface {
	Load(ctx context.Context) (*property.Context, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (*property.Context, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) (*property.Context, error) {
	return f(ctx)
}

// Recorder receives load outcomes. The metrics package implements it.
type Recorder interface {
	ObserveLoad(kind string, d time.Duration, err error)
}

// Load kinds passed to Recorder.
const (
	LoadInitial = "initial"
	LoadReload  = "reload"
)

// Session holds the current property context.
type Session struct {
	loader    Loader
	logger    *slog.Logger
	recorder  Recorder
	debounce  time.Duration
	watchPath string

	current    atomic.Pointer[property.Context]
	generation atomic.Uint64
	changes    *notify.Notifier

	// Serializes loads so swaps happen in completion order.
	loadMu sync.Mutex

	mu      sync.Mutex
	started bool
	closed  bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder sets the load outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// WithDebounce sets how long Watch waits after the last file event before reloading.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithWatchPath sets the file Watch observes. Loaders exposing a
// Path() string method provide it by default.
func WithWatchPath(path string) Option {
	return func(s *Session) {
		s.watchPath = path
	}
}

// New creates a session. Nothing is loaded until Start or Reload.
func New(loader Loader, opts ...Option) *Session {
	s := &Session{
		loader:   loader,
		logger:   slog.Default(),
		debounce: 200 * time.Millisecond,
		changes:  notify.New(),
	}
	if p, ok := loader.(interface{ Path() string }); ok {
		s.watchPath = p.Path()
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Start begins the one-shot asynchronous load. The returned channel receives
// the outcome (nil on success) and is then closed. The context becomes
// visible through Current only after it is fully built.
func (s *Session) Start() <-chan error {
	result := make(chan error, 1)

	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		result <- ErrClosed
		close(result)
		return result
	case s.started:
		s.mu.Unlock()
		result <- ErrAlreadyStarted
		close(result)
		return result
	}
	s.started = true
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer close(result)
		result <- s.load(s.ctx, LoadInitial)
	}()
	return result
}

// Current returns the current context, or nil before the first successful load.
func (s *Session) Current() *property.Context {
	return s.current.Load()
}

// Generation counts successful loads.
func (s *Session) Generation() uint64 {
	return s.generation.Load()
}

// Changes returns the notifier raising FieldContext on every swap.
func (s *Session) Changes() *notify.Notifier {
	return s.changes
}

// WatchPath returns the file observed by Watch.
func (s *Session) WatchPath() string {
	return s.watchPath
}

// Reload builds a new context and swaps it in. On failure the previous
// context stays current and the error is returned.
func (s *Session) Reload(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}
	return s.load(ctx, LoadReload)
}

// Watch reloads whenever the catalog file changes, until ctx is done or the
// session is closed. Reload failures are logged and do not stop watching.
func (s *Session) Watch(ctx context.Context) error {
	if s.watchPath == "" {
		return ErrNoWatchPath
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	w, err := newFileWatcher(s.watchPath, s.debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	s.logger.Info("watching catalog", slog.String("path", s.watchPath))
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors():
			s.logger.Warn("catalog watcher error", slog.String("error", err.Error()))
		case <-w.Changed():
			if err := s.load(ctx, LoadReload); err != nil {
				s.logger.Error("catalog reload failed, keeping previous context",
					slog.String("path", s.watchPath),
					slog.String("error", err.Error()))
			}
		}
	}
}

// Close cancels pending loads and stops watching.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) load(ctx context.Context, kind string) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	start := time.Now()
	next, err := s.loader.Load(ctx)
	if err == nil {
		err = ctx.Err()
	}
	elapsed := time.Since(start)
	if s.recorder != nil {
		s.recorder.ObserveLoad(kind, elapsed, err)
	}
	if err != nil {
		return err
	}

	prev := s.current.Swap(next)
	gen := s.generation.Add(1)
	s.logger.Debug("property context loaded",
		slog.String("kind", kind),
		slog.Uint64("generation", gen),
		slog.Int("properties", next.Len()),
		slog.Duration("elapsed", elapsed))
	s.changes.NotifyChange(s, FieldContext, prev, next)
	return nil
}
