package catalog

import (
	"context"
	"log/slog"

	"github.com/dshills/propsheet/internal/property"
)

// Source builds property contexts from a catalog file, or from the embedded
// default when no path is configured.
type Source struct {
	loader *Loader
	opts   []property.ContextOption
}

// NewSource creates a source for path. An empty path selects the embedded
// default catalog. Context options are applied to every build.
func NewSource(path string, fsys FileSystem, opts ...property.ContextOption) *Source {
	return &Source{
		loader: NewLoader(path, WithFS(fsys)),
		opts:   opts,
	}
}

// Path returns the catalog file path, or "" for the embedded catalog.
func (s *Source) Path() string {
	return s.loader.Path()
}

// File decodes the catalog.
func (s *Source) File() (*File, error) {
	if s.loader.Path() == "" {
		return Default()
	}
	return s.loader.Load()
}

// Load decodes the catalog and builds a strict property context.
func (s *Source) Load(ctx context.Context) (*property.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.File()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pctx, err := f.Build(s.opts...)
	if err != nil {
		return nil, err
	}
	attrs := []any{slog.String("path", f.Path), slog.Int("properties", pctx.Len())}
	if !f.ModTime.IsZero() {
		attrs = append(attrs, slog.Time("modified", f.ModTime))
	}
	pctx.Logger().Debug("catalog built", attrs...)
	return pctx, nil
}

// LoadProfile decodes the catalog and builds the named launch profile.
func (s *Source) LoadProfile(ctx context.Context, name string) (*property.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.File()
	if err != nil {
		return nil, err
	}
	return f.BuildProfile(name, s.opts...)
}
