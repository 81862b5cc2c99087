package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a catalog encoding.
type Format string

const (
	// FormatTOML is a TOML document (.toml).
	FormatTOML Format = "toml"
	// FormatYAML is a YAML document (.yaml, .yml).
	FormatYAML Format = "yaml"
)

// FormatFromPath returns the format implied by path's extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Loader reads catalog files.
type Loader struct {
	fs   FileSystem
	path string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS sets the file system the loader reads from.
func WithFS(fsys FileSystem) LoaderOption {
	return func(l *Loader) {
		if fsys != nil {
			l.fs = fsys
		}
	}
}

// NewLoader creates a loader for the catalog at path.
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:   DefaultFS(),
		path: path,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the configured catalog path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads the catalog at the configured path.
func (l *Loader) Load() (*File, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads the catalog at path. The format follows the extension.
func (l *Loader) LoadFrom(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	info, err := l.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	f, err := Parse(format, path, data)
	if err != nil {
		return nil, err
	}
	f.ModTime = info.ModTime()
	return f, nil
}

// LoadFromReader reads a catalog of the given format from r.
func (l *Loader) LoadFromReader(r io.Reader, format Format) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(format, "<reader>", data)
}

// Parse decodes data. Unknown keys are rejected so that misspelled fields
// surface as parse errors instead of silently empty definitions.
func Parse(format Format, source string, data []byte) (*File, error) {
	var (
		f   File
		err error
	)
	switch format {
	case FormatTOML:
		err = parseTOML(data, &f)
	case FormatYAML:
		err = parseYAML(data, &f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, newParseError(source, err)
	}
	f.Path = source
	return &f, nil
}

// newParseError locates err using the TOML decoder's position
// information. Strict-mode failures carry one DecodeError per unknown key;
// the first is reported.
func newParseError(source string, err error) *ParseError {
	perr := &ParseError{Path: source, Err: err}

	var derr *toml.DecodeError
	var serr *toml.StrictMissingError
	switch {
	case errors.As(err, &derr):
	case errors.As(err, &serr) && len(serr.Errors) > 0:
		derr = &serr.Errors[0]
		perr.Key = strings.Join(derr.Key(), ".")
	default:
		return perr
	}
	perr.Line, perr.Column = derr.Position()
	return perr
}

func parseTOML(data []byte, f *File) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(f)
}

func parseYAML(data []byte, f *File) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
