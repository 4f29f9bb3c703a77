// Package loader reads tablekit configuration sources into plain maps.
//
// File loaders parse TOML or YAML; the environment loader turns TABLEKIT_*
// variables into the same nested shape. Maps are combined with DeepMerge,
// later sources overriding earlier ones.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MaxIncludeDepth bounds nested @include directives.
const MaxIncludeDepth = 8

// Loader reads one configuration source.
type Loader interface {
	// Load returns the parsed source. A missing source yields nil, nil.
	Load() (map[string]any, error)
}

// FileLoader is a loader bound to a file format.
type FileLoader interface {
	Loader
	// LoadFrom parses the file at path.
	LoadFrom(path string) (map[string]any, error)
	// LoadFromReader parses an unnamed source.
	LoadFromReader(r io.Reader) (map[string]any, error)
}

// FileSystem abstracts the file reads done by file loaders.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads from the real file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// ForPath returns the file loader matching path's extension: .toml, or
// .yaml/.yml.
func ForPath(fsys FileSystem, path string) (FileLoader, error) {
	if fsys == nil {
		fsys = DefaultFS()
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return NewTOMLLoaderWithFS(fsys, path), nil
	case ".yaml", ".yml":
		return NewYAMLLoaderWithFS(fsys, path), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// readFile reads path, reporting a missing file as nil data and no error.
func readFile(fsys FileSystem, path string) ([]byte, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return data, nil
}
