package config

import (
	"fmt"
	"time"

	"github.com/dshills/tablekit/internal/config/loader"
)

// Config holds the merged settings of every configuration layer.
// It is read-only once loaded.
type Config struct {
	data map[string]any
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs        loader.FileSystem
	envPrefix string
	env       loader.Loader
}

// WithFileSystem sets the file system config files are read from.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *options) { o.fs = fsys }
}

// WithEnvPrefix sets the prefix of the environment variables read.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) { o.envPrefix = prefix }
}

// WithEnvLoader replaces the environment layer. Nil disables it.
func WithEnvLoader(l loader.Loader) Option {
	return func(o *options) {
		if l == nil {
			l = emptyLoader{}
		}
		o.env = l
	}
}

type emptyLoader struct{}

func (emptyLoader) Load() (map[string]any, error) { return nil, nil }

// Defaults returns the built-in settings layer.
func Defaults() map[string]any {
	return map[string]any{
		"table": map[string]any{
			"emptyCellParagraph": true,
			"cellText":           "",
			"defaultColumnOrder": "after",
			"defaultRowOrder":    "below",
			"allowRaggedRows":    false,
		},
		"history": map[string]any{
			"maxEntries": 100,
		},
		"logging": map[string]any{
			"level": "info",
		},
		"script": map[string]any{
			"timeout": "5s",
		},
		"watch": map[string]any{
			"debounce": "200ms",
		},
	}
}

// Default returns a configuration holding only the defaults.
func Default() *Config {
	return New(nil)
}

// New creates a configuration from data layered over the defaults.
func New(data map[string]any) *Config {
	return &Config{data: loader.DeepMerge(Defaults(), data)}
}

// Load resolves the configuration layers: defaults, then the file at path
// (TOML or YAML by extension, skipped when path is empty), then the
// environment. A missing file is not an error. The result is validated.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{envPrefix: loader.DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	data := Defaults()
	if path != "" {
		l, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		file, err := l.Load()
		if err != nil {
			return nil, err
		}
		data = loader.DeepMerge(data, file)
	}

	env := o.env
	if env == nil {
		env = loader.NewEnvLoader(o.envPrefix)
	}
	vars, err := env.Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	data = loader.DeepMerge(data, vars)

	c := &Config{data: data}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the value at a dot-separated path.
func (c *Config) Get(path string) (any, bool) {
	return loader.GetPath(c.data, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val != float64(int(val)) {
			return 0, &TypeError{Path: path, Expected: "int", Actual: "float64"}
		}
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetDuration returns a duration at the given path. Strings are parsed
// with time.ParseDuration; bare numbers are milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("string %q", val)}
		}
		return d, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
