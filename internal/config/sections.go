package config

import (
	"errors"
	"time"
)

// Section accessors return snapshot structs. A setting holding a value of
// the wrong type reads as its default; Validate reports it.

// TableConfig configures the table engine and its commands.
type TableConfig struct {
	// EmptyCellParagraph gives every inserted cell an empty paragraph.
	EmptyCellParagraph bool

	// CellText is the text placed in the paragraph of inserted cells.
	CellText string

	// DefaultColumnOrder is the order of table.insertColumn: before or after.
	DefaultColumnOrder string

	// DefaultRowOrder is the order of table.insertRow: above or below.
	DefaultRowOrder string

	// AllowRaggedRows accepts tables whose rows differ in width.
	AllowRaggedRows bool
}

// HistoryConfig configures undo.
type HistoryConfig struct {
	// MaxEntries is the number of undo steps kept.
	MaxEntries int
}

// LoggingConfig configures the editor logger.
type LoggingConfig struct {
	// Level is debug, info, warn, error or none.
	Level string
}

// ScriptConfig configures the Lua bridge.
type ScriptConfig struct {
	// Timeout bounds a script run. Zero disables the bound.
	Timeout time.Duration
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce is the quiet period before a change triggers a rerun.
	Debounce time.Duration
}

// Table returns the table settings.
func (c *Config) Table() TableConfig {
	r := reader{c: c}
	return r.table()
}

// History returns the history settings.
func (c *Config) History() HistoryConfig {
	r := reader{c: c}
	return r.history()
}

// Logging returns the logging settings.
func (c *Config) Logging() LoggingConfig {
	r := reader{c: c}
	return r.logging()
}

// Script returns the scripting settings.
func (c *Config) Script() ScriptConfig {
	r := reader{c: c}
	return r.script()
}

// Watch returns the watch mode settings.
func (c *Config) Watch() WatchConfig {
	r := reader{c: c}
	return r.watch()
}

// Validate checks every known setting and returns all problems as Errors.
func (c *Config) Validate() error {
	r := &reader{c: c}

	t := r.table()
	r.oneOf("table.defaultColumnOrder", t.DefaultColumnOrder, "before", "after")
	r.oneOf("table.defaultRowOrder", t.DefaultRowOrder, "above", "below")

	if h := r.history(); h.MaxEntries < 1 {
		r.invalid("history.maxEntries", "must be at least 1", h.MaxEntries)
	}
	r.oneOf("logging.level", r.logging().Level, "debug", "info", "warn", "warning", "error", "none", "off")
	if s := r.script(); s.Timeout < 0 {
		r.invalid("script.timeout", "must not be negative", s.Timeout)
	}
	if w := r.watch(); w.Debounce < 0 {
		r.invalid("watch.debounce", "must not be negative", w.Debounce)
	}

	if len(r.errs) == 0 {
		return nil
	}
	return r.errs
}

// reader reads typed settings, collecting the errors of badly typed ones.
type reader struct {
	c    *Config
	errs Errors
}

func (r *reader) table() TableConfig {
	return TableConfig{
		EmptyCellParagraph: r.boolOr("table.emptyCellParagraph", true),
		CellText:           r.stringOr("table.cellText", ""),
		DefaultColumnOrder: r.stringOr("table.defaultColumnOrder", "after"),
		DefaultRowOrder:    r.stringOr("table.defaultRowOrder", "below"),
		AllowRaggedRows:    r.boolOr("table.allowRaggedRows", false),
	}
}

func (r *reader) history() HistoryConfig {
	return HistoryConfig{MaxEntries: r.intOr("history.maxEntries", 100)}
}

func (r *reader) logging() LoggingConfig {
	return LoggingConfig{Level: r.stringOr("logging.level", "info")}
}

func (r *reader) script() ScriptConfig {
	return ScriptConfig{Timeout: r.durationOr("script.timeout", 5*time.Second)}
}

func (r *reader) watch() WatchConfig {
	return WatchConfig{Debounce: r.durationOr("watch.debounce", 200*time.Millisecond)}
}

func (r *reader) stringOr(path, def string) string {
	v, err := r.c.GetString(path)
	return orDefault(r, err, v, def)
}

func (r *reader) intOr(path string, def int) int {
	v, err := r.c.GetInt(path)
	return orDefault(r, err, v, def)
}

func (r *reader) boolOr(path string, def bool) bool {
	v, err := r.c.GetBool(path)
	return orDefault(r, err, v, def)
}

func (r *reader) durationOr(path string, def time.Duration) time.Duration {
	v, err := r.c.GetDuration(path)
	return orDefault(r, err, v, def)
}

func orDefault[T any](r *reader, err error, v, def T) T {
	if err == nil {
		return v
	}
	if !errors.Is(err, ErrSettingNotFound) {
		r.errs = append(r.errs, err)
	}
	return def
}

func (r *reader) oneOf(path, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	r.invalid(path, "unknown value", value)
}

func (r *reader) invalid(path, msg string, value any) {
	r.errs = append(r.errs, &ValidationError{Path: path, Message: msg, Value: value})
}
