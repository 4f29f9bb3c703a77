package loader

import (
	"testing"
	"time"
)

func envLoader(vars ...string) *EnvLoader {
	l := NewEnvLoader(DefaultEnvPrefix)
	l.environ = func() []string { return vars }
	return l
}

func TestEnvLoader_Load(t *testing.T) {
	l := envLoader(
		"TABLEKIT_LOG_LEVEL=debug",
		"TABLEKIT_MAX_UNDO=25",
		"TABLEKIT_TABLE_EMPTY_CELL_PARAGRAPH=false",
		"TABLEKIT_WATCH_DEBOUNCE=250ms",
		"OTHER_VAR=x",
	)
	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	tests := map[string]any{
		"logging.level":            "debug",
		"history.maxEntries":       int64(25),
		"table.emptyCellParagraph": false,
		"watch.debounce":           250 * time.Millisecond,
	}
	for path, want := range tests {
		if got, _ := GetPath(cfg, path); got != want {
			t.Errorf("%s = %v (%T), want %v", path, got, got, want)
		}
	}
	if _, ok := cfg["other"]; ok {
		t.Error("unprefixed variable was loaded")
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)
	tests := []struct {
		env  string
		want string
	}{
		{"TABLEKIT_TABLE_CELL_TEXT", "table.cellText"},
		{"TABLEKIT_TABLE_DEFAULT_COLUMN_ORDER", "table.defaultColumnOrder"},
		{"TABLEKIT_HISTORY_MAX_ENTRIES", "history.maxEntries"},
		{"TABLEKIT_SCRIPT_TIMEOUT", "script.timeout"},
		{"TABLEKIT_ALONE", ""},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestEnvLoader_parseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"Yes", true},
		{"off", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"3s", 3 * time.Second},
		{"after", "after"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	l := envLoader("TABLEKIT_RAGGED=yes")
	l.AddMapping("TABLEKIT_RAGGED", "table.allowRaggedRows")
	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := GetPath(cfg, "table.allowRaggedRows"); got != true {
		t.Errorf("allowRaggedRows = %v", got)
	}
}

func TestNewEnvLoaderWithMapping(t *testing.T) {
	l := NewEnvLoaderWithMapping("APP_", map[string]string{"APP_LVL": "logging.level"})
	l.environ = func() []string { return []string{"APP_LVL=warn", "TABLEKIT_LOG_LEVEL=debug"} }
	cfg, _ := l.Load()
	if got, _ := GetPath(cfg, "logging.level"); got != "warn" {
		t.Errorf("level = %v, want warn", got)
	}
}
