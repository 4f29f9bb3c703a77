// Package config resolves tablekit settings.
//
// Configuration is layered, higher layers overriding lower ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← TABLEKIT_* (highest priority)
//	├─────────────────────────────┤
//	│  2. Config File             │  ← tablekit.toml or tablekit.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← lowest priority
//	└─────────────────────────────┘
//
// TOML files may pull in other files with an @include directive; the
// including file wins over what it includes.
//
// # Settings
//
//	table.emptyCellParagraph  bool     true
//	table.cellText            string   ""
//	table.defaultColumnOrder  string   "after"   (before, after)
//	table.defaultRowOrder     string   "below"   (above, below)
//	table.allowRaggedRows     bool     false
//	history.maxEntries        int      100
//	logging.level             string   "info"    (debug, info, warn, error, none)
//	script.timeout            duration "5s"
//	watch.debounce            duration "200ms"
//
// # Basic Usage
//
//	cfg, err := config.Load("tablekit.toml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.History().MaxEntries)
//
// Environment variables map to settings by name, so
// TABLEKIT_TABLE_DEFAULT_ROW_ORDER sets table.defaultRowOrder. The shorter
// TABLEKIT_LOG_LEVEL, TABLEKIT_MAX_UNDO and TABLEKIT_SCRIPT_TIMEOUT are
// accepted too.
package config
