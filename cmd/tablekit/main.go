// Package main is the entry point for the tablekit command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dshills/tablekit/internal/command"
	"github.com/dshills/tablekit/internal/config"
	"github.com/dshills/tablekit/internal/editor"
	"github.com/dshills/tablekit/internal/script"
	"github.com/dshills/tablekit/internal/watcher"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath string
	LogLevel   string
	ScriptPath string
	Exec       string
	Output     string
	Watch      bool
	Input      string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log := newLogger(opts, cfg)

	if err := process(ctx, opts, cfg, log, os.Stdin, os.Stdout); err != nil {
		log.Error("%v", err)
		if !opts.Watch {
			return 1
		}
	}
	if !opts.Watch {
		return 0
	}

	if err := watch(ctx, opts, cfg, log); err != nil {
		log.Error("watch: %v", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error, none); overrides logging.level")
	flag.StringVar(&opts.ScriptPath, "script", "", "Lua script to run after -exec")
	flag.StringVar(&opts.ScriptPath, "s", "", "Lua script to run after -exec (shorthand)")
	flag.StringVar(&opts.Exec, "exec", "", "Comma separated commands to run, each name[:order]")
	flag.StringVar(&opts.Exec, "e", "", "Comma separated commands to run (shorthand)")
	flag.StringVar(&opts.Output, "o", "", "Output file (default stdout)")
	flag.BoolVar(&opts.Watch, "watch", false, "Rerun when the input, script or config changes")
	flag.BoolVar(&opts.Watch, "w", false, "Rerun on changes (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tablekit - structural table editing for HTML documents\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tablekit [options] input.html\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tablekit -e table.insertRowBelow doc.html\n")
		fmt.Fprintf(os.Stderr, "  tablekit -e table.insertColumn:before,table.toggleHeadingRow -o out.html doc.html\n")
		fmt.Fprintf(os.Stderr, "  tablekit -s edit.lua -w -o out.html doc.html\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("tablekit %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "warning", "error", "none", "off":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, error or none)\n", opts.LogLevel)
		os.Exit(2)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.Input = flag.Arg(0)

	if opts.Watch {
		if opts.Input == "-" {
			fmt.Fprintln(os.Stderr, "Error: -watch needs an input file, not stdin")
			os.Exit(2)
		}
		if opts.Output != "" && samePath(opts.Output, opts.Input) {
			fmt.Fprintln(os.Stderr, "Error: -watch cannot write over its input")
			os.Exit(2)
		}
	}
	return opts
}

func newLogger(opts options, cfg *config.Config) *editor.Logger {
	level := cfg.Logging().Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	lc := editor.DefaultLoggerConfig()
	lc.Level = editor.ParseLogLevel(level)
	return editor.NewLogger(lc)
}

// action is one -exec entry.
type action struct {
	name  string
	order command.Order
}

// parseActions splits "a,b:order" into actions.
func parseActions(s string) ([]action, error) {
	var out []action
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, orderName, _ := strings.Cut(part, ":")
		order, err := command.ParseOrder(orderName)
		if err != nil {
			return nil, fmt.Errorf("-exec %s: %w", part, err)
		}
		out = append(out, action{name: name, order: order})
	}
	return out, nil
}

// process loads the input, runs the commands and the script, and writes
// the result.
func process(ctx context.Context, opts options, cfg *config.Config, log *editor.Logger, stdin io.Reader, stdout io.Writer) error {
	actions, err := parseActions(opts.Exec)
	if err != nil {
		return err
	}

	e, err := editor.New(editor.Options{Config: cfg, Logger: log})
	if err != nil {
		return err
	}
	defer e.Close()

	if err := load(e, opts.Input, stdin); err != nil {
		return err
	}

	for _, a := range actions {
		res := e.Execute(a.name, command.Options{Order: a.order})
		if res.IsError() {
			return res.Error
		}
	}

	if opts.ScriptPath != "" {
		r := script.NewRunner(e,
			script.WithTimeout(cfg.Script().Timeout),
			script.WithPrintOutput(os.Stderr),
			script.WithLogger(log.WithComponent("script")),
		)
		if err := r.RunFile(ctx, opts.ScriptPath); err != nil {
			return err
		}
	}

	return write(e, opts.Output, stdout)
}

func load(e *editor.Editor, path string, stdin io.Reader) error {
	if path == "-" {
		return e.LoadHTML(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return e.LoadHTML(f)
}

func write(e *editor.Editor, path string, stdout io.Writer) error {
	if path == "" || path == "-" {
		return e.WriteHTML(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := e.WriteHTML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// watch reruns process whenever a watched file settles after a change.
// A change to the config file reloads it first.
func watch(ctx context.Context, opts options, cfg *config.Config, log *editor.Logger) error {
	fw, err := watcher.NewFSNotifyWatcher()
	if err != nil {
		return err
	}
	w := watcher.NewDebouncedWatcher(fw, cfg.Watch().Debounce)
	defer w.Close()

	for _, p := range []string{opts.Input, opts.ScriptPath, opts.ConfigPath} {
		if p == "" {
			continue
		}
		if err := w.Watch(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}
	log.Info("watching %s", strings.Join(w.WatchedPaths(), ", "))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			log.Debug("%s %s", ev.Op, ev.Path)
			if opts.ConfigPath != "" && samePath(ev.Path, opts.ConfigPath) {
				next, err := config.Load(opts.ConfigPath)
				if err != nil {
					log.Warn("config not reloaded: %v", err)
					continue
				}
				cfg = next
			}
			if err := process(ctx, opts, cfg, log, nil, os.Stdout); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				log.Error("%v", err)
			}

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			log.Warn("watcher: %v", err)
		}
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
