package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// DefaultTimeout bounds a run when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Logger is the logging surface the runner uses.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

// Runner executes scripts against a host, each in a fresh state.
type Runner struct {
	host    Host
	timeout time.Duration
	out     io.Writer
	log     Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds each run. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithPrintOutput sets where scripts print. Defaults to io.Discard.
func WithPrintOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithLogger sets the runner logger.
func WithLogger(l Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRunner creates a runner bound to host.
func NewRunner(host Host, opts ...Option) *Runner {
	r := &Runner{
		host:    host,
		timeout: DefaultTimeout,
		out:     io.Discard,
		log:     nopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes code as the chunk name.
func (r *Runner) Run(ctx context.Context, name, code string) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	s := NewState(WithOutput(r.out))
	defer s.Close()
	registerTables(s, r.host)

	start := time.Now()
	err := s.DoString(ctx, name, code)
	elapsed := time.Since(start)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		r.log.Error("script %s timed out after %v", name, elapsed)
		return &ScriptError{Name: name, Err: fmt.Errorf("%w after %v", ErrTimeout, r.timeout)}
	}
	if err != nil {
		r.log.Error("script %s failed: %v", name, err)
		return err
	}
	r.log.Debug("script %s finished in %v", name, elapsed)
	return nil
}

// RunFile reads the script at path and runs it. The chunk is named after
// the file.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return r.Run(ctx, filepath.Base(path), string(code))
}
