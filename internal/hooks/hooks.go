// Package hooks runs user scripts when tabnotify marks a tab.
//
// Scripts live in <dir>/<hook point>/ and run in name order. Only files with
// an executable bit are run. Each script receives the hook environment on
// top of the process environment.
package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/tabnotify/internal/logging"
)

// PostNotify runs after a notification request marked a tab.
const PostNotify = "post-notify"

// Failure modes.
const (
	FailureAbort  = "abort"
	FailureWarn   = "warn"
	FailureIgnore = "ignore"
)

const (
	// DefaultTimeout bounds a single script run.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxPending bounds scripts running in the background.
	DefaultMaxPending = 10
)

// Options configures a Runner.
type Options struct {
	Dir         string
	FailureMode string
	Timeout     time.Duration
	MaxPending  int
	Logger      logging.Logger
}

// Runner executes hook scripts.
type Runner struct {
	dir         string
	failureMode string
	timeout     time.Duration
	maxPending  int
	log         logging.Logger

	mu      sync.Mutex
	pending int
	wg      sync.WaitGroup
}

// NewRunner creates a Runner. An empty Dir disables hooks.
func NewRunner(opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxPending := opts.MaxPending
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}
	mode := opts.FailureMode
	switch mode {
	case FailureAbort, FailureWarn, FailureIgnore:
	default:
		mode = FailureWarn
	}
	return &Runner{
		dir:         opts.Dir,
		failureMode: mode,
		timeout:     timeout,
		maxPending:  maxPending,
		log:         log.With("component", "hooks"),
	}
}

// Scripts lists the executable scripts for a hook point in run order.
func (r *Runner) Scripts(point string) []string {
	if r.dir == "" {
		return nil
	}
	dir := filepath.Join(r.dir, point)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var scripts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}
		scripts = append(scripts, path)
	}
	sort.Strings(scripts)
	return scripts
}

// Run executes the scripts of a hook point one after another and waits for
// them. With the abort failure mode the first failing script stops the run
// and its error is returned; other modes only log failures.
func (r *Runner) Run(ctx context.Context, point string, env map[string]string) error {
	for _, script := range r.Scripts(point) {
		if err := r.exec(ctx, point, script, env); err != nil {
			if r.failureMode == FailureAbort {
				return err
			}
		}
	}
	return nil
}

// Dispatch runs the scripts of a hook point in the background. When
// MaxPending runs are in flight the dispatch is dropped and logged.
func (r *Runner) Dispatch(point string, env map[string]string) {
	if len(r.Scripts(point)) == 0 {
		return
	}

	r.mu.Lock()
	if r.pending >= r.maxPending {
		r.mu.Unlock()
		r.log.Warn("too many pending hooks, skipping", "point", point, "max", r.maxPending)
		return
	}
	r.pending++
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			r.pending--
			r.mu.Unlock()
			r.wg.Done()
		}()
		_ = r.Run(context.Background(), point, env)
	}()
}

// Wait blocks until every dispatched run has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) exec(ctx context.Context, point, script string, env map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, script)
	cmd.Env = append(os.Environ(), "TABNOTIFY_HOOK_POINT="+point)
	for _, k := range sortedKeys(env) {
		cmd.Env = append(cmd.Env, k+"="+env[k])
	}
	output, err := cmd.CombinedOutput()
	duration := time.Since(start)
	name := filepath.Base(script)

	if err == nil {
		r.log.Debug("hook completed", "point", point, "script", name, "duration", duration.String())
		return nil
	}
	if ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("timed out after %s", r.timeout)
	}
	err = fmt.Errorf("hook %s failed: %w", name, err)
	if r.failureMode != FailureIgnore {
		r.log.Warn("hook failed", "point", point, "script", name, "error", err,
			"output", strings.TrimSpace(string(output)))
	}
	return err
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
