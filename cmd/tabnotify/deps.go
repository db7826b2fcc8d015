package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cristianoliveira/tabnotify/internal/claude"
	"github.com/cristianoliveira/tabnotify/internal/config"
	"github.com/cristianoliveira/tabnotify/internal/history"
	"github.com/cristianoliveira/tabnotify/internal/hooks"
	"github.com/cristianoliveira/tabnotify/internal/ipc"
	"github.com/cristianoliveira/tabnotify/internal/logging"
	"github.com/cristianoliveira/tabnotify/internal/notify"
	"github.com/cristianoliveira/tabnotify/internal/runtime"
	"github.com/cristianoliveira/tabnotify/internal/tmux"
	"github.com/cristianoliveira/tabnotify/internal/tui"
	"github.com/cristianoliveira/tabnotify/internal/version"
)

// appClient backs every command in production.
var appClient = &defaultClient{}

// defaultClient wires commands to configuration, tmux, the daemon socket and
// the history journal. Configuration is read lazily so tests that build
// commands with fakes never touch it.
type defaultClient struct{}

func (c *defaultClient) tmuxClient() *tmux.DefaultClient {
	return tmux.NewDefaultClient(tmux.WithTimeout(config.GetDuration("request_timeout", 2*time.Second)))
}

func (c *defaultClient) socketPath() string {
	return config.Get("socket_path", "")
}

func (c *defaultClient) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, config.GetDuration("request_timeout", 2*time.Second))
}

func (c *defaultClient) options(logger logging.Logger) runtime.Options {
	return runtime.Options{
		Client:       c.tmuxClient(),
		Session:      config.Get("session", ""),
		PollInterval: config.GetDuration("poll_interval", runtime.DefaultPollInterval),
		Debug:        config.GetBool("debug", false),
		Presets:      c.Presets(),
		Logger:       logger,
	}
}

// openJournal opens the history journal when history is enabled. A nil
// journal with a nil error means history is off.
func (c *defaultClient) openJournal() (*history.Journal, error) {
	if !config.GetBool("history_enabled", true) {
		return nil, nil
	}
	path := config.Get("history_path", "")
	if path == "" {
		return nil, nil
	}
	return history.Open(path)
}

// hookRunner returns the post-notify hook runner, or nil when hooks are
// disabled.
func (c *defaultClient) hookRunner(logger logging.Logger) *hooks.Runner {
	if !config.GetBool("hooks_enabled", true) {
		return nil
	}
	return hooks.NewRunner(hooks.Options{
		Dir:         config.Get("hooks_dir", ""),
		FailureMode: config.Get("hooks_failure_mode", hooks.FailureWarn),
		Timeout:     config.GetDuration("hooks_timeout", hooks.DefaultTimeout),
		Logger:      logger,
	})
}

// InsideTmux reports whether the process runs inside a tmux client.
func (c *defaultClient) InsideTmux() bool {
	return os.Getenv("TMUX") != ""
}

// CurrentPane returns the pane the process runs in, or "".
func (c *defaultClient) CurrentPane() string {
	return tmux.NormalizePaneID(os.Getenv("TMUX_PANE"))
}

// SessionOf returns the session holding pane. Without a pane it falls back
// to the configured session, then to the session of the calling tmux
// client. Errors yield "".
func (c *defaultClient) SessionOf(ctx context.Context, pane string) string {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()
	if pane != "" {
		name, err := c.tmuxClient().PaneSession(ctx, pane)
		if err == nil {
			return name
		}
		logging.Debug("unable to resolve session of pane", "pane", pane, "error", err)
	}
	if s := config.Get("session", ""); s != "" {
		return s
	}
	if !c.InsideTmux() {
		return ""
	}
	name, err := c.tmuxClient().CurrentSession(ctx)
	if err != nil {
		logging.Debug("unable to resolve current session", "error", err)
		return ""
	}
	return name
}

// SendNotify hands a request to the running daemon.
func (c *defaultClient) SendNotify(ctx context.Context, req notify.Request) (notify.Outcome, error) {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()
	resp, err := ipc.Dial(ctx, c.socketPath(), ipc.NewNotifyRequest(req))
	if err != nil {
		return notify.Outcome{}, err
	}
	if resp.Outcome == nil {
		return notify.Outcome{}, errors.New("daemon returned no outcome")
	}
	return resp.Outcome.Notify(), nil
}

// NotifyOnce handles a request in-process against the current topology.
func (c *defaultClient) NotifyOnce(ctx context.Context, req notify.Request) (notify.Outcome, error) {
	opts := c.options(logging.GetGlobal())
	if session := req.Args[notify.ArgSessionName]; session != "" {
		opts.Session = session
	}
	journal, err := c.openJournal()
	if err != nil {
		logging.Warn("history unavailable", "error", err)
	}
	if journal != nil {
		defer journal.Close()
		opts.Journal = journal
	}
	if runner := c.hookRunner(opts.Logger); runner != nil {
		defer runner.Wait()
		opts.Hooks = runner
	}
	ctx, cancel := c.requestContext(ctx)
	defer cancel()
	return runtime.Once(ctx, opts, req)
}

// Serve runs the daemon until ctx is cancelled.
func (c *defaultClient) Serve(ctx context.Context) error {
	logger := logging.GetGlobal()
	opts := c.options(logger)

	journal, err := c.openJournal()
	if err != nil {
		logger.Warn("history unavailable", "error", err)
	}
	if journal != nil {
		defer journal.Close()
		opts.Journal = journal
		days := config.GetInt("history_retention_days", 30)
		if removed, err := journal.Cleanup(ctx, days); err != nil {
			logger.Warn("history cleanup failed", "error", err)
		} else if removed > 0 {
			logger.Info("history cleanup", "removed", removed, "retention_days", days)
		}
	}

	if runner := c.hookRunner(logger); runner != nil {
		defer runner.Wait()
		opts.Hooks = runner
	}

	return runtime.Serve(ctx, opts, c.socketPath())
}

// SocketPath returns the daemon socket path.
func (c *defaultClient) SocketPath() string {
	return c.socketPath()
}

// DaemonStatus asks the daemon for its status.
func (c *defaultClient) DaemonStatus(ctx context.Context) (*ipc.Status, error) {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()
	source := tui.DaemonSource{SocketPath: c.socketPath(), Session: c.SessionOf(ctx, c.CurrentPane())}
	return source.Status(ctx)
}

// ConfigPath returns the config file in use.
func (c *defaultClient) ConfigPath() string {
	return config.Path()
}

// Presets returns the configured preset table.
func (c *defaultClient) Presets() notify.PresetTable {
	return notify.LoadPresets(config.Get("presets", ""), logging.GetGlobal())
}

// SampleConfig renders a config file with every default.
func (c *defaultClient) SampleConfig() ([]byte, error) {
	return config.SampleConfig()
}

// ClaudeSettingsPath returns the Claude Code settings file.
func (c *defaultClient) ClaudeSettingsPath() (string, error) {
	return claude.SettingsPath()
}

// HooksInstalled reports whether the Claude Code hooks are installed.
func (c *defaultClient) HooksInstalled() bool {
	path, err := claude.SettingsPath()
	if err != nil {
		return false
	}
	return claude.HooksInstalled(path)
}

// InstallHooks installs the Claude Code hooks running binary.
func (c *defaultClient) InstallHooks(path, binary string) error {
	return claude.InstallHooks(path, binary)
}

// UninstallHooks removes the Claude Code hooks.
func (c *defaultClient) UninstallHooks(path string) (bool, error) {
	return claude.UninstallHooks(path)
}

// RecentHistory returns the newest journal entries.
func (c *defaultClient) RecentHistory(ctx context.Context, limit int) ([]history.Entry, error) {
	journal, err := c.openJournal()
	if err != nil {
		return nil, err
	}
	if journal == nil {
		return nil, errors.New("history is disabled")
	}
	defer journal.Close()
	return journal.Recent(ctx, limit)
}

// RunMonitor runs the monitor TUI until the user quits.
func (c *defaultClient) RunMonitor(interval time.Duration, limit int) error {
	source := tui.DaemonSource{
		SocketPath: c.socketPath(),
		Session:    c.SessionOf(context.Background(), c.CurrentPane()),
	}
	journal, err := c.openJournal()
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	if journal != nil {
		defer journal.Close()
		source.Journal = journal
	}
	model := tui.NewModel(tui.Options{Source: source, Interval: interval, Limit: limit})
	return tui.NewDefaultProgramRunner().Run(model)
}

// BuildInfo describes the running binary.
func (c *defaultClient) BuildInfo() version.Info {
	return version.Get()
}

// DaemonRunning reports whether a daemon answers on the socket.
func (c *defaultClient) DaemonRunning(ctx context.Context) bool {
	return ipc.Ping(ctx, c.socketPath())
}
