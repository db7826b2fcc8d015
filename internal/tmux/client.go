// Package tmux provides the tmux side of tabnotify: it reads the window and
// pane topology of a session and renames windows on behalf of the
// notification engine.
package tmux

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/cristianoliveira/tabnotify/internal/logging"
)

// Client is an interface that abstracts the tmux operations tabnotify needs.
type Client interface {
	// Topology returns the windows and panes of a session. An empty session
	// means the session of the calling client.
	Topology(ctx context.Context, session string) (Topology, error)

	// RenameWindow renames the window with the given id (e.g. "@3").
	RenameWindow(ctx context.Context, windowID, name string) error

	// CurrentSession returns the name of the session of the calling client.
	CurrentSession(ctx context.Context) (string, error)

	// Sessions returns the names of every session on the server.
	Sessions(ctx context.Context) ([]string, error)

	// HasSession checks if the tmux server is running.
	HasSession(ctx context.Context) (bool, error)

	// Run executes a tmux command with the given arguments.
	Run(ctx context.Context, args ...string) (string, string, error)
}

// DefaultClient implements Client by running the tmux binary.
type DefaultClient struct {
	binary     string
	socketPath string
	timeout    time.Duration
}

// NewDefaultClient creates a new DefaultClient with the given options.
func NewDefaultClient(opts ...ClientOption) *DefaultClient {
	client := &DefaultClient{
		binary:  DefaultBinary,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// runCommand executes a tmux command with the given arguments.
// It returns stdout, stderr, and any error that occurred.
func (c *DefaultClient) runCommand(ctx context.Context, args ...string) (string, string, error) {
	start := time.Now()
	command := ""
	if len(args) > 0 {
		command = args[0]
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmdArgs := []string{}
	if c.socketPath != "" {
		cmdArgs = append(cmdArgs, "-L", c.socketPath)
	}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.CommandContext(ctx, c.binary, cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	duration := time.Since(start).Seconds()
	if err != nil {
		logging.Debug("tmux command failed", "command", command, "args_count", len(args),
			"duration_seconds", duration, "stderr", strings.TrimSpace(stderr.String()), "error", err)
	} else {
		logging.Debug("tmux command completed", "command", command, "args_count", len(args),
			"duration_seconds", duration)
	}
	return stdout.String(), stderr.String(), err
}

// Run executes a tmux command with the given arguments.
// It returns stdout, stderr, and any error that occurred.
func (c *DefaultClient) Run(ctx context.Context, args ...string) (string, string, error) {
	stdout, stderr, err := c.runCommand(ctx, args...)
	if err != nil {
		if isNoServer(stderr) {
			return stdout, stderr, fmt.Errorf("tmux command %v failed: %w", args, ErrTmuxNotRunning)
		}
		return stdout, stderr, fmt.Errorf("tmux command %v failed: %w", args, err)
	}
	return stdout, stderr, nil
}

// HasSession checks if the tmux server is running.
func (c *DefaultClient) HasSession(ctx context.Context) (bool, error) {
	_, stderr, err := c.runCommand(ctx, "has-session")
	if err != nil {
		if isNoServer(stderr) {
			return false, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		// has-session exits non-zero when the server has no sessions.
		return false, nil
	}
	return true, nil
}

// CurrentSession returns the name of the session of the calling client.
func (c *DefaultClient) CurrentSession(ctx context.Context) (string, error) {
	stdout, _, err := c.Run(ctx, "display-message", "-p", "#S")
	if err != nil {
		return "", fmt.Errorf("get session name: %w", err)
	}
	name := strings.TrimSpace(stdout)
	if name == "" {
		return "", ErrSessionNotFound
	}
	return name, nil
}

// PaneSession returns the name of the session that holds paneID.
func (c *DefaultClient) PaneSession(ctx context.Context, paneID string) (string, error) {
	if paneID == "" {
		return "", ErrInvalidTarget
	}
	stdout, _, err := c.Run(ctx, "display-message", "-p", "-t", paneID, "#S")
	if err != nil {
		return "", fmt.Errorf("get session of pane %s: %w", paneID, err)
	}
	name := strings.TrimSpace(stdout)
	if name == "" {
		return "", ErrSessionNotFound
	}
	return name, nil
}

// Sessions returns the names of every session on the server, in
// list-sessions order.
func (c *DefaultClient) Sessions(ctx context.Context) ([]string, error) {
	stdout, _, err := c.Run(ctx, "list-sessions", "-F", "#{session_name}")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return splitLines(stdout), nil
}

// RenameWindow renames the window with the given id.
func (c *DefaultClient) RenameWindow(ctx context.Context, windowID, name string) error {
	if windowID == "" {
		return ErrInvalidTarget
	}
	if _, _, err := c.Run(ctx, "rename-window", "-t", windowID, name); err != nil {
		return fmt.Errorf("rename window %s: %w", windowID, err)
	}
	return nil
}

func isNoServer(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "no server running") || strings.Contains(s, "error connecting to")
}
