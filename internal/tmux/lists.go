package tmux

import (
	"context"
	"fmt"
	"strings"

	"github.com/cristianoliveira/tabnotify/internal/notify"
)

// Formats passed to list-windows and list-panes. The window name goes last
// so that names containing tabs survive the split.
const (
	windowFormat = "#{window_id}\t#{window_index}\t#{window_active}\t#{pane_synchronized}\t#{window_name}"
	paneFormat   = "#{pane_id}\t#{window_id}"
)

// Window is one tmux window.
type Window struct {
	ID        string
	Index     string
	Name      string
	Active    bool
	SyncPanes bool
}

// Pane is one tmux pane and the window that owns it.
type Pane struct {
	ID       string
	WindowID string
}

// Topology is the window and pane layout of one session, windows in
// list-windows order.
type Topology struct {
	Windows []Window
	Panes   []Pane
}

// Tabs converts the windows to engine tabs. A tab's position is the
// window's ordinal, not its tmux index, which may start at 1 or have gaps.
func (t Topology) Tabs() []notify.Tab {
	tabs := make([]notify.Tab, 0, len(t.Windows))
	for i, w := range t.Windows {
		tabs = append(tabs, notify.Tab{
			Position:        i,
			Name:            w.Name,
			Active:          w.Active,
			SyncPanesActive: w.SyncPanes,
		})
	}
	return tabs
}

// Manifest groups the panes by the position of their window. Panes whose
// window is not in the list are left out.
func (t Topology) Manifest() notify.PaneManifest {
	positions := make(map[string]int, len(t.Windows))
	for i, w := range t.Windows {
		positions[w.ID] = i
	}
	manifest := notify.PaneManifest{}
	for _, p := range t.Panes {
		pos, ok := positions[p.WindowID]
		if !ok {
			continue
		}
		manifest[pos] = append(manifest[pos], notify.PaneRecord{ID: p.ID, TabPosition: pos})
	}
	return manifest
}

// WindowAt returns the window for a 1-based tab index.
func (t Topology) WindowAt(index int) (Window, bool) {
	if index < 1 || index > len(t.Windows) {
		return Window{}, false
	}
	return t.Windows[index-1], true
}

// Topology returns the windows and panes of a session.
func (c *DefaultClient) Topology(ctx context.Context, session string) (Topology, error) {
	windowArgs := []string{"list-windows", "-F", windowFormat}
	paneArgs := []string{"list-panes", "-s", "-F", paneFormat}
	if session != "" {
		windowArgs = append(windowArgs, "-t", session)
		paneArgs = append(paneArgs, "-t", session)
	}

	stdout, _, err := c.Run(ctx, windowArgs...)
	if err != nil {
		return Topology{}, fmt.Errorf("failed to list windows: %w", err)
	}
	windows, err := ParseWindows(stdout)
	if err != nil {
		return Topology{}, err
	}

	stdout, _, err = c.Run(ctx, paneArgs...)
	if err != nil {
		return Topology{}, fmt.Errorf("failed to list panes: %w", err)
	}
	panes, err := ParsePanes(stdout)
	if err != nil {
		return Topology{}, err
	}

	return Topology{Windows: windows, Panes: panes}, nil
}

// ParseWindows parses list-windows output produced with windowFormat.
func ParseWindows(output string) ([]Window, error) {
	var windows []Window
	for _, line := range splitLines(output) {
		parts := strings.SplitN(line, "\t", 5)
		if len(parts) != 5 {
			return nil, fmt.Errorf("%w: window line %q", ErrUnexpectedOutput, line)
		}
		windows = append(windows, Window{
			ID:        parts[0],
			Index:     parts[1],
			Active:    parts[2] == "1",
			SyncPanes: parts[3] == "1",
			Name:      parts[4],
		})
	}
	return windows, nil
}

// ParsePanes parses list-panes output produced with paneFormat.
func ParsePanes(output string) ([]Pane, error) {
	var panes []Pane
	for _, line := range splitLines(output) {
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("%w: pane line %q", ErrUnexpectedOutput, line)
		}
		panes = append(panes, Pane{ID: parts[0], WindowID: parts[1]})
	}
	return panes, nil
}

func splitLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// NormalizePaneID returns id in tmux's "%N" form. Bare numbers get the
// percent prefix; anything else is returned unchanged.
func NormalizePaneID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, "%") {
		return id
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return id
		}
	}
	return "%" + id
}
