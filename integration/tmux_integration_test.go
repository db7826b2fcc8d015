//go:build integration
// +build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cristianoliveira/tabnotify/internal/ipc"
	"github.com/cristianoliveira/tabnotify/internal/notify"
	"github.com/cristianoliveira/tabnotify/internal/runtime"
	"github.com/cristianoliveira/tabnotify/internal/tmux"
	"github.com/stretchr/testify/require"
)

const session = "it"

// startServer runs a private tmux server, one per test, with a "shell" and
// a "build" window, "build" being the active one.
func startServer(t *testing.T) (*tmux.DefaultClient, func(args ...string)) {
	t.Helper()
	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("tmux not installed")
	}
	socket := fmt.Sprintf("tabnotify-it-%d-%s", os.Getpid(), strings.ReplaceAll(t.Name(), "/", "-"))
	run := func(args ...string) {
		t.Helper()
		out, err := exec.Command("tmux", append([]string{"-L", socket, "-f", "/dev/null"}, args...)...).CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("new-session", "-d", "-s", session, "-n", "shell")
	run("new-window", "-t", session, "-n", "build")
	t.Cleanup(func() { _ = exec.Command("tmux", "-L", socket, "kill-server").Run() })

	return tmux.NewDefaultClient(tmux.WithSocketPath(socket)), run
}

// startDaemon serves opts on a fresh socket until the test ends.
func startDaemon(t *testing.T, opts runtime.Options) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "tnit")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	sock := filepath.Join(dir, "d.sock")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runtime.Serve(ctx, opts, sock) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	require.Eventually(t, func() bool { return ipc.Ping(context.Background(), sock) }, 2*time.Second, 20*time.Millisecond)
	return sock
}

func windowNames(t *testing.T, client tmux.Client) []string {
	t.Helper()
	return sessionWindowNames(t, client, session)
}

func sessionWindowNames(t *testing.T, client tmux.Client, name string) []string {
	t.Helper()
	topo, err := client.Topology(context.Background(), name)
	require.NoError(t, err)
	names := make([]string, 0, len(topo.Windows))
	for _, w := range topo.Windows {
		names = append(names, w.Name)
	}
	return names
}

func shellPane(t *testing.T, client tmux.Client) (string, string) {
	t.Helper()
	topo, err := client.Topology(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, topo.Windows, 2)
	for _, p := range topo.Panes {
		if p.WindowID == topo.Windows[0].ID {
			return p.ID, topo.Windows[0].ID
		}
	}
	t.Fatal("no pane in first window")
	return "", ""
}

func TestOneShotMarksOriginWindow(t *testing.T) {
	client, _ := startServer(t)
	pane, _ := shellPane(t, client)
	stop := "stop"

	out, err := runtime.Once(context.Background(), runtime.Options{
		Client:  client,
		Session: session,
		Presets: notify.PresetTable{stop: "✅"},
	}, notify.Request{
		Name:    notify.NotifyCommand,
		Payload: &stop,
		Args:    map[string]string{notify.ArgPaneID: pane},
	})
	require.NoError(t, err)
	require.True(t, out.Renamed)
	require.Equal(t, []string{"shell ✅", "build"}, windowNames(t, client))
}

func TestDaemonClearsMarkOnFocus(t *testing.T) {
	client, _ := startServer(t)
	pane, shellID := shellPane(t, client)

	sock := startDaemon(t, runtime.Options{
		Client:       client,
		Session:      session,
		PollInterval: 20 * time.Millisecond,
		Presets:      notify.PresetTable{"error": "❌"},
	})

	errorPreset := "error"
	resp, err := ipc.Dial(context.Background(), sock, ipc.NewNotifyRequest(notify.Request{
		Name:    notify.NotifyCommand,
		Payload: &errorPreset,
		Args:    map[string]string{notify.ArgPaneID: pane},
	}))
	require.NoError(t, err)
	require.True(t, resp.Outcome.Renamed)
	require.Equal(t, []string{"shell ❌", "build"}, windowNames(t, client))

	_, _, err = client.Run(context.Background(), "select-window", "-t", shellID)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		names := windowNames(t, client)
		return names[0] == "shell"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestDaemonRoutesEverySession(t *testing.T) {
	client, run := startServer(t)
	run("new-session", "-d", "-s", "other", "-n", "work")

	topo, err := client.Topology(context.Background(), "other")
	require.NoError(t, err)
	require.Len(t, topo.Panes, 1)
	otherPane := topo.Panes[0].ID
	itPane, _ := shellPane(t, client)

	sock := startDaemon(t, runtime.Options{
		Client:       client,
		PollInterval: 20 * time.Millisecond,
		Presets:      notify.PresetTable{"stop": "✅"},
	})

	stop := "stop"
	resp, err := ipc.Dial(context.Background(), sock, ipc.NewNotifyRequest(notify.Request{
		Name:    notify.NotifyCommand,
		Payload: &stop,
		Args:    map[string]string{notify.ArgPaneID: otherPane, notify.ArgSessionName: "other"},
	}))
	require.NoError(t, err)
	require.True(t, resp.Outcome.Renamed, "reason: %s", resp.Outcome.Reason)
	require.Equal(t, []string{"work ✅"}, sessionWindowNames(t, client, "other"))

	// The pane alone is enough.
	resp, err = ipc.Dial(context.Background(), sock, ipc.NewNotifyRequest(notify.Request{
		Name:    notify.NotifyCommand,
		Payload: &stop,
		Args:    map[string]string{notify.ArgPaneID: itPane},
	}))
	require.NoError(t, err)
	require.True(t, resp.Outcome.Renamed, "reason: %s", resp.Outcome.Reason)
	require.Equal(t, []string{"shell ✅", "build"}, windowNames(t, client))

	resp, err = ipc.Dial(context.Background(), sock, ipc.Request{
		Action: ipc.ActionStatus,
		Args:   map[string]string{notify.ArgSessionName: "other"},
	})
	require.NoError(t, err)
	require.Equal(t, "other", resp.Status.Session)
	require.ElementsMatch(t, []string{session, "other"}, resp.Status.Sessions)
}
