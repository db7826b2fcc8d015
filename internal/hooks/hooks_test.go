package hooks

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cristianoliveira/tabnotify/internal/logging"
	"github.com/cristianoliveira/tabnotify/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script for a hook point.
func writeScript(t *testing.T, dir, point, name, body string) string {
	t.Helper()
	pointDir := filepath.Join(dir, point)
	require.NoError(t, os.MkdirAll(pointDir, 0o755))
	path := filepath.Join(pointDir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestScriptsOrderAndExecutableOnly(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, PostNotify, "20-second.sh", "true")
	writeScript(t, dir, PostNotify, "10-first.sh", "true")
	require.NoError(t, os.WriteFile(filepath.Join(dir, PostNotify, "README"), []byte("docs"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, PostNotify, "subdir"), 0o755))

	r := NewRunner(Options{Dir: dir})
	scripts := r.Scripts(PostNotify)
	require.Len(t, scripts, 2)
	assert.Equal(t, "10-first.sh", filepath.Base(scripts[0]))
	assert.Equal(t, "20-second.sh", filepath.Base(scripts[1]))

	assert.Empty(t, r.Scripts("missing-point"))
	assert.Empty(t, NewRunner(Options{}).Scripts(PostNotify))
}

func TestRunPassesEnvironment(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeScript(t, dir, PostNotify, "env.sh",
		`echo "$TABNOTIFY_HOOK_POINT $TABNOTIFY_PRESET $TABNOTIFY_TAB_NAME" >> `+out)

	r := NewRunner(Options{Dir: dir})
	require.NoError(t, r.Run(context.Background(), PostNotify, map[string]string{
		"TABNOTIFY_PRESET":   "stop",
		"TABNOTIFY_TAB_NAME": "build",
	}))
	assert.Equal(t, []string{"post-notify stop build"}, readLines(t, out))
}

func TestRunFailureModes(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeScript(t, dir, PostNotify, "10-fail.sh", "echo boom; exit 3")
	writeScript(t, dir, PostNotify, "20-after.sh", "echo after >> "+out)

	var buf bytes.Buffer
	warn := NewRunner(Options{Dir: dir, Logger: logging.NewStream(&buf, "debug")})
	require.NoError(t, warn.Run(context.Background(), PostNotify, nil))
	assert.Equal(t, []string{"after"}, readLines(t, out))
	assert.Contains(t, buf.String(), "hook failed")
	assert.Contains(t, buf.String(), "boom")

	abort := NewRunner(Options{Dir: dir, FailureMode: FailureAbort})
	err := abort.Run(context.Background(), PostNotify, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hook 10-fail.sh failed")
	assert.Equal(t, []string{"after"}, readLines(t, out))

	buf.Reset()
	ignore := NewRunner(Options{Dir: dir, FailureMode: FailureIgnore, Logger: logging.NewStream(&buf, "debug")})
	require.NoError(t, ignore.Run(context.Background(), PostNotify, nil))
	assert.NotContains(t, buf.String(), "hook failed")
}

func TestRunTimeout(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, PostNotify, "slow.sh", "exec sleep 5")

	r := NewRunner(Options{Dir: dir, FailureMode: FailureAbort, Timeout: 50 * time.Millisecond})
	start := time.Now()
	err := r.Run(context.Background(), PostNotify, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestDispatchRunsInBackground(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeScript(t, dir, PostNotify, "bg.sh", `echo "$TABNOTIFY_GLYPH" >> `+out)

	r := NewRunner(Options{Dir: dir})
	r.Dispatch(PostNotify, map[string]string{"TABNOTIFY_GLYPH": "✅"})
	r.Wait()
	assert.Equal(t, []string{"✅"}, readLines(t, out))
}

func TestDispatchWithoutScriptsIsNoop(t *testing.T) {
	r := NewRunner(Options{Dir: t.TempDir()})
	r.Dispatch(PostNotify, nil)
	r.Wait()
	assert.Zero(t, r.pending)
}

func TestDispatchDropsWhenSaturated(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, PostNotify, "slow.sh", "exec sleep 1")

	var buf bytes.Buffer
	r := NewRunner(Options{Dir: dir, MaxPending: 1, Logger: logging.NewStream(&buf, "debug")})
	r.Dispatch(PostNotify, nil)
	r.Dispatch(PostNotify, nil)
	r.Wait()
	assert.Contains(t, buf.String(), "too many pending hooks")
}

func TestNotifyEnv(t *testing.T) {
	preset := "stop"
	env := NotifyEnv("req-1", notify.Request{
		Name:    notify.NotifyCommand,
		Payload: &preset,
		Args:    map[string]string{notify.ArgPaneID: "%7", notify.ArgSessionName: "work"},
	}, notify.Outcome{
		Tier: notify.TierPane, Position: 2, Glyph: "✅", OldName: "build", NewName: "build ✅", Renamed: true,
	})

	assert.Equal(t, map[string]string{
		"TABNOTIFY_REQUEST_ID":   "req-1",
		"TABNOTIFY_PRESET":       "stop",
		"TABNOTIFY_GLYPH":        "✅",
		"TABNOTIFY_TAB_POSITION": "2",
		"TABNOTIFY_TAB_NAME":     "build ✅",
		"TABNOTIFY_OLD_NAME":     "build",
		"TABNOTIFY_TIER":         "pane",
		"TABNOTIFY_PANE_ID":      "%7",
		"TABNOTIFY_SESSION":      "work",
	}, env)
}
