package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClaudeClient struct {
	path        string
	pathErr     error
	installErr  error
	removed     bool
	removeErr   error
	installedAt string
	binary      string
	removedAt   string
}

func (f *fakeClaudeClient) ClaudeSettingsPath() (string, error) { return f.path, f.pathErr }

func (f *fakeClaudeClient) InstallHooks(path, binary string) error {
	f.installedAt = path
	f.binary = binary
	return f.installErr
}

func (f *fakeClaudeClient) UninstallHooks(path string) (bool, error) {
	f.removedAt = path
	return f.removed, f.removeErr
}

func runClaude(t *testing.T, client *fakeClaudeClient, args ...string) (string, error) {
	t.Helper()
	c := NewClaudeCmd(client)
	out := &bytes.Buffer{}
	c.SetOut(out)
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(append([]string{}, args...))
	err := c.Execute()
	return out.String(), err
}

func TestNewClaudeCmdPanicsWhenClientIsNil(t *testing.T) {
	assert.Panics(t, func() { NewClaudeCmd(nil) })
}

func TestClaudeInstallHooks(t *testing.T) {
	client := &fakeClaudeClient{path: "/home/u/.claude/settings.json"}

	out, err := runClaude(t, client, "install-hooks")
	require.NoError(t, err)
	assert.Equal(t, "/home/u/.claude/settings.json", client.installedAt)
	assert.Equal(t, "tabnotify", client.binary)
	assert.Equal(t, "Installed 4 Claude Code hooks in /home/u/.claude/settings.json\n", out)
}

func TestClaudeInstallHooksFlags(t *testing.T) {
	client := &fakeClaudeClient{path: "/unused"}

	_, err := runClaude(t, client, "install-hooks", "--settings", "/tmp/s.json", "--binary", "/opt/bin/tabnotify")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/s.json", client.installedAt)
	assert.Equal(t, "/opt/bin/tabnotify", client.binary)
}

func TestClaudeInstallHooksErrors(t *testing.T) {
	_, err := runClaude(t, &fakeClaudeClient{pathErr: errors.New("no home")}, "install-hooks")
	assert.ErrorContains(t, err, "no home")

	_, err = runClaude(t, &fakeClaudeClient{path: "/x", installErr: errors.New("malformed")}, "install-hooks")
	assert.ErrorContains(t, err, "install hooks: malformed")
}

func TestClaudeUninstallHooks(t *testing.T) {
	client := &fakeClaudeClient{path: "/s.json", removed: true}
	out, err := runClaude(t, client, "uninstall-hooks")
	require.NoError(t, err)
	assert.Equal(t, "/s.json", client.removedAt)
	assert.Equal(t, "Removed tabnotify hooks from /s.json\n", out)

	out, err = runClaude(t, &fakeClaudeClient{path: "/s.json"}, "uninstall-hooks")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = runClaude(t, &fakeClaudeClient{path: "/s.json", removeErr: errors.New("denied")}, "uninstall-hooks")
	assert.ErrorContains(t, err, "uninstall hooks: denied")
}
