// Package claude installs tabnotify as a Claude Code hook so that agent
// events mark the tab the agent runs in.
package claude

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// DefaultBinary is the command name written into hooks when no path is given.
const DefaultBinary = "tabnotify"

// Hook maps a Claude Code hook event to the preset it notifies with.
type Hook struct {
	Event  string
	Preset string
}

// Hooks lists the events tabnotify subscribes to.
var Hooks = []Hook{
	{Event: "Notification", Preset: "notification"},
	{Event: "Stop", Preset: "stop"},
	{Event: "PostToolUse", Preset: "posttooluse"},
	{Event: "SubagentStop", Preset: "subagent-stop"},
}

// ErrMalformedSettings is returned when the settings file is not a JSON
// object or its "hooks" entry has an unexpected shape.
var ErrMalformedSettings = errors.New("malformed Claude settings")

// SettingsPath returns the user-level Claude Code settings file.
func SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// HookCommand returns the shell command a hook runs for preset.
func HookCommand(binary, preset string) string {
	if binary == "" {
		binary = DefaultBinary
	}
	return binary + " notify " + preset
}

// InstallHooks adds a tabnotify hook for every event in Hooks. Hooks from
// other tools are kept; an older tabnotify hook is replaced.
func InstallHooks(path, binary string) error {
	settings, err := readSettings(path)
	if err != nil {
		return err
	}
	hooks, err := hooksObject(settings)
	if err != nil {
		return err
	}

	for _, h := range Hooks {
		groups, err := foreignGroups(hooks[h.Event])
		if err != nil {
			return fmt.Errorf("%w: hooks.%s: %v", ErrMalformedSettings, h.Event, err)
		}
		hooks[h.Event] = append(groups, map[string]any{
			"matcher": "",
			"hooks": []any{
				map[string]any{"type": "command", "command": HookCommand(binary, h.Preset)},
			},
		})
	}
	settings["hooks"] = hooks
	return writeSettings(path, settings)
}

// UninstallHooks removes tabnotify hooks and reports whether any were found.
// A missing settings file is not an error.
func UninstallHooks(path string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	settings, err := readSettings(path)
	if err != nil {
		return false, err
	}
	raw, ok := settings["hooks"]
	if !ok {
		return false, nil
	}
	hooks, ok := raw.(map[string]any)
	if !ok {
		return false, fmt.Errorf("%w: hooks is not an object", ErrMalformedSettings)
	}

	removed := false
	for _, h := range Hooks {
		existing, ok := hooks[h.Event]
		if !ok {
			continue
		}
		groups, err := foreignGroups(existing)
		if err != nil {
			return false, fmt.Errorf("%w: hooks.%s: %v", ErrMalformedSettings, h.Event, err)
		}
		if list, _ := existing.([]any); len(groups) == len(list) {
			continue
		}
		removed = true
		if len(groups) == 0 {
			delete(hooks, h.Event)
		} else {
			hooks[h.Event] = groups
		}
	}
	if !removed {
		return false, nil
	}
	return true, writeSettings(path, settings)
}

// HooksInstalled reports whether every event in Hooks has a tabnotify hook.
func HooksInstalled(path string) bool {
	settings, err := readSettings(path)
	if err != nil {
		return false
	}
	hooks, ok := settings["hooks"].(map[string]any)
	if !ok {
		return false
	}
	for _, h := range Hooks {
		list, _ := hooks[h.Event].([]any)
		groups, err := foreignGroups(list)
		if err != nil || len(groups) == len(list) {
			return false
		}
	}
	return true
}

// readSettings loads the settings file, tolerating comments and trailing
// commas. A missing file yields empty settings.
func readSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read Claude settings: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return map[string]any{}, nil
	}

	var settings map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &settings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSettings, err)
	}
	if settings == nil {
		settings = map[string]any{}
	}
	return settings, nil
}

func writeSettings(path string, settings map[string]any) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode Claude settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create Claude settings directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write Claude settings: %w", err)
	}
	return nil
}

func hooksObject(settings map[string]any) (map[string]any, error) {
	raw, ok := settings["hooks"]
	if !ok || raw == nil {
		return map[string]any{}, nil
	}
	hooks, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: hooks is not an object", ErrMalformedSettings)
	}
	return hooks, nil
}

// foreignGroups returns the matcher groups of an event that do not run
// tabnotify.
func foreignGroups(raw any) ([]any, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of matcher groups")
	}
	var kept []any
	for _, g := range list {
		if !isTabnotifyGroup(g) {
			kept = append(kept, g)
		}
	}
	return kept, nil
}

func isTabnotifyGroup(group any) bool {
	g, ok := group.(map[string]any)
	if !ok {
		return false
	}
	hooks, _ := g["hooks"].([]any)
	for _, h := range hooks {
		hook, _ := h.(map[string]any)
		command, _ := hook["command"].(string)
		if isTabnotifyCommand(command) {
			return true
		}
	}
	return false
}

func isTabnotifyCommand(command string) bool {
	fields := strings.Fields(command)
	return len(fields) >= 2 && filepath.Base(fields[0]) == DefaultBinary && fields[1] == "notify"
}
