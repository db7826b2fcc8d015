package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cristianoliveira/tabnotify/internal/logging"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultGlyph is used when a request carries no preset key.
	DefaultGlyph = GlyphSuccess
	// UnknownGlyph is used when a request names a preset that is not configured.
	// It differs from DefaultGlyph so that misconfiguration stays visible.
	UnknownGlyph = GlyphUnknown
)

// PresetSource tells where the glyph of a request came from.
type PresetSource string

const (
	PresetDefault    PresetSource = "default"
	PresetConfigured PresetSource = "configured"
	PresetFallback   PresetSource = "fallback"
)

// PresetTable maps preset keys to glyphs.
type PresetTable map[string]string

// Glyph resolves the glyph for a request payload.
func (t PresetTable) Glyph(payload string) (string, PresetSource) {
	if payload == "" {
		return DefaultGlyph, PresetDefault
	}
	if glyph, ok := t[payload]; ok {
		return glyph, PresetConfigured
	}
	return UnknownGlyph, PresetFallback
}

// Keys returns the configured preset keys in sorted order.
func (t PresetTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultPresets returns the presets written to a fresh configuration file,
// one per Claude Code hook event.
func DefaultPresets() PresetTable {
	return PresetTable{
		"notification":  "⚡",
		"posttooluse":   "⚡",
		"stop":          "✅",
		"subagent-stop": "🔴",
	}
}

// ParsePresets decodes serialized preset text. Two shapes are accepted for
// each entry: a bare glyph ("stop": "✅") or an object carrying an "emoji"
// field ("stop": {"emoji": "✅"}). JSON input works since YAML is a superset.
// Empty text yields an empty table. Any malformed entry rejects the whole
// table.
func ParsePresets(text string) (PresetTable, error) {
	table := PresetTable{}
	if strings.TrimSpace(text) == "" {
		return table, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return PresetTable{}, fmt.Errorf("parse presets: %w", err)
	}

	for key, value := range raw {
		glyph, err := presetGlyph(value)
		if err != nil {
			return PresetTable{}, fmt.Errorf("parse presets: preset %q: %w", key, err)
		}
		table[key] = glyph
	}
	return table, nil
}

func presetGlyph(value any) (string, error) {
	switch typed := value.(type) {
	case string:
		if typed == "" {
			return "", fmt.Errorf("empty glyph")
		}
		return typed, nil
	case map[string]any:
		emoji, ok := typed["emoji"].(string)
		if !ok || emoji == "" {
			return "", fmt.Errorf("missing emoji field")
		}
		return emoji, nil
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}

// LoadPresets parses preset text and never fails: malformed text is logged
// and replaced by an empty table.
func LoadPresets(text string, logger logging.Logger) PresetTable {
	table, err := ParsePresets(text)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to parse presets, using empty table", "error", err)
		}
		return PresetTable{}
	}
	if logger != nil {
		logger.Debug("loaded presets", "count", len(table))
	}
	return table
}

// MarshalPresets serializes a table in the form ParsePresets reads back.
func MarshalPresets(t PresetTable) (string, error) {
	data, err := yaml.Marshal(map[string]string(t))
	if err != nil {
		return "", fmt.Errorf("marshal presets: %w", err)
	}
	return string(data), nil
}
