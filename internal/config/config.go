// Package config provides configuration loading.
//
// Values are resolved in this order, later sources winning: built-in
// defaults, the TOML config file, TABNOTIFY_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/tabnotify/internal/colors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by this package.
const EnvPrefix = "TABNOTIFY_"

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644

	// FileExtTOML is the file extension for TOML configuration files.
	FileExtTOML = ".toml"
)

var (
	config        map[string]string
	configMap     map[string]string
	samplePresets map[string]string
	mu            sync.RWMutex
)

func init() {
	initValidators()
}

// SetSamplePresets sets the [presets] table written into sample config
// files. Call it before Load.
func SetSamplePresets(presets map[string]string) {
	mu.Lock()
	defer mu.Unlock()
	samplePresets = make(map[string]string, len(presets))
	for k, v := range presets {
		samplePresets[k] = v
	}
}

// Load initializes configuration.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	config = make(map[string]string)
	configMap = make(map[string]string)

	setDefaults()
	// Environment first so config_dir overrides apply to the file lookup.
	loadFromEnv()
	createSampleConfig()
	loadFromFile()
	// Re-apply environment variable overrides so env wins
	loadFromEnv()
	validate()
	computeDirs()
}

// setDefaults populates config with default values.
func setDefaults() {
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		xdgStateHome = filepath.Join(home, ".local", "state")
	}

	setDefault("config_dir", filepath.Join(xdgConfigHome, "tabnotify"))
	setDefault("state_dir", filepath.Join(xdgStateHome, "tabnotify"))
	setDefault("debug", "false")
	setDefault("quiet", "false")
	// Absent presets mean an empty table; the sample file carries defaults.
	setDefault("presets", "")
	setDefault("session", "")
	setDefault("socket_path", "")
	setDefault("poll_interval", "500ms")
	setDefault("request_timeout", "2s")
	setDefault("history_enabled", "true")
	setDefault("history_path", "")
	setDefault("history_retention_days", "30")
	setDefault("hooks_enabled", "true")
	setDefault("hooks_dir", "")
	setDefault("hooks_failure_mode", "warn")
	setDefault("hooks_timeout", "30s")
	setDefault("logging_enabled", "false")
	setDefault("logging_level", "info")
	setDefault("logging_max_files", "10")
}

func setDefault(key, value string) {
	config[key] = value
	configMap[key] = value
}

// Path returns the config file in use: TABNOTIFY_CONFIG_PATH when set,
// otherwise config.toml under config_dir.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return configPath()
}

func configPath() string {
	if p := os.Getenv(EnvPrefix + "CONFIG_PATH"); p != "" {
		return p
	}
	if dir := config["config_dir"]; dir != "" {
		return filepath.Join(dir, "config"+FileExtTOML)
	}
	return ""
}

// loadFromFile reads configuration from the TOML file, if present.
func loadFromFile() {
	path := configPath()
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			colors.Debug(fmt.Sprintf("unable to read config file %s: %v", path, err))
		}
		return
	}
	if strings.ToLower(filepath.Ext(path)) != FileExtTOML {
		return
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", path, err))
		return
	}

	for k, v := range raw {
		key := strings.ToLower(k)
		converted, ok := coerceConfigValue(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", key, v))
			continue
		}
		config[key] = converted
	}
}

// coerceConfigValue converts a configuration value to its string
// representation. Tables (such as [presets]) are re-serialized as YAML text so
// that they reach consumers in the same form as a presets string.
func coerceConfigValue(value interface{}) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	case time.Duration:
		return typed.String(), true
	case map[string]interface{}:
		data, err := yaml.Marshal(typed)
		if err != nil {
			return "", false
		}
		return string(data), true
	default:
		return "", false
	}
}

// loadFromEnv applies environment variable overrides.
func loadFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, EnvPrefix) {
			continue
		}
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], EnvPrefix))
		if key == "config_path" {
			continue
		}
		config[key] = parts[1]
	}
}

// validate checks and normalizes configuration values using registered validators.
func validate() {
	for key, value := range config {
		validator := getValidator(key)
		if validator == nil {
			continue
		}
		defaultValue := configMap[key]
		normalizedValue, err := validator(key, value, defaultValue)
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, defaultValue))
			config[key] = defaultValue
			continue
		}
		config[key] = normalizedValue
	}
}

// computeDirs fills paths derived from config_dir and state_dir when they
// were not set.
func computeDirs() {
	if config["hooks_dir"] == "" && config["config_dir"] != "" {
		config["hooks_dir"] = filepath.Join(config["config_dir"], "hooks")
	}
	stateDir := config["state_dir"]
	if stateDir == "" {
		return
	}
	if config["socket_path"] == "" {
		config["socket_path"] = filepath.Join(stateDir, "tabnotify.sock")
	}
	if config["history_path"] == "" {
		config["history_path"] = filepath.Join(stateDir, "history.db")
	}
}

// valueToInterface converts a configuration value to appropriate type for TOML.
func valueToInterface(val string) interface{} {
	if n, err := strconv.Atoi(val); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return val
}

// SampleConfig renders a config file holding every default plus the default
// presets table.
func SampleConfig() ([]byte, error) {
	mu.RLock()
	defer mu.RUnlock()
	defaults := make(map[string]string, len(configMap))
	for k, v := range configMap {
		defaults[k] = v
	}
	return renderSample(defaults)
}

func renderSample(defaults map[string]string) ([]byte, error) {
	typed := make(map[string]interface{}, len(defaults)+1)
	for k, v := range defaults {
		switch k {
		case "presets", "config_dir", "state_dir", "socket_path", "history_path", "hooks_dir", "session":
			// Derived or table-valued; left out of the flat section.
			continue
		}
		typed[k] = valueToInterface(v)
	}
	if len(samplePresets) > 0 {
		typed["presets"] = samplePresets
	}

	data, err := toml.Marshal(typed)
	if err != nil {
		return nil, fmt.Errorf("marshal sample config: %w", err)
	}
	header := "# tabnotify configuration\n# This file is in TOML format.\n# Environment variables TABNOTIFY_<KEY> override values here.\n\n"
	return append([]byte(header), data...), nil
}

// createSampleConfig writes a sample configuration file if none exists.
func createSampleConfig() {
	path := configPath()
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err == nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), FileModeDir); err != nil {
		colors.Debug(fmt.Sprintf("unable to create config dir: %v", err))
		return
	}
	data, err := renderSample(configMap)
	if err != nil {
		colors.Warning(fmt.Sprintf("unable to marshal sample config: %v", err))
		return
	}
	if err := os.WriteFile(path, data, FileModeFile); err != nil {
		colors.Warning(fmt.Sprintf("unable to write sample config to %s: %v", path, err))
	}
}

// Get returns a configuration value or default.
func Get(key, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

// GetInt returns a configuration value as integer, or default.
func GetInt(key string, defaultValue int) int {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetBool returns a configuration value as boolean, or default.
func GetBool(key string, defaultValue bool) bool {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// GetDuration returns a configuration value as a duration, or default.
func GetDuration(key string, defaultValue time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return d
}

// Keys returns all known configuration keys in sorted order.
func Keys() []string {
	mu.RLock()
	defer mu.RUnlock()
	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
