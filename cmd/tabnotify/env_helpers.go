package main

import (
	"os"
	"strings"
)

// allowTmuxlessMode returns true when notify should succeed silently
// outside tmux (e.g. running inside CI or when explicitly requested).
func allowTmuxlessMode() bool {
	if envBool("TABNOTIFY_ALLOW_NO_TMUX") {
		return true
	}

	// CI providers usually set CI=true
	if os.Getenv("CI") != "" {
		return true
	}

	return false
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
