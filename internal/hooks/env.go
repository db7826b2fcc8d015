package hooks

import (
	"strconv"

	"github.com/cristianoliveira/tabnotify/internal/notify"
)

// NotifyEnv is the environment of a post-notify hook.
func NotifyEnv(requestID string, req notify.Request, out notify.Outcome) map[string]string {
	return map[string]string{
		"TABNOTIFY_REQUEST_ID":   requestID,
		"TABNOTIFY_PRESET":       req.PayloadString(),
		"TABNOTIFY_GLYPH":        out.Glyph,
		"TABNOTIFY_TAB_POSITION": strconv.Itoa(out.Position),
		"TABNOTIFY_TAB_NAME":     out.NewName,
		"TABNOTIFY_OLD_NAME":     out.OldName,
		"TABNOTIFY_TIER":         string(out.Tier),
		"TABNOTIFY_PANE_ID":      req.Args[notify.ArgPaneID],
		"TABNOTIFY_SESSION":      req.Args[notify.ArgSessionName],
	}
}
