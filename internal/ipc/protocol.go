// Package ipc carries requests from the tabnotify CLI to a running daemon
// over a unix socket. Each connection holds exactly one CBOR request and one
// CBOR response.
package ipc

import (
	"errors"

	"github.com/cristianoliveira/tabnotify/internal/notify"
)

// Actions understood by the daemon.
const (
	ActionNotify = "notify"
	ActionStatus = "status"
	ActionPing   = "ping"
)

// ErrNoDaemon is returned by Dial when nothing listens on the socket.
var ErrNoDaemon = errors.New("tabnotify daemon is not running")

// Request is sent by the client. Name and Payload are only used by the
// notify action; the status action reads the session name from Args.
type Request struct {
	Action  string            `cbor:"action"`
	Name    string            `cbor:"name,omitempty"`
	Payload *string           `cbor:"payload,omitempty"`
	Args    map[string]string `cbor:"args,omitempty"`
}

// NewNotifyRequest wraps an engine request for the wire.
func NewNotifyRequest(req notify.Request) Request {
	return Request{
		Action:  ActionNotify,
		Name:    req.Name,
		Payload: req.Payload,
		Args:    req.Args,
	}
}

// NotifyRequest returns the engine request carried by r.
func (r Request) NotifyRequest() notify.Request {
	args := r.Args
	if args == nil {
		args = map[string]string{}
	}
	return notify.Request{Name: r.Name, Payload: r.Payload, Args: args}
}

// Outcome is the wire form of notify.Outcome.
type Outcome struct {
	Ignored      bool   `cbor:"ignored,omitempty"`
	Tier         string `cbor:"tier,omitempty"`
	Position     int    `cbor:"position"`
	Glyph        string `cbor:"glyph,omitempty"`
	PresetSource string `cbor:"preset_source,omitempty"`
	OldName      string `cbor:"old_name,omitempty"`
	NewName      string `cbor:"new_name,omitempty"`
	Renamed      bool   `cbor:"renamed,omitempty"`
	Reason       string `cbor:"reason,omitempty"`
}

// NewOutcome converts an engine outcome for the wire.
func NewOutcome(o notify.Outcome) *Outcome {
	return &Outcome{
		Ignored:      o.Ignored,
		Tier:         string(o.Tier),
		Position:     o.Position,
		Glyph:        o.Glyph,
		PresetSource: string(o.PresetSource),
		OldName:      o.OldName,
		NewName:      o.NewName,
		Renamed:      o.Renamed,
		Reason:       string(o.Reason),
	}
}

// Notify converts the wire outcome back.
func (o Outcome) Notify() notify.Outcome {
	return notify.Outcome{
		Ignored:      o.Ignored,
		Tier:         notify.Tier(o.Tier),
		Position:     o.Position,
		Glyph:        o.Glyph,
		PresetSource: notify.PresetSource(o.PresetSource),
		OldName:      o.OldName,
		NewName:      o.NewName,
		Renamed:      o.Renamed,
		Reason:       notify.DropReason(o.Reason),
	}
}

// Tab is the wire form of notify.Tab.
type Tab struct {
	Position int    `cbor:"position"`
	Name     string `cbor:"name"`
	Active   bool   `cbor:"active,omitempty"`
}

// Status describes a running daemon. Tabs and focus belong to Session;
// Sessions lists every session the daemon tracks.
type Status struct {
	PID       int               `cbor:"pid"`
	Session   string            `cbor:"session,omitempty"`
	Sessions  []string          `cbor:"sessions,omitempty"`
	Tabs      []Tab             `cbor:"tabs,omitempty"`
	Focused   int               `cbor:"focused"`
	HasFocus  bool              `cbor:"has_focus,omitempty"`
	Presets   map[string]string `cbor:"presets,omitempty"`
	LastPoll  string            `cbor:"last_poll,omitempty"`
	PollError string            `cbor:"poll_error,omitempty"`
	Handled   int               `cbor:"handled"`
}

// Response is returned by the daemon.
type Response struct {
	OK      bool     `cbor:"ok"`
	Error   string   `cbor:"error,omitempty"`
	Outcome *Outcome `cbor:"outcome,omitempty"`
	Status  *Status  `cbor:"status,omitempty"`
}
