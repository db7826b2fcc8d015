package notify

import "strconv"

// NotifyCommand is the only request name the resolver acts on.
const NotifyCommand = "notify"

// Argument keys understood in Request.Args. Only ArgPaneID and ArgTabPosition
// affect routing.
const (
	ArgPaneID      = "pane_id"
	ArgTabPosition = "tab_position"
	ArgSessionName = "session_name"
	ArgTabName     = "tab_name"
)

// Request is an inbound notification request.
type Request struct {
	Name    string
	Payload *string
	Args    map[string]string
}

// PayloadString returns the payload or "" when absent.
func (r Request) PayloadString() string {
	if r.Payload == nil {
		return ""
	}
	return *r.Payload
}

// Tier identifies which resolution strategy picked the target tab.
type Tier string

const (
	TierNone     Tier = ""
	TierPane     Tier = "pane"
	TierPosition Tier = "position"
	TierFocus    Tier = "focus"
)

// DropReason explains why a request produced no rename.
type DropReason string

const (
	ReasonNone         DropReason = ""
	ReasonNoManifest   DropReason = "no-manifest"
	ReasonPaneNotFound DropReason = "pane-not-found"
	ReasonBadPosition  DropReason = "bad-position"
	ReasonNoActiveTab  DropReason = "no-active-tab"
	ReasonTabNotFound  DropReason = "tab-not-found"
	ReasonUnchanged    DropReason = "unchanged"
)

// Outcome describes what a request did. It is informational: callers use it
// for logging and reporting, never to retry routing.
type Outcome struct {
	Ignored      bool
	Tier         Tier
	Position     int
	Glyph        string
	PresetSource PresetSource
	OldName      string
	NewName      string
	Renamed      bool
	Reason       DropReason
}

// Pipe handles a notification request. Requests with another name are
// ignored. Routing misses are absorbed and reported in the Outcome.
func (p *Plugin) Pipe(req Request) Outcome {
	if req.Name != NotifyCommand {
		return Outcome{Ignored: true}
	}

	log := p.log.With("request", req.Name)
	log.Debug("request received",
		"payload", req.PayloadString(),
		"args", req.Args,
		"session_name", req.Args[ArgSessionName],
		"tab_name", req.Args[ArgTabName],
		"focused", p.focusedForLog())
	for _, t := range p.snap.tabs {
		log.Debug("tab at request time", "position", t.Position, "name", t.Name,
			"active", t.Active, "sync_panes", t.SyncPanesActive)
	}

	out := Outcome{}
	out.Glyph, out.PresetSource = p.snap.presets.Glyph(req.PayloadString())
	log.Debug("preset resolved", "payload", req.PayloadString(), "glyph", out.Glyph, "source", string(out.PresetSource))

	position, tier, reason := p.resolveTarget(req.Args)
	out.Tier = tier
	if reason != ReasonNone {
		out.Reason = reason
		log.Debug("could not identify target tab", "tier", string(tier), "reason", string(reason))
		return out
	}
	out.Position = position

	tab, ok := p.snap.TabAt(position)
	if !ok {
		out.Reason = ReasonTabNotFound
		log.Debug("tab not found in stored tabs", "position", position)
		return out
	}

	out.OldName = tab.Name
	base := Strip(tab.Name)
	out.NewName = Annotate(base, out.Glyph)
	out.Renamed = p.emitRename(position, tab.Name, out.NewName)
	if !out.Renamed {
		out.Reason = ReasonUnchanged
	}
	log.Debug("renaming tab", "position", position, "from", tab.Name, "to", out.NewName, "emitted", out.Renamed)

	session := req.Args[ArgSessionName]
	if session == "" {
		session = "unknown"
	}
	log.Debug("notified", "tab", base, "session", session, "glyph", out.Glyph)
	return out
}

// resolveTarget runs the three resolution tiers. The first tier whose input
// is present decides the outcome; a miss in that tier is final.
func (p *Plugin) resolveTarget(args map[string]string) (int, Tier, DropReason) {
	if paneID, ok := args[ArgPaneID]; ok {
		if !p.snap.HasManifest() {
			return 0, TierPane, ReasonNoManifest
		}
		pos, found := p.snap.findPane(paneID)
		if !found {
			return 0, TierPane, ReasonPaneNotFound
		}
		return pos, TierPane, ReasonNone
	}

	if raw, ok := args[ArgTabPosition]; ok {
		pos, err := strconv.ParseUint(raw, 10, 31)
		if err != nil {
			return 0, TierPosition, ReasonBadPosition
		}
		return int(pos), TierPosition, ReasonNone
	}

	active, ok := p.snap.ActiveTab()
	if !ok {
		return 0, TierFocus, ReasonNoActiveTab
	}
	return active.Position, TierFocus, ReasonNone
}

func (p *Plugin) focusedForLog() any {
	if pos, ok := p.snap.FocusedPosition(); ok {
		return pos
	}
	return "none"
}
