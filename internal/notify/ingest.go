package notify

// focusPhase is the cleanup state of a tab with respect to focus.
type focusPhase int

const (
	phaseUnfocused focusPhase = iota
	phaseJustFocused
	phaseSteady
)

func (f focusPhase) String() string {
	switch f {
	case phaseUnfocused:
		return "unfocused"
	case phaseJustFocused:
		return "just-focused"
	case phaseSteady:
		return "steady"
	default:
		return "unknown"
	}
}

func (p *Plugin) onTabUpdate(tabs []Tab) {
	p.log.Debug("tab update", "tabs", len(tabs))
	p.snap.replaceTabs(tabs)

	active, ok := p.snap.ActiveTab()
	if !ok {
		return
	}
	prev, had := p.snap.FocusedPosition()
	if had && prev == active.Position {
		return
	}

	p.log.Debug("focus transition", "tab", active.Position, "name", active.Name,
		"previous", prev, "had_previous", had, "phase", phaseJustFocused.String())

	phase := p.cleanup(active)
	p.snap.setFocus(active.Position)
	p.log.Debug("focus settled", "tab", active.Position, "phase", phase.String())
}

// cleanup runs the just-focused step for tab t and returns its next phase.
// At most one rename is emitted, and none when the label is already clean.
func (p *Plugin) cleanup(t Tab) focusPhase {
	stripped := Strip(t.Name)
	if p.emitRename(t.Position, t.Name, stripped) {
		p.log.Debug("cleaned tab label", "tab", t.Position, "from", t.Name, "to", stripped)
	}
	return phaseSteady
}

func (p *Plugin) onPaneUpdate(m PaneManifest) {
	p.log.Debug("pane update", "tabs_with_panes", len(m))
	p.snap.replaceManifest(m)
}
