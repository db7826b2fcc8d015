package notify

import "github.com/cristianoliveira/tabnotify/internal/logging"

// Emitter performs host actions. Calls are fire and forget: an emitter that
// fails logs the failure itself.
type Emitter interface {
	// RenameTab renames the tab at the given 1-based index.
	RenameTab(index int, name string)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(index int, name string)

// RenameTab calls f(index, name).
func (f EmitterFunc) RenameTab(index int, name string) {
	f(index, name)
}

type discardEmitter struct{}

func (discardEmitter) RenameTab(int, string) {}

// Event is a topology change pushed by the host: TabUpdate or PaneUpdate.
type Event interface {
	isEvent()
}

// TabUpdate carries the full current tab list.
type TabUpdate struct {
	Tabs []Tab
}

// PaneUpdate carries the full current pane manifest.
type PaneUpdate struct {
	Manifest PaneManifest
}

func (TabUpdate) isEvent()  {}
func (PaneUpdate) isEvent() {}

// Options configures a Plugin.
type Options struct {
	// Debug enables diagnostic logging. It never changes routing.
	Debug   bool
	Presets PresetTable
	Emitter Emitter
	Logger  logging.Logger
}

// Plugin owns the topology snapshot and handles events and requests one at a
// time. It is not safe for concurrent use; callers serialise access.
type Plugin struct {
	snap    Snapshot
	emitter Emitter
	log     logging.Logger
}

// New creates a Plugin with an empty snapshot.
func New(opts Options) *Plugin {
	emitter := opts.Emitter
	if emitter == nil {
		emitter = discardEmitter{}
	}
	log := logging.Discard()
	if opts.Debug && opts.Logger != nil {
		log = opts.Logger.With("component", "notify")
	}
	presets := opts.Presets
	if presets == nil {
		presets = PresetTable{}
	}
	p := &Plugin{
		snap: Snapshot{
			presets: presets,
			debug:   opts.Debug,
		},
		emitter: emitter,
		log:     log,
	}
	p.log.Debug("plugin loaded", "presets", len(presets))
	return p
}

// Snapshot exposes the current topology for reading.
func (p *Plugin) Snapshot() *Snapshot {
	return &p.snap
}

// Update ingests one topology event.
func (p *Plugin) Update(ev Event) {
	switch e := ev.(type) {
	case TabUpdate:
		p.onTabUpdate(e.Tabs)
	case PaneUpdate:
		p.onPaneUpdate(e.Manifest)
	default:
		p.log.Debug("ignoring unknown event", "type", ev)
	}
}

// Prime seeds the snapshot without running focus cleanup. It is meant for
// one-shot use where no earlier focus state exists and the currently focused
// tab must not be touched.
func (p *Plugin) Prime(tabs []Tab, manifest PaneManifest) {
	p.snap.replaceTabs(tabs)
	if manifest != nil {
		p.snap.replaceManifest(manifest)
	}
	if active, ok := p.snap.ActiveTab(); ok {
		p.snap.setFocus(active.Position)
	}
	p.log.Debug("primed snapshot", "tabs", len(tabs), "manifest", manifest != nil)
}

// emitRename hands a rename to the emitter unless it would not change the
// label. Skipping no-op renames keeps rename-triggered topology events from
// looping.
func (p *Plugin) emitRename(position int, oldName, newName string) bool {
	if newName == oldName {
		return false
	}
	p.emitter.RenameTab(position+1, newName)
	return true
}
