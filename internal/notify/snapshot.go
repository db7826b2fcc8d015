package notify

import "sort"

// Tab is one top-level workspace container as reported by the host.
type Tab struct {
	// Position is the 0-based position of the tab, unique within a snapshot.
	Position        int
	Name            string
	Active          bool
	SyncPanesActive bool
}

// PaneRecord is a pane and the tab that owns it.
type PaneRecord struct {
	ID          string
	TabPosition int
}

// PaneManifest groups panes by the position of their owning tab.
type PaneManifest map[int][]PaneRecord

// positions returns the manifest keys in ascending order.
func (m PaneManifest) positions() []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func (m PaneManifest) clone() PaneManifest {
	if m == nil {
		return nil
	}
	out := make(PaneManifest, len(m))
	for pos, panes := range m {
		out[pos] = append([]PaneRecord(nil), panes...)
	}
	return out
}

// Snapshot is the last known workspace topology. Only the event ingestor
// writes to it; everything else reads through the accessors, which return
// copies.
type Snapshot struct {
	tabs     []Tab
	manifest PaneManifest
	focused  int
	hasFocus bool
	presets  PresetTable
	debug    bool
}

// Tabs returns the current tab list.
func (s *Snapshot) Tabs() []Tab {
	return append([]Tab(nil), s.tabs...)
}

// Manifest returns the current pane manifest, or nil if no pane event has
// been observed yet.
func (s *Snapshot) Manifest() PaneManifest {
	return s.manifest.clone()
}

// HasManifest reports whether a pane event has been observed.
func (s *Snapshot) HasManifest() bool {
	return s.manifest != nil
}

// FocusedPosition returns the position of the most recently focused tab.
func (s *Snapshot) FocusedPosition() (int, bool) {
	return s.focused, s.hasFocus
}

// TabAt looks up a tab by position.
func (s *Snapshot) TabAt(position int) (Tab, bool) {
	for _, t := range s.tabs {
		if t.Position == position {
			return t, true
		}
	}
	return Tab{}, false
}

// ActiveTab returns the first tab marked active in the current list.
func (s *Snapshot) ActiveTab() (Tab, bool) {
	for _, t := range s.tabs {
		if t.Active {
			return t, true
		}
	}
	return Tab{}, false
}

// Presets returns the preset table the snapshot was created with.
func (s *Snapshot) Presets() PresetTable {
	out := make(PresetTable, len(s.presets))
	for k, v := range s.presets {
		out[k] = v
	}
	return out
}

// Debug reports whether diagnostic logging is enabled.
func (s *Snapshot) Debug() bool {
	return s.debug
}

// findPane returns the owning tab position of the first pane with the given
// id, scanning tabs in ascending position and panes in manifest order.
func (s *Snapshot) findPane(id string) (int, bool) {
	for _, pos := range s.manifest.positions() {
		for _, pane := range s.manifest[pos] {
			if pane.ID == id {
				return pos, true
			}
		}
	}
	return 0, false
}

func (s *Snapshot) replaceTabs(tabs []Tab) {
	s.tabs = append([]Tab(nil), tabs...)
}

func (s *Snapshot) replaceManifest(m PaneManifest) {
	if m == nil {
		m = PaneManifest{}
	}
	s.manifest = m.clone()
}

func (s *Snapshot) setFocus(position int) {
	s.focused = position
	s.hasFocus = true
}
