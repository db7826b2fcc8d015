package notify

import (
	"bytes"
	"testing"

	"github.com/cristianoliveira/tabnotify/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rename struct {
	Index int
	Name  string
}

type recordingEmitter struct {
	renames []rename
}

func (r *recordingEmitter) RenameTab(index int, name string) {
	r.renames = append(r.renames, rename{index, name})
}

func strPtr(s string) *string { return &s }

// scenarioPlugin builds the two-tab workspace used by most routing tests.
func scenarioPlugin(t *testing.T) (*Plugin, *recordingEmitter) {
	t.Helper()
	em := &recordingEmitter{}
	p := New(Options{Presets: PresetTable{"done": "✅"}, Emitter: em})
	p.Update(PaneUpdate{Manifest: PaneManifest{
		0: {{ID: "7", TabPosition: 0}},
		1: {{ID: "9", TabPosition: 1}},
	}})
	p.Update(TabUpdate{Tabs: []Tab{
		{Position: 0, Name: "shell"},
		{Position: 1, Name: "build ⚡", Active: true},
	}})
	// Focusing tab 1 cleaned its label once.
	require.Equal(t, []rename{{2, "build"}}, em.renames)
	em.renames = nil
	return p, em
}

func TestNewPluginStartsEmpty(t *testing.T) {
	p := New(Options{})
	snap := p.Snapshot()
	assert.Empty(t, snap.Tabs())
	assert.Nil(t, snap.Manifest())
	assert.False(t, snap.HasManifest())
	_, ok := snap.FocusedPosition()
	assert.False(t, ok)
	assert.Empty(t, snap.Presets())
	assert.False(t, snap.Debug())
}

func TestFocusTransitionCleansOnce(t *testing.T) {
	em := &recordingEmitter{}
	p := New(Options{Emitter: em})

	tabs := []Tab{
		{Position: 0, Name: "shell ✅", Active: true},
		{Position: 1, Name: "build ⚡"},
	}
	p.Update(TabUpdate{Tabs: tabs})
	p.Update(TabUpdate{Tabs: tabs})
	p.Update(TabUpdate{Tabs: tabs})
	assert.Equal(t, []rename{{1, "shell"}}, em.renames)

	pos, ok := p.Snapshot().FocusedPosition()
	require.True(t, ok)
	assert.Equal(t, 0, pos)
}

func TestRenameEchoDoesNotLoop(t *testing.T) {
	em := &recordingEmitter{}
	p := New(Options{Emitter: em})

	p.Update(TabUpdate{Tabs: []Tab{{Position: 0, Name: "build ⚡", Active: true}}})
	// The host echoes the rename back as a new topology event.
	p.Update(TabUpdate{Tabs: []Tab{{Position: 0, Name: "build", Active: true}}})
	assert.Equal(t, []rename{{1, "build"}}, em.renames)
}

func TestFocusTransitionOnCleanLabelEmitsNothing(t *testing.T) {
	em := &recordingEmitter{}
	p := New(Options{Emitter: em})

	p.Update(TabUpdate{Tabs: []Tab{{Position: 0, Name: "shell", Active: true}, {Position: 1, Name: "logs"}}})
	p.Update(TabUpdate{Tabs: []Tab{{Position: 0, Name: "shell"}, {Position: 1, Name: "logs", Active: true}}})
	assert.Empty(t, em.renames)

	pos, _ := p.Snapshot().FocusedPosition()
	assert.Equal(t, 1, pos)
}

func TestFocusMovesBackAndForth(t *testing.T) {
	em := &recordingEmitter{}
	p := New(Options{Emitter: em})

	p.Update(TabUpdate{Tabs: []Tab{{Position: 0, Name: "a ✅", Active: true}, {Position: 1, Name: "b ❌"}}})
	p.Update(TabUpdate{Tabs: []Tab{{Position: 0, Name: "a"}, {Position: 1, Name: "b ❌", Active: true}}})
	p.Update(TabUpdate{Tabs: []Tab{{Position: 0, Name: "a 🔴", Active: true}, {Position: 1, Name: "b"}}})

	assert.Equal(t, []rename{{1, "a"}, {2, "b"}, {1, "a"}}, em.renames)
}

func TestEmptyTabUpdateClearsTabsKeepsFocus(t *testing.T) {
	p, em := scenarioPlugin(t)

	p.Update(TabUpdate{})
	assert.Empty(t, p.Snapshot().Tabs())
	pos, ok := p.Snapshot().FocusedPosition()
	assert.True(t, ok)
	assert.Equal(t, 1, pos)
	assert.Empty(t, em.renames)
}

func TestPaneUpdateHasNoSideEffects(t *testing.T) {
	p, em := scenarioPlugin(t)

	p.Update(PaneUpdate{Manifest: PaneManifest{2: {{ID: "11", TabPosition: 2}}}})
	assert.Empty(t, em.renames)
	assert.Equal(t, PaneManifest{2: {{ID: "11", TabPosition: 2}}}, p.Snapshot().Manifest())

	// A nil manifest still counts as an observed, empty manifest.
	p.Update(PaneUpdate{})
	assert.True(t, p.Snapshot().HasManifest())
	assert.Empty(t, p.Snapshot().Manifest())
}

func TestSnapshotAccessorsReturnCopies(t *testing.T) {
	p, _ := scenarioPlugin(t)

	tabs := p.Snapshot().Tabs()
	tabs[0].Name = "mutated"
	manifest := p.Snapshot().Manifest()
	manifest[0][0].ID = "mutated"

	tab, ok := p.Snapshot().TabAt(0)
	require.True(t, ok)
	assert.Equal(t, "shell", tab.Name)
	assert.Equal(t, "7", p.Snapshot().Manifest()[0][0].ID)
}

func TestPrimeSkipsCleanup(t *testing.T) {
	em := &recordingEmitter{}
	p := New(Options{Emitter: em})

	p.Prime([]Tab{{Position: 0, Name: "build ⚡", Active: true}}, PaneManifest{0: {{ID: "%1"}}})
	assert.Empty(t, em.renames)
	pos, ok := p.Snapshot().FocusedPosition()
	require.True(t, ok)
	assert.Equal(t, 0, pos)

	// Focus is already known, so the same tab list is steady state.
	p.Update(TabUpdate{Tabs: []Tab{{Position: 0, Name: "build ⚡", Active: true}}})
	assert.Empty(t, em.renames)
}

func TestEmitterFunc(t *testing.T) {
	var got rename
	var e Emitter = EmitterFunc(func(i int, n string) { got = rename{i, n} })
	e.RenameTab(3, "x")
	assert.Equal(t, rename{3, "x"}, got)
}

func TestDebugLoggingDoesNotChangeRouting(t *testing.T) {
	run := func(debug bool, log logging.Logger) ([]rename, Outcome) {
		em := &recordingEmitter{}
		p := New(Options{Debug: debug, Logger: log, Emitter: em, Presets: PresetTable{"done": "✅"}})
		p.Update(PaneUpdate{Manifest: PaneManifest{0: {{ID: "1"}}, 1: {{ID: "2"}}}})
		p.Update(TabUpdate{Tabs: []Tab{{Position: 0, Name: "a ⚡", Active: true}, {Position: 1, Name: "b"}}})
		out := p.Pipe(Request{Name: NotifyCommand, Payload: strPtr("done"), Args: map[string]string{ArgPaneID: "2"}})
		return em.renames, out
	}

	var buf bytes.Buffer
	debugRenames, debugOut := run(true, logging.NewStream(&buf, "debug"))
	plainRenames, plainOut := run(false, nil)

	assert.Equal(t, plainRenames, debugRenames)
	assert.Equal(t, plainOut, debugOut)
	assert.Contains(t, buf.String(), "focus transition")
	assert.Contains(t, buf.String(), "renaming tab")
}
