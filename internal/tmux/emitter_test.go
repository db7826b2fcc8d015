package tmux

import (
	"errors"
	"testing"

	"github.com/cristianoliveira/tabnotify/internal/notify"
	"github.com/stretchr/testify/mock"
)

func TestEmitterRenamesByIndex(t *testing.T) {
	client := new(MockClient)
	client.On("RenameWindow", mock.Anything, "@5", "build ✅").Return(nil).Once()

	em := NewEmitter(client, nil)
	em.Observe(Topology{Windows: []Window{{ID: "@1"}, {ID: "@5"}}})
	em.RenameTab(2, "build ✅")

	client.AssertExpectations(t)
}

func TestEmitterSkipsUnknownIndex(t *testing.T) {
	client := new(MockClient)
	em := NewEmitter(client, nil)
	em.Observe(Topology{Windows: []Window{{ID: "@1"}}})

	em.RenameTab(0, "x")
	em.RenameTab(2, "x")

	client.AssertNotCalled(t, "RenameWindow", mock.Anything, mock.Anything, mock.Anything)
}

func TestEmitterAbsorbsErrors(t *testing.T) {
	client := new(MockClient)
	client.On("RenameWindow", mock.Anything, "@1", "x").Return(errors.New("boom"))

	em := NewEmitter(client, nil)
	em.Observe(Topology{Windows: []Window{{ID: "@1"}}})
	em.RenameTab(1, "x")

	client.AssertExpectations(t)
}

func TestEmitterDrivesEngine(t *testing.T) {
	topo := Topology{
		Windows: []Window{
			{ID: "@1", Name: "shell"},
			{ID: "@3", Name: "build ⚡", Active: true},
		},
		Panes: []Pane{{"%7", "@1"}, {"%9", "@3"}},
	}
	client := new(MockClient)
	client.On("RenameWindow", mock.Anything, "@3", "build").Return(nil).Once()
	client.On("RenameWindow", mock.Anything, "@3", "build ✅").Return(nil).Once()

	em := NewEmitter(client, nil)
	em.Observe(topo)
	p := notify.New(notify.Options{Emitter: em, Presets: notify.PresetTable{"done": "✅"}})
	p.Update(notify.PaneUpdate{Manifest: topo.Manifest()})
	p.Update(notify.TabUpdate{Tabs: topo.Tabs()})

	done := "done"
	p.Pipe(notify.Request{Name: notify.NotifyCommand, Payload: &done, Args: map[string]string{notify.ArgPaneID: "%9"}})

	client.AssertExpectations(t)
}
