package tmux

import (
	"context"
	"sync"
	"time"

	"github.com/cristianoliveira/tabnotify/internal/logging"
	"github.com/cristianoliveira/tabnotify/internal/notify"
)

// Emitter renames tmux windows for the notification engine. The engine
// addresses tabs by 1-based index; the emitter maps the index to a window id
// using the last observed topology.
type Emitter struct {
	client  Client
	log     logging.Logger
	timeout time.Duration

	mu       sync.Mutex
	topology Topology
}

var _ notify.Emitter = (*Emitter)(nil)

// NewEmitter creates an Emitter that renames windows through client.
func NewEmitter(client Client, log logging.Logger) *Emitter {
	if log == nil {
		log = logging.Discard()
	}
	return &Emitter{
		client:  client,
		log:     log.With("component", "tmux-emitter"),
		timeout: DefaultTimeout,
	}
}

// Observe records the topology the next renames resolve against.
func (e *Emitter) Observe(t Topology) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.topology = t
}

// RenameTab renames the window at the given 1-based index. Failures are
// logged, never returned.
func (e *Emitter) RenameTab(index int, name string) {
	e.mu.Lock()
	window, ok := e.topology.WindowAt(index)
	e.mu.Unlock()
	if !ok {
		e.log.Warn("rename skipped", "index", index, "error", ErrWindowNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	if err := e.client.RenameWindow(ctx, window.ID, name); err != nil {
		e.log.Error("rename failed", "index", index, "window_id", window.ID, "name", name, "error", err)
		return
	}
	e.log.Debug("renamed window", "index", index, "window_id", window.ID, "name", name)
}
