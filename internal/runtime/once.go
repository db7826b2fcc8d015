package runtime

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/tabnotify/internal/logging"
	"github.com/cristianoliveira/tabnotify/internal/notify"
	"github.com/cristianoliveira/tabnotify/internal/tmux"
	"github.com/google/uuid"
)

// Once handles a single request without a running daemon. The engine is
// primed with the current topology, so no focus cleanup runs: the focused
// tab keeps whatever mark it has.
func Once(ctx context.Context, opts Options, req notify.Request) (notify.Outcome, error) {
	if opts.Client == nil {
		panic("runtime.Once: tmux client dependency cannot be nil")
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	topo, err := opts.Client.Topology(ctx, opts.Session)
	if err != nil {
		return notify.Outcome{}, fmt.Errorf("one-shot notify: %w", err)
	}

	emitter := tmux.NewEmitter(opts.Client, log)
	emitter.Observe(topo)
	plugin := notify.New(notify.Options{
		Debug:   opts.Debug,
		Presets: opts.Presets,
		Emitter: emitter,
		Logger:  log,
	})
	plugin.Prime(topo.Tabs(), topo.Manifest())

	id := uuid.NewString()
	out := plugin.Pipe(req)
	log.Info("one-shot request handled", "request_id", id, "tier", string(out.Tier),
		"renamed", out.Renamed, "reason", string(out.Reason))

	afterRequest(ctx, log, opts.Journal, opts.Hooks, id, req, out)
	return out, nil
}
