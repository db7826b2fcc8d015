// Package runtime hosts the notification engine against a live tmux server.
// Every session gets its own engine, the way each multiplexer session runs
// its own plugin instance. One goroutine owns all of them: it polls the
// topology, turns changes into events and handles notification requests one
// at a time.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/cristianoliveira/tabnotify/internal/history"
	"github.com/cristianoliveira/tabnotify/internal/hooks"
	"github.com/cristianoliveira/tabnotify/internal/logging"
	"github.com/cristianoliveira/tabnotify/internal/notify"
	"github.com/cristianoliveira/tabnotify/internal/tmux"
	"github.com/google/uuid"
)

// DefaultPollInterval is used when Options.PollInterval is not positive.
const DefaultPollInterval = 500 * time.Millisecond

// ErrStopped is returned by calls made after Run has returned.
var ErrStopped = errors.New("runtime stopped")

// Journal records handled requests. *history.Journal satisfies it.
type Journal interface {
	Record(ctx context.Context, e history.Entry) error
}

// Dispatcher starts hook scripts. *hooks.Runner satisfies it.
type Dispatcher interface {
	Dispatch(point string, env map[string]string)
}

// Options configures a Runtime.
type Options struct {
	Client tmux.Client
	// Session pins the runtime to one session. Empty tracks every session
	// of the server.
	Session      string
	PollInterval time.Duration
	Debug        bool
	Presets      notify.PresetTable
	Journal      Journal
	Hooks        Dispatcher
	Logger       logging.Logger
}

// Status is a copy of the engine state of one session, taken on the runtime
// goroutine.
type Status struct {
	Session   string
	Sessions  []string
	Tabs      []notify.Tab
	Focused   int
	HasFocus  bool
	Presets   notify.PresetTable
	LastPoll  time.Time
	PollError string
	Handled   int
}

type call struct {
	req   notify.Request
	reply chan notify.Outcome
}

type statusCall struct {
	session string
	reply   chan Status
}

// sessionState is the engine of one tmux session and what it last saw.
type sessionState struct {
	name         string
	emitter      *tmux.Emitter
	plugin       *notify.Plugin
	primed       bool
	lastTabs     []notify.Tab
	lastManifest notify.PaneManifest
}

// Runtime owns one notify.Plugin per tmux session and feeds them from tmux.
type Runtime struct {
	client   tmux.Client
	session  string
	interval time.Duration
	debug    bool
	presets  notify.PresetTable
	journal  Journal
	hooks    Dispatcher
	log      logging.Logger

	sessions map[string]*sessionState
	// idle answers requests while no session is known.
	idle *sessionState

	calls    chan call
	statuses chan statusCall
	done     chan struct{}

	lastPoll time.Time
	pollErr  error
	handled  int
}

// New creates a Runtime. It does nothing until Run is called.
func New(opts Options) *Runtime {
	if opts.Client == nil {
		panic("runtime.New: tmux client dependency cannot be nil")
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	r := &Runtime{
		client:   opts.Client,
		session:  opts.Session,
		interval: interval,
		debug:    opts.Debug,
		presets:  opts.Presets,
		journal:  opts.Journal,
		hooks:    opts.Hooks,
		log:      log.With("component", "runtime"),
		sessions: map[string]*sessionState{},
		calls:    make(chan call),
		statuses: make(chan statusCall),
		done:     make(chan struct{}),
	}
	r.idle = r.newSession(opts.Session)
	return r
}

func (r *Runtime) newSession(name string) *sessionState {
	log := r.log
	if name != "" {
		log = log.With("session", name)
	}
	emitter := tmux.NewEmitter(r.client, log)
	return &sessionState{
		name:    name,
		emitter: emitter,
		plugin: notify.New(notify.Options{
			Debug:   r.debug,
			Presets: r.presets,
			Emitter: emitter,
			Logger:  log,
		}),
	}
}

// Run polls tmux and serves requests until ctx is cancelled.
func (r *Runtime) Run(ctx context.Context) error {
	defer close(r.done)

	r.log.Info("runtime started", "session", r.session, "poll_interval", r.interval.String())
	r.poll(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("runtime stopped", "handled", r.handled)
			return nil
		case <-ticker.C:
			r.poll(ctx)
		case c := <-r.calls:
			c.reply <- r.handle(ctx, c.req)
		case c := <-r.statuses:
			c.reply <- r.status(ctx, c.session)
		}
	}
}

// Notify hands a request to the engine and waits for its outcome.
func (r *Runtime) Notify(ctx context.Context, req notify.Request) (notify.Outcome, error) {
	c := call{req: req, reply: make(chan notify.Outcome, 1)}
	select {
	case r.calls <- c:
	case <-r.done:
		return notify.Outcome{}, ErrStopped
	case <-ctx.Done():
		return notify.Outcome{}, fmt.Errorf("notify: %w", ctx.Err())
	}
	select {
	case out := <-c.reply:
		return out, nil
	case <-ctx.Done():
		return notify.Outcome{}, fmt.Errorf("notify: %w", ctx.Err())
	}
}

// Status returns a copy of the engine state of session. An empty or unknown
// session reports the default one.
func (r *Runtime) Status(ctx context.Context, session string) (Status, error) {
	c := statusCall{session: session, reply: make(chan Status, 1)}
	select {
	case r.statuses <- c:
	case <-r.done:
		return Status{}, ErrStopped
	case <-ctx.Done():
		return Status{}, fmt.Errorf("status: %w", ctx.Err())
	}
	select {
	case st := <-c.reply:
		return st, nil
	case <-ctx.Done():
		return Status{}, fmt.Errorf("status: %w", ctx.Err())
	}
}

// handle refreshes the topology, picks the session the request belongs to
// and pipes the request through its engine.
func (r *Runtime) handle(ctx context.Context, req notify.Request) notify.Outcome {
	id := uuid.NewString()
	r.poll(ctx)

	st := r.route(ctx, req)
	if st.name != "" && req.Args[notify.ArgSessionName] != st.name {
		req.Args = maps.Clone(req.Args)
		if req.Args == nil {
			req.Args = map[string]string{}
		}
		req.Args[notify.ArgSessionName] = st.name
	}

	out := st.plugin.Pipe(req)
	r.handled++
	r.log.Info("request handled", "request_id", id, "session", st.name, "name", req.Name, "tier", string(out.Tier),
		"position", out.Position, "renamed", out.Renamed, "reason", string(out.Reason))

	afterRequest(ctx, r.log, r.journal, r.hooks, id, req, out)
	return out
}

// route picks the session engine for req. A session named by the request
// wins when it holds the request's pane (or no pane is given); otherwise the
// session holding the pane; otherwise the named session; otherwise the
// default session.
func (r *Runtime) route(ctx context.Context, req notify.Request) *sessionState {
	name := req.Args[notify.ArgSessionName]
	pane := req.Args[notify.ArgPaneID]

	named, hasNamed := r.sessions[name]
	if hasNamed && (pane == "" || named.hasPane(pane)) {
		return named
	}
	if pane != "" {
		for _, n := range r.sessionNames() {
			if st := r.sessions[n]; st.hasPane(pane) {
				return st
			}
		}
	}
	if hasNamed {
		return named
	}
	return r.defaultSession(ctx)
}

// defaultSession is the only tracked session, the pinned one, or the one
// tmux considers current. Without any, requests go to an empty engine.
func (r *Runtime) defaultSession(ctx context.Context) *sessionState {
	if len(r.sessions) == 1 {
		for _, st := range r.sessions {
			return st
		}
	}
	if st, ok := r.sessions[r.session]; ok {
		return st
	}
	if len(r.sessions) > 1 {
		name, err := r.client.CurrentSession(ctx)
		if err != nil {
			r.log.Debug("unable to resolve current session", "error", err)
		} else if st, ok := r.sessions[name]; ok {
			return st
		}
		return r.sessions[r.sessionNames()[0]]
	}
	return r.idle
}

func (r *Runtime) sessionNames() []string {
	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// afterRequest journals a handled request and runs post-notify hooks when a
// tab was marked. Failures are logged only.
func afterRequest(ctx context.Context, log logging.Logger, journal Journal, dispatcher Dispatcher, id string, req notify.Request, out notify.Outcome) {
	if journal != nil && !out.Ignored {
		if err := journal.Record(ctx, history.FromOutcome(id, req, out)); err != nil {
			log.Warn("failed to record history", "request_id", id, "error", err)
		}
	}
	if dispatcher != nil && out.Renamed {
		dispatcher.Dispatch(hooks.PostNotify, hooks.NotifyEnv(id, req, out))
	}
}

// poll fetches the topology of every tracked session. Sessions that
// disappeared are dropped; new ones get a fresh engine.
func (r *Runtime) poll(ctx context.Context) {
	r.lastPoll = time.Now()
	names, err := r.listSessions(ctx)
	if err != nil {
		r.pollFailed(err)
		return
	}

	var failed error
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
		topo, err := r.client.Topology(ctx, name)
		if err != nil {
			if failed == nil {
				failed = err
			}
			continue
		}
		st, ok := r.sessions[name]
		if !ok {
			st = r.newSession(name)
			r.sessions[name] = st
			r.log.Debug("tracking session", "session", name)
		}
		st.observe(topo)
	}
	for name := range r.sessions {
		if !seen[name] {
			delete(r.sessions, name)
			r.log.Debug("session closed", "session", name)
		}
	}

	if failed != nil {
		r.pollFailed(failed)
		return
	}
	if r.pollErr != nil {
		r.log.Info("tmux topology available again")
		r.pollErr = nil
	}
}

func (r *Runtime) listSessions(ctx context.Context) ([]string, error) {
	if r.session != "" {
		return []string{r.session}, nil
	}
	return r.client.Sessions(ctx)
}

func (r *Runtime) pollFailed(err error) {
	if r.pollErr == nil || r.pollErr.Error() != err.Error() {
		r.log.Warn("failed to poll tmux topology", "error", err)
	}
	r.pollErr = err
}

// observe pushes an event for each part of topo that changed. Panes go
// first so that a request arriving right after a new pane resolves.
func (s *sessionState) observe(topo tmux.Topology) {
	s.emitter.Observe(topo)
	tabs := topo.Tabs()
	manifest := topo.Manifest()

	if !s.primed || !manifestEqual(manifest, s.lastManifest) {
		s.plugin.Update(notify.PaneUpdate{Manifest: manifest})
		s.lastManifest = manifest
	}
	if !s.primed || !slices.Equal(tabs, s.lastTabs) {
		s.plugin.Update(notify.TabUpdate{Tabs: tabs})
		s.lastTabs = tabs
	}
	s.primed = true
}

func (s *sessionState) hasPane(id string) bool {
	for _, panes := range s.lastManifest {
		for _, p := range panes {
			if p.ID == id {
				return true
			}
		}
	}
	return false
}

func (r *Runtime) status(ctx context.Context, session string) Status {
	st, ok := r.sessions[session]
	if !ok {
		st = r.defaultSession(ctx)
	}
	snap := st.plugin.Snapshot()
	focused, hasFocus := snap.FocusedPosition()
	out := Status{
		Session:  st.name,
		Sessions: r.sessionNames(),
		Tabs:     snap.Tabs(),
		Focused:  focused,
		HasFocus: hasFocus,
		Presets:  snap.Presets(),
		LastPoll: r.lastPoll,
		Handled:  r.handled,
	}
	if r.pollErr != nil {
		out.PollError = r.pollErr.Error()
	}
	return out
}

func manifestEqual(a, b notify.PaneManifest) bool {
	return maps.EqualFunc(a, b, func(x, y []notify.PaneRecord) bool {
		return slices.Equal(x, y)
	})
}
