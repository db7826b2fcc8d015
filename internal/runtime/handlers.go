package runtime

import (
	"context"
	"os"
	"time"

	"github.com/cristianoliveira/tabnotify/internal/ipc"
	"github.com/cristianoliveira/tabnotify/internal/notify"
)

// Register installs the runtime's socket actions on srv.
func (r *Runtime) Register(srv *ipc.Server) {
	srv.Handle(ipc.ActionPing, func(context.Context, ipc.Request) (ipc.Response, error) {
		return ipc.Response{}, nil
	})
	srv.Handle(ipc.ActionNotify, func(ctx context.Context, req ipc.Request) (ipc.Response, error) {
		out, err := r.Notify(ctx, req.NotifyRequest())
		if err != nil {
			return ipc.Response{}, err
		}
		return ipc.Response{Outcome: ipc.NewOutcome(out)}, nil
	})
	srv.Handle(ipc.ActionStatus, func(ctx context.Context, req ipc.Request) (ipc.Response, error) {
		st, err := r.Status(ctx, req.Args[notify.ArgSessionName])
		if err != nil {
			return ipc.Response{}, err
		}
		return ipc.Response{Status: wireStatus(st)}, nil
	})
}

func wireStatus(st Status) *ipc.Status {
	out := &ipc.Status{
		PID:       os.Getpid(),
		Session:   st.Session,
		Sessions:  st.Sessions,
		Focused:   st.Focused,
		HasFocus:  st.HasFocus,
		Presets:   map[string]string(st.Presets),
		PollError: st.PollError,
		Handled:   st.Handled,
	}
	if !st.LastPoll.IsZero() {
		out.LastPoll = st.LastPoll.UTC().Format(time.RFC3339)
	}
	for _, t := range st.Tabs {
		out.Tabs = append(out.Tabs, ipc.Tab{Position: t.Position, Name: t.Name, Active: t.Active})
	}
	return out
}
