package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cristianoliveira/tabnotify/internal/logging"
)

const (
	readTimeout    = 5 * time.Second
	writeTimeout   = 5 * time.Second
	maxRequestSize = 64 * 1024
)

// ActionFunc handles one request. A returned error becomes a failure
// response; OK is set by the server.
type ActionFunc func(ctx context.Context, req Request) (Response, error)

// Server serves the request/response protocol on a unix socket.
type Server struct {
	socketPath string
	handlers   map[string]ActionFunc
	log        logging.Logger

	active sync.WaitGroup
}

// NewServer creates a server that will listen on socketPath. Register
// actions with Handle before calling Serve.
func NewServer(socketPath string, log logging.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	return &Server{
		socketPath: socketPath,
		handlers:   make(map[string]ActionFunc),
		log:        log.With("component", "ipc"),
	}
}

// Handle registers a handler for an action. Registering an action twice
// panics.
func (s *Server) Handle(action string, fn ActionFunc) {
	if _, exists := s.handlers[action]; exists {
		panic(fmt.Sprintf("ipc.Server: duplicate handler for action %q", action))
	}
	s.handlers[action] = fn
}

// Serve accepts connections until ctx is cancelled, then waits for
// in-flight requests. A stale socket file is replaced; the socket file is
// removed on return.
func (s *Server) Serve(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o700); err != nil {
		return fmt.Errorf("create socket directory: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket %s: %w", s.socketPath, err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.socketPath, err)
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(s.socketPath)
	}()

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	s.log.Info("socket server listening", "path", s.socketPath)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.log.Error("accept failed", "error", err)
			continue
		}

		s.active.Add(1)
		go func() {
			defer s.active.Done()
			s.handleConnection(ctx, conn)
		}()
	}

	s.active.Wait()
	return nil
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

	var req Request
	if err := newDecoder(io.LimitReader(conn, maxRequestSize)).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		s.write(conn, Response{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	if req.Action == "" {
		s.write(conn, Response{Error: "missing required field: action"})
		return
	}

	fn, ok := s.handlers[req.Action]
	if !ok {
		s.write(conn, Response{Error: fmt.Sprintf("unknown action %q", req.Action)})
		return
	}

	resp, err := fn(ctx, req)
	if err != nil {
		s.log.Debug("action failed", "action", req.Action, "error", err)
		s.write(conn, Response{Error: err.Error()})
		return
	}
	resp.OK = true
	resp.Error = ""
	s.write(conn, resp)
}

func (s *Server) write(conn net.Conn, resp Response) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := newEncoder(conn).Encode(resp); err != nil {
		s.log.Debug("write response failed", "error", err)
	}
}
