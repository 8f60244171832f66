// Package server accepts TCP connections and answers exactly one request per
// connection. Each connection is served on its own goroutine; nothing is
// shared between connections except the immutable handler.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/clean-dependency-project/wwwserve/internal/resolver"
	"github.com/clean-dependency-project/wwwserve/internal/storage"
)

// DefaultBufferSize is the most the server reads from a connection.
const DefaultBufferSize = 1024

// Handler turns received bytes into a rendered response.
// *resolver.Resolver satisfies it.
type Handler interface {
	Handle(raw []byte) (resolver.Response, error)
}

// AccessRecorder persists one record per answered request.
// *storage.DB satisfies it.
type AccessRecorder interface {
	RecordAccess(record *storage.AccessRecord) error
}

// Options configures the listener and per-connection limits.
type Options struct {
	Addr         string
	BufferSize   int
	ReadTimeout  time.Duration // zero disables the deadline
	WriteTimeout time.Duration // zero disables the deadline
}

// Server serves static responses over raw TCP.
type Server struct {
	opts     Options
	handler  Handler
	recorder AccessRecorder
	logger   *slog.Logger

	wg     sync.WaitGroup
	mu     sync.Mutex
	active map[net.Conn]struct{}
}

// New returns a Server. recorder may be nil to disable the access log.
func New(opts Options, handler Handler, recorder AccessRecorder, logger *slog.Logger) *Server {
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		opts:     opts,
		handler:  handler,
		recorder: recorder,
		logger:   logger,
		active:   make(map[net.Conn]struct{}),
	}
}

// ListenAndServe binds opts.Addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes ln and
// waits for in-flight connections. It returns nil on a cancelled context.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer func() { _ = ln.Close() }()
	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
		s.interruptReads()
	})
	defer stop()

	s.logger.Info("listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.wg.Wait()
				s.logger.Info("server stopped", "addr", ln.Addr().String())
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				s.logger.Warn("temporary accept failure", "error", err)
				continue
			}
			s.wg.Wait()
			return fmt.Errorf("failed to accept connection: %w", err)
		}

		s.track(conn)
		if ctx.Err() != nil {
			_ = conn.SetReadDeadline(time.Now())
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handleConn(conn)
		}()
	}
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.active[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.active, conn)
	s.mu.Unlock()
}

// interruptReads unblocks connections still waiting for their request so
// shutdown does not hang on idle clients. Responses already being written
// are left to finish.
func (s *Server) interruptReads() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for conn := range s.active {
		_ = conn.SetReadDeadline(now)
	}
}
