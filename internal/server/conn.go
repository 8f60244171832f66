package server

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/clean-dependency-project/wwwserve/internal/resolver"
	"github.com/clean-dependency-project/wwwserve/internal/storage"
)

// Unread request bytes are drained for at most this long after the response
// so closing does not reset the connection under the client.
const (
	drainTimeout = 250 * time.Millisecond
	drainLimit   = 64 << 10
)

// handleConn reads once, answers once and closes. Requests that cannot be
// parsed, and 200s whose file cannot be read, are closed without a reply.
func (s *Server) handleConn(conn net.Conn) {
	defer closeConn(conn)

	start := time.Now()
	remote := conn.RemoteAddr().String()

	if s.opts.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(start.Add(s.opts.ReadTimeout))
	}

	buf := make([]byte, s.opts.BufferSize)
	n, err := conn.Read(buf)
	if n == 0 {
		s.logger.Debug("connection closed before request", "remote", remote, "error", err)
		return
	}

	resp, err := s.handler.Handle(buf[:n])
	if err != nil {
		if errors.Is(err, resolver.ErrMalformedRequest) || errors.Is(err, resolver.ErrInvalidEncoding) {
			s.logger.Debug("dropping malformed request", "remote", remote, "error", err)
		} else {
			s.logger.Warn("failed to build response",
				"remote", remote,
				"method", resp.Request.Method,
				"path", resp.Request.Path,
				"error", err)
		}
		return
	}

	if s.opts.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}
	// net.Conn.Write only returns early with an error.
	if _, err := conn.Write(resp.Payload); err != nil {
		s.logger.Warn("failed to write response",
			"remote", remote,
			"status", resp.Status,
			"error", err)
		return
	}

	duration := time.Since(start)
	s.logger.Info("request served",
		"remote", remote,
		"method", resp.Request.Method,
		"path", resp.Request.Path,
		"status", resp.Status,
		"bytes", len(resp.Payload),
		"duration_ms", duration.Milliseconds())

	s.record(&storage.AccessRecord{
		RemoteAddr: remote,
		Method:     resp.Request.Method,
		Path:       resp.Request.Path,
		Proto:      resp.Request.Proto,
		Status:     resp.Status,
		Bytes:      len(resp.Payload),
		DurationMs: duration.Milliseconds(),
		CreatedAt:  start.UTC(),
	})
}

// record never affects the response; failures are only logged.
func (s *Server) record(rec *storage.AccessRecord) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordAccess(rec); err != nil {
		s.logger.Error("failed to record access",
			"remote", rec.RemoteAddr,
			"path", rec.Path,
			"error", err)
	}
}

// closeConn shuts down the write side, discards pending input and closes.
func closeConn(conn net.Conn) {
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.CloseWrite()
		_ = tcp.SetReadDeadline(time.Now().Add(drainTimeout))
		_, _ = io.Copy(io.Discard, io.LimitReader(tcp, drainLimit))
	}
	_ = conn.Close()
}
