// Package resolver turns a raw HTTP request line into a response outcome and
// renders the exact response bytes for that outcome.
//
// Only the request line is inspected. Headers and bodies are ignored, and the
// resolver keeps no state between calls.
package resolver

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Sentinel errors returned while parsing a request.
var (
	ErrInvalidEncoding  = errors.New("request is not valid UTF-8")
	ErrMalformedRequest = errors.New("malformed request line")
)

// Request is the part of an HTTP request the server acts on.
type Request struct {
	Method string
	Path   string
	Proto  string // optional third token, informational only
}

// ParseRequestLine decodes the received bytes and splits the first line on
// single spaces. A line with fewer than two tokens yields ErrMalformedRequest.
func ParseRequestLine(raw []byte) (Request, error) {
	trimmed := bytes.TrimSpace(raw)
	if !utf8.Valid(trimmed) {
		return Request{}, ErrInvalidEncoding
	}

	line := string(trimmed)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}

	tokens := strings.Split(line, " ")
	if len(tokens) < 2 {
		return Request{}, fmt.Errorf("%w: %q", ErrMalformedRequest, line)
	}

	req := Request{Method: tokens[0], Path: tokens[1]}
	if len(tokens) > 2 {
		req.Proto = tokens[2]
	}
	return req, nil
}
