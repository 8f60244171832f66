package resolver

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
)

const crlf = "\r\n"

// Fixed bodies for the error statuses.
const (
	NotFoundBody         = "<!DOCTYPE html><head><meta charset='UTF-8'></head><html><body><h1>404 Not Found</h1></body></html>\n"
	MethodNotAllowedBody = "<!DOCTYPE html><head><meta charset='UTF-8'></head><html><body><h1>405 Method Not Allowed</h1></body></html>\n"
)

// MIME types the server knows about.
const (
	MIMEHTML  = "text/html"
	MIMECSS   = "text/css"
	MIMEPlain = "text/plain"
)

// ErrUnknownOutcome is returned by Render for an Outcome it cannot render.
var ErrUnknownOutcome = errors.New("unknown outcome")

// ContentType infers a MIME type from the path suffix.
func ContentType(path string) string {
	switch {
	case isHTML(path):
		return MIMEHTML
	case isCSS(path):
		return MIMECSS
	default:
		return MIMEPlain
	}
}

// Render produces the complete response for o. For OK it reads the file; a
// read failure is returned as an error and nothing should be sent.
func (r *Resolver) Render(o Outcome) ([]byte, error) {
	var buf bytes.Buffer

	switch o := o.(type) {
	case OK:
		body, err := r.fs.ReadFile(o.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", o.Path, err)
		}
		writeStatusLine(&buf, o.Status())
		writeHeader(&buf, "Content-Type", ContentType(o.Path))
		writeHeader(&buf, "Connection", "close")
		buf.WriteString(crlf)
		buf.Write(body)
	case MovedPermanently:
		writeStatusLine(&buf, o.Status())
		writeHeader(&buf, "Location", o.Location)
		buf.WriteString(crlf)
	case NotFound:
		writeHTMLPage(&buf, o.Status(), NotFoundBody)
	case MethodNotAllowed:
		writeHTMLPage(&buf, o.Status(), MethodNotAllowedBody)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownOutcome, o)
	}

	return buf.Bytes(), nil
}

func writeStatusLine(buf *bytes.Buffer, code int) {
	fmt.Fprintf(buf, "HTTP/1.1 %d %s%s", code, http.StatusText(code), crlf)
}

func writeHeader(buf *bytes.Buffer, name, value string) {
	buf.WriteString(name + ": " + value + crlf)
}

func writeHTMLPage(buf *bytes.Buffer, code int, body string) {
	writeStatusLine(buf, code)
	writeHeader(buf, "Content-Type", MIMEHTML)
	writeHeader(buf, "Connection", "close")
	buf.WriteString(crlf)
	buf.WriteString(body)
}
