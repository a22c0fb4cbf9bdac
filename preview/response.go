package preview

import (
	"bytes"
	"net/http"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Response collects what a Handler produces for a single request: a status
// code, response headers and an output buffer.
//
// The output buffer is either binary or text. Writes through Write keep the
// buffer binary; the first WriteString marks it as text. Text output is
// UTF-8 encoded with ill-formed sequences replaced by U+FFFD when read back
// through Bytes.
type Response struct {
	status int
	header http.Header
	out    bytes.Buffer
	text   bool
}

// NewResponse creates an empty response with status 200.
func NewResponse() *Response {
	return &Response{
		status: http.StatusOK,
		header: make(http.Header),
	}
}

// Status returns the response status code.
func (r *Response) Status() int {
	return r.status
}

// SetStatus overrides the response status code.
func (r *Response) SetStatus(status int) {
	r.status = status
}

// Header returns the response header mapping. Handlers modify it in place.
func (r *Response) Header() http.Header {
	return r.header
}

// Write appends binary output.
func (r *Response) Write(p []byte) (int, error) {
	return r.out.Write(p)
}

// WriteString appends text output and marks the buffer as text.
func (r *Response) WriteString(s string) (int, error) {
	r.text = true
	return r.out.WriteString(s)
}

// IsText reports whether the output buffer holds text.
func (r *Response) IsText() bool {
	return r.text
}

// Bytes returns the wire representation of the output buffer.
func (r *Response) Bytes() []byte {
	if !r.text {
		return r.out.Bytes()
	}

	return encodeText(r.out.String())
}

func encodeText(s string) []byte {
	// the x/text UTF-8 encoder replaces every ill-formed byte with U+FFFD
	encoded, err := unicode.UTF8.NewEncoder().String(s)
	if err != nil {
		return []byte(strings.ToValidUTF8(s, "\uFFFD"))
	}

	return []byte(encoded)
}
