package preview

import "net/http"

// Request is the page request handed to a Handler. It carries the request
// path and an (empty) header mapping, and is never modified once built.
type Request struct {
	path   string
	header http.Header
}

// NewRequest creates a request for the given path.
func NewRequest(path string) *Request {
	return &Request{
		path:   path,
		header: make(http.Header),
	}
}

// Path returns the request path, without query or fragment.
func (r *Request) Path() string {
	return r.path
}

// Header returns a copy of the request headers.
func (r *Request) Header() http.Header {
	return r.header.Clone()
}
