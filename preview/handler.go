package preview

import "context"

// Handler produces a single documentation page. It is built for exactly one
// request and populates the response it was constructed with.
type Handler interface {
	Get(ctx context.Context) error
}

// HandlerFactory builds a Handler for a request/response pair and the base
// path of the documentation tree.
type HandlerFactory func(req *Request, resp *Response, localPath string) Handler

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context) error

func (f HandlerFunc) Get(ctx context.Context) error {
	return f(ctx)
}
