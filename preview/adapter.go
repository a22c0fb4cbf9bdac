package preview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrInvalidStatus    = errors.New("invalid status code")
)

// AdapterParams defines the dependencies for the adapter.
type AdapterParams struct {
	fx.In

	Config  Config
	Factory HandlerFactory
	Log     *zap.Logger
}

// Adapter serves documentation pages over http by delegating each request
// to a Handler built by the configured factory.
type Adapter struct {
	factory   HandlerFactory
	localPath string
	serial    bool
	mu        sync.Mutex
	log       *zap.Logger
}

// NewAdapter creates a new adapter.
func NewAdapter(params AdapterParams) *Adapter {
	return &Adapter{
		factory:   params.Factory,
		localPath: params.Config.Root,
		serial:    params.Config.Serial,
		log:       params.Log,
	}
}

func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	log := a.log.With(
		zap.String("request_id", requestID),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)

	w.Header().Set("X-Request-Id", requestID)

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		log.Debug("invalid method")
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, ErrMethodNotAllowed.Error(), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	request := NewRequest(r.URL.Path)
	response := NewResponse()

	if err := a.handle(r.Context(), request, response); err != nil {
		a.fail(w, r, log, err)
		return
	}

	// net/http panics on codes it cannot write
	if status := response.Status(); status < 100 || status > 999 {
		a.fail(w, r, log, fmt.Errorf("%w: %d", ErrInvalidStatus, status))
		return
	}

	body := response.Bytes()

	// Map response headers
	for k, v := range response.Header() {
		for _, vv := range v {
			w.Header().Add(k, vv)
		}
	}

	w.WriteHeader(response.Status())

	if r.Method == http.MethodHead {
		return
	}

	if _, err := w.Write(body); err != nil {
		log.Debug("failed to write response", zap.Error(err))
		return
	}

	log.Debug("served page",
		zap.Int("status", response.Status()),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)),
	)
}

// handle runs the handler for a single request, turning a panic into an
// error so that one broken page does not take down the connection.
func (a *Adapter) handle(ctx context.Context, req *Request, resp *Response) (err error) {
	if a.serial {
		a.mu.Lock()
		defer a.mu.Unlock()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return a.factory(req, resp, a.localPath).Get(ctx)
}

func (a *Adapter) fail(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	log.Error("failed to render page", zap.Error(err))
	captureError(r.Context(), err)
	http.Error(w, "failed to render page", http.StatusInternalServerError)
}

func captureError(ctx context.Context, err error) {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}

	sentry.CaptureException(err)
}
