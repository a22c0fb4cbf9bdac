package preview_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lambda-feedback/docpreview/preview"
)

type call struct {
	path      string
	localPath string
}

// recordingFactory returns a factory that records every invocation and
// runs render against the response.
func recordingFactory(calls *[]call, render func(*preview.Response) error) preview.HandlerFactory {
	var mu sync.Mutex
	return func(req *preview.Request, resp *preview.Response, localPath string) preview.Handler {
		return preview.HandlerFunc(func(context.Context) error {
			mu.Lock()
			*calls = append(*calls, call{path: req.Path(), localPath: localPath})
			mu.Unlock()
			return render(resp)
		})
	}
}

func newAdapter(t *testing.T, factory preview.HandlerFactory, serial bool) *preview.Adapter {
	return preview.NewAdapter(preview.AdapterParams{
		Config: preview.Config{
			Root:   preview.LocalPath("/src/chrome/common/extensions/docs/server2/preview"),
			Serial: serial,
		},
		Factory: factory,
		Log:     zaptest.NewLogger(t),
	})
}

func serve(adapter http.Handler, method, target string) (*http.Response, []byte) {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()

	adapter.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)

	return res, body
}

func TestAdapter_ServeHTTP_InvokesHandler(t *testing.T) {
	var calls []call
	adapter := newAdapter(t, recordingFactory(&calls, func(resp *preview.Response) error {
		_, err := resp.WriteString("<h1>tabs</h1>")
		return err
	}), true)

	res, body := serve(adapter, http.MethodGet, "/tabs.html?lang=en#events")

	require.Len(t, calls, 1)
	assert.Equal(t, "/tabs.html", calls[0].path)
	assert.Equal(t, "/src/chrome/common/extensions", calls[0].localPath)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "<h1>tabs</h1>", string(body))
	assert.NotEmpty(t, res.Header.Get("X-Request-Id"))
}

func TestAdapter_ServeHTTP_WritesBinaryUnchanged(t *testing.T) {
	content := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}

	var calls []call
	adapter := newAdapter(t, recordingFactory(&calls, func(resp *preview.Response) error {
		_, err := resp.Write(content)
		return err
	}), true)

	_, body := serve(adapter, http.MethodGet, "/images/icon.png")

	assert.Equal(t, content, body)
}

func TestAdapter_ServeHTTP_EncodesText(t *testing.T) {
	var calls []call
	adapter := newAdapter(t, recordingFactory(&calls, func(resp *preview.Response) error {
		_, err := resp.WriteString("ünï \xff")
		return err
	}), true)

	_, body := serve(adapter, http.MethodGet, "/i18n.html")

	assert.Equal(t, "ünï �", string(body))
}

func TestAdapter_ServeHTTP_StatusAndHeaders(t *testing.T) {
	var calls []call
	adapter := newAdapter(t, recordingFactory(&calls, func(resp *preview.Response) error {
		resp.SetStatus(http.StatusNotFound)
		resp.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, err := resp.WriteString("/missing.html not found")
		return err
	}), true)

	res, body := serve(adapter, http.MethodGet, "/missing.html")

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", res.Header.Get("Content-Type"))
	assert.Equal(t, "/missing.html not found", string(body))
}

func TestAdapter_ServeHTTP_Head(t *testing.T) {
	var calls []call
	adapter := newAdapter(t, recordingFactory(&calls, func(resp *preview.Response) error {
		_, err := resp.WriteString("<h1>tabs</h1>")
		return err
	}), true)

	res, body := serve(adapter, http.MethodHead, "/tabs.html")

	assert.Len(t, calls, 1)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, body)
}

func TestAdapter_ServeHTTP_InvalidMethod(t *testing.T) {
	var calls []call
	adapter := newAdapter(t, recordingFactory(&calls, func(*preview.Response) error {
		return nil
	}), true)

	res, _ := serve(adapter, http.MethodPost, "/tabs.html")

	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	assert.Equal(t, "GET, HEAD", res.Header.Get("Allow"))
	assert.Empty(t, calls)
}

func TestAdapter_ServeHTTP_HandlerError(t *testing.T) {
	fail := true

	var calls []call
	adapter := newAdapter(t, recordingFactory(&calls, func(resp *preview.Response) error {
		if fail {
			_, _ = resp.WriteString("partial")
			return errors.New("template missing")
		}
		_, err := resp.WriteString("ok")
		return err
	}), true)

	res, body := serve(adapter, http.MethodGet, "/broken.html")

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.NotContains(t, string(body), "partial")

	// the adapter keeps serving after a failed page
	fail = false
	res, body = serve(adapter, http.MethodGet, "/tabs.html")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestAdapter_ServeHTTP_HandlerPanic(t *testing.T) {
	var calls []call
	adapter := newAdapter(t, recordingFactory(&calls, func(*preview.Response) error {
		panic("nil template")
	}), true)

	var res *http.Response
	assert.NotPanics(t, func() {
		res, _ = serve(adapter, http.MethodGet, "/tabs.html")
	})

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestAdapter_ServeHTTP_Serial(t *testing.T) {
	var inFlight, maxInFlight int32

	factory := func(req *preview.Request, resp *preview.Response, localPath string) preview.Handler {
		return preview.HandlerFunc(func(context.Context) error {
			n := atomic.AddInt32(&inFlight, 1)
			defer atomic.AddInt32(&inFlight, -1)

			for {
				m := atomic.LoadInt32(&maxInFlight)
				if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
					break
				}
			}

			time.Sleep(5 * time.Millisecond)
			return nil
		})
	}

	adapter := newAdapter(t, factory, true)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serve(adapter, http.MethodGet, "/tabs.html")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
}

func TestAdapter_ServeHTTP_InvalidStatus(t *testing.T) {
	for _, status := range []int{0, 42, 1000, -1} {
		t.Run(fmt.Sprint(status), func(t *testing.T) {
			var calls []call
			adapter := newAdapter(t, recordingFactory(&calls, func(resp *preview.Response) error {
				resp.SetStatus(status)
				_, err := resp.WriteString("<h1>tabs</h1>")
				return err
			}), true)

			var res *http.Response
			var body []byte
			assert.NotPanics(t, func() {
				res, body = serve(adapter, http.MethodGet, "/tabs.html")
			})

			assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
			assert.NotContains(t, string(body), "tabs")
		})
	}
}
