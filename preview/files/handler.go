// Package files implements a preview.Handler that serves pre-rendered
// documentation pages from disk.
package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/docpreview/preview"
	"github.com/lambda-feedback/docpreview/staging"
)

// textTypes lists media types outside text/* that are written as text.
var textTypes = map[string]bool{
	"application/javascript": true,
	"application/json":       true,
	"application/xml":        true,
	"image/svg+xml":          true,
}

// FactoryParams defines the dependencies for the handler factory.
type FactoryParams struct {
	fx.In

	Config Config
	Fs     afero.Fs
	Staged *staging.Dir `optional:"true"`
	Log    *zap.Logger
}

// NewFactory creates a preview.HandlerFactory serving files below the base
// path. Files missing there are looked up in the staged directory.
func NewFactory(params FactoryParams) preview.HandlerFactory {
	var fallback string
	if params.Staged != nil {
		fallback = params.Staged.Path()
	}

	index := params.Config.Index
	if index == "" {
		index = "index.html"
	}

	return func(req *preview.Request, resp *preview.Response, localPath string) preview.Handler {
		roots := []string{filepath.Join(localPath, params.Config.PublicDir)}
		if fallback != "" {
			roots = append(roots, fallback)
		}

		return &Handler{
			fs:    params.Fs,
			roots: roots,
			index: index,
			req:   req,
			resp:  resp,
			log:   params.Log,
		}
	}
}

// Handler serves one request from the first root containing the page.
type Handler struct {
	fs    afero.Fs
	roots []string
	index string
	req   *preview.Request
	resp  *preview.Response
	log   *zap.Logger
}

func (h *Handler) Get(ctx context.Context) error {
	for _, name := range candidates(h.req.Path(), h.index) {
		for _, root := range h.roots {
			if err := ctx.Err(); err != nil {
				return err
			}

			ok, err := h.serveFile(filepath.Join(root, filepath.FromSlash(name)))
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}
	}

	h.log.Debug("page not found", zap.String("path", h.req.Path()))

	h.resp.SetStatus(http.StatusNotFound)
	h.resp.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := h.resp.WriteString(h.req.Path() + " not found")

	return err
}

// serveFile writes the named file to the response. It reports false if the
// file does not exist or is a directory.
func (h *Handler) serveFile(name string) (bool, error) {
	info, err := h.fs.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if info.IsDir() {
		return false, nil
	}

	content, err := afero.ReadFile(h.fs, name)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h.resp.Header().Set("Content-Type", contentType)

	if isText(contentType) {
		_, err = h.resp.WriteString(string(content))
	} else {
		_, err = h.resp.Write(content)
	}

	return true, err
}

// candidates returns the slash-separated file names, relative to a root,
// that may hold the page for the request path.
func candidates(p, index string) []string {
	// cleaning a rooted path drops any leading ..
	clean := strings.TrimPrefix(path.Clean("/"+p), "/")

	if clean == "" || strings.HasSuffix(p, "/") {
		return []string{path.Join(clean, index)}
	}

	if path.Ext(clean) == "" {
		return []string{clean + ".html", path.Join(clean, index)}
	}

	return []string{clean}
}

func isText(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return strings.HasPrefix(mediaType, "text/") || textTypes[mediaType]
}
