// Package handler contains the HTTP handlers of the Skillverse API and the
// static hosting of the single-page app.
//
// Handlers only translate between HTTP and the service layer: they decode the
// request, call one service method and write JSON. Status codes come from the
// apperror kind (see response.go).
package handler

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// SPAHandler serves the built frontend. Paths that do not name a file fall
// back to index.html so the client router can render them, except under
// /api/, where an unknown route is a JSON 404.
type SPAHandler struct {
	dir    string
	files  http.Handler
	logger *slog.Logger
}

func NewSPAHandler(dir string, logger *slog.Logger) *SPAHandler {
	return &SPAHandler{
		dir:    dir,
		files:  http.FileServer(http.Dir(dir)),
		logger: logger,
	}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
		NotFoundAPI(w, r)
		return
	}

	// http.ServeFile rejects any path holding "..", so everything below sees
	// the cleaned path. Cleaning against "/" also keeps lookups inside h.dir.
	clean := path.Clean("/" + r.URL.Path)
	r = withPath(r, clean)
	info, err := os.Stat(filepath.Join(h.dir, filepath.FromSlash(clean)))
	if err == nil && !info.IsDir() {
		h.files.ServeHTTP(w, r)
		return
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		h.logger.Warn("stat static file", slog.String("path", clean), slog.String("error", err.Error()))
	}

	index := filepath.Join(h.dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, index)
}

func withPath(r *http.Request, p string) *http.Request {
	if r.URL.Path == p {
		return r
	}
	r2 := new(http.Request)
	*r2 = *r
	u := *r.URL
	u.Path = p
	u.RawPath = ""
	r2.URL = &u
	return r2
}

// NotFoundAPI is the 404 for unknown API routes.
func NotFoundAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Error:   "not_found",
		Message: "no route for " + r.Method + " " + r.URL.Path,
	})
}
