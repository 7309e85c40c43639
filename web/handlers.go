// Package web wires the HTTP middleware used by the development and
// preview servers: gzip compression, custom error pages rendered from the
// site's own content, and access logging.
package web

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/charmbracelet/log"
)

// Stack composes the standard kele handler chain around a file server for
// fsys: access logging, gzip, and error pages served from 404.html and
// 500.html inside fsys when the site provides them.
func Stack(fsys fs.FS, logger *log.Logger) http.Handler {
	return LogHandler(
		gziphandler.GzipHandler(
			ErrorHandler(
				http.FileServer(http.FS(fsys)),
				fsys,
			),
		),
		logger,
	)
}

// LogHandler logs one line per request.
func LogHandler(h http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(sw, r)
		logger.Info("request", "method", r.Method, "path", r.URL.Path, "status", sw.status, "took", time.Since(start).Round(time.Millisecond))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// ErrorHandler intercepts 404 and 500 responses and serves the site's own
// 404.html or 500.html instead, when present in fsys.
func ErrorHandler(h http.Handler, fsys fs.FS) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(&errorWriter{ResponseWriter: w, fsys: fsys}, r)
	})
}

type errorWriter struct {
	http.ResponseWriter
	fsys     fs.FS
	replaced bool
	err      error
}

func (w *errorWriter) Write(b []byte) (int, error) {
	if w.replaced {
		// the original handler's error body is discarded
		return len(b), w.err
	}
	return w.ResponseWriter.Write(b)
}

func (w *errorWriter) WriteHeader(statusCode int) {
	var page string
	switch statusCode {
	case http.StatusNotFound:
		page = "404.html"
	case http.StatusInternalServerError:
		page = "500.html"
	}
	if page != "" {
		if b, err := fs.ReadFile(w.fsys, page); err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Del("X-Content-Type-Options")
			w.ResponseWriter.WriteHeader(statusCode)
			w.replaced = true
			_, w.err = w.ResponseWriter.Write(b)
			return
		}
	}
	w.ResponseWriter.WriteHeader(statusCode)
}
