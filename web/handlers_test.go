package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"
)

func testStack(fsys fstest.MapFS) http.Handler {
	return Stack(fsys, log.New(io.Discard))
}

func TestStackServesFiles(t *testing.T) {
	h := testStack(fstest.MapFS{
		"index.html": {Data: []byte("<h1>home</h1>")},
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "home") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestStackGzip(t *testing.T) {
	body := strings.Repeat("compress me well. ", 200)
	h := testStack(fstest.MapFS{
		"index.html": {Data: []byte(body)},
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	if rec.Body.Len() >= len(body) {
		t.Errorf("compressed body (%d) not smaller than source (%d)", rec.Body.Len(), len(body))
	}
}

func TestErrorHandlerCustom404(t *testing.T) {
	h := testStack(fstest.MapFS{
		"index.html": {Data: []byte("home")},
		"404.html":   {Data: []byte("<h1>custom not found</h1>")},
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "custom not found") {
		t.Errorf("body = %q, want the site's own page", body)
	}
	if strings.Contains(body, "404 page not found") {
		t.Error("default error body leaked through")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestErrorHandlerDefault404(t *testing.T) {
	h := testStack(fstest.MapFS{
		"index.html": {Data: []byte("home")},
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "404") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestStatusWriterRecordsCode(t *testing.T) {
	var logged strings.Builder
	logger := log.New(&logged)
	h := LogHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), logger)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tea", nil))
	if !strings.Contains(logged.String(), "418") {
		t.Errorf("access log missing status: %q", logged.String())
	}
	if !strings.Contains(logged.String(), "/tea") {
		t.Errorf("access log missing path: %q", logged.String())
	}
}
