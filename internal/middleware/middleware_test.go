package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRequestIDReusesInboundHeader(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen != "abc-123" || rr.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("request id = %q, header = %q", seen, rr.Header().Get(RequestIDHeader))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if len(seen) != 36 {
		t.Fatalf("expected a fresh uuid for an oversized id, got %q", seen)
	}
}

func TestLoggerWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	handler := RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/donors?cid=S4VT00033", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	for key, want := range map[string]any{
		"level":      "error",
		"request_id": "rid-1",
		"path":       "/donors",
		"query":      "cid=S4VT00033",
		"status":     float64(502),
		"bytes":      float64(8),
	} {
		if line[key] != want {
			t.Fatalf("%s = %#v, want %#v", key, line[key], want)
		}
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/politicians", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("allowed origin not echoed")
	}

	req = httptest.NewRequest(http.MethodGet, "/politicians", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected CORS header for foreign origin")
	}

	req = httptest.NewRequest(http.MethodOptions, "/donors", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rr.Code)
	}

	wildcard := CORS([]string{"*"})(http.NotFoundHandler())
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://any.example.com")
	rr = httptest.NewRecorder()
	wildcard.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "https://any.example.com" {
		t.Fatalf("wildcard did not allow origin")
	}
}
