package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fathomhq/fathom/internal/agent"
)

type fakeProcessor struct {
	resp *agent.Response
	err  error
}

func (f *fakeProcessor) ProcessQuery(_ context.Context, _ string) (*agent.Response, error) {
	return f.resp, f.err
}

func newTestServer(t *testing.T, p QueryProcessor) *Server {
	t.Helper()
	return New(Config{Addr: ":0", StaticDir: t.TempDir()}, p)
}

func postChat(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestChatSuccessWithImage(t *testing.T) {
	s := newTestServer(t, &fakeProcessor{resp: &agent.Response{Text: "Here you go.", ImageFile: "plot_ab12cd34.png"}})
	w := postChat(t, s, `{"message":"plot fares"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ChatResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Response != "Here you go." {
		t.Fatalf("response = %q", resp.Response)
	}
	if resp.ImageURL == nil || *resp.ImageURL != "/static/plot_ab12cd34.png" {
		t.Fatalf("image_url = %v", resp.ImageURL)
	}
}

func TestChatTextOnlyHasNullImage(t *testing.T) {
	s := newTestServer(t, &fakeProcessor{resp: &agent.Response{Text: "42"}})
	w := postChat(t, s, `{"message":"how many?"}`)
	var raw map[string]any
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, ok := raw["image_url"]; !ok || v != nil {
		t.Fatalf("image_url = %v, want explicit null", v)
	}
}

func TestChatEmptyMessageRejected(t *testing.T) {
	s := newTestServer(t, &fakeProcessor{resp: &agent.Response{Text: "x"}})
	w := postChat(t, s, `{"message":"   "}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}

func TestChatErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"no api key", agent.ErrNoAPIKey, http.StatusServiceUnavailable},
		{"quota exhausted", &agent.QuotaExhaustedError{Tried: 4}, http.StatusServiceUnavailable},
		{"backend error", &agent.BackendError{Model: "m", Err: context.DeadlineExceeded}, http.StatusBadGateway},
		{"execution failed answered in band", &agent.ExecutionFailedError{Detail: "NameError"}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, &fakeProcessor{err: tc.err})
			w := postChat(t, s, `{"message":"q"}`)
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			// Error detail must never reach the client verbatim.
			if strings.Contains(w.Body.String(), "NameError") {
				t.Fatalf("error detail leaked: %s", w.Body.String())
			}
		})
	}
}

func TestStaticServesOnlyPlotNames(t *testing.T) {
	s := newTestServer(t, &fakeProcessor{resp: &agent.Response{Text: "x"}})
	plot := filepath.Join(s.config.StaticDir, "plot_ab12cd34.png")
	if err := os.WriteFile(plot, []byte("PNGDATA"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/static/plot_ab12cd34.png", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "PNGDATA" {
		t.Fatalf("status = %d body = %q", w.Code, w.Body.String())
	}

	for _, path := range []string{"/static/../config.yaml", "/static/evil.png", "/static/plot_zz.png"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			t.Fatalf("%s unexpectedly served", path)
		}
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeProcessor{resp: &agent.Response{Text: "x"}})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &fakeProcessor{resp: &agent.Response{Text: "x"}})
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("CORS header missing")
	}
}
