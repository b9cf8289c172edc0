package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sensordash/sensordash/internal/backend"
	"github.com/sensordash/sensordash/internal/config"
	"github.com/sensordash/sensordash/internal/dashboard"
)

// stubFetcher serves canned data so handler tests can drive a real controller
type stubFetcher struct {
	devices  []backend.Device
	readings []backend.Reading
}

func (f *stubFetcher) ListDevices(ctx context.Context) ([]backend.Device, error) {
	return f.devices, nil
}

func (f *stubFetcher) FetchReadings(ctx context.Context, device string, limit int) ([]backend.Reading, error) {
	return f.readings, nil
}

func newTestServer(t *testing.T) (*Server, *dashboard.Controller) {
	t.Helper()
	f := &stubFetcher{
		devices:  []backend.Device{{Name: "alpha"}, {Name: "beta"}},
		readings: []backend.Reading{{Topic: "sensors/temp", Payload: backend.Payload{Raw: "21.5"}}},
	}
	ctrl := dashboard.New(f, time.Hour, 50, zerolog.Nop())
	t.Cleanup(ctrl.Close)
	ctrl.LoadDevices(context.Background())

	srv := NewServer(ctrl, config.ServerConfig{Port: 8088}, zerolog.Nop())
	return srv, ctrl
}

func postForm(t *testing.T, handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleDashboard(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"alpha", "beta", "sensors/temp", "Loaded 1 readings for alpha"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestHandleSelect(t *testing.T) {
	srv, ctrl := newTestServer(t)
	handler := srv.Handler()

	rec := postForm(t, handler, "/select", url.Values{"device": {"beta"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /select status = %d, want 303", rec.Code)
	}
	if got := ctrl.Snapshot().Selected; got != "beta" {
		t.Errorf("Selected = %q, want beta", got)
	}
}

func TestHandleLimit(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"25", 25},
		{"0", 1},
		{"-10", 1},
		{"501", 500},
		{"banana", 1},
		{"", 1},
	}

	srv, ctrl := newTestServer(t)
	handler := srv.Handler()

	for _, tt := range tests {
		rec := postForm(t, handler, "/limit", url.Values{"limit": {tt.input}})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("POST /limit status = %d, want 303", rec.Code)
		}
		if got := ctrl.Snapshot().Limit; got != tt.want {
			t.Errorf("limit input %q: limit = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestHandleRefresh(t *testing.T) {
	srv, ctrl := newTestServer(t)
	handler := srv.Handler()

	rec := postForm(t, handler, "/refresh", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /refresh status = %d, want 303", rec.Code)
	}
	if got := ctrl.Snapshot().Status; !strings.Contains(got, "Loaded 1 readings") {
		t.Errorf("Status = %q, want a count summary after refresh", got)
	}
}

func TestStateAPI(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/state status = %d, want 200", rec.Code)
	}

	var state dashboard.State
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("state response is not valid JSON: %v", err)
	}
	if state.Selected != "alpha" || len(state.Devices) != 2 {
		t.Errorf("state = %+v, want selected alpha with 2 devices", state)
	}
}

func TestDevicesAPI(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/devices", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp struct {
		Devices  []string `json:"devices"`
		Count    int      `json:"count"`
		Selected string   `json:"selected"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("devices response is not valid JSON: %v", err)
	}
	if resp.Count != 2 || resp.Selected != "alpha" {
		t.Errorf("devices response = %+v", resp)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestFormEndpointsRejectGet(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	for _, path := range []string{"/select", "/limit", "/refresh", "/devices/reload"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s status = %d, want 405", path, rec.Code)
		}
	}
}
