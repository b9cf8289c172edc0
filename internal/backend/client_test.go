package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, zerolog.Nop())
}

func TestListDevices_NameFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/devices" {
			t.Errorf("path = %q, want /devices", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"device_name": "alpha"},
			{"device": "beta"},
			{"deviceName": "gamma"},
			"delta",
			{"unrelated": 42}
		]`))
	})

	devices, err := client.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices() error = %v", err)
	}

	want := []string{"alpha", "beta", "gamma", "delta"}
	if len(devices) != len(want) {
		t.Fatalf("got %d devices, want %d", len(devices), len(want))
	}
	for i, name := range want {
		if devices[i].Name != name {
			t.Errorf("devices[%d].Name = %q, want %q", i, devices[i].Name, name)
		}
	}
}

func TestListDevices_PrefersDeviceNameKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"device": "second", "device_name": "first", "deviceName": "third"}]`))
	})

	devices, err := client.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices() error = %v", err)
	}
	if len(devices) != 1 || devices[0].Name != "first" {
		t.Errorf("got %v, want single device named %q", devices, "first")
	}
}

func TestListDevices_Non2xx(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ListDevices(context.Background())
	if err == nil {
		t.Fatal("ListDevices() expected error for 500 response")
	}
	if !errors.Is(err, ErrStatus) {
		t.Errorf("error = %v, want ErrStatus", err)
	}
}

func TestListDevices_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	})

	_, err := client.ListDevices(context.Background())
	if !errors.Is(err, ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", err)
	}
}

func TestFetchReadings_RequestShape(t *testing.T) {
	var gotPath, gotLimit string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"data": [], "count": 0}`))
	})

	_, err := client.FetchReadings(context.Background(), "room 1/sensor", 25)
	if err != nil {
		t.Fatalf("FetchReadings() error = %v", err)
	}

	if gotPath != "/devices/room%201%2Fsensor/data" {
		t.Errorf("path = %q, want percent-encoded device name", gotPath)
	}
	if gotLimit != "25" {
		t.Errorf("limit = %q, want %q", gotLimit, "25")
	}
}

func TestFetchReadings_Rows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": [
				{"topic": "t1", "payload_json": "{\"a\":1}", "timestamp": "2024-01-01T00:00:00Z"},
				{"topic": "t2", "payload_json": {"b": 2}, "created_at": "2024-01-02T00:00:00Z"},
				{"topic": "t3", "payload_json": "not json at all", "createdAt": "2024-01-03T00:00:00Z"},
				{"topic": "t4", "payload_raw": "raw only", "timestamp": "not a time"}
			],
			"count": 4
		}`))
	})

	readings, err := client.FetchReadings(context.Background(), "sensor-1", 10)
	if err != nil {
		t.Fatalf("FetchReadings() error = %v", err)
	}
	if len(readings) != 4 {
		t.Fatalf("got %d readings, want 4", len(readings))
	}

	r0 := readings[0]
	if r0.Topic != "t1" {
		t.Errorf("readings[0].Topic = %q, want t1", r0.Topic)
	}
	if !r0.Payload.IsJSON() {
		t.Error("readings[0] payload should be parsed JSON")
	}
	if got := r0.Payload.Display(); got != `{"a":1}` {
		t.Errorf("readings[0] display = %q, want round-tripped JSON", got)
	}
	wantTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !r0.Time.Equal(wantTime) {
		t.Errorf("readings[0].Time = %v, want %v", r0.Time, wantTime)
	}

	if !readings[1].Payload.IsJSON() {
		t.Error("readings[1] object payload should be parsed")
	}
	if readings[1].Time.IsZero() {
		t.Error("readings[1] should pick timestamp from created_at")
	}

	if readings[2].Payload.IsJSON() {
		t.Error("readings[2] malformed payload should fall back to raw")
	}
	if readings[2].Payload.Raw != "not json at all" {
		t.Errorf("readings[2].Payload.Raw = %q", readings[2].Payload.Raw)
	}
	if readings[2].Time.IsZero() {
		t.Error("readings[2] should pick timestamp from createdAt")
	}

	if readings[3].Payload.Raw != "raw only" {
		t.Errorf("readings[3].Payload.Raw = %q, want payload_raw fallback", readings[3].Payload.Raw)
	}
	if !readings[3].Time.IsZero() {
		t.Error("readings[3] unparseable timestamp should leave zero time")
	}
	if readings[3].LocalTime() != "not a time" {
		t.Errorf("readings[3].LocalTime() = %q, want raw timestamp", readings[3].LocalTime())
	}
}

func TestFetchReadings_MissingDataField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 0}`))
	})

	readings, err := client.FetchReadings(context.Background(), "sensor-1", 10)
	if err != nil {
		t.Fatalf("FetchReadings() error = %v", err)
	}
	if len(readings) != 0 {
		t.Errorf("got %d readings, want 0 for absent data field", len(readings))
	}
}

func TestFetchReadings_Non2xx(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := client.FetchReadings(context.Background(), "ghost", 10)
	if !errors.Is(err, ErrStatus) {
		t.Errorf("error = %v, want ErrStatus", err)
	}
}

func TestFetchReadings_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [], "count": 0}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.FetchReadings(ctx, "sensor-1", 10); err == nil {
		t.Error("FetchReadings() expected error for cancelled context")
	}
}
