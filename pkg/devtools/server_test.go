package devtools

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tetherui/tether/pkg/hooks"
	"github.com/tetherui/tether/pkg/runtime"
)

func newTestServer(t *testing.T, opts ...runtime.Option) (*runtime.Runtime, *httptest.Server) {
	t.Helper()
	rt := runtime.New(opts...)
	srv := httptest.NewServer(New(rt).Handler())
	t.Cleanup(srv.Close)
	return rt, srv
}

func TestHealthz(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestStatsEndpoint(t *testing.T) {
	rt, srv := newTestServer(t)
	rt.Mount(runtime.RenderFunc(func(s *hooks.Session) runtime.RenderResult {
		return nil
	}))

	resp, err := http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}
	var stats runtime.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.MountedTotal != 1 {
		t.Errorf("mounted = %d, want 1", stats.MountedTotal)
	}
}

func TestEventsEndpoint(t *testing.T) {
	rec := runtime.NewRecorder(16)
	rt, srv := newTestServer(t, runtime.WithRecorder(rec))
	inst := rt.Mount(runtime.RenderFunc(func(s *hooks.Session) runtime.RenderResult {
		return nil
	}))
	if _, err := rt.Render(inst); err != nil {
		t.Fatalf("render: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/events")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var events []runtime.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2 (mount, render)", len(events))
	}
	if events[0].Type != runtime.EventMount || events[1].Type != runtime.EventRender {
		t.Errorf("event types = %s, %s", events[0].Type, events[1].Type)
	}
}

func TestEventsEndpointWithoutRecorder(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/events")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var events []runtime.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events = %d, want 0", len(events))
	}
}

func TestWSWithoutRecorder(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestWSStreamsBacklogAndLiveEvents(t *testing.T) {
	rec := runtime.NewRecorder(16)
	rt, srv := newTestServer(t, runtime.WithRecorder(rec))
	rt.Mount(runtime.RenderFunc(func(s *hooks.Session) runtime.RenderResult {
		return nil
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readEvent := func() runtime.Event {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var e runtime.Event
		if err := json.Unmarshal(payload, &e); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return e
	}

	// Backlog first: the mount recorded before the dial.
	if e := readEvent(); e.Type != runtime.EventMount {
		t.Fatalf("backlog event type = %s, want mount", e.Type)
	}

	// Then live events as they happen.
	rec.Record(runtime.Event{Type: runtime.EventRenderRequest, Slot: -1})
	if e := readEvent(); e.Type != runtime.EventRenderRequest {
		t.Fatalf("live event type = %s, want render_request", e.Type)
	}
}
