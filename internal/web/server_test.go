package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/shake-light/internal/logic"
	"github.com/sweeney/shake-light/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		WindowMs:     500,
		ShortPulseMs: 200,
		LongPulseMs:  400,
		HeartbeatMs:  900000,
		PinLamp:      3,
		PinSwitch:    2,
		Broker:       "tcp://192.168.1.200:1883",
		HTTPAddr:     ":80",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(logic.StateOn, logic.EventCounts{Shakes: 5, Rising: 3, Falling: 2}, time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC))
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Switch != "ON" {
		t.Errorf("switch: got %q, want ON", sj.Status.Switch)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("MQTT.Broker: got %q", sj.Status.MQTT.Broker)
	}
	if sj.Status.Counts.Shakes != 5 {
		t.Errorf("Counts.Shakes: got %d, want 5", sj.Status.Counts.Shakes)
	}
	if sj.Status.Config.WindowMs != 500 {
		t.Errorf("Config.WindowMs: got %d, want 500", sj.Status.Config.WindowMs)
	}
	if sj.Status.LastShake != "2026-01-01T01:00:00Z" {
		t.Errorf("LastShake: got %q", sj.Status.LastShake)
	}
}

func TestJSONUnknownStateBeforeFirstPoll(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	json.NewDecoder(resp.Body).Decode(&sj)

	if sj.Status.Switch != "UNKNOWN" {
		t.Errorf("switch before first poll: got %q, want UNKNOWN", sj.Status.Switch)
	}
}

func TestHTMLEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(logic.StateOff, logic.EventCounts{Shakes: 2}, time.Time{})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	page := string(body)

	if !strings.Contains(page, "Shake Light") {
		t.Error("page title missing")
	}
	if !strings.Contains(page, "OFF") {
		t.Error("switch state missing")
	}
	if !strings.Contains(page, "never") {
		t.Error("expected 'never' for zero last-shake time")
	}
	if !strings.Contains(page, "/index.json") {
		t.Error("JSON link missing")
	}
}

func TestHTMLNoLiveViewWithoutWSBroker(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(body), "mqtt.connect") {
		t.Error("live view script should be absent without ws broker")
	}
}

func TestHTMLLiveViewWithWSBroker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := status.NewTracker(start, status.Config{
		Broker:   "tcp://192.168.1.200:1883",
		WSBroker: "ws://192.168.1.200:9001",
	})
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	page := string(body)
	if !strings.Contains(page, "mqtt.connect") {
		t.Error("live view script missing with ws broker configured")
	}
	if !strings.Contains(page, "home/shake-light/events") {
		t.Error("live view topic missing")
	}
}

func TestNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonsense")
	if err != nil {
		t.Fatalf("GET /nonsense: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}
