package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Switch        string       `json:"switch"`
	LastShake     string       `json:"last_shake,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Shakes  int `json:"shakes"`
	Rising  int `json:"rising"`
	Falling int `json:"falling"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	WindowMs     int64  `json:"window_ms"`
	ShortPulseMs int64  `json:"short_pulse_ms"`
	LongPulseMs  int64  `json:"long_pulse_ms"`
	HeartbeatMs  int64  `json:"heartbeat_ms"`
	PinLamp      int    `json:"pin_lamp"`
	PinSwitch    int    `json:"pin_switch"`
	Broker       string `json:"broker"`
	HTTPAddr     string `json:"http_addr"`
	WSBroker     string `json:"ws_broker,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	sw := string(snap.Switch)
	if sw == "" {
		sw = "UNKNOWN"
	}

	inner := StatusInner{
		Switch:        sw,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Shakes:  snap.Counts.Shakes,
			Rising:  snap.Counts.Rising,
			Falling: snap.Counts.Falling,
		},
		Config: ConfigJSON{
			WindowMs:     snap.Config.WindowMs,
			ShortPulseMs: snap.Config.ShortPulseMs,
			LongPulseMs:  snap.Config.LongPulseMs,
			HeartbeatMs:  snap.Config.HeartbeatMs,
			PinLamp:      snap.Config.PinLamp,
			PinSwitch:    snap.Config.PinSwitch,
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
			WSBroker:     snap.Config.WSBroker,
		},
	}
	if !snap.LastShake.IsZero() {
		inner.LastShake = snap.LastShake.UTC().Format(time.RFC3339)
	}
	return inner
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
