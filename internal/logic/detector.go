package logic

import "time"

// Detector turns window sample pairs into shake events and keeps the
// running counts used by heartbeats and the status page.
type Detector struct {
	startTime     time.Time
	lastHeartbeat time.Time
	lastShake     time.Time
	eventCounts   EventCounts
}

// NewDetector creates a detector. The startTime is used for calculating
// uptime in heartbeat events.
func NewDetector(startTime time.Time) *Detector {
	return &Detector{
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process takes the two samples bracketing one polling window and returns
// a shake event if the level changed, nil otherwise. Any difference counts:
// the detector fires on both rising and falling transitions.
func (d *Detector) Process(before, after State, now time.Time) *Event {
	if before == after {
		return nil
	}

	d.eventCounts.Shakes++
	if after == StateOn {
		d.eventCounts.Rising++
	} else {
		d.eventCounts.Falling++
	}
	d.lastShake = now

	return &Event{
		Timestamp: now,
		Type:      EventShake,
		Before:    before,
		After:     after,
	}
}

// Counts returns a copy of the running event counts.
func (d *Detector) Counts() EventCounts {
	return d.eventCounts
}

// LastShake returns the time of the most recent shake, or the zero time if
// none has been detected.
func (d *Detector) LastShake() time.Time {
	return d.lastShake
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if the interval has not
// elapsed, or if interval is <= 0 (disabled).
func (d *Detector) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(d.lastHeartbeat) < interval {
		return nil
	}

	d.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(d.startTime),
		Counts:    d.eventCounts,
	}
}
