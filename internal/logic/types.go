// Package logic contains pure business logic for shake detection and the
// blink pattern. This package has NO external dependencies (no GPIO, MQTT,
// OS, or time.Sleep). Time is always injectable via time.Time parameters.
package logic

import "time"

// State represents the logical level of the switch line.
type State string

const (
	StateOn  State = "ON"
	StateOff State = "OFF"
)

// StateOf converts a sampled level to a State.
func StateOf(high bool) State {
	if high {
		return StateOn
	}
	return StateOff
}

// Canonical timing constants (first hardware revision). The other revisions
// differ only in these tunings, so the daemon exposes them as flags.
const (
	// DefaultWindow is the polling window: a switch transition must fall
	// inside it to be detected.
	DefaultWindow = 500 * time.Millisecond

	// DefaultShortPulse and DefaultLongPulse are the lamp hold times in
	// the blink pattern.
	DefaultShortPulse = 200 * time.Millisecond
	DefaultLongPulse  = 400 * time.Millisecond

	// patternRepeats is how many times the pulse group plays per shake.
	patternRepeats = 2
)

// EventType represents a detected event.
type EventType string

const (
	// EventShake is emitted when the switch level changed across a
	// polling window, in either direction.
	EventShake EventType = "SHAKE"
)

// Event represents a detected shake to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Before    State // switch level at the start of the window
	After     State // switch level at the end of the window
}

// EventCounts tracks detection totals since startup.
type EventCounts struct {
	Shakes  int
	Rising  int // OFF -> ON transitions
	Falling int // ON -> OFF transitions
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}

// PatternStep is one lamp write followed by a hold.
type PatternStep struct {
	On   bool
	Hold time.Duration
}

// ShakePattern builds the blink pattern from the given pulse lengths: a
// short pulse pair then a long pulse pair, played twice. The final step
// leaves the lamp off.
func ShakePattern(short, long time.Duration) []PatternStep {
	var steps []PatternStep
	for i := 0; i < patternRepeats; i++ {
		steps = append(steps,
			PatternStep{On: true, Hold: short},
			PatternStep{On: false, Hold: short},
			PatternStep{On: true, Hold: long},
			PatternStep{On: false, Hold: long},
		)
	}
	return steps
}
