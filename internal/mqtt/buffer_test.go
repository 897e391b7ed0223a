package mqtt

import (
	"fmt"
	"testing"
)

// shakeMsg builds a buffered shake payload with a recognizable sequence
// number for ordering assertions.
func shakeMsg(n int) bufferedMsg {
	return bufferedMsg{
		topic:   Topic,
		payload: []byte(fmt.Sprintf(`{"lamp":{"event":"SHAKE","seq":%d}}`, n)),
	}
}

func TestRingBufferEmptyDrain(t *testing.T) {
	rb := newRingBuffer(10)
	got := rb.drainAll()
	if got != nil {
		t.Errorf("expected nil from empty drain, got %d items", len(got))
	}
}

func TestRingBufferPushAndDrain(t *testing.T) {
	rb := newRingBuffer(10)
	for i := 0; i < 5; i++ {
		rb.push(shakeMsg(i))
	}

	got := rb.drainAll()
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	for i := 0; i < 5; i++ {
		if string(got[i].payload) != string(shakeMsg(i).payload) {
			t.Errorf("item %d: got %s", i, got[i].payload)
		}
	}

	// Second drain should be empty
	got2 := rb.drainAll()
	if got2 != nil {
		t.Errorf("expected nil from second drain, got %d items", len(got2))
	}
}

func TestRingBufferOverflow(t *testing.T) {
	cap := 5
	rb := newRingBuffer(cap)

	// Push cap+3 shakes (0..7), buffer should keep the most recent 5 (3..7)
	for i := 0; i < cap+3; i++ {
		rb.push(shakeMsg(i))
	}

	got := rb.drainAll()
	if len(got) != cap {
		t.Fatalf("expected %d items, got %d", cap, len(got))
	}
	for i := 0; i < cap; i++ {
		want := shakeMsg(i + 3) // oldest 3 were dropped
		if string(got[i].payload) != string(want.payload) {
			t.Errorf("item %d: got %s, want %s", i, got[i].payload, want.payload)
		}
	}
}

func TestRingBufferMultipleCycles(t *testing.T) {
	// A flaky broker connection: buffer, drain, buffer again.
	rb := newRingBuffer(5)

	for i := 0; i < 3; i++ {
		rb.push(shakeMsg(i))
	}
	if got := rb.drainAll(); len(got) != 3 {
		t.Fatalf("cycle 1: expected 3 items, got %d", len(got))
	}

	for i := 10; i < 14; i++ {
		rb.push(shakeMsg(i))
	}
	got := rb.drainAll()
	if len(got) != 4 {
		t.Fatalf("cycle 2: expected 4 items, got %d", len(got))
	}
	for i, msg := range got {
		want := shakeMsg(10 + i)
		if string(msg.payload) != string(want.payload) {
			t.Errorf("cycle 2 item %d: got %s, want %s", i, msg.payload, want.payload)
		}
	}
}

func TestRingBufferLen(t *testing.T) {
	rb := newRingBuffer(10)
	if rb.len() != 0 {
		t.Errorf("expected len 0, got %d", rb.len())
	}

	rb.push(shakeMsg(0))
	rb.push(shakeMsg(1))
	if rb.len() != 2 {
		t.Errorf("expected len 2, got %d", rb.len())
	}

	rb.drainAll()
	if rb.len() != 0 {
		t.Errorf("expected len 0 after drain, got %d", rb.len())
	}
}

func TestRingBufferPreservesFields(t *testing.T) {
	rb := newRingBuffer(10)
	rb.push(bufferedMsg{
		topic:    TopicSystem,
		payload:  []byte(`{"system":{"event":"SHUTDOWN","reason":"SIGTERM"}}`),
		qos:      1,
		retained: true,
	})

	got := rb.drainAll()
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].topic != TopicSystem {
		t.Errorf("topic: got %s, want %s", got[0].topic, TopicSystem)
	}
	if string(got[0].payload) != `{"system":{"event":"SHUTDOWN","reason":"SIGTERM"}}` {
		t.Errorf("payload: got %s", got[0].payload)
	}
	if got[0].qos != 1 {
		t.Errorf("qos: got %d, want 1", got[0].qos)
	}
	if !got[0].retained {
		t.Error("retained: got false, want true")
	}
}
