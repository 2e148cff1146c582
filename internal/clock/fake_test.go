package clock

import (
	"testing"
	"time"
)

func TestFakeAdvanceFiresDueTimersInOrder(t *testing.T) {
	t.Parallel()

	c := NewFake(time.Unix(0, 0))
	var got []string
	c.AfterFunc(200*time.Millisecond, func() { got = append(got, "b") })
	c.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	late := c.AfterFunc(time.Second, func() { got = append(got, "late") })

	c.Advance(300 * time.Millisecond)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected firing order: %v", got)
	}
	if c.Pending() != 1 {
		t.Fatalf("expected 1 pending timer, got %d", c.Pending())
	}
	if !late.Stop() {
		t.Fatalf("expected Stop to cancel the pending timer")
	}
	c.Advance(time.Hour)
	if len(got) != 2 {
		t.Fatalf("stopped timer fired: %v", got)
	}
}

func TestFakeStopAfterFire(t *testing.T) {
	t.Parallel()

	c := NewFake(time.Unix(0, 0))
	tm := c.AfterFunc(time.Millisecond, func() {})
	c.Advance(time.Millisecond)
	if tm.Stop() {
		t.Fatalf("expected Stop to report false after the timer fired")
	}
}
