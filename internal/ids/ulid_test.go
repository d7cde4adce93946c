package ids_test

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Gunvolt24/hermes_receiver/internal/ids"
)

func TestNewMessageID_ParsesAndKeepsTime(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	id := ids.NewMessageID(ts)
	if len(id) != 26 {
		t.Fatalf("want 26 chars, got %d (%q)", len(id), id)
	}
	parsed, err := ulid.Parse(id)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := ulid.Time(parsed.Time()); !got.Equal(ts) {
		t.Fatalf("timestamp: want %v, got %v", ts, got)
	}
}

func TestNewMessageID_MonotonicWithinSameMillisecond(t *testing.T) {
	ts := time.Now()
	prev := ids.NewMessageID(ts)
	for i := 0; i < 100; i++ {
		next := ids.NewMessageID(ts)
		if next <= prev {
			t.Fatalf("ids must grow: %s <= %s", next, prev)
		}
		prev = next
	}
}
