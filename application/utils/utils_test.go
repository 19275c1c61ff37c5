package utils

import (
	"testing"
	"time"
)

func TestGenerateULIDString(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateULIDString()
		if len(id) != 26 {
			t.Fatalf("ulid length = %d, want 26", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate ulid generated: %s", id)
		}
		seen[id] = true
	}
}

func TestDayString(t *testing.T) {
	moment := time.Date(2026, time.March, 7, 23, 59, 59, 0, time.UTC)
	if got := DayString(moment); got != "2026-03-07" {
		t.Errorf("DayString = %q, want 2026-03-07", got)
	}
}

func TestHasItemString(t *testing.T) {
	items := []string{"FRONT", "LEFT", "RIGHT"}
	if !HasItemString(&items, "LEFT") {
		t.Error("LEFT not found")
	}
	if HasItemString(&items, "BACK") {
		t.Error("BACK unexpectedly found")
	}
}
