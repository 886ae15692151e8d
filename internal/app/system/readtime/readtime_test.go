package readtime

import (
	"strings"
	"testing"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestMinutes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty floors at one", "", 1},
		{"single word", "hello", 1},
		{"200 words", words(200), 1},
		{"201 words rounds up", words(201), 2},
		{"400 words", words(400), 2},
		{"401 words", words(401), 3},
		{"extra whitespace ignored", "  a \n\n b\t c  ", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Minutes(tt.content); got != tt.want {
				t.Errorf("Minutes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTracker_ContentChangeRecomputes(t *testing.T) {
	tr := NewTracker("", 0)
	if tr.Minutes() != 1 {
		t.Fatalf("initial minutes = %d, want 1", tr.Minutes())
	}

	tr.SetContent(words(400))
	if tr.Minutes() != 2 {
		t.Errorf("after content change minutes = %d, want 2", tr.Minutes())
	}
	if tr.Overridden() {
		t.Error("expected computed value, not override")
	}
}

func TestTracker_ManualAfterComputeWins(t *testing.T) {
	tr := NewTracker(words(10), 5)
	if tr.Minutes() != 5 {
		t.Fatalf("stored minutes should be kept, got %d", tr.Minutes())
	}

	tr.SetContent(words(400))
	tr.SetMinutes(7)
	if tr.Minutes() != 7 || !tr.Overridden() {
		t.Errorf("manual value should win, got %d overridden=%v", tr.Minutes(), tr.Overridden())
	}

	// Same content again is not a change.
	tr.SetContent(words(400))
	if tr.Minutes() != 7 {
		t.Errorf("unchanged content must not recompute, got %d", tr.Minutes())
	}

	tr.SetContent(words(600))
	if tr.Minutes() != 3 || tr.Overridden() {
		t.Errorf("new content should recompute, got %d overridden=%v", tr.Minutes(), tr.Overridden())
	}
}
