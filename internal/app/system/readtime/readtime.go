// Package readtime estimates how long an article takes to read.
package readtime

import "strings"

// WordsPerMinute is the assumed reading speed.
const WordsPerMinute = 200

// WordCount counts whitespace-separated words.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// Minutes returns max(1, ceil(words/WordsPerMinute)).
func Minutes(content string) int {
	words := WordCount(content)
	m := (words + WordsPerMinute - 1) / WordsPerMinute
	if m < 1 {
		return 1
	}
	return m
}

// Tracker follows one editing session. Every content change recomputes the
// read time; a manual value set after that wins until the next content change.
type Tracker struct {
	content  string
	minutes  int
	override bool
}

// NewTracker starts a session from stored values. A non-positive stored read
// time is recomputed from content.
func NewTracker(content string, minutes int) *Tracker {
	t := &Tracker{content: content, minutes: minutes}
	if minutes < 1 {
		t.minutes = Minutes(content)
	}
	return t
}

// SetContent replaces the content and recomputes the read time if it changed.
func (t *Tracker) SetContent(content string) {
	if content == t.content {
		return
	}
	t.content = content
	t.minutes = Minutes(content)
	t.override = false
}

// SetMinutes records a manual read time.
func (t *Tracker) SetMinutes(m int) {
	t.minutes = m
	t.override = true
}

// Minutes returns the current read time.
func (t *Tracker) Minutes() int { return t.minutes }

// Overridden reports whether the current value was set manually.
func (t *Tracker) Overridden() bool { return t.override }
