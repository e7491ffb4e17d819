// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package handoff passes a generated summary from the chat view to the
// summary view. The slot is write-once, read-once: the producer stores the
// text, the consumer takes it exactly once, and taking clears it so stale
// summaries can never resurface in a later session.
package handoff

import "sync"

// Placeholder is returned by Take when no summary was stored, so the
// summary view always has something to render.
const Placeholder = "No summary available."

// Slot holds at most one pending summary.
type Slot struct {
	mu      sync.Mutex
	text    string
	present bool
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Put stores a summary, replacing any unconsumed one.
func (s *Slot) Put(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.present = true
}

// Take removes and returns the stored summary. When the slot is empty it
// returns Placeholder and false.
func (s *Slot) Take() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present {
		return Placeholder, false
	}
	text := s.text
	s.text = ""
	s.present = false
	return text, true
}
