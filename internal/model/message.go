// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation view and
// the reconciliation logic that keeps it consistent while history, live
// messages and emotion enrichments arrive in arbitrary order.
package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// SystemUsername is the reserved sender name for server-generated notices.
// Messages from it render as centered notices, not as chat bubbles.
const SystemUsername = "System"

// =============================================================================
// MESSAGE ID
// =============================================================================

// MessageID is the stable identity of a chat message. The server emits ids
// as JSON numbers for persisted messages and as strings for synthetic ones
// (join announcements), so decoding accepts both.
type MessageID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *MessageID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = MessageID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = MessageID(n.String())
	return nil
}

// MarshalJSON always emits the string form.
func (id MessageID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id MessageID) String() string { return string(id) }

// IDFromInt builds a MessageID from a numeric server id.
func IDFromInt(n int) MessageID {
	return MessageID(strconv.Itoa(n))
}

// =============================================================================
// TIMESTAMP
// =============================================================================

// Timestamp wraps time.Time with lenient decoding. The server emits naive
// ISO-8601 (no zone suffix) for websocket frames and RFC 3339 for REST
// responses; both must parse.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON parses the known server timestamp layouts. An empty or null
// value yields the zero time rather than an error; a missing timestamp is
// not worth dropping a message over.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// MarshalJSON emits RFC 3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// Clock renders the HH:MM display form, or "" for the zero time.
func (t Timestamp) Clock() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04")
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// Message is a single addressable conversation entry as delivered by the
// history endpoint and the realtime channel. Emotion is optional at creation
// time; the reconciler applies later enrichment by ID.
type Message struct {
	ID        MessageID `json:"id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp Timestamp `json:"timestamp"`
	Emotion   string    `json:"emotion,omitempty"`
}

// IsSystem reports whether the message is a server notice rather than an
// addressable chat bubble.
func (m *Message) IsSystem() bool {
	return m.Username == SystemUsername
}

// AvatarInitial returns the single-rune avatar badge for the sender.
func (m *Message) AvatarInitial() string {
	if m.Username == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(m.Username)[0]))
}

// Identity is the logged-in user as reported by GET /me.
type Identity struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// MoodSnapshot is the aggregate room mood at poll time. No history is kept;
// each snapshot fully replaces the previous one.
type MoodSnapshot struct {
	Mood string `json:"mood"`
}
