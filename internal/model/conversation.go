// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"github.com/google/uuid"
)

// =============================================================================
// ENTRY TYPE
// =============================================================================

// EntryKind distinguishes the renderable entry variants.
type EntryKind int

const (
	// EntryMessage is an addressable chat message (bubble or system notice).
	EntryMessage EntryKind = iota
	// EntryAlert is an ephemeral, non-addressable alert line. It has no
	// message identity, is never mutated and never looked up.
	EntryAlert
)

// Entry is one renderable line-group in the conversation view.
type Entry struct {
	Kind EntryKind

	// Key is the stable render key: the message id for EntryMessage, a
	// generated key for EntryAlert.
	Key string

	// Msg is set for EntryMessage.
	Msg *Message

	// Alert is set for EntryAlert.
	Alert string

	// Live marks entries that arrived over the realtime channel. Live
	// entries get the entrance highlight; history-loaded entries never do.
	Live bool
}

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is the reconciled view model of the chat. It keeps the
// entries in arrival order and an id index for enrichment lookups, so an
// emotion update mutates exactly one message in place without re-rendering
// or reordering anything else.
//
// The conversation is only ever touched from the UI goroutine; events from
// the network goroutines arrive as Bubble Tea messages.
type Conversation struct {
	entries []*Entry
	byID    map[MessageID]*Entry

	// selfUsername classifies messages as "sent" for alignment.
	selfUsername string
}

// NewConversation creates an empty conversation for the given identity.
func NewConversation(selfUsername string) *Conversation {
	return &Conversation{
		entries:      make([]*Entry, 0),
		byID:         make(map[MessageID]*Entry),
		selfUsername: selfUsername,
	}
}

// SelfUsername returns the username messages are classified against.
func (c *Conversation) SelfUsername() string {
	return c.selfUsername
}

// IsSent reports whether the message was sent by the current user. This
// controls alignment and avatar placement, nothing else.
func (c *Conversation) IsSent(m *Message) bool {
	return c.selfUsername != "" && m.Username == c.selfUsername
}

// Entries returns the entries in render order.
func (c *Conversation) Entries() []*Entry {
	return c.entries
}

// Len returns the number of entries.
func (c *Conversation) Len() int {
	return len(c.entries)
}

// MessageByID returns the message with the given id, or nil.
func (c *Conversation) MessageByID(id MessageID) *Message {
	if e, ok := c.byID[id]; ok {
		return e.Msg
	}
	return nil
}

// =============================================================================
// RECONCILIATION
// =============================================================================

// LoadHistory replaces the view with the server's message history. Order is
// preserved exactly as returned (oldest first); nothing is re-sorted.
// History entries never carry the live marker.
func (c *Conversation) LoadHistory(msgs []Message) {
	c.entries = make([]*Entry, 0, len(msgs))
	c.byID = make(map[MessageID]*Entry, len(msgs))
	for i := range msgs {
		c.append(&msgs[i], false)
	}
}

// AppendLive adds a message delivered over the realtime channel. Live
// messages carry the entrance highlight. A duplicate id updates the
// existing entry in place and keeps its position, so redelivery cannot
// duplicate or reorder the view.
func (c *Conversation) AppendLive(msg Message) *Entry {
	if e, ok := c.byID[msg.ID]; ok && msg.ID != "" {
		e.Msg = &msg
		return e
	}
	return c.append(&msg, true)
}

// AddAlert appends an ephemeral alert line. Alerts are not addressable:
// they get a generated key for rendering only and never enter the id index.
func (c *Conversation) AddAlert(content string) *Entry {
	e := &Entry{
		Kind:  EntryAlert,
		Key:   "alert-" + uuid.NewString(),
		Alert: content,
		Live:  true,
	}
	c.entries = append(c.entries, e)
	return e
}

// ApplyEmotion applies an enrichment update to the message with the given
// id. The update is an idempotent upsert: it overwrites the emotion label
// in place and touches nothing else. An id that is not rendered is a
// silent no-op; the update is never queued or retried. The return value
// reports whether a message was updated.
func (c *Conversation) ApplyEmotion(id MessageID, emotion string) bool {
	e, ok := c.byID[id]
	if !ok || e.Msg == nil {
		return false
	}
	e.Msg.Emotion = emotion
	return true
}

// Clear empties the conversation.
func (c *Conversation) Clear() {
	c.entries = make([]*Entry, 0)
	c.byID = make(map[MessageID]*Entry)
}

// append adds a message entry and indexes it. System notices share the
// entry list but stay out of the id index only when they have no id; the
// server does assign synthetic ids to join announcements, and indexing
// them is harmless since no enrichment ever references one.
func (c *Conversation) append(msg *Message, live bool) *Entry {
	e := &Entry{
		Kind: EntryMessage,
		Key:  msg.ID.String(),
		Msg:  msg,
		Live: live,
	}
	c.entries = append(c.entries, e)
	if msg.ID != "" {
		c.byID[msg.ID] = e
	}
	return e
}
