// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// WIRE DECODING
// =============================================================================

func TestMessageID_DecodesNumbersAndStrings(t *testing.T) {
	var m Message
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42, "username": "bob", "content": "hi"}`), &m))
	assert.Equal(t, MessageID("42"), m.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id": "system-2025-01-01", "username": "System", "content": "x"}`), &m))
	assert.Equal(t, MessageID("system-2025-01-01"), m.ID)
}

func TestTimestamp_DecodesNaiveAndRFC3339(t *testing.T) {
	cases := []string{
		`"2025-08-30T12:01:02.123456"`, // naive, websocket frames
		`"2025-08-30T12:01:02Z"`,       // RFC 3339, REST responses
		`"2025-08-30T12:01:02"`,
		`null`,
	}
	for _, raw := range cases {
		var ts Timestamp
		assert.NoError(t, json.Unmarshal([]byte(raw), &ts), "raw %s", raw)
	}

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2025-08-30T15:04:00"`), &ts))
	assert.Equal(t, "15:04", ts.Clock())
	assert.Equal(t, "", Timestamp{}.Clock())
}

func TestMessage_IsSystem(t *testing.T) {
	assert.True(t, (&Message{Username: "System"}).IsSystem())
	assert.False(t, (&Message{Username: "system"}).IsSystem())
	assert.False(t, (&Message{Username: "bob"}).IsSystem())
}

func TestMessage_AvatarInitial(t *testing.T) {
	assert.Equal(t, "B", (&Message{Username: "bob"}).AvatarInitial())
	assert.Equal(t, "?", (&Message{}).AvatarInitial())
}

// =============================================================================
// RECONCILER
// =============================================================================

func TestLoadHistory_PreservesServerOrderAndNeverLive(t *testing.T) {
	c := NewConversation("alice")
	c.LoadHistory([]Message{
		{ID: "3", Username: "bob", Content: "third"},
		{ID: "1", Username: "alice", Content: "first"},
		{ID: "2", Username: "bob", Content: "second"},
	})

	require.Equal(t, 3, c.Len())
	// No client-side re-sorting: order is exactly as the server returned.
	assert.Equal(t, "third", c.Entries()[0].Msg.Content)
	assert.Equal(t, "first", c.Entries()[1].Msg.Content)
	assert.Equal(t, "second", c.Entries()[2].Msg.Content)
	for _, e := range c.Entries() {
		assert.False(t, e.Live, "history entries never carry the entrance marker")
	}
}

func TestLoadHistory_ClearsExistingView(t *testing.T) {
	c := NewConversation("alice")
	c.AppendLive(Message{ID: "old", Username: "bob", Content: "stale"})
	c.LoadHistory([]Message{{ID: "1", Username: "bob", Content: "fresh"}})

	require.Equal(t, 1, c.Len())
	assert.Nil(t, c.MessageByID("old"))
	assert.NotNil(t, c.MessageByID("1"))
}

func TestAppendLive_MarksEntranceAndIndexes(t *testing.T) {
	c := NewConversation("alice")
	e := c.AppendLive(Message{ID: "m1", Username: "bob", Content: "hi", Emotion: "joy"})

	assert.True(t, e.Live, "live messages always carry the entrance marker")
	assert.Equal(t, "hi", c.MessageByID("m1").Content)
}

func TestAppendLive_DuplicateIDUpdatesInPlace(t *testing.T) {
	c := NewConversation("alice")
	c.AppendLive(Message{ID: "m1", Username: "bob", Content: "hi"})
	c.AppendLive(Message{ID: "m2", Username: "bob", Content: "second"})
	c.AppendLive(Message{ID: "m1", Username: "bob", Content: "hi again"})

	require.Equal(t, 2, c.Len())
	assert.Equal(t, "hi again", c.Entries()[0].Msg.Content)
	assert.Equal(t, "second", c.Entries()[1].Msg.Content)
}

func TestApplyEmotion_UpdatesExactlyOneMessageInPlace(t *testing.T) {
	c := NewConversation("alice")
	c.LoadHistory([]Message{
		{ID: "m1", Username: "bob", Content: "hi", Emotion: "joy"},
		{ID: "m2", Username: "alice", Content: "hello", Emotion: "neutral"},
	})

	assert.True(t, c.ApplyEmotion("m1", "gratitude"))

	// Target updated in place: same position, same content, new label.
	assert.Equal(t, "gratitude", c.Entries()[0].Msg.Emotion)
	assert.Equal(t, "hi", c.Entries()[0].Msg.Content)
	// No other message's rendering input changed.
	assert.Equal(t, "neutral", c.Entries()[1].Msg.Emotion)
	assert.Equal(t, 2, c.Len())
}

func TestApplyEmotion_UnknownIDIsSilentNoOp(t *testing.T) {
	c := NewConversation("alice")
	c.LoadHistory([]Message{{ID: "m1", Username: "bob", Content: "hi"}})

	before := *c.Entries()[0].Msg
	assert.False(t, c.ApplyEmotion("nope", "joy"))
	assert.Equal(t, before, *c.Entries()[0].Msg, "view unchanged for unrendered id")
}

func TestApplyEmotion_RedundantRepeatsAreIdempotent(t *testing.T) {
	c := NewConversation("alice")
	c.AppendLive(Message{ID: "m1", Username: "bob", Content: "hi"})

	assert.True(t, c.ApplyEmotion("m1", "joy"))
	assert.True(t, c.ApplyEmotion("m1", "joy"))
	assert.True(t, c.ApplyEmotion("m1", "gratitude"))
	assert.Equal(t, "gratitude", c.MessageByID("m1").Emotion)
}

func TestAddAlert_NotAddressable(t *testing.T) {
	c := NewConversation("alice")
	e := c.AddAlert("rate limited")

	assert.Equal(t, EntryAlert, e.Kind)
	assert.NotEmpty(t, e.Key)
	assert.Equal(t, 1, c.Len())
	// Alerts never enter the id index.
	assert.Nil(t, c.MessageByID(MessageID(e.Key)))
}

func TestIsSent(t *testing.T) {
	c := NewConversation("alice")
	assert.True(t, c.IsSent(&Message{Username: "alice"}))
	assert.False(t, c.IsSent(&Message{Username: "bob"}))

	anon := NewConversation("")
	assert.False(t, anon.IsSent(&Message{Username: ""}), "no identity means nothing is classified sent")
}
