// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package realtime maintains the single persistent websocket connection to
// the MoodChat server and turns its inbound frames into typed events.
//
// The channel carries three event kinds: new chat messages, system alerts,
// and emotion enrichments for previously delivered messages. Outbound
// frames are raw message text, not JSON. Any connection-level error is
// unrecoverable for the session: the channel reports it once and the owner
// tears the session down. There is no reconnect.
package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/moodchat/moodchat-tui/internal/model"
)

// =============================================================================
// EVENT UNION
// =============================================================================

// Event is one decoded inbound frame. The concrete types are MessageEvent,
// AlertEvent and EmotionEvent.
type Event interface {
	eventKind() string
}

// MessageEvent delivers a new live chat message.
type MessageEvent struct {
	Message model.Message
}

// AlertEvent delivers an ephemeral system alert line.
type AlertEvent struct {
	Content string `json:"content"`
}

// EmotionEvent delivers an emotion enrichment for an already-delivered
// message, keyed by message identity.
type EmotionEvent struct {
	MessageID model.MessageID `json:"message_id"`
	Emotion   string          `json:"emotion"`
}

func (MessageEvent) eventKind() string { return "chat_message" }
func (AlertEvent) eventKind() string   { return "system_alert" }
func (EmotionEvent) eventKind() string { return "emotion_update" }

// =============================================================================
// DECODER TABLE
// =============================================================================

// envelope carries the discriminator; the full frame is re-decoded by the
// matching entry in the decoder table.
type envelope struct {
	Type string `json:"type"`
}

// decoders dispatches frames by their type discriminator. Adding an event
// kind is one registration here plus its concrete type above.
var decoders = map[string]func([]byte) (Event, error){
	"chat_message": func(raw []byte) (Event, error) {
		var msg model.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		return MessageEvent{Message: msg}, nil
	},
	"system_alert": func(raw []byte) (Event, error) {
		var ev AlertEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	},
	"emotion_update": func(raw []byte) (Event, error) {
		var ev EmotionEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	},
}

// ErrUnknownEvent marks frames whose type discriminator has no decoder.
// The read loop skips them; the protocol may grow kinds we do not render.
type ErrUnknownEvent struct {
	Type string
}

func (e ErrUnknownEvent) Error() string {
	return fmt.Sprintf("unknown event type %q", e.Type)
}

// DecodeEvent decodes a single inbound frame.
func DecodeEvent(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}
	decode, ok := decoders[env.Type]
	if !ok {
		return nil, ErrUnknownEvent{Type: env.Type}
	}
	ev, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s event: %w", env.Type, err)
	}
	return ev, nil
}
