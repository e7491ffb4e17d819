// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/moodchat/moodchat-tui/internal/model"
	"github.com/moodchat/moodchat-tui/internal/realtime"
)

// =============================================================================
// LIFECYCLE MESSAGES
// =============================================================================
// The lifecycle delivers everything it produces to the UI loop as typed
// messages through its send function; goroutines never touch UI state.

// HistoryLoadedMsg carries the full message history, oldest first.
type HistoryLoadedMsg struct {
	SessionID string
	Messages  []model.Message
}

// HistoryFailedMsg reports a failed history fetch. The session stays up;
// the view shows an inline notice instead of history.
type HistoryFailedMsg struct {
	SessionID string
	Err       error
}

// MoodUpdatedMsg carries a fresh room mood reading from the poller or the
// initial fetch.
type MoodUpdatedMsg struct {
	SessionID string
	Mood      string
}

// PushEventMsg wraps one decoded realtime event from the channel.
type PushEventMsg struct {
	SessionID string
	Event     realtime.Event
}

// ChannelDownMsg reports an unrecoverable channel failure. The receiver
// tears the session down; there is no reconnect.
type ChannelDownMsg struct {
	SessionID string
	Err       error
}
