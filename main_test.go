// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodchat/moodchat-tui/internal/api"
	"github.com/moodchat/moodchat-tui/internal/config"
	"github.com/moodchat/moodchat-tui/internal/model"
	"github.com/moodchat/moodchat-tui/internal/realtime"
	"github.com/moodchat/moodchat-tui/internal/session"
	"github.com/moodchat/moodchat-tui/internal/ui/styles"
)

// newEnteringModel builds the root model mid-entry: the lifecycle exists
// and the identity is stored, but sessionStartedMsg has not been processed
// yet, so the app is still on the auth view.
func newEnteringModel(t *testing.T) (*Model, *session.Lifecycle) {
	t.Helper()
	server := httptest.NewServer(nil)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL)
	m := NewModel(styles.NewTheme("dark"), client, config.Default())
	m.store.Set("tok", model.Identity{ID: 1, Username: "alice"})
	m.lifecycle = session.NewLifecycle(client, m.store, func(tea.Msg) {}, 0)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, m.lifecycle
}

func TestSessionTrafficBeforeChatEntryIsReplayed(t *testing.T) {
	m, lc := newEnteringModel(t)

	// The server pushes the join notice the moment the websocket is
	// accepted, so these can beat sessionStartedMsg into the queue.
	m.Update(session.HistoryLoadedMsg{SessionID: lc.ID(), Messages: []model.Message{
		{ID: "1", Username: "bob", Content: "earlier talk"},
	}})
	m.Update(session.PushEventMsg{SessionID: lc.ID(), Event: realtime.MessageEvent{
		Message: model.Message{ID: "2", Username: model.SystemUsername, Content: "alice has joined the chat"},
	}})
	m.Update(session.MoodUpdatedMsg{SessionID: lc.ID(), Mood: "joy"})
	require.Equal(t, StateAuth, m.state, "still on the auth view while entry completes")

	m.Update(sessionStartedMsg{sessionID: lc.ID()})
	require.Equal(t, StateChat, m.state)

	view := m.chatModel.View()
	assert.Contains(t, view, "earlier talk")
	assert.Contains(t, view, "alice has joined the chat", "join notice queued before entry is not lost")
	assert.Contains(t, view, "joy")
	assert.Empty(t, m.entryBacklog)
}

func TestStaleSessionTrafficIsNotBuffered(t *testing.T) {
	m, lc := newEnteringModel(t)

	m.Update(session.PushEventMsg{SessionID: "someone-else", Event: realtime.MessageEvent{
		Message: model.Message{ID: "9", Username: "mallory", Content: "stale"},
	}})
	assert.Empty(t, m.entryBacklog, "traffic from another lifecycle is dropped, not buffered")

	m.Update(sessionStartedMsg{sessionID: lc.ID()})
	assert.NotContains(t, m.chatModel.View(), "stale")
}

func TestEndSessionClearsEntryBacklog(t *testing.T) {
	m, lc := newEnteringModel(t)

	m.Update(session.MoodUpdatedMsg{SessionID: lc.ID(), Mood: "joy"})
	require.NotEmpty(t, m.entryBacklog)

	m.endSession("Logged out.")
	assert.Empty(t, m.entryBacklog)
	assert.Equal(t, StateAuth, m.state)
	assert.Nil(t, m.lifecycle)
}
