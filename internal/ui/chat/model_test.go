// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodchat/moodchat-tui/internal/api"
	"github.com/moodchat/moodchat-tui/internal/handoff"
	"github.com/moodchat/moodchat-tui/internal/model"
	"github.com/moodchat/moodchat-tui/internal/realtime"
	"github.com/moodchat/moodchat-tui/internal/session"
	"github.com/moodchat/moodchat-tui/internal/ui/styles"
)

func newTestChat(t *testing.T, handler http.HandlerFunc) (Model, *handoff.Slot) {
	t.Helper()
	if handler == nil {
		handler = func(w http.ResponseWriter, r *http.Request) {}
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL)
	store := session.NewStore()
	store.Set("tok", model.Identity{ID: 1, Username: "alice"})
	slot := handoff.NewSlot()
	send := func(tea.Msg) {}
	lc := session.NewLifecycle(client, store, send, 0)

	m := New(client, store, slot, lc, styles.NewTheme("dark"), true)
	m = m.SetSize(100, 40)
	return m, slot
}

func historyMsg(msgs ...model.Message) session.HistoryLoadedMsg {
	return session.HistoryLoadedMsg{Messages: msgs}
}

func chatMessage(id, user, content string) model.Message {
	return model.Message{ID: model.MessageID(id), Username: user, Content: content}
}

func TestHistoryThenLiveOrdering(t *testing.T) {
	m, _ := newTestChat(t, nil)

	m, _ = m.Update(historyMsg(
		chatMessage("1", "bob", "first"),
		chatMessage("2", "alice", "second"),
	))
	m, _ = m.Update(session.PushEventMsg{Event: realtime.MessageEvent{Message: chatMessage("3", "bob", "third")}})

	entries := m.conversation.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].Msg.Content)
	assert.Equal(t, "third", entries[2].Msg.Content)
	assert.False(t, entries[0].Live, "history entries never carry the live marker")
	assert.True(t, entries[2].Live)
}

func TestLiveBeforeHistorySurvivesLoad(t *testing.T) {
	m, _ := newTestChat(t, nil)

	// Push beats the history fetch.
	m, _ = m.Update(session.PushEventMsg{Event: realtime.MessageEvent{Message: chatMessage("9", "bob", "early bird")}})
	m, _ = m.Update(historyMsg(chatMessage("1", "bob", "old one")))

	entries := m.conversation.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "old one", entries[0].Msg.Content)
	assert.Equal(t, "early bird", entries[1].Msg.Content, "buffered live message replayed after history")
}

func TestEmotionRacingHistoryIsSettledOnLoad(t *testing.T) {
	m, _ := newTestChat(t, nil)

	// Enrichment and its message both beat the history fetch.
	m, _ = m.Update(session.PushEventMsg{Event: realtime.EmotionEvent{MessageID: "5", Emotion: "joy"}})
	m, _ = m.Update(session.PushEventMsg{Event: realtime.MessageEvent{Message: chatMessage("5", "bob", "good news")}})
	assert.Nil(t, m.conversation.MessageByID("5"), "nothing renders before history")

	m, _ = m.Update(historyMsg(chatMessage("1", "bob", "old one")))
	msg := m.conversation.MessageByID("5")
	require.NotNil(t, msg)
	assert.Equal(t, "joy", msg.Emotion, "parked enrichment applied when history lands")
	assert.Empty(t, m.pendingEmotions, "nothing stays parked past the entry window")
}

func TestEnrichmentForUnknownIDIsDroppedAfterHistory(t *testing.T) {
	m, _ := newTestChat(t, nil)
	m, _ = m.Update(historyMsg(chatMessage("1", "bob", "hello")))

	// No rendered message has this id: silent no-op, nothing retained.
	m, _ = m.Update(session.PushEventMsg{Event: realtime.EmotionEvent{MessageID: "ghost", Emotion: "joy"}})
	assert.Empty(t, m.pendingEmotions)

	// Even if a message with that id shows up later, the dropped
	// enrichment must not resurface.
	m, _ = m.Update(session.PushEventMsg{Event: realtime.MessageEvent{Message: chatMessage("ghost", "bob", "late arrival")}})
	msg := m.conversation.MessageByID("ghost")
	require.NotNil(t, msg)
	assert.Empty(t, msg.Emotion)

	// And the message that does exist is untouched.
	assert.Empty(t, m.conversation.MessageByID("1").Emotion)
}

func TestEnrichmentParkedForAbsentMessageIsDroppedOnLoad(t *testing.T) {
	m, _ := newTestChat(t, nil)

	m, _ = m.Update(session.PushEventMsg{Event: realtime.EmotionEvent{MessageID: "never", Emotion: "fear"}})
	m, _ = m.Update(historyMsg(chatMessage("1", "bob", "hello")))

	assert.Empty(t, m.pendingEmotions, "enrichment with no message is dropped, not kept")
	m, _ = m.Update(session.PushEventMsg{Event: realtime.MessageEvent{Message: chatMessage("never", "bob", "too late")}})
	assert.Empty(t, m.conversation.MessageByID("never").Emotion)
}

func TestEmotionUpdateMutatesInPlace(t *testing.T) {
	m, _ := newTestChat(t, nil)
	m, _ = m.Update(historyMsg(
		chatMessage("1", "bob", "a"),
		chatMessage("2", "bob", "b"),
	))

	m, _ = m.Update(session.PushEventMsg{Event: realtime.EmotionEvent{MessageID: "1", Emotion: "anger"}})

	entries := m.conversation.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "anger", entries[0].Msg.Emotion)
	assert.Equal(t, "a", entries[0].Msg.Content, "only the emotion changed")
	assert.Empty(t, entries[1].Msg.Emotion)
}

func TestAlertsAreAppendedNotIndexed(t *testing.T) {
	m, _ := newTestChat(t, nil)
	m, _ = m.Update(historyMsg())
	m, _ = m.Update(session.PushEventMsg{Event: realtime.AlertEvent{Content: "bob joined"}})

	entries := m.conversation.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, model.EntryAlert, entries[0].Kind)
	assert.Equal(t, "bob joined", entries[0].Alert)
}

func TestMoodUpdates(t *testing.T) {
	m, _ := newTestChat(t, nil)
	assert.Contains(t, m.View(), "neutral", "mood falls back to neutral before first poll")

	m, _ = m.Update(session.MoodUpdatedMsg{Mood: "optimism"})
	assert.Contains(t, m.View(), "optimism")
}

func TestHistoryFailureShowsNoticeAndKeepsSession(t *testing.T) {
	m, _ := newTestChat(t, nil)
	m, _ = m.Update(session.HistoryFailedMsg{Err: assert.AnError})

	assert.Contains(t, m.View(), "could not load history")

	// Live messages still flow after the failed fetch.
	m, _ = m.Update(session.PushEventMsg{Event: realtime.MessageEvent{Message: chatMessage("1", "bob", "still here")}})
	assert.Equal(t, 1, m.conversation.Len())
}

func TestSendFailureLeavesInput(t *testing.T) {
	m, _ := newTestChat(t, nil)
	m.input.SetValue("hello")

	// The lifecycle was never started, so the channel is not open. The
	// drop is silent: input untouched, no status line.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "hello", m.input.Value(), "dropped send leaves the input untouched")
	assert.Empty(t, m.statusNotice)
}

func TestSummaryRequestRoundTrip(t *testing.T) {
	m, slot := newTestChat(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/summary", r.URL.Path)
		w.Write([]byte(`{"summary": "A productive discussion."}`))
	})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.True(t, m.summaryBusy)
	assert.Contains(t, m.View(), "generating summary")

	m, cmd = m.Update(cmd())
	require.NotNil(t, cmd)
	_, ok := cmd().(SummaryReadyMsg)
	assert.True(t, ok)
	assert.False(t, m.summaryBusy)

	text, ok := slot.Take()
	assert.True(t, ok)
	assert.Equal(t, "A productive discussion.", text)
}

func TestSummaryRequestWhileBusyIsIgnored(t *testing.T) {
	m, _ := newTestChat(t, nil)
	m.summaryBusy = true

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd, "summary control is disabled while a request is in flight")
}

func TestSummaryFailureReenablesControl(t *testing.T) {
	m, _ := newTestChat(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"detail": "model unavailable"}`))
	})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	m, next := m.Update(cmd())
	assert.Nil(t, next)
	assert.False(t, m.summaryBusy)
	assert.Contains(t, m.View(), "summary failed")
}

func TestOwnMessagesRenderAligned(t *testing.T) {
	m, _ := newTestChat(t, nil)
	m, _ = m.Update(historyMsg(
		chatMessage("1", "alice", "mine"),
		chatMessage("2", "bob", "theirs"),
	))

	entries := m.conversation.Entries()
	assert.True(t, m.conversation.IsSent(entries[0].Msg))
	assert.False(t, m.conversation.IsSent(entries[1].Msg))
}

func TestSystemMessagesRenderAsNotices(t *testing.T) {
	m, _ := newTestChat(t, nil)
	m, _ = m.Update(historyMsg(model.Message{
		ID: "system-2025", Username: model.SystemUsername, Content: "carol joined the chat",
	}))

	assert.Contains(t, m.View(), "carol joined the chat")
}

func TestTimestampDisplayFollowsConfig(t *testing.T) {
	stamped := model.Message{
		ID:        "1",
		Username:  "bob",
		Content:   "hello",
		Timestamp: model.Timestamp{Time: time.Date(2025, 8, 30, 10, 42, 0, 0, time.UTC)},
	}

	m, _ := newTestChat(t, nil)
	m, _ = m.Update(historyMsg(stamped))
	assert.Contains(t, m.View(), "10:42")

	m.showTimestamps = false
	m.refreshViewport()
	assert.NotContains(t, m.View(), "10:42")
	assert.Contains(t, m.View(), "hello", "only the timestamp is hidden")
}
