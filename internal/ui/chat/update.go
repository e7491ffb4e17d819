// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moodchat/moodchat-tui/internal/model"
	"github.com/moodchat/moodchat-tui/internal/realtime"
	"github.com/moodchat/moodchat-tui/internal/session"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m.submitInput()
		case "ctrl+s":
			if m.summaryBusy {
				return m, nil
			}
			m.summaryBusy = true
			m.statusNotice = ""
			return m, m.requestSummary()
		}

	case session.HistoryLoadedMsg:
		m.applyHistory(msg.Messages)
		return m, nil

	case session.HistoryFailedMsg:
		m.historyLoaded = true
		m.historyNotice = "could not load history: " + msg.Err.Error()
		m.replayPendingLive()
		m.drainPendingEmotions()
		m.refreshViewport()
		return m, nil

	case session.MoodUpdatedMsg:
		m.mood = msg.Mood
		return m, nil

	case session.PushEventMsg:
		m.applyEvent(msg.Event)
		return m, nil

	case summaryResultMsg:
		m.summaryBusy = false
		if msg.err != nil {
			m.statusNotice = "summary failed: " + msg.err.Error()
			return m, nil
		}
		m.slot.Put(msg.text)
		return m, func() tea.Msg { return SummaryReadyMsg{} }
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submitInput relays the input line through the channel. A dropped send
// (empty input, channel not open) leaves the input untouched; only a
// delivered frame clears it.
func (m Model) submitInput() (Model, tea.Cmd) {
	err := m.lifecycle.Send(m.input.Value())
	switch {
	case err == nil:
		m.input.SetValue("")
		m.statusNotice = ""
	case errors.Is(err, realtime.ErrEmptyMessage):
		// Nothing to send, nothing to report.
	case errors.Is(err, realtime.ErrNotOpen):
		// Dropped without a visible trace; the channel teardown already
		// decides what the user sees.
		log.Printf("[chat] dropped send: channel not open")
	default:
		m.statusNotice = err.Error()
	}
	return m, nil
}

// applyHistory installs the fetched history as the base transcript, then
// replays anything that arrived live while the fetch was in flight.
func (m *Model) applyHistory(msgs []model.Message) {
	m.conversation.LoadHistory(msgs)
	m.historyLoaded = true
	m.historyNotice = ""
	m.replayPendingLive()
	m.drainPendingEmotions()
	m.refreshViewport()
}

func (m *Model) replayPendingLive() {
	for _, msg := range m.pendingLive {
		m.conversation.AppendLive(msg)
	}
	m.pendingLive = nil
}

// applyEvent folds one realtime event into the conversation.
func (m *Model) applyEvent(ev realtime.Event) {
	switch ev := ev.(type) {
	case realtime.MessageEvent:
		if !m.historyLoaded {
			m.pendingLive = append(m.pendingLive, ev.Message)
			return
		}
		m.conversation.AppendLive(ev.Message)
		m.refreshViewport()

	case realtime.AlertEvent:
		m.conversation.AddAlert(ev.Content)
		m.refreshViewport()

	case realtime.EmotionEvent:
		if m.conversation.ApplyEmotion(ev.MessageID, ev.Emotion) {
			m.refreshViewport()
			return
		}
		if !m.historyLoaded {
			// The history fetch is still in flight, so the target may be
			// on its way. Park until history lands; last writer wins per
			// id. This is the only window where an enrichment waits.
			m.pendingEmotions[ev.MessageID] = ev.Emotion
			return
		}
		log.Printf("[chat] dropping enrichment for unknown message id %s", ev.MessageID)
	}
}

// drainPendingEmotions settles enrichments parked during the entry window,
// after history and the live buffer have been applied. Anything whose
// message still has not shown up is dropped, not kept around.
func (m *Model) drainPendingEmotions() {
	for id, emotion := range m.pendingEmotions {
		if !m.conversation.ApplyEmotion(id, emotion) {
			log.Printf("[chat] dropping enrichment for unknown message id %s", id)
		}
	}
	m.pendingEmotions = make(map[model.MessageID]string)
}
