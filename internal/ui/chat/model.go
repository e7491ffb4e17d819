// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main chat view: the message transcript, the
// room mood header, the input line and the status bar.
//
// The view owns the conversation state and reconciles its three sources:
// the one-shot history fetch, live pushes from the realtime channel, and
// mood poll readings. While the history fetch is in flight, live messages
// and emotion enrichments are buffered and settled once it lands; after
// that, an enrichment for an unrendered message is dropped on the floor.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moodchat/moodchat-tui/internal/api"
	"github.com/moodchat/moodchat-tui/internal/handoff"
	"github.com/moodchat/moodchat-tui/internal/model"
	"github.com/moodchat/moodchat-tui/internal/session"
	"github.com/moodchat/moodchat-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SummaryReadyMsg tells the root model a summary is waiting in the handoff
// slot and the summary view should open.
type SummaryReadyMsg struct{}

// summaryResultMsg is the outcome of a summary request.
type summaryResultMsg struct {
	text string
	err  error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat view component.
type Model struct {
	client *api.Client
	store  *session.Store
	slot   *handoff.Slot
	theme  *styles.Theme

	lifecycle *session.Lifecycle

	conversation *model.Conversation
	// pendingEmotions parks enrichments that raced the history fetch. It
	// is settled and emptied when history lands; enrichments for unknown
	// ids after that are dropped, never parked.
	pendingEmotions map[model.MessageID]string
	historyLoaded   bool
	// pendingEvents buffers live arrivals until history lands, so the
	// history load cannot clobber them.
	pendingLive []model.Message

	viewport  viewport.Model
	input     textinput.Model
	ready     bool
	connected bool

	mood           string
	historyNotice  string
	statusNotice   string
	summaryBusy    bool
	showTimestamps bool

	width  int
	height int
}

// New creates the chat view for a fresh session.
func New(client *api.Client, store *session.Store, slot *handoff.Slot, lifecycle *session.Lifecycle, theme *styles.Theme, showTimestamps bool) Model {
	input := textinput.New()
	input.Placeholder = "type a message..."
	input.CharLimit = 2000
	input.Focus()

	return Model{
		client:          client,
		store:           store,
		slot:            slot,
		lifecycle:       lifecycle,
		theme:           theme,
		conversation:    model.NewConversation(store.Identity().Username),
		pendingEmotions: make(map[model.MessageID]string),
		input:           input,
		connected:       true,
		mood:            "",
		showTimestamps:  showTimestamps,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the layout dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height

	headerHeight := 3
	inputHeight := 3
	statusHeight := 1
	vpHeight := height - headerHeight - inputHeight - statusHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.input.Width = width - 4
	m.refreshViewport()
	return m
}

// SetConnected flips the connection indicator. The root model calls this
// on channel failure, just before teardown.
func (m Model) SetConnected(connected bool) Model {
	m.connected = connected
	return m
}

// refreshViewport re-renders the transcript and pins the view to the
// bottom. Every conversation change funnels through here.
func (m *Model) refreshViewport() {
	if !m.ready || m.conversation == nil {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// requestSummary fires the summary endpoint once. The control stays
// disabled until the answer lands.
func (m Model) requestSummary() tea.Cmd {
	client := m.client
	token := m.store.Token()
	return func() tea.Msg {
		text, err := client.Summary(context.Background(), token)
		return summaryResultMsg{text: text, err: err}
	}
}
