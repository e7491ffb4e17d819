// moodchat TUI - a terminal client for the MoodChat server.
//
// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moodchat/moodchat-tui/internal/api"
	"github.com/moodchat/moodchat-tui/internal/config"
	"github.com/moodchat/moodchat-tui/internal/handoff"
	"github.com/moodchat/moodchat-tui/internal/session"
	"github.com/moodchat/moodchat-tui/internal/ui/auth"
	"github.com/moodchat/moodchat-tui/internal/ui/chat"
	"github.com/moodchat/moodchat-tui/internal/ui/styles"
	"github.com/moodchat/moodchat-tui/internal/ui/summary"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async delivery from network goroutines
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

// sendToProgram delivers a message into the UI loop from any goroutine.
func sendToProgram(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func main() {
	cfg := config.Global()
	theme := styles.NewTheme(cfg.UI.Theme)
	client := api.NewClient(cfg.Server.URL)

	m := NewModel(theme, client, cfg)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running moodchat: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// State represents the current application state.
type State int

const (
	StateAuth    State = iota // Login / signup form
	StateChat                 // Chat view
	StateSummary              // Summary view
)

// Model is the main Bubble Tea model for the application.
type Model struct {
	// State
	state State

	// Theme and styling
	theme *styles.Theme

	// Application configuration
	config *config.Config

	// Server client, shared across sessions
	client *api.Client

	// Session state: one store for the process, one lifecycle per login.
	// A nil lifecycle means logged out.
	store     *session.Store
	lifecycle *session.Lifecycle

	// Summary handoff between chat and summary views
	slot *handoff.Slot

	// Session traffic that arrived before the chat view was built. The
	// websocket is up before sessionStartedMsg is processed, so the join
	// notice (and anything else the server pushes on accept) can land
	// first; it is replayed into the chat view on entry.
	entryBacklog []tea.Msg

	// Views
	authModel    auth.Model
	chatModel    chat.Model
	summaryModel summary.Model

	// Dimensions
	width  int
	height int
}

// NewModel creates the application model in the auth state.
func NewModel(theme *styles.Theme, client *api.Client, cfg *config.Config) *Model {
	return &Model{
		state:     StateAuth,
		theme:     theme,
		config:    cfg,
		client:    client,
		store:     session.NewStore(),
		slot:      handoff.NewSlot(),
		authModel: auth.New(client, theme),
	}
}

// =============================================================================
// SESSION CONTROL
// =============================================================================

// sessionStartedMsg reports a successfully established session.
type sessionStartedMsg struct {
	sessionID string
}

// sessionStartFailedMsg reports a failed session entry; the credential has
// already been wiped by the lifecycle.
type sessionStartFailedMsg struct {
	err error
}

// startSession builds a fresh lifecycle for the credential and brings it
// up off the UI loop.
func (m *Model) startSession(token string) tea.Cmd {
	lc := session.NewLifecycle(m.client, m.store, sendToProgram, m.config.MoodPollInterval())
	m.lifecycle = lc
	return func() tea.Msg {
		if err := lc.Start(context.Background(), token); err != nil {
			return sessionStartFailedMsg{err: err}
		}
		return sessionStartedMsg{sessionID: lc.ID()}
	}
}

// endSession is the UI side of the teardown funnel: it stops the
// lifecycle, drops back to the auth form and shows why. Safe to call when
// already logged out.
func (m *Model) endSession(notice string) tea.Cmd {
	lc := m.lifecycle
	m.lifecycle = nil
	m.entryBacklog = nil
	m.state = StateAuth
	m.authModel = m.authModel.Reset()
	if notice != "" {
		m.authModel = m.authModel.SetNotice(notice)
	}
	if lc == nil {
		return nil
	}
	// Stop blocks until the poller exits; keep it off the UI loop.
	return func() tea.Msg {
		lc.Stop()
		return nil
	}
}

// ownedByCurrentSession filters out messages from a torn-down lifecycle.
// A straggler from a dead session must never touch the live view.
func (m *Model) ownedByCurrentSession(sessionID string) bool {
	return m.lifecycle != nil && m.lifecycle.ID() == sessionID
}

// bufferUntilChat holds an owned session message while the chat view does
// not exist yet. Reports whether the message was buffered.
func (m *Model) bufferUntilChat(msg tea.Msg) bool {
	if m.state == StateChat {
		return false
	}
	m.entryBacklog = append(m.entryBacklog, msg)
	return true
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.authModel.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.authModel = m.authModel.SetSize(msg.Width, msg.Height)
		m.chatModel = m.chatModel.SetSize(msg.Width, msg.Height)
		m.summaryModel = m.summaryModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Sequence(m.endSession(""), tea.Quit)
		case "ctrl+q":
			if m.state == StateAuth {
				return m, tea.Quit
			}
			return m, m.endSession("Logged out.")
		}

	case auth.SuccessMsg:
		return m, m.startSession(msg.Token)

	case sessionStartedMsg:
		if !m.ownedByCurrentSession(msg.sessionID) {
			return m, nil
		}
		m.chatModel = chat.New(m.client, m.store, m.slot, m.lifecycle, m.theme, m.config.UI.ShowTimestamps)
		m.chatModel = m.chatModel.SetSize(m.width, m.height)
		m.state = StateChat
		cmds := []tea.Cmd{m.chatModel.Init()}
		for _, queued := range m.entryBacklog {
			var cmd tea.Cmd
			m.chatModel, cmd = m.chatModel.Update(queued)
			cmds = append(cmds, cmd)
		}
		m.entryBacklog = nil
		return m, tea.Batch(cmds...)

	case sessionStartFailedMsg:
		m.lifecycle = nil
		m.entryBacklog = nil
		m.authModel = m.authModel.SetError(msg.err.Error())
		return m, nil

	case session.ChannelDownMsg:
		if !m.ownedByCurrentSession(msg.SessionID) {
			return m, nil
		}
		m.chatModel = m.chatModel.SetConnected(false)
		return m, m.endSession("Connection lost. Log in to reconnect.")

	case session.HistoryLoadedMsg:
		if !m.ownedByCurrentSession(msg.SessionID) {
			return m, nil
		}
		if m.bufferUntilChat(msg) {
			return m, nil
		}
	case session.HistoryFailedMsg:
		if !m.ownedByCurrentSession(msg.SessionID) {
			return m, nil
		}
		if m.bufferUntilChat(msg) {
			return m, nil
		}
	case session.MoodUpdatedMsg:
		if !m.ownedByCurrentSession(msg.SessionID) {
			return m, nil
		}
		if m.bufferUntilChat(msg) {
			return m, nil
		}
	case session.PushEventMsg:
		if !m.ownedByCurrentSession(msg.SessionID) {
			return m, nil
		}
		if m.bufferUntilChat(msg) {
			return m, nil
		}

	case chat.SummaryReadyMsg:
		m.summaryModel = summary.New(m.slot, m.theme).SetSize(m.width, m.height)
		m.state = StateSummary
		return m, nil

	case summary.BackMsg:
		m.state = StateChat
		return m, nil
	}

	// Route everything else to the active view.
	var cmd tea.Cmd
	switch m.state {
	case StateAuth:
		m.authModel, cmd = m.authModel.Update(msg)
	case StateChat:
		m.chatModel, cmd = m.chatModel.Update(msg)
	case StateSummary:
		m.summaryModel, cmd = m.summaryModel.Update(msg)
	}
	return m, cmd
}

// View renders the current state.
func (m *Model) View() string {
	switch m.state {
	case StateChat:
		return m.chatModel.View()
	case StateSummary:
		return m.summaryModel.View()
	default:
		return m.authModel.View()
	}
}
