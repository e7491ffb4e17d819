// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the login and signup form.
//
// The form has two modes sharing the same two fields. Switching modes
// relabels the submit action and clears any stale error; a successful
// signup does not log the user in, it flips back to login mode with a
// confirmation notice.
package auth

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moodchat/moodchat-tui/internal/api"
	"github.com/moodchat/moodchat-tui/internal/ui/styles"
)

// Mode selects which form the view presents.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

const (
	fieldUsername = 0
	fieldPassword = 1
)

// =============================================================================
// MESSAGES
// =============================================================================

// SuccessMsg reports a completed login to the root model, which starts the
// session with the credential.
type SuccessMsg struct {
	Token    string
	Username string
}

// failedMsg carries a login or signup failure back into the form.
type failedMsg struct {
	err error
}

// signupDoneMsg flips the form back to login mode with a confirmation.
type signupDoneMsg struct{}

// =============================================================================
// MODEL
// =============================================================================

// Model is the auth form component.
type Model struct {
	client *api.Client
	theme  *styles.Theme

	mode   Mode
	inputs [2]textinput.Model
	focus  int
	busy   bool

	errText string
	notice  string

	width  int
	height int
}

// New creates the auth form in login mode.
func New(client *api.Client, theme *styles.Theme) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return Model{
		client: client,
		theme:  theme,
		mode:   ModeLogin,
		inputs: [2]textinput.Model{username, password},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears both fields and transient state, keeping the mode. The root
// model calls it when the session ends and the form comes back.
func (m Model) Reset() Model {
	m.inputs[fieldUsername].SetValue("")
	m.inputs[fieldPassword].SetValue("")
	m.busy = false
	m.errText = ""
	m.notice = ""
	m.focus = fieldUsername
	m.inputs[fieldUsername].Focus()
	m.inputs[fieldPassword].Blur()
	return m
}

// SetNotice shows an informational line above the form, used for session
// teardown reasons ("Connection lost", "Session expired").
func (m Model) SetNotice(text string) Model {
	m.notice = text
	return m
}

// SetError shows an error line, used when session entry fails after the
// form itself succeeded (rejected credential on the identity check).
func (m Model) SetError(text string) Model {
	m.errText = text
	m.busy = false
	return m
}

// SetSize updates the layout dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.cycleFocus(msg.String() == "shift+tab" || msg.String() == "up")
			return m, nil
		case "ctrl+t":
			m.toggleMode()
			return m, nil
		case "enter":
			return m.submit()
		}

	case failedMsg:
		m.busy = false
		m.errText = msg.err.Error()
		return m, nil

	case signupDoneMsg:
		m.busy = false
		m.mode = ModeLogin
		m.errText = ""
		m.notice = "Account created. Log in to continue."
		m.inputs[fieldPassword].SetValue("")
		return m, nil
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) cycleFocus(backwards bool) {
	if backwards {
		m.focus = (m.focus + len(m.inputs) - 1) % len(m.inputs)
	} else {
		m.focus = (m.focus + 1) % len(m.inputs)
	}
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// toggleMode switches between login and signup. Stale errors never carry
// across modes; the notice does, so a fresh signup confirmation survives a
// toggle round trip.
func (m *Model) toggleMode() {
	if m.mode == ModeLogin {
		m.mode = ModeSignup
	} else {
		m.mode = ModeLogin
	}
	m.errText = ""
}

func (m Model) submit() (Model, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	password := m.inputs[fieldPassword].Value()
	if username == "" || password == "" {
		m.errText = "username and password are required"
		return m, nil
	}

	m.busy = true
	m.errText = ""
	m.notice = ""

	client := m.client
	if m.mode == ModeSignup {
		return m, func() tea.Msg {
			if err := client.Signup(context.Background(), username, password); err != nil {
				return failedMsg{err: err}
			}
			return signupDoneMsg{}
		}
	}
	return m, func() tea.Msg {
		token, err := client.Login(context.Background(), username, password)
		if err != nil {
			return failedMsg{err: err}
		}
		return SuccessMsg{Token: token, Username: username}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	t := m.theme

	title := "MoodChat — Log In"
	action := "log in"
	toggleHint := "ctrl+t sign up"
	if m.mode == ModeSignup {
		title = "MoodChat — Sign Up"
		action = "create account"
		toggleHint = "ctrl+t log in"
	}

	var b strings.Builder
	b.WriteString(t.AuthTitle.Render(title))
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(t.AuthSuccess.Render(m.notice))
		b.WriteString("\n\n")
	}

	b.WriteString(t.AuthLabel.Render("Username"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldUsername].View())
	b.WriteString("\n\n")
	b.WriteString(t.AuthLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldPassword].View())
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(t.NoticeText.Render("working..."))
	} else {
		b.WriteString(t.ButtonActive.Render(action))
	}
	b.WriteString("\n\n")

	if m.errText != "" {
		b.WriteString(t.AuthError.Render(m.errText))
		b.WriteString("\n\n")
	}

	b.WriteString(t.AuthHint.Render("enter submit · tab next field · " + toggleHint + " · ctrl+q quit"))

	box := t.AuthBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// CurrentMode returns the form's active mode. Used by tests.
func (m Model) CurrentMode() Mode {
	return m.mode
}

// ErrText returns the visible error line. Used by tests.
func (m Model) ErrText() string {
	return m.errText
}
