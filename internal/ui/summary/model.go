// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package summary implements the conversation summary view.
//
// The view consumes the handoff slot exactly once, at construction. Opening
// it again without a fresh summary shows the placeholder; a stored summary
// can never leak into a later session.
package summary

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/moodchat/moodchat-tui/internal/handoff"
	"github.com/moodchat/moodchat-tui/internal/ui/styles"
)

// BackMsg tells the root model to return to the chat view.
type BackMsg struct{}

// Model is the summary view component.
type Model struct {
	theme *styles.Theme

	raw      string
	rendered string

	viewport viewport.Model
	ready    bool

	width  int
	height int
}

// New builds the summary view, taking whatever the handoff slot holds.
// The take empties the slot.
func New(slot *handoff.Slot, theme *styles.Theme) Model {
	raw, _ := slot.Take()
	return Model{
		theme: theme,
		raw:   raw,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize updates the layout and re-renders the markdown at the new width.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height

	vpHeight := height - 4
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(width-4, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width - 4
		m.viewport.Height = vpHeight
	}

	m.rendered = renderMarkdown(m.raw, width-8)
	m.viewport.SetContent(m.rendered)
	return m
}

// renderMarkdown renders the summary through glamour, falling back to the
// raw text when rendering fails.
func renderMarkdown(raw string, width int) string {
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return raw
	}
	out, err := renderer.Render(raw)
	if err != nil {
		return raw
	}
	return strings.TrimRight(out, "\n")
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "enter":
			return m, func() tea.Msg { return BackMsg{} }
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	t := m.theme
	body := lipgloss.JoinVertical(lipgloss.Left,
		t.SummaryTitle.Render("Conversation Summary"),
		"",
		m.viewport.View(),
		"",
		t.AuthHint.Render("esc back to chat"),
	)
	return t.SummaryBox.Width(m.width - 2).Render(body)
}
