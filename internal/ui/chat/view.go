// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/moodchat/moodchat-tui/internal/emotion"
	"github.com/moodchat/moodchat-tui/internal/model"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatusBar(),
	)
}

// renderHeader shows the room title and the current aggregate mood. The
// mood falls back to neutral until the first poll lands.
func (m Model) renderHeader() string {
	t := m.theme
	title := t.HeaderTitle.Render("MoodChat")

	mood := m.mood
	if mood == "" {
		mood = emotion.LabelNeutral
	}
	badge := t.MoodBadge.Render(fmt.Sprintf("room mood: %s %s", emotion.MoodGlyph(mood), mood))

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(badge) - 4
	if gap < 1 {
		gap = 1
	}
	line := title + strings.Repeat(" ", gap) + badge
	return t.Header.Width(m.width - 2).Render(line)
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	t := m.theme

	conn := t.Connected.Render("● connected")
	if !m.connected {
		conn = t.Disconnected.Render("● disconnected")
	}

	summary := t.ShortcutKey.Render("ctrl+s") + t.ShortcutDesc.Render(" summary")
	if m.summaryBusy {
		summary = t.ShortcutDesc.Render("generating summary...")
	}

	parts := []string{
		conn,
		summary,
		t.ShortcutKey.Render("ctrl+q") + t.ShortcutDesc.Render(" logout"),
	}
	if m.statusNotice != "" {
		parts = append(parts, t.AuthError.Render(m.statusNotice))
	}
	return t.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// renderTranscript renders the whole conversation, oldest first.
func (m Model) renderTranscript() string {
	entries := m.conversation.Entries()
	if len(entries) == 0 && m.historyNotice == "" {
		return m.theme.NoticeText.Render("no messages yet")
	}

	var b strings.Builder
	if m.historyNotice != "" {
		b.WriteString(m.theme.AlertLine.Width(m.width - 2).Render(m.historyNotice))
		b.WriteString("\n")
	}
	for _, entry := range entries {
		switch entry.Kind {
		case model.EntryAlert:
			b.WriteString(m.theme.AlertLine.Width(m.width - 2).Render("⚠ " + entry.Alert))
		case model.EntryMessage:
			b.WriteString(m.renderMessage(entry))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderMessage renders one chat message as a bubble with a meta line.
func (m Model) renderMessage(entry *model.Entry) string {
	t := m.theme
	msg := entry.Msg

	if msg.IsSystem() {
		return t.SystemBubble.Render(msg.Content)
	}

	username := runewidth.Truncate(msg.Username, 24, "…")
	meta := t.Username.Render(username)
	if m.showTimestamps && !msg.Timestamp.IsZero() {
		meta += " " + t.Timestamp.Render(msg.Timestamp.Clock())
	}
	meta += " " + t.EmotionTag.Render(emotion.Glyph(msg.Emotion)+" "+emotion.Caption(msg.Emotion))

	bubble := t.RecvBubble
	align := lipgloss.Left
	if m.conversation.IsSent(msg) {
		bubble = t.SentBubble
		align = lipgloss.Right
	}
	if entry.Live {
		bubble = bubble.BorderForeground(t.LiveBubble.GetBorderTopForeground())
	}

	maxWidth := m.width * 3 / 4
	if maxWidth < 20 {
		maxWidth = 20
	}
	body := bubble.MaxWidth(maxWidth).Render(msg.Content)

	block := lipgloss.JoinVertical(align, meta, body)
	if m.width > 2 {
		return lipgloss.PlaceHorizontal(m.width-2, align, block)
	}
	return block
}
