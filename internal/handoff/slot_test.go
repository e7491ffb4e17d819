// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package handoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlot_PutThenTake(t *testing.T) {
	slot := NewSlot()
	slot.Put("The room discussed lunch plans.")

	text, ok := slot.Take()
	assert.True(t, ok)
	assert.Equal(t, "The room discussed lunch plans.", text)
}

func TestSlot_TakeConsumes(t *testing.T) {
	slot := NewSlot()
	slot.Put("one-shot")

	_, ok := slot.Take()
	assert.True(t, ok)

	text, ok := slot.Take()
	assert.False(t, ok, "second take finds the slot empty")
	assert.Equal(t, Placeholder, text)
}

func TestSlot_EmptyTakeYieldsPlaceholder(t *testing.T) {
	text, ok := NewSlot().Take()
	assert.False(t, ok)
	assert.Equal(t, Placeholder, text)
}

func TestSlot_PutOverwritesUnconsumed(t *testing.T) {
	slot := NewSlot()
	slot.Put("stale")
	slot.Put("fresh")

	text, ok := slot.Take()
	assert.True(t, ok)
	assert.Equal(t, "fresh", text)
}
