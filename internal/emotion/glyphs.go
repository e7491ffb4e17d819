// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package emotion maps the server's emotion label vocabulary to display
// glyphs. The vocabulary is closed; lookups never fail. A label outside
// the vocabulary resolves to the fallback glyph, never to an error.
package emotion

// Glyphs maps each known emotion label to its display glyph.
// The label set matches the classifier vocabulary used by the server.
var Glyphs = map[string]string{
	"admiration":     "😍",
	"amusement":      "😄",
	"anger":          "😠",
	"annoyance":      "😒",
	"approval":       "👍",
	"caring":         "🤗",
	"confusion":      "😕",
	"curiosity":      "🤔",
	"desire":         "😏",
	"disappointment": "😞",
	"disapproval":    "👎",
	"disgust":        "🤢",
	"embarrassment":  "😳",
	"excitement":     "🤩",
	"fear":           "😨",
	"gratitude":      "🙏",
	"grief":          "😥",
	"joy":            "😊",
	"love":           "❤️",
	"nervousness":    "😬",
	"optimism":       "🙂",
	"pride":          "😎",
	"realization":    "💡",
	"relief":         "😌",
	"remorse":        "😔",
	"sadness":        "😢",
	"surprise":       "😮",
	"neutral":        "😐",
	"unknown":        "💬",
}

// Labels the two fallback targets explicitly so callers never hardcode them.
const (
	LabelUnknown = "unknown"
	LabelNeutral = "neutral"
)

// Glyph resolves a message emotion label to its glyph. Absent or
// unrecognized labels resolve to the "unknown" glyph.
func Glyph(label string) string {
	if g, ok := Glyphs[label]; ok {
		return g
	}
	return Glyphs[LabelUnknown]
}

// MoodGlyph resolves an aggregate mood label to its glyph. The mood display
// falls back to "neutral" rather than "unknown", mirroring the distinction
// between an unclassified message and an aggregate with no strong signal.
func MoodGlyph(label string) string {
	if g, ok := Glyphs[label]; ok {
		return g
	}
	return Glyphs[LabelNeutral]
}

// Known reports whether label is part of the classifier vocabulary.
func Known(label string) bool {
	_, ok := Glyphs[label]
	return ok
}

// Caption formats the tooltip-style caption shown next to a glyph.
func Caption(label string) string {
	if label == "" {
		label = LabelUnknown
	}
	return "feeling: " + label
}
