// Package notify implements the tab notification engine: it tracks the
// workspace topology pushed by the host, routes notification requests to the
// tab that originated them and computes the label mutation for that tab.
package notify

import (
	"strings"
	"unicode"
)

// Glyphs recognised as notification marks. Strip removes any of them from the
// end of a label; presets may use other glyphs, but only these are cleaned up.
const (
	GlyphAlert       = "🔴"
	GlyphSuccess     = "✅"
	GlyphError       = "❌"
	GlyphWarning     = "⚠️"
	GlyphInfo        = "⚡"
	GlyphPending     = "💼"
	GlyphCelebration = "🎉"
	GlyphUnknown     = "❓"
)

var glyphAlphabet = []string{
	GlyphAlert,
	GlyphSuccess,
	GlyphError,
	GlyphWarning,
	GlyphInfo,
	GlyphPending,
	GlyphCelebration,
	GlyphUnknown,
}

// Glyphs returns a copy of the glyph alphabet recognised by Strip.
func Glyphs() []string {
	out := make([]string, len(glyphAlphabet))
	copy(out, glyphAlphabet)
	return out
}

// IsGlyph reports whether s is one of the recognised glyphs.
func IsGlyph(s string) bool {
	for _, g := range glyphAlphabet {
		if s == g {
			return true
		}
	}
	return false
}

// Strip removes trailing whitespace and trailing glyphs from label until
// neither is left. It never fails and returns clean labels unchanged.
func Strip(label string) string {
	cleaned := label
	for {
		before := len(cleaned)
		cleaned = strings.TrimRightFunc(cleaned, unicode.IsSpace)

		removed := false
		for _, g := range glyphAlphabet {
			if strings.HasSuffix(cleaned, g) {
				cleaned = cleaned[:len(cleaned)-len(g)]
				removed = true
				break
			}
		}

		if !removed && len(cleaned) == before {
			return cleaned
		}
	}
}

// Annotate appends glyph to a clean label, separated by a single space.
func Annotate(base, glyph string) string {
	return base + " " + glyph
}

// Reannotate replaces whatever mark label carries with glyph.
func Reannotate(label, glyph string) string {
	return Annotate(Strip(label), glyph)
}
