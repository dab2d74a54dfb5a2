// Package textsplit cuts long text into pieces small enough for one API
// request, preferring sentence boundaries so no piece starts mid-thought.
package textsplit

import (
	"strings"
	"unicode/utf8"
)

// sentence terminators, in the order we scan backwards for them. The CJK
// fullwidth marks end a sentence without a trailing space.
var boundaries = []string{". ", "! ", "? ", "\n", "。", "！", "？"}

// BySentences splits text into chunks of at most maxChars bytes, cutting at
// the last sentence boundary inside each window. A sentence longer than
// maxChars is cut hard at the limit, backed up so a multi-byte rune is never
// split. Returns nil for empty input.
func BySentences(text string, maxChars int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxChars <= 0 || len(text) <= maxChars {
		return []string{text}
	}

	var chunks []string
	for len(text) > maxChars {
		cut := lastBoundary(text[:maxChars])
		if cut <= 0 {
			cut = runeAligned(text, maxChars)
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// lastBoundary returns the index just past the rightmost sentence boundary
// in window, or -1 when none exists.
func lastBoundary(window string) int {
	best := -1
	for _, b := range boundaries {
		if i := strings.LastIndex(window, b); i >= 0 && i+len(b) > best {
			best = i + len(b)
		}
	}
	return best
}

// runeAligned backs the cut position up to the start of the rune it would
// otherwise split. A limit smaller than a single rune cuts anyway, since the
// loop must make progress.
func runeAligned(text string, cut int) int {
	aligned := cut
	for aligned > 0 && !utf8.RuneStart(text[aligned]) {
		aligned--
	}
	if aligned == 0 {
		return cut
	}
	return aligned
}
