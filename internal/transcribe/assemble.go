package transcribe

import (
	"sort"
	"strings"
)

// Assemble joins segment transcripts into one text. Segments are taken in
// plan order, trimmed, and joined with a single space; failed or empty
// segments are skipped so the surviving text stays contiguous.
func Assemble(units []UnitResult) string {
	ordered := make([]UnitResult, len(units))
	copy(ordered, units)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	parts := make([]string, 0, len(ordered))
	for _, u := range ordered {
		if !u.OK() {
			continue
		}
		if text := strings.TrimSpace(u.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
