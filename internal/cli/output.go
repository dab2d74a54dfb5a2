package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jorujes/transcriberio/internal/format"
	"github.com/jorujes/transcriberio/internal/store"
)

// truncate shortens s to max runes, ending with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// printEntries writes the catalog entries as an aligned table.
func printEntries(w io.Writer, entries []store.Entry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tUPLOADER\tDURATION\tSIZE\tTRANSCRIPTS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			e.ID,
			truncate(e.Title, 40),
			truncate(e.Uploader, 20),
			format.Duration(e.Duration()),
			format.Size(e.SizeBytes),
			len(e.Transcripts),
		)
	}
	tw.Flush()
}
