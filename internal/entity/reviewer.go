package entity

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Replacement is one accepted correction from a review session.
type Replacement struct {
	From string
	To   string
}

// ReviewOutcome summarizes an interactive review session.
type ReviewOutcome struct {
	Text         string // transcript with replacements applied
	Replacements []Replacement
	Kept         int
	Skipped      int
}

// Reviewer walks the user through detected entities one at a time, reading
// decisions from in and prompting on out. Each entity can be kept, replaced
// with a corrected spelling, or skipped; quitting aborts the session.
type Reviewer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewReviewer builds a reviewer over the given streams, typically stdin and
// stdout.
func NewReviewer(in io.Reader, out io.Writer) *Reviewer {
	return &Reviewer{in: bufio.NewReader(in), out: out}
}

// Review presents each entity and applies the user's replacements to text.
// Returns ErrReviewAborted when the user quits; decisions made before the
// quit are discarded.
func (r *Reviewer) Review(entities []Entity, text string) (ReviewOutcome, error) {
	outcome := ReviewOutcome{Text: text}

	for i, e := range entities {
		count := countWholeWord(text, e.Name)
		fmt.Fprintf(r.out, "\n[%d/%d] %s (%s) — %d occurrence(s)\n",
			i+1, len(entities), e.Name, e.Type, count)
		fmt.Fprint(r.out, "[k]eep / [r]eplace / [s]kip / [q]uit: ")

		choice, err := r.readLine()
		if err != nil {
			return outcome, fmt.Errorf("read decision: %w", err)
		}

		switch strings.ToLower(choice) {
		case "r", "replace":
			fmt.Fprintf(r.out, "Replace %q with: ", e.Name)
			replacement, err := r.readLine()
			if err != nil {
				return outcome, fmt.Errorf("read replacement: %w", err)
			}
			if replacement == "" || replacement == e.Name {
				outcome.Kept++
				continue
			}
			outcome.Replacements = append(outcome.Replacements, Replacement{From: e.Name, To: replacement})
		case "s", "skip":
			outcome.Skipped++
		case "q", "quit":
			return ReviewOutcome{Text: text}, ErrReviewAborted
		default: // keep is the default for empty or unrecognized input
			outcome.Kept++
		}
	}

	outcome.Text = ApplyReplacements(text, outcome.Replacements)
	return outcome, nil
}

func (r *Reviewer) readLine() (string, error) {
	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ApplyReplacements rewrites every whole-word occurrence of each source name.
// Multi-word names match across their internal whitespace.
func ApplyReplacements(text string, replacements []Replacement) string {
	for _, rep := range replacements {
		re, err := wholeWordPattern(rep.From)
		if err != nil {
			continue
		}
		text = re.ReplaceAllString(text, rep.To)
	}
	return text
}

func wholeWordPattern(name string) (*regexp.Regexp, error) {
	return regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
}

func countWholeWord(text, name string) int {
	re, err := wholeWordPattern(name)
	if err != nil {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}
