// Package entity finds proper names in transcripts and lets the user fix
// how the transcription model spelled them.
package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jorujes/transcriberio/internal/provider"
	"github.com/jorujes/transcriberio/internal/textsplit"
)

// Entity types the detector reports.
const (
	TypePerson   = "PERSON"
	TypeLocation = "LOCATION"
)

// Entity is one proper name found in a transcript.
type Entity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

const (
	// detectChunkChars keeps each detection request comfortably inside the
	// model's context window.
	detectChunkChars = 8000
	defaultParallel  = 4
)

const detectSystemPrompt = `You are a named entity recognition system. Find every person name and location name in the text. Respond with a JSON object of the form {"entities": [{"name": "...", "type": "PERSON"}, {"name": "...", "type": "LOCATION"}]}. Report each distinct name once, exactly as it appears in the text. Report nothing else.`

// Detector finds PERSON and LOCATION entities using a chat model. Long
// transcripts are split at sentence boundaries and the pieces are detected
// concurrently.
type Detector struct {
	client   *provider.Client
	model    string
	parallel int
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithParallelism caps concurrent detection requests.
func WithParallelism(n int) DetectorOption {
	return func(d *Detector) {
		if n > 0 {
			d.parallel = n
		}
	}
}

// NewDetector builds a detector bound to the given client and model.
func NewDetector(client *provider.Client, model string, opts ...DetectorOption) *Detector {
	d := &Detector{client: client, model: model, parallel: defaultParallel}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the distinct entities in text, sorted by name. Names are
// deduplicated case-insensitively; the first spelling seen wins.
func (d *Detector) Detect(ctx context.Context, text string) ([]Entity, error) {
	chunks := textsplit.BySentences(text, detectChunkChars)
	if len(chunks) == 0 {
		return nil, nil
	}

	// Each goroutine writes its own slot, so no lock is needed.
	perChunk := make([][]Entity, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.parallel)
	for i, chunk := range chunks {
		g.Go(func() error {
			found, err := d.detectChunk(gctx, chunk)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			perChunk[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return merge(perChunk), nil
}

func (d *Detector) detectChunk(ctx context.Context, chunk string) ([]Entity, error) {
	resp, err := d.client.Chat(ctx, provider.ChatRequest{
		Model:      d.model,
		System:     detectSystemPrompt,
		User:       chunk,
		JSONObject: true,
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Entities []Entity `json:"entities"`
	}
	if err := json.Unmarshal([]byte(stripFences(resp)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	var valid []Entity
	for _, e := range parsed.Entities {
		e.Name = strings.TrimSpace(e.Name)
		e.Type = strings.ToUpper(strings.TrimSpace(e.Type))
		if e.Name == "" || (e.Type != TypePerson && e.Type != TypeLocation) {
			continue
		}
		valid = append(valid, e)
	}
	return valid, nil
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// merge flattens per-chunk results, deduplicating case-insensitively and
// sorting by name, then type.
func merge(perChunk [][]Entity) []Entity {
	seen := make(map[string]bool)
	var out []Entity
	for _, found := range perChunk {
		for _, e := range found {
			key := e.Type + "\x00" + strings.ToLower(e.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Type < out[j].Type
	})
	return out
}
