// Package store keeps a JSON catalog of downloaded audio files and their
// transcripts, so short generated IDs can stand in for file paths everywhere
// else in the tool.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultFileName is the catalog file created inside the storage directory.
const DefaultFileName = "audio_metadata.json"

// Transcript records one produced transcript for an entry.
type Transcript struct {
	Language  string    `json:"language"`
	Path      string    `json:"path"`
	Words     int       `json:"words,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Entry is one downloaded audio file.
type Entry struct {
	ID              string       `json:"id"`
	VideoID         string       `json:"video_id"`
	URL             string       `json:"url"`
	Title           string       `json:"title"`
	Uploader        string       `json:"uploader"`
	DurationSeconds float64      `json:"duration_seconds"`
	FilePath        string       `json:"file_path"`
	SizeBytes       int64        `json:"size_bytes"`
	Quality         string       `json:"quality"`
	DownloadedAt    time.Time    `json:"downloaded_at"`
	Transcripts     []Transcript `json:"transcripts,omitempty"`
}

// Duration returns the entry's audio duration.
func (e Entry) Duration() time.Duration {
	return time.Duration(e.DurationSeconds * float64(time.Second))
}

// catalog is the on-disk document shape.
type catalog struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// Store reads and writes the catalog. Each mutating call rewrites the file
// atomically, so a crash never leaves a half-written catalog behind.
type Store struct {
	path string
}

// NewStore opens (or lazily creates) the catalog at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// GenerateID returns a fresh short entry ID, e.g. "audio_3fa4bc91".
func GenerateID() string {
	return "audio_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// load reads the catalog; a missing file is an empty catalog.
func (s *Store) load() (*catalog, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &catalog{Version: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", s.path, err)
	}
	return &c, nil
}

// save writes the catalog through a temp file and a rename.
func (s *Store) save(c *catalog) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}

// Add inserts a new entry, generating an ID when none is set, and returns
// the stored entry.
func (s *Store) Add(e Entry) (Entry, error) {
	c, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	if e.ID == "" {
		e.ID = GenerateID()
	}
	for _, existing := range c.Entries {
		if existing.ID == e.ID {
			return Entry{}, fmt.Errorf("%s: %w", e.ID, ErrDuplicateID)
		}
	}
	if e.DownloadedAt.IsZero() {
		e.DownloadedAt = time.Now()
	}
	c.Entries = append(c.Entries, e)
	if err := s.save(c); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(id string) (Entry, error) {
	c, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range c.Entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%s: %w", id, ErrNotFound)
}

// List returns all entries, newest first.
func (s *Store) List() ([]Entry, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(c.Entries))
	copy(entries, c.Entries)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DownloadedAt.After(entries[j].DownloadedAt)
	})
	return entries, nil
}

// Search returns entries whose ID, title, or uploader contains query,
// case-insensitively, newest first.
func (s *Store) Search(query string) ([]Entry, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var hits []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.ID), q) ||
			strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.Uploader), q) {
			hits = append(hits, e)
		}
	}
	return hits, nil
}

// Remove deletes the entry and, when deleteFile is set, its audio file.
func (s *Store) Remove(id string, deleteFile bool) error {
	c, err := s.load()
	if err != nil {
		return err
	}
	idx := -1
	for i, e := range c.Entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if deleteFile {
		if err := os.Remove(c.Entries[idx].FilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete audio file: %w", err)
		}
	}
	c.Entries = append(c.Entries[:idx], c.Entries[idx+1:]...)
	return s.save(c)
}

// AddTranscript records a transcript produced for the entry. A transcript
// for the same language replaces the previous one.
func (s *Store) AddTranscript(id string, t Transcript) error {
	c, err := s.load()
	if err != nil {
		return err
	}
	for i := range c.Entries {
		if c.Entries[i].ID != id {
			continue
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now()
		}
		kept := c.Entries[i].Transcripts[:0]
		for _, existing := range c.Entries[i].Transcripts {
			if existing.Language != t.Language {
				kept = append(kept, existing)
			}
		}
		c.Entries[i].Transcripts = append(kept, t)
		return s.save(c)
	}
	return fmt.Errorf("%s: %w", id, ErrNotFound)
}

// CleanupOrphans drops entries whose audio file no longer exists and
// returns the removed IDs.
func (s *Store) CleanupOrphans() ([]string, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}
	var removed []string
	kept := c.Entries[:0]
	for _, e := range c.Entries {
		if _, err := os.Stat(e.FilePath); err != nil {
			removed = append(removed, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	if len(removed) == 0 {
		return nil, nil
	}
	c.Entries = kept
	if err := s.save(c); err != nil {
		return nil, err
	}
	return removed, nil
}
