// Package store is the durable persistence layer for missions, submissions
// and templates. Each collection is one JSON file in the data directory,
// holding a single object with one list field. Every mutation is a full
// load-mutate-save of the owning collection, serialized by a per-collection
// mutex so two writers can never interleave and lose an update.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mission-bot/models"
)

var (
	// ErrNotFound is returned by lookups for ids that do not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicateMessage is returned when a submission already exists for
	// the same source message id.
	ErrDuplicateMessage = errors.New("store: submission already exists for message")
)

const (
	missionsFile    = "missions.json"
	submissionsFile = "submissions.json"
	templatesFile   = "templates.json"
)

type missionDoc struct {
	Missions []models.Mission `json:"missions"`
}

type submissionDoc struct {
	Submissions []models.Submission `json:"submissions"`
}

type templateDoc struct {
	Templates []models.Template `json:"templates"`
}

// Store reads and writes the JSON collection files. The files are the
// single source of truth; nothing is cached between calls.
type Store struct {
	dir string

	muMissions    sync.Mutex
	muSubmissions sync.Mutex
	muTemplates   sync.Mutex

	// Now is swappable for tests.
	Now func() time.Time
}

// New creates a Store rooted at dir. The directory is created if absent;
// collection files are created lazily on first access.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir, Now: time.Now}, nil
}

// readDoc loads a collection file into v. A missing file seeds the file
// with the provided empty document and leaves v untouched. A file that
// exists but cannot be parsed is a hard error; there is no partial
// recovery.
func (s *Store) readDoc(name string, v any, empty any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.writeDoc(name, empty)
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeDoc(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func (s *Store) loadMissions() (missionDoc, error) {
	var doc missionDoc
	err := s.readDoc(missionsFile, &doc, missionDoc{Missions: []models.Mission{}})
	return doc, err
}

func (s *Store) loadSubmissions() (submissionDoc, error) {
	var doc submissionDoc
	err := s.readDoc(submissionsFile, &doc, submissionDoc{Submissions: []models.Submission{}})
	return doc, err
}

func (s *Store) loadTemplates() (templateDoc, error) {
	var doc templateDoc
	err := s.readDoc(templatesFile, &doc, templateDoc{Templates: []models.Template{}})
	return doc, err
}
