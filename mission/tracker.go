// Package mission turns qualifying messages inside mission threads into
// submission records, auto-registering a mission per thread.
package mission

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"mission-bot/models"
	"mission-bot/store"
)

// DefaultDeadline is applied when a mission is registered implicitly from
// a submission rather than by an explicit command.
const DefaultDeadline = 7 * 24 * time.Hour

// Candidate carries everything the tracker needs about a qualifying
// message. The caller has already verified the message is not from a bot,
// lives in a mission thread, and contains at least one URL.
type Candidate struct {
	ThreadID   string
	ThreadName string
	ChannelID  string
	MessageID  string
	AuthorID   string
	AuthorTag  string
	Content    string
	URLs       []string
	Origin     string
}

// Tracker creates submissions and resolves them back from source message
// ids on incoming reaction events.
type Tracker struct {
	store *store.Store

	// byMessage maps source message id to submission id. It is purely a
	// latency cache; the store is authoritative and is always consulted on
	// a miss before concluding "not found".
	mu        sync.RWMutex
	byMessage map[string]string

	Now func() time.Time
}

// New creates a Tracker backed by st.
func New(st *store.Store) *Tracker {
	return &Tracker{
		store:     st,
		byMessage: make(map[string]string),
		Now:       time.Now,
	}
}

// Track records a candidate message as a submission. The owning mission is
// resolved by thread id and registered on the fly when missing, with the
// thread name as title and a deadline seven days out. A candidate whose
// message id is already recorded returns the existing submission.
func (t *Tracker) Track(c Candidate) (models.Submission, error) {
	m, err := t.store.GetMissionByThread(c.ThreadID)
	if errors.Is(err, store.ErrNotFound) {
		m, err = t.store.RegisterMission(c.ThreadID, c.ThreadName, t.Now().Add(DefaultDeadline))
		if err == nil {
			log.Printf("Auto-registered mission %q for thread %s", m.Title, c.ThreadID)
		}
	}
	if err != nil {
		return models.Submission{}, err
	}

	sub := models.Submission{
		ID:          uuid.NewString(),
		MessageID:   c.MessageID,
		ChannelID:   c.ChannelID,
		ThreadID:    c.ThreadID,
		MissionID:   m.ID,
		AuthorID:    c.AuthorID,
		AuthorTag:   c.AuthorTag,
		Content:     c.Content,
		URLs:        c.URLs,
		Votes:       []models.Vote{},
		SubmittedAt: t.Now(),
		Origin:      c.Origin,
	}

	stored, err := t.store.CreateSubmission(sub)
	if errors.Is(err, store.ErrDuplicateMessage) {
		// A concurrent event won the insert; the stored record is the one
		// that counts.
		t.remember(c.MessageID, stored.ID)
		return stored, nil
	}
	if err != nil {
		return models.Submission{}, err
	}
	t.remember(c.MessageID, stored.ID)
	return stored, nil
}

// SubmissionByMessage resolves a submission from its source message id,
// preferring the in-process cache and falling back to a store scan.
func (t *Tracker) SubmissionByMessage(messageID string) (models.Submission, error) {
	t.mu.RLock()
	id, ok := t.byMessage[messageID]
	t.mu.RUnlock()
	if ok {
		sub, err := t.store.GetSubmission(id)
		if err == nil {
			return sub, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return models.Submission{}, err
		}
		// Stale cache entry; fall through to the authoritative lookup.
	}

	sub, err := t.store.GetSubmissionByMessage(messageID)
	if err != nil {
		return models.Submission{}, err
	}
	t.remember(messageID, sub.ID)
	return sub, nil
}

func (t *Tracker) remember(messageID, submissionID string) {
	t.mu.Lock()
	t.byMessage[messageID] = submissionID
	t.mu.Unlock()
}
