package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mission-bot/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return st
}

func TestRegisterMissionIdempotent(t *testing.T) {
	st := newTestStore(t)
	deadline := time.Now().Add(24 * time.Hour)

	first, err := st.RegisterMission("thread-1", "Week 12", deadline)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	second, err := st.RegisterMission("thread-1", "different title", deadline.Add(time.Hour))
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("re-registration created a new mission: %s vs %s", first.ID, second.ID)
	}
	if second.Title != "Week 12" {
		t.Errorf("re-registration changed the record: title = %q", second.Title)
	}

	missions, err := st.ListMissions()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(missions) != 1 {
		t.Errorf("expected 1 mission, got %d", len(missions))
	}
}

func TestMissionLookupNotFound(t *testing.T) {
	st := newTestStore(t)
	if _, err := st.GetMission("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMission: want ErrNotFound, got %v", err)
	}
	if _, err := st.GetMissionByThread("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMissionByThread: want ErrNotFound, got %v", err)
	}
	if err := st.MarkMissionClosed("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkMissionClosed: want ErrNotFound, got %v", err)
	}
}

func TestMissionStatusMonotonic(t *testing.T) {
	st := newTestStore(t)
	m, err := st.RegisterMission("thread-1", "t", time.Now())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Exporting an active mission must not skip the closed state.
	if err := st.MarkMissionExported(m.ID, time.Now()); err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	got, _ := st.GetMission(m.ID)
	if got.Status != models.MissionActive {
		t.Fatalf("active mission jumped to %s", got.Status)
	}

	if err := st.MarkMissionClosed(m.ID); err != nil {
		t.Fatalf("mark closed: %v", err)
	}
	when := time.Now()
	if err := st.MarkMissionExported(m.ID, when); err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	got, _ = st.GetMission(m.ID)
	if got.Status != models.MissionExported {
		t.Fatalf("status = %s, want exported", got.Status)
	}
	if got.ExportedAt == nil {
		t.Fatal("exported-at not stamped")
	}

	// Closing again must not regress the status.
	if err := st.MarkMissionClosed(m.ID); err != nil {
		t.Fatalf("re-close: %v", err)
	}
	got, _ = st.GetMission(m.ID)
	if got.Status != models.MissionExported {
		t.Errorf("status regressed to %s", got.Status)
	}
}

func TestDueMissionSelection(t *testing.T) {
	st := newTestStore(t)
	now := time.Now()

	past, _ := st.RegisterMission("thread-past", "past", now.Add(-time.Minute))
	exact, _ := st.RegisterMission("thread-exact", "exact", now)
	if _, err := st.RegisterMission("thread-future", "future", now.Add(time.Minute)); err != nil {
		t.Fatalf("register: %v", err)
	}

	closed, _ := st.RegisterMission("thread-closed", "closed", now.Add(-time.Hour))
	if err := st.MarkMissionClosed(closed.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	due, err := st.DueMissions(now)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	ids := make(map[string]bool)
	for _, m := range due {
		ids[m.ID] = true
	}
	if len(due) != 2 || !ids[past.ID] || !ids[exact.ID] {
		t.Errorf("due selection wrong: got %d missions %v", len(due), ids)
	}
}

func TestCreateSubmissionConditionalInsert(t *testing.T) {
	st := newTestStore(t)

	sub := models.Submission{ID: "s1", MessageID: "msg-1", MissionID: "m1"}
	if _, err := st.CreateSubmission(sub); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := models.Submission{ID: "s2", MessageID: "msg-1", MissionID: "m1"}
	stored, err := st.CreateSubmission(dup)
	if !errors.Is(err, ErrDuplicateMessage) {
		t.Fatalf("want ErrDuplicateMessage, got %v", err)
	}
	if stored.ID != "s1" {
		t.Errorf("duplicate insert returned %s, want the original record", stored.ID)
	}

	subs, err := st.SubmissionsForMission("m1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("expected 1 submission, got %d", len(subs))
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	st, err := New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	m, err := st.RegisterMission("thread-1", "durable", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := st.CreateSubmission(models.Submission{ID: "s1", MessageID: "msg-1", MissionID: m.ID}); err != nil {
		t.Fatalf("create submission: %v", err)
	}

	reopened, err := New(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.GetMission(m.ID)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.Title != "durable" {
		t.Errorf("title = %q after reopen", got.Title)
	}
	if _, err := reopened.GetSubmissionByMessage("msg-1"); err != nil {
		t.Errorf("submission lost across reopen: %v", err)
	}
}

func TestFirstAccessSeedsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	st, err := New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	missions, err := st.ListMissions()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(missions) != 0 {
		t.Errorf("expected empty collection, got %d", len(missions))
	}
	if _, err := os.Stat(filepath.Join(dir, "missions.json")); err != nil {
		t.Errorf("missions file not seeded: %v", err)
	}
}

func TestMalformedCollectionFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "missions.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st, err := New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := st.ListMissions(); err == nil {
		t.Error("expected parse failure to propagate")
	}
}

func TestTemplateUpsert(t *testing.T) {
	st := newTestStore(t)
	if err := st.UpsertTemplate("recap", "first"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := st.UpsertTemplate("recap", "second"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := st.GetTemplate("recap")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Body != "second" {
		t.Errorf("body = %q, want second", got.Body)
	}
	all, _ := st.ListTemplates()
	if len(all) != 1 {
		t.Errorf("expected 1 template, got %d", len(all))
	}
}
