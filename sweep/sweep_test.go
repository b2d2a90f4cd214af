package sweep_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mission-bot/models"
	"mission-bot/store"
	"mission-bot/sweep"
)

// fakeNotifier records calls and fails the steps named in failSteps.
type fakeNotifier struct {
	failSteps map[string]bool
	calls     []string
}

func (f *fakeNotifier) step(name string) error {
	f.calls = append(f.calls, name)
	if f.failSteps[name] {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeNotifier) PostRecap(models.Mission, []models.Submission) error { return f.step("recap") }
func (f *fakeNotifier) LockThread(models.Mission) error                     { return f.step("lock") }
func (f *fakeNotifier) UpdateAnnouncement(models.Mission) error {
	return f.step("announcement")
}
func (f *fakeNotifier) PostResults(models.Mission, []models.Submission) error {
	return f.step("results")
}

// fakeExporter captures exported missions and optionally fails.
type fakeExporter struct {
	fail     bool
	exported [][]models.Submission
	missions []models.Mission
}

func (f *fakeExporter) Export(_ context.Context, m models.Mission, subs []models.Submission) error {
	if f.fail {
		return errors.New("export failed")
	}
	f.missions = append(f.missions, m)
	f.exported = append(f.exported, subs)
	return nil
}

type env struct {
	store    *store.Store
	notifier *fakeNotifier
	exporter *fakeExporter
	sweeper  *sweep.Sweeper
	now      time.Time
}

func newEnv(t *testing.T, exportConfigured bool) *env {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	e := &env{
		store:    st,
		notifier: &fakeNotifier{failSteps: map[string]bool{}},
		exporter: &fakeExporter{},
		now:      time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
	var exp sweep.Exporter
	if exportConfigured {
		exp = e.exporter
	}
	e.sweeper = sweep.New(st, e.notifier, exp, nil)
	e.sweeper.Now = func() time.Time { return e.now }
	return e
}

func (e *env) mission(t *testing.T, threadID string, deadline time.Time) models.Mission {
	t.Helper()
	m, err := e.store.RegisterMission(threadID, threadID, deadline)
	if err != nil {
		t.Fatalf("register %s: %v", threadID, err)
	}
	return m
}

func TestSweepSelectsOnlyDueActiveMissions(t *testing.T) {
	e := newEnv(t, false)

	past := e.mission(t, "past", e.now.Add(-time.Minute))
	exact := e.mission(t, "exact", e.now)
	future := e.mission(t, "future", e.now.Add(time.Minute))

	report, err := e.sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Missions) != 2 {
		t.Fatalf("processed %d missions, want 2", len(report.Missions))
	}

	check := func(id string, want models.MissionStatus) {
		m, err := e.store.GetMission(id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if m.Status != want {
			t.Errorf("mission %s status = %s, want %s", m.Title, m.Status, want)
		}
	}
	check(past.ID, models.MissionClosed)
	check(exact.ID, models.MissionClosed)
	check(future.ID, models.MissionActive)
}

func TestCloseHappensDespiteBestEffortFailures(t *testing.T) {
	e := newEnv(t, false)
	e.notifier.failSteps["recap"] = true
	e.notifier.failSteps["lock"] = true
	e.notifier.failSteps["announcement"] = true
	e.notifier.failSteps["results"] = true

	m := e.mission(t, "thread-1", e.now.Add(-time.Hour))

	report, err := e.sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	got, _ := e.store.GetMission(m.ID)
	if got.Status != models.MissionClosed {
		t.Errorf("status = %s, want closed despite step failures", got.Status)
	}
	if len(report.Missions) != 1 {
		t.Fatalf("report has %d missions", len(report.Missions))
	}
	if failed := report.Missions[0].Failed(); len(failed) != 4 {
		t.Errorf("report shows %d failed steps, want 4", len(failed))
	}
	if !report.Missions[0].Closed {
		t.Error("report does not show the mission as closed")
	}
}

func TestExportFailureLeavesMissionClosed(t *testing.T) {
	e := newEnv(t, true)
	e.exporter.fail = true

	m := e.mission(t, "thread-1", e.now.Add(-time.Hour))

	report, err := e.sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	got, _ := e.store.GetMission(m.ID)
	if got.Status != models.MissionClosed {
		t.Errorf("status = %s, want closed after export failure", got.Status)
	}
	if report.Missions[0].Exported {
		t.Error("report claims export succeeded")
	}

	// The periodic sweep never retries closed missions.
	e.exporter.fail = false
	report, err = e.sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(report.Missions) != 0 {
		t.Errorf("second sweep reprocessed %d missions, want 0", len(report.Missions))
	}

	// Manual retry is the recovery path.
	if err := e.sweeper.RetryExport(context.Background(), m.ID); err != nil {
		t.Fatalf("retry export: %v", err)
	}
	got, _ = e.store.GetMission(m.ID)
	if got.Status != models.MissionExported {
		t.Errorf("status = %s after retry, want exported", got.Status)
	}
}

func TestExportNotConfiguredStaysClosed(t *testing.T) {
	e := newEnv(t, false)
	m := e.mission(t, "thread-1", e.now.Add(-time.Hour))

	if _, err := e.sweeper.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, _ := e.store.GetMission(m.ID)
	if got.Status != models.MissionClosed {
		t.Errorf("status = %s, want closed when export is not configured", got.Status)
	}
}

func TestSweepFullScenario(t *testing.T) {
	e := newEnv(t, true)
	m := e.mission(t, "art-week", e.now.Add(-time.Minute))

	if _, err := e.store.CreateSubmission(models.Submission{
		ID: "s1", MessageID: "msg-1", MissionID: m.ID,
		Votes: []models.Vote{
			{JudgeID: "a", JudgeTag: "A", Score: 4},
			{JudgeID: "b", JudgeTag: "B", Score: 2},
		},
	}); err != nil {
		t.Fatalf("create s1: %v", err)
	}
	if _, err := e.store.CreateSubmission(models.Submission{
		ID: "s2", MessageID: "msg-2", MissionID: m.ID,
		Votes: []models.Vote{{JudgeID: "a", JudgeTag: "A", Score: 5}},
	}); err != nil {
		t.Fatalf("create s2: %v", err)
	}

	report, err := e.sweeper.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	got, _ := e.store.GetMission(m.ID)
	if got.Status != models.MissionExported {
		t.Fatalf("status = %s, want exported", got.Status)
	}
	if got.ExportedAt == nil || !got.ExportedAt.Equal(e.now) {
		t.Errorf("exported-at = %v, want %v", got.ExportedAt, e.now)
	}
	if len(e.exporter.exported) != 1 || len(e.exporter.exported[0]) != 2 {
		t.Fatalf("exporter received %v", e.exporter.exported)
	}

	subs, _ := e.store.SubmissionsForMission(m.ID)
	for _, sub := range subs {
		if !sub.Exported {
			t.Errorf("submission %s not flagged exported", sub.ID)
		}
	}
	if !report.Missions[0].Exported || report.ExportedCount() != 1 {
		t.Error("report does not reflect the export")
	}
}

func TestFetchFailureLeavesMissionActive(t *testing.T) {
	dir := t.TempDir()
	st, err := store.New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	m, err := st.RegisterMission("thread-1", "stalled", now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	// A corrupt submissions collection makes the fetch step fail.
	if err := os.WriteFile(filepath.Join(dir, "submissions.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("corrupt submissions: %v", err)
	}

	sw := sweep.New(st, &fakeNotifier{failSteps: map[string]bool{}}, nil, nil)
	sw.Now = func() time.Time { return now }
	report, err := sw.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	got, _ := st.GetMission(m.ID)
	if got.Status != models.MissionActive {
		t.Errorf("status = %s, want active so the next sweep retries", got.Status)
	}
	if len(report.Missions) != 1 || report.Missions[0].Closed {
		t.Fatalf("report should show one unclosed mission, got %+v", report.Missions)
	}
	summary := report.Summary()
	if !strings.Contains(summary, "stalled: active") {
		t.Errorf("summary %q does not report the mission as active", summary)
	}
	if strings.Contains(summary, "stalled: closed") {
		t.Errorf("summary %q misreports the mission as closed", summary)
	}
}

func TestRetryExportRejectsNonClosed(t *testing.T) {
	e := newEnv(t, true)
	m := e.mission(t, "thread-1", e.now.Add(time.Hour)) // still active

	if err := e.sweeper.RetryExport(context.Background(), m.ID); err == nil {
		t.Error("expected error retrying an active mission")
	}
	if err := e.sweeper.RetryExport(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}
