// Package sweep drives missions past their deadline through the
// close/export sequence: recap, thread lock, announcement update, close,
// results, export. Closing is unconditional; everything around it is
// best-effort.
package sweep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mission-bot/journal"
	"mission-bot/models"
	"mission-bot/store"
	"mission-bot/utils"
)

// Notifier is the chat-platform side of the close sequence. Every method
// is best-effort: a failure is reported but never blocks the close.
type Notifier interface {
	PostRecap(m models.Mission, subs []models.Submission) error
	LockThread(m models.Mission) error
	UpdateAnnouncement(m models.Mission) error
	PostResults(m models.Mission, subs []models.Submission) error
}

// Exporter writes a mission's results to the export destination. The
// implementation must be idempotent at mission granularity.
type Exporter interface {
	Export(ctx context.Context, m models.Mission, subs []models.Submission) error
}

// Sweeper runs the deadline scan. A mutex prevents two sweeps from
// overlapping when a run outlasts the schedule interval.
type Sweeper struct {
	store    *store.Store
	notifier Notifier
	exporter Exporter // nil when no export destination is configured
	journal  *journal.Journal

	mu  sync.Mutex
	Now func() time.Time
}

// New creates a Sweeper. exporter may be nil; missions then stay closed
// permanently. journal may be nil.
func New(st *store.Store, n Notifier, e Exporter, j *journal.Journal) *Sweeper {
	return &Sweeper{store: st, notifier: n, exporter: e, journal: j, Now: time.Now}
}

// Run executes one sweep: select active missions with deadline at or
// before now and process each fully before the next, bounding concurrent
// load on the chat and export APIs.
func (s *Sweeper) Run(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := Report{Started: s.Now()}
	due, err := s.store.DueMissions(report.Started)
	if err != nil {
		return report, fmt.Errorf("failed to select due missions: %w", err)
	}

	for _, m := range due {
		report.Missions = append(report.Missions, s.process(ctx, m))
	}
	report.Finished = s.Now()

	s.journal.RecordSweep(report.Started, report.Finished, len(report.Missions), report.ExportedCount(), report.Summary())
	if len(report.Missions) > 0 {
		utils.Info("sweep", "run", report.Summary())
	}
	return report, nil
}

// process drives one mission through the close/export sequence.
func (s *Sweeper) process(ctx context.Context, m models.Mission) MissionReport {
	r := MissionReport{MissionID: m.ID, Title: m.Title}
	step := func(name string, err error) {
		r.Steps = append(r.Steps, StepResult{Step: name, Err: err})
		if err != nil {
			utils.Warn("sweep", name, fmt.Sprintf("mission %s: %v", store.MissionLabel(m), err))
		}
	}

	subs, err := s.store.SubmissionsForMission(m.ID)
	if err != nil {
		// Without the submissions nothing downstream is meaningful; leave
		// the mission active so the next sweep retries from scratch.
		step("fetch", err)
		return r
	}

	step(StepRecap, s.notifier.PostRecap(m, subs))
	step(StepLock, s.notifier.LockThread(m))
	step(StepAnnouncement, s.notifier.UpdateAnnouncement(m))

	// Closing must not be blocked by announcement failures above.
	if err := s.store.MarkMissionClosed(m.ID); err != nil {
		step(StepClose, err)
		return r
	}
	step(StepClose, nil)
	r.Closed = true
	m.Status = models.MissionClosed

	step(StepResults, s.notifier.PostResults(m, subs))

	if s.exporter == nil {
		return r
	}
	if err := s.exportMission(ctx, m, subs); err != nil {
		// The mission stays closed; the periodic sweep only selects active
		// missions, so recovery is the manual retry path.
		step(StepExport, err)
		return r
	}
	step(StepExport, nil)
	r.Exported = true
	return r
}

// exportMission runs the export adapter and records the outcome.
func (s *Sweeper) exportMission(ctx context.Context, m models.Mission, subs []models.Submission) error {
	if err := s.exporter.Export(ctx, m, subs); err != nil {
		return err
	}
	if err := s.store.MarkMissionExported(m.ID, s.Now()); err != nil {
		return fmt.Errorf("export succeeded but status update failed: %w", err)
	}
	if err := s.store.MarkSubmissionsExported(m.ID); err != nil {
		return fmt.Errorf("export succeeded but submission flags failed: %w", err)
	}
	return nil
}

// RetryExport re-runs the export for a mission stuck at closed after an
// export failure. This is the operator-facing recovery path; the periodic
// sweep never picks closed missions up again.
func (s *Sweeper) RetryExport(ctx context.Context, missionID string) error {
	if s.exporter == nil {
		return fmt.Errorf("no export destination configured")
	}
	m, err := s.store.GetMission(missionID)
	if err != nil {
		return err
	}
	if m.Status != models.MissionClosed {
		return fmt.Errorf("mission %s is %s, only closed missions can be re-exported", store.MissionLabel(m), m.Status)
	}
	subs, err := s.store.SubmissionsForMission(m.ID)
	if err != nil {
		return err
	}
	return s.exportMission(ctx, m, subs)
}
