package sweep

import (
	"fmt"
	"strings"
	"time"
)

// Step names for mission reports.
const (
	StepRecap        = "recap"
	StepLock         = "lock"
	StepAnnouncement = "announcement"
	StepClose        = "close"
	StepResults      = "results"
	StepExport       = "export"
)

// StepResult records the outcome of one step of the close sequence.
type StepResult struct {
	Step string
	Err  error
}

// MissionReport is the typed outcome of processing one due mission, so
// callers and monitoring can observe partial failure instead of scraping
// logs.
type MissionReport struct {
	MissionID string
	Title     string
	Steps     []StepResult
	Closed    bool
	Exported  bool
}

// Failed returns the steps that ended in error.
func (r MissionReport) Failed() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}

// Report summarizes one sweep.
type Report struct {
	Started  time.Time
	Finished time.Time
	Missions []MissionReport
}

// ExportedCount returns how many missions reached exported this sweep.
func (r Report) ExportedCount() int {
	n := 0
	for _, m := range r.Missions {
		if m.Exported {
			n++
		}
	}
	return n
}

// Summary renders a one-line-per-mission digest for the journal and the
// admin channel.
func (r Report) Summary() string {
	if len(r.Missions) == 0 {
		return "no missions due"
	}
	var b strings.Builder
	for _, m := range r.Missions {
		var state string
		switch {
		case m.Exported:
			state = "exported"
		case m.Closed:
			state = "closed"
		default:
			state = "active"
		}
		fmt.Fprintf(&b, "%s: %s", m.Title, state)
		if failed := m.Failed(); len(failed) > 0 {
			names := make([]string, len(failed))
			for i, s := range failed {
				names[i] = s.Step
			}
			fmt.Fprintf(&b, " (failed: %s)", strings.Join(names, ", "))
		}
		b.WriteString("; ")
	}
	return strings.TrimSuffix(b.String(), "; ")
}
