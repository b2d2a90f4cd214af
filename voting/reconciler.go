// Package voting reconciles score assertions and retractions against the
// stored vote collection of a submission.
package voting

import (
	"errors"
	"fmt"
	"time"

	"mission-bot/journal"
	"mission-bot/models"
	"mission-bot/store"
	"mission-bot/utils"
)

// Reconciler applies vote mutations. Judge eligibility and score mapping
// are resolved at the platform boundary before a call reaches this type;
// scores arrive pre-bounded to 1..5 by the fixed reaction surface.
type Reconciler struct {
	store   *store.Store
	journal *journal.Journal

	Now func() time.Time
}

// New creates a Reconciler. journal may be nil when auditing is disabled.
func New(st *store.Store, j *journal.Journal) *Reconciler {
	return &Reconciler{store: st, journal: j, Now: time.Now}
}

// AssertVote records the judge's score on a submission. A prior vote by
// the same judge is replaced in place, so the submission holds at most one
// vote per judge and the last assertion wins. An unknown submission id is
// a logged no-op.
func (r *Reconciler) AssertVote(submissionID, judgeID, judgeTag string, score int) error {
	err := r.store.MutateSubmission(submissionID, func(sub *models.Submission) {
		for i := range sub.Votes {
			if sub.Votes[i].JudgeID == judgeID {
				sub.Votes[i].Score = score
				sub.Votes[i].JudgeTag = judgeTag
				sub.Votes[i].UpdatedAt = r.Now()
				return
			}
		}
		sub.Votes = append(sub.Votes, models.Vote{
			JudgeID:   judgeID,
			JudgeTag:  judgeTag,
			Score:     score,
			UpdatedAt: r.Now(),
		})
	})
	if errors.Is(err, store.ErrNotFound) {
		utils.Warn("voting", "assert", fmt.Sprintf("no submission %s for vote by %s", submissionID, judgeID))
		return nil
	}
	if err != nil {
		return err
	}
	r.journal.RecordVote(submissionID, judgeID, "assert", score)
	return nil
}

// RetractVote removes the judge's vote from a submission, leaving no
// residue. Retracting a vote that does not exist, or retracting against an
// unknown submission, is a harmless no-op.
func (r *Reconciler) RetractVote(submissionID, judgeID string) error {
	err := r.store.MutateSubmission(submissionID, func(sub *models.Submission) {
		kept := sub.Votes[:0]
		for _, v := range sub.Votes {
			if v.JudgeID != judgeID {
				kept = append(kept, v)
			}
		}
		sub.Votes = kept
	})
	if errors.Is(err, store.ErrNotFound) {
		utils.Warn("voting", "retract", fmt.Sprintf("no submission %s for retraction by %s", submissionID, judgeID))
		return nil
	}
	if err != nil {
		return err
	}
	r.journal.RecordVote(submissionID, judgeID, "retract", 0)
	return nil
}
