package store

import (
	"mission-bot/models"
)

// CreateSubmission inserts a new submission. The insert is conditional on
// the source message id: if a submission for the same message already
// exists the stored record is returned together with ErrDuplicateMessage,
// so near-simultaneous events for one message cannot produce two records.
func (s *Store) CreateSubmission(sub models.Submission) (models.Submission, error) {
	s.muSubmissions.Lock()
	defer s.muSubmissions.Unlock()

	doc, err := s.loadSubmissions()
	if err != nil {
		return models.Submission{}, err
	}
	for _, existing := range doc.Submissions {
		if existing.MessageID == sub.MessageID {
			return existing, ErrDuplicateMessage
		}
	}
	doc.Submissions = append(doc.Submissions, sub)
	if err := s.writeDoc(submissionsFile, doc); err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// GetSubmission looks up a submission by id. Returns ErrNotFound for
// unknown ids.
func (s *Store) GetSubmission(id string) (models.Submission, error) {
	doc, err := s.loadSubmissions()
	if err != nil {
		return models.Submission{}, err
	}
	for _, sub := range doc.Submissions {
		if sub.ID == id {
			return sub, nil
		}
	}
	return models.Submission{}, ErrNotFound
}

// GetSubmissionByMessage looks up a submission by its source message id.
func (s *Store) GetSubmissionByMessage(messageID string) (models.Submission, error) {
	doc, err := s.loadSubmissions()
	if err != nil {
		return models.Submission{}, err
	}
	for _, sub := range doc.Submissions {
		if sub.MessageID == messageID {
			return sub, nil
		}
	}
	return models.Submission{}, ErrNotFound
}

// SubmissionsForMission returns all submissions belonging to a mission, in
// insertion order.
func (s *Store) SubmissionsForMission(missionID string) ([]models.Submission, error) {
	doc, err := s.loadSubmissions()
	if err != nil {
		return nil, err
	}
	var out []models.Submission
	for _, sub := range doc.Submissions {
		if sub.MissionID == missionID {
			out = append(out, sub)
		}
	}
	return out, nil
}

// MutateSubmission applies fn to the submission with the given id under
// the submissions lock and persists the result. The whole load-mutate-save
// cycle runs inside the lock, so two concurrent vote mutations on the same
// collection cannot overwrite each other.
func (s *Store) MutateSubmission(id string, fn func(*models.Submission)) error {
	s.muSubmissions.Lock()
	defer s.muSubmissions.Unlock()

	doc, err := s.loadSubmissions()
	if err != nil {
		return err
	}
	for i := range doc.Submissions {
		if doc.Submissions[i].ID == id {
			fn(&doc.Submissions[i])
			return s.writeDoc(submissionsFile, doc)
		}
	}
	return ErrNotFound
}

// MarkSubmissionsExported flips the exported flag on every submission of a
// mission after a successful export.
func (s *Store) MarkSubmissionsExported(missionID string) error {
	s.muSubmissions.Lock()
	defer s.muSubmissions.Unlock()

	doc, err := s.loadSubmissions()
	if err != nil {
		return err
	}
	changed := false
	for i := range doc.Submissions {
		if doc.Submissions[i].MissionID == missionID && !doc.Submissions[i].Exported {
			doc.Submissions[i].Exported = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.writeDoc(submissionsFile, doc)
}
