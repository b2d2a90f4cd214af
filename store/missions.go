package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"mission-bot/models"
)

// RegisterMission creates a mission for the given thread, or returns the
// existing one unchanged when the thread is already registered. At most one
// mission exists per thread id.
func (s *Store) RegisterMission(threadID, title string, deadline time.Time) (models.Mission, error) {
	s.muMissions.Lock()
	defer s.muMissions.Unlock()

	doc, err := s.loadMissions()
	if err != nil {
		return models.Mission{}, err
	}
	for _, m := range doc.Missions {
		if m.ThreadID == threadID {
			return m, nil
		}
	}

	m := models.Mission{
		ID:        uuid.NewString(),
		Title:     title,
		ThreadID:  threadID,
		Deadline:  deadline,
		Status:    models.MissionActive,
		CreatedAt: s.Now(),
	}
	doc.Missions = append(doc.Missions, m)
	if err := s.writeDoc(missionsFile, doc); err != nil {
		return models.Mission{}, err
	}
	return m, nil
}

// GetMission looks up a mission by id. Returns ErrNotFound for unknown ids.
func (s *Store) GetMission(id string) (models.Mission, error) {
	doc, err := s.loadMissions()
	if err != nil {
		return models.Mission{}, err
	}
	for _, m := range doc.Missions {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Mission{}, ErrNotFound
}

// GetMissionByThread looks up a mission by its thread id.
func (s *Store) GetMissionByThread(threadID string) (models.Mission, error) {
	doc, err := s.loadMissions()
	if err != nil {
		return models.Mission{}, err
	}
	for _, m := range doc.Missions {
		if m.ThreadID == threadID {
			return m, nil
		}
	}
	return models.Mission{}, ErrNotFound
}

// ListMissions returns all missions.
func (s *Store) ListMissions() ([]models.Mission, error) {
	doc, err := s.loadMissions()
	if err != nil {
		return nil, err
	}
	return doc.Missions, nil
}

// DueMissions returns missions that are still active and whose deadline is
// at or before now.
func (s *Store) DueMissions(now time.Time) ([]models.Mission, error) {
	doc, err := s.loadMissions()
	if err != nil {
		return nil, err
	}
	var due []models.Mission
	for _, m := range doc.Missions {
		if m.Due(now) {
			due = append(due, m)
		}
	}
	return due, nil
}

// MutateMission applies fn to the mission with the given id under the
// missions lock and persists the result. Returns ErrNotFound when the id
// does not exist.
func (s *Store) MutateMission(id string, fn func(*models.Mission)) error {
	s.muMissions.Lock()
	defer s.muMissions.Unlock()

	doc, err := s.loadMissions()
	if err != nil {
		return err
	}
	for i := range doc.Missions {
		if doc.Missions[i].ID == id {
			fn(&doc.Missions[i])
			return s.writeDoc(missionsFile, doc)
		}
	}
	return ErrNotFound
}

// MarkMissionClosed moves an active mission to closed. Closing a mission
// that is already closed or exported is a no-op; status never regresses.
func (s *Store) MarkMissionClosed(id string) error {
	return s.MutateMission(id, func(m *models.Mission) {
		if m.Status == models.MissionActive {
			m.Status = models.MissionClosed
		}
	})
}

// MarkMissionExported moves a closed mission to exported and stamps the
// export time. Calling it for a mission that is not closed is a no-op.
func (s *Store) MarkMissionExported(id string, when time.Time) error {
	return s.MutateMission(id, func(m *models.Mission) {
		if m.Status == models.MissionClosed {
			m.Status = models.MissionExported
			m.ExportedAt = &when
		}
	})
}

// SetMissionBrief attaches free-text brief content to a mission.
func (s *Store) SetMissionBrief(id, brief string) error {
	return s.MutateMission(id, func(m *models.Mission) {
		m.Brief = brief
	})
}

// SetMissionAnnouncement records the announcement message the sweep will
// later edit to a closed marker.
func (s *Store) SetMissionAnnouncement(id, channelID, messageID string) error {
	return s.MutateMission(id, func(m *models.Mission) {
		m.AnnounceChannelID = channelID
		m.AnnounceMessageID = messageID
	})
}

// SetMissionTelegramLink records the secondary-platform identifiers for a
// mission created from Telegram.
func (s *Store) SetMissionTelegramLink(id string, chatID int64, messageID int) error {
	return s.MutateMission(id, func(m *models.Mission) {
		m.TelegramChatID = chatID
		m.TelegramMessageID = messageID
	})
}

// MissionLabel is a short human-readable identifier for log lines.
func MissionLabel(m models.Mission) string {
	return fmt.Sprintf("%s (%s)", m.Title, m.ID)
}
