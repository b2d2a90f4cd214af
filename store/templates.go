package store

import (
	"mission-bot/models"
)

// GetTemplate looks up a stored template by name.
func (s *Store) GetTemplate(name string) (models.Template, error) {
	doc, err := s.loadTemplates()
	if err != nil {
		return models.Template{}, err
	}
	for _, t := range doc.Templates {
		if t.Name == name {
			return t, nil
		}
	}
	return models.Template{}, ErrNotFound
}

// ListTemplates returns all stored templates.
func (s *Store) ListTemplates() ([]models.Template, error) {
	doc, err := s.loadTemplates()
	if err != nil {
		return nil, err
	}
	return doc.Templates, nil
}

// UpsertTemplate creates or replaces a template by name.
func (s *Store) UpsertTemplate(name, body string) error {
	s.muTemplates.Lock()
	defer s.muTemplates.Unlock()

	doc, err := s.loadTemplates()
	if err != nil {
		return err
	}
	for i := range doc.Templates {
		if doc.Templates[i].Name == name {
			doc.Templates[i].Body = body
			doc.Templates[i].UpdatedAt = s.Now()
			return s.writeDoc(templatesFile, doc)
		}
	}
	doc.Templates = append(doc.Templates, models.Template{
		Name:      name,
		Body:      body,
		UpdatedAt: s.Now(),
	})
	return s.writeDoc(templatesFile, doc)
}
