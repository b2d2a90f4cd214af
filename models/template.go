package models

import "time"

// Template is a stored announcement/recap template. Placeholders of the
// form {{name}} are substituted when the template is rendered.
type Template struct {
	Name      string    `json:"name"` // unique
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}
