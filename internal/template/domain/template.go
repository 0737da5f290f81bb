package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// Template is one resume document. Content is an opaque JSON blob owned by
// the frontend editor; the backend stores and returns it untouched.
type Template struct {
	ID        int64
	UserID    int64
	Name      string
	Company   string
	Content   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Validate validates the template for persistence.
func (t *Template) Validate() error {
	if t.Name == "" {
		return errors.New("name is required")
	}
	if t.UserID == 0 {
		return errors.New("user id is required")
	}
	return nil
}
