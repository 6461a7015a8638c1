package model

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for note dates. Notes carry a
// calendar day, not an instant; comparisons are day-level and inclusive.
const DateLayout = "2006-01-02"

// Position is the geographic coordinate a note is pinned to. It is set once,
// from the map click that opened the add-note form, and never edited.
type Position struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type Note struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Position  Position  `bson:"position" json:"position"`
	NoteText  string    `bson:"noteText" json:"noteText"`
	Date      string    `bson:"date" json:"date"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ParseDate parses a note date in the DateLayout format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Validate checks the fields a client controls. The ID and image URL are
// assigned server-side and are not validated here.
func (n *Note) Validate() error {
	if strings.TrimSpace(n.NoteText) == "" {
		return errors.New("note text is required")
	}
	if len(n.NoteText) > 5000 {
		return errors.New("note text exceeds maximum length")
	}
	if n.Position.Lat < -90 || n.Position.Lat > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if n.Position.Lng < -180 || n.Position.Lng > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	if _, err := ParseDate(n.Date); err != nil {
		return errors.New("date must be in YYYY-MM-DD format")
	}
	return nil
}
