package model

import (
	"strings"
	"testing"
)

func validNote() Note {
	return Note{
		UserID:   "user-1",
		Position: Position{Lat: 40.0, Lng: 29.0},
		NoteText: "Test note",
		Date:     "2024-01-10",
	}
}

func TestNoteValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Note)
		wantErr bool
	}{
		{"valid", func(n *Note) {}, false},
		{"zero coordinates are valid", func(n *Note) { n.Position = Position{} }, false},
		{"latitude at bound", func(n *Note) { n.Position.Lat = -90 }, false},
		{"longitude at bound", func(n *Note) { n.Position.Lng = 180 }, false},
		{"empty text", func(n *Note) { n.NoteText = "" }, true},
		{"whitespace text", func(n *Note) { n.NoteText = " \t\n" }, true},
		{"text too long", func(n *Note) { n.NoteText = strings.Repeat("a", 5001) }, true},
		{"latitude too high", func(n *Note) { n.Position.Lat = 90.5 }, true},
		{"latitude too low", func(n *Note) { n.Position.Lat = -90.5 }, true},
		{"longitude too high", func(n *Note) { n.Position.Lng = 180.5 }, true},
		{"longitude too low", func(n *Note) { n.Position.Lng = -180.5 }, true},
		{"empty date", func(n *Note) { n.Date = "" }, true},
		{"slash date", func(n *Note) { n.Date = "01/10/2024" }, true},
		{"datetime not accepted", func(n *Note) { n.Date = "2024-01-10T00:00:00Z" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNote()
			tt.mutate(&n)
			err := n.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected a validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-10")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 1 || d.Day() != 10 {
		t.Errorf("parsed wrong day: %v", d)
	}

	if _, err := ParseDate("2024-1-10"); err == nil {
		t.Error("non-padded date must not parse")
	}
}
