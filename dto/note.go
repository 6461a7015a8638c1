package dto

import (
	"main/model"
	"time"
)

// CreateNoteRequest carries the add-note form fields. The image file rides
// alongside in the multipart body and is handled separately.
type CreateNoteRequest struct {
	// "required" would reject the equator and the prime meridian; zero is
	// a legitimate coordinate.
	Lat      float64 `form:"lat" binding:"min=-90,max=90"`
	Lng      float64 `form:"lng" binding:"min=-180,max=180"`
	NoteText string  `form:"noteText" binding:"required"`
	Date     string  `form:"date" binding:"required"`
}

// UpdateNoteRequest carries the edit-note form fields. Position is absent on
// purpose: it is fixed at creation.
type UpdateNoteRequest struct {
	NoteText string `form:"noteText" binding:"required"`
	Date     string `form:"date" binding:"required"`
}

type NoteResponse struct {
	ID        string         `json:"id"`
	Position  model.Position `json:"position"`
	NoteText  string         `json:"noteText"`
	Date      string         `json:"date"`
	Image     string         `json:"image,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func ToNoteResponse(note *model.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Position:  note.Position,
		NoteText:  note.NoteText,
		Date:      note.Date,
		Image:     note.Image,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

func ToNoteResponses(notes []model.Note) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i := range notes {
		responses[i] = ToNoteResponse(&notes[i])
	}
	return responses
}
