package usecase

import (
	"context"
	"fmt"
	"io"

	"main/model"
	"main/repository"
	"main/services"
)

// NotesStore is what the note service needs from the note repository.
type NotesStore interface {
	LoadAll(ctx context.Context, userID string) ([]model.Note, error)
	Notes(userID string) ([]model.Note, bool)
	Create(ctx context.Context, note *model.Note) error
	Update(ctx context.Context, userID, noteID string, update repository.NoteUpdate) (*model.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
}

type NotesService struct {
	NotesRepo NotesStore
	Blobs     services.BlobStore
}

// ImageUpload is an image file riding along a create or update request.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

type CreateNoteInput struct {
	Position model.Position
	NoteText string
	Date     string
	Image    *ImageUpload
}

type UpdateNoteInput struct {
	NoteText string
	Date     string
	Image    *ImageUpload
}

// ListNotes returns the user's note collection, serving from the in-memory
// collection when it has been loaded and fetching from the store otherwise.
func (svc *NotesService) ListNotes(ctx context.Context, userID string) ([]model.Note, error) {
	if notes, ok := svc.NotesRepo.Notes(userID); ok {
		return notes, nil
	}
	return svc.NotesRepo.LoadAll(ctx, userID)
}

// FilterNotes applies the predicate to the user's collection.
func (svc *NotesService) FilterNotes(ctx context.Context, userID string, predicate model.FilterPredicate) ([]model.Note, error) {
	notes, err := svc.ListNotes(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ApplyFilter(notes, predicate)
}

// CreateNote uploads the image first, if any, and inserts the note document
// only after the upload completed. A failed upload creates no note; a failed
// insert after a successful upload leaves the blob orphaned, which is
// accepted rather than reconciled.
func (svc *NotesService) CreateNote(ctx context.Context, userID string, in CreateNoteInput) (*model.Note, error) {
	note := &model.Note{
		UserID:   userID,
		Position: in.Position,
		NoteText: in.NoteText,
		Date:     in.Date,
	}
	if err := note.Validate(); err != nil {
		return nil, err
	}

	if in.Image != nil {
		url, err := svc.Blobs.Upload(services.GenerateBlobKey(in.Image.Filename), in.Image.Content)
		if err != nil {
			return nil, err
		}
		note.Image = url
	}

	if err := svc.NotesRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// UpdateNote writes the merged fields for an existing note. With no new
// image the prior image URL is carried forward unchanged, not cleared; a new
// image replaces it.
func (svc *NotesService) UpdateNote(ctx context.Context, userID, noteID string, in UpdateNoteInput) (*model.Note, error) {
	existing, err := svc.findNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	merged := *existing
	merged.NoteText = in.NoteText
	merged.Date = in.Date
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	imageURL := existing.Image
	if in.Image != nil {
		url, err := svc.Blobs.Upload(services.GenerateBlobKey(in.Image.Filename), in.Image.Content)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	return svc.NotesRepo.Update(ctx, userID, noteID, repository.NoteUpdate{
		NoteText: in.NoteText,
		Date:     in.Date,
		Image:    imageURL,
	})
}

// DeleteNote removes the note. Deleting an id that is already gone is
// treated as success: a concurrent deletion by another session is an
// expected race, not a defect.
func (svc *NotesService) DeleteNote(ctx context.Context, userID, noteID string) error {
	if noteID == "" {
		return fmt.Errorf("note ID is required")
	}
	return svc.NotesRepo.Delete(ctx, userID, noteID)
}

func (svc *NotesService) findNote(ctx context.Context, userID, noteID string) (*model.Note, error) {
	notes, err := svc.ListNotes(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if notes[i].ID == noteID {
			return &notes[i], nil
		}
	}
	return nil, repository.ErrNotFound
}
