package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"main/model"
	"main/repository"
	"main/services"
)

// fakeNotesStore mimics the repository contract: remote documents plus an
// in-memory collection that only changes after the remote write succeeded.
type fakeNotesStore struct {
	nextID int
	docs   []model.Note // remote store, in insertion order
	mem    map[string][]model.Note
	loaded map[string]bool
}

func newFakeNotesStore() *fakeNotesStore {
	return &fakeNotesStore{
		mem:    make(map[string][]model.Note),
		loaded: make(map[string]bool),
	}
}

func (f *fakeNotesStore) LoadAll(ctx context.Context, userID string) ([]model.Note, error) {
	var notes []model.Note
	for _, n := range f.docs {
		if n.UserID == userID {
			notes = append(notes, n)
		}
	}
	f.mem[userID] = notes
	f.loaded[userID] = true
	return append([]model.Note(nil), notes...), nil
}

func (f *fakeNotesStore) Notes(userID string) ([]model.Note, bool) {
	return append([]model.Note(nil), f.mem[userID]...), f.loaded[userID]
}

func (f *fakeNotesStore) Create(ctx context.Context, note *model.Note) error {
	f.nextID++
	note.ID = fmt.Sprintf("note-%d", f.nextID)
	f.docs = append(f.docs, *note)
	f.mem[note.UserID] = append(f.mem[note.UserID], *note)
	return nil
}

func (f *fakeNotesStore) Update(ctx context.Context, userID, noteID string, update repository.NoteUpdate) (*model.Note, error) {
	for i := range f.docs {
		if f.docs[i].ID == noteID && f.docs[i].UserID == userID {
			f.docs[i].NoteText = update.NoteText
			f.docs[i].Date = update.Date
			f.docs[i].Image = update.Image
			notes, _ := f.LoadAll(ctx, userID)
			for j := range notes {
				if notes[j].ID == noteID {
					return &notes[j], nil
				}
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeNotesStore) Delete(ctx context.Context, userID, noteID string) error {
	kept := f.docs[:0]
	for _, n := range f.docs {
		if !(n.ID == noteID && n.UserID == userID) {
			kept = append(kept, n)
		}
	}
	f.docs = kept

	memKept := f.mem[userID][:0]
	for _, n := range f.mem[userID] {
		if n.ID != noteID {
			memKept = append(memKept, n)
		}
	}
	f.mem[userID] = memKept
	return nil
}

type fakeBlobStore struct {
	uploads []string
	fail    bool
}

func (f *fakeBlobStore) Upload(key string, r io.Reader) (string, error) {
	if f.fail {
		return "", fmt.Errorf("%w: connection reset", services.ErrUploadFailed)
	}
	f.uploads = append(f.uploads, key)
	return services.ImageURLPrefix + key, nil
}

func (f *fakeBlobStore) Open(key string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("image not found")
}

func newTestService() (*NotesService, *fakeNotesStore, *fakeBlobStore) {
	store := newFakeNotesStore()
	blobs := &fakeBlobStore{}
	return &NotesService{NotesRepo: store, Blobs: blobs}, store, blobs
}

func TestCreateNoteRoundTrip(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	note, err := svc.CreateNote(ctx, "user-1", CreateNoteInput{
		Position: model.Position{Lat: 40.0, Lng: 29.0},
		NoteText: "Test note",
		Date:     "2024-01-10",
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}
	if note.ID == "" {
		t.Fatal("created note has no store-assigned id")
	}
	if note.Image != "" {
		t.Errorf("note without an upload must have no image URL, got %q", note.Image)
	}

	notes, err := store.LoadAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected exactly one note after create, got %d", len(notes))
	}
	got := notes[0]
	if got.ID != note.ID || got.NoteText != "Test note" || got.Date != "2024-01-10" ||
		got.Position.Lat != 40.0 || got.Position.Lng != 29.0 {
		t.Errorf("reloaded note does not match submission: %+v", got)
	}
}

func TestCreateNoteWithImage(t *testing.T) {
	svc, _, blobs := newTestService()

	note, err := svc.CreateNote(context.Background(), "user-1", CreateNoteInput{
		Position: model.Position{Lat: 10, Lng: 20},
		NoteText: "With a photo",
		Date:     "2024-05-01",
		Image:    &ImageUpload{Filename: "beach.jpg", Content: strings.NewReader("jpegdata")},
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	if len(blobs.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(blobs.uploads))
	}
	if !strings.HasPrefix(note.Image, services.ImageURLPrefix) {
		t.Errorf("image URL %q does not point at the image endpoint", note.Image)
	}
	if !strings.HasSuffix(note.Image, "beach.jpg") {
		t.Errorf("image URL %q lost the original filename", note.Image)
	}
}

func TestCreateNoteUploadFailureWritesNothing(t *testing.T) {
	svc, store, blobs := newTestService()
	blobs.fail = true

	_, err := svc.CreateNote(context.Background(), "user-1", CreateNoteInput{
		Position: model.Position{Lat: 1, Lng: 2},
		NoteText: "Doomed",
		Date:     "2024-05-01",
		Image:    &ImageUpload{Filename: "x.png", Content: strings.NewReader("data")},
	})
	if !errors.Is(err, services.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}

	if len(store.docs) != 0 {
		t.Error("a failed upload must not create a note record")
	}
}

func TestCreateNoteValidation(t *testing.T) {
	svc, _, blobs := newTestService()

	tests := []struct {
		name string
		in   CreateNoteInput
	}{
		{"empty text", CreateNoteInput{Position: model.Position{Lat: 0, Lng: 0}, NoteText: "   ", Date: "2024-01-01"}},
		{"bad date", CreateNoteInput{Position: model.Position{Lat: 0, Lng: 0}, NoteText: "hi", Date: "01/02/2024"}},
		{"latitude out of range", CreateNoteInput{Position: model.Position{Lat: 91, Lng: 0}, NoteText: "hi", Date: "2024-01-01"}},
		{"longitude out of range", CreateNoteInput{Position: model.Position{Lat: 0, Lng: -181}, NoteText: "hi", Date: "2024-01-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Image = &ImageUpload{Filename: "x.png", Content: strings.NewReader("data")}
			if _, err := svc.CreateNote(context.Background(), "user-1", tt.in); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	// Validation runs before the upload, so nothing reached the blob store
	if len(blobs.uploads) != 0 {
		t.Errorf("invalid notes must not upload images, got %d uploads", len(blobs.uploads))
	}
}

func TestUpdateNoteCarriesImageForward(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateNote(ctx, "user-1", CreateNoteInput{
		Position: model.Position{Lat: 5, Lng: 5},
		NoteText: "Original",
		Date:     "2024-01-01",
		Image:    &ImageUpload{Filename: "first.jpg", Content: strings.NewReader("a")},
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	updated, err := svc.UpdateNote(ctx, "user-1", created.ID, UpdateNoteInput{
		NoteText: "Edited",
		Date:     "2024-01-02",
	})
	if err != nil {
		t.Fatalf("UpdateNote failed: %v", err)
	}

	if updated.Image != created.Image {
		t.Errorf("update without a new file must preserve the image URL: got %q, want %q",
			updated.Image, created.Image)
	}
	if updated.NoteText != "Edited" || updated.Date != "2024-01-02" {
		t.Errorf("text/date were not updated: %+v", updated)
	}
}

func TestUpdateNoteReplacesImage(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateNote(ctx, "user-1", CreateNoteInput{
		Position: model.Position{Lat: 5, Lng: 5},
		NoteText: "Original",
		Date:     "2024-01-01",
		Image:    &ImageUpload{Filename: "first.jpg", Content: strings.NewReader("a")},
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	updated, err := svc.UpdateNote(ctx, "user-1", created.ID, UpdateNoteInput{
		NoteText: "Edited",
		Date:     "2024-01-02",
		Image:    &ImageUpload{Filename: "second.jpg", Content: strings.NewReader("b")},
	})
	if err != nil {
		t.Fatalf("UpdateNote failed: %v", err)
	}

	if updated.Image == created.Image {
		t.Error("a new image file must replace the old URL")
	}
	if !strings.HasSuffix(updated.Image, "second.jpg") {
		t.Errorf("new image URL %q does not reference the new file", updated.Image)
	}
}

func TestUpdateNoteNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpdateNote(context.Background(), "user-1", "missing", UpdateNoteInput{
		NoteText: "x",
		Date:     "2024-01-01",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteNoteIsIdempotent(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateNote(ctx, "user-1", CreateNoteInput{
		Position: model.Position{Lat: 1, Lng: 1},
		NoteText: "Short lived",
		Date:     "2024-01-01",
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	if err := svc.DeleteNote(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}

	notes, _ := store.LoadAll(ctx, "user-1")
	for _, n := range notes {
		if n.ID == created.ID {
			t.Error("deleted note still present after reload")
		}
	}

	// Deleting again must not surface an error
	if err := svc.DeleteNote(ctx, "user-1", created.ID); err != nil {
		t.Errorf("second delete must be a benign no-op, got %v", err)
	}
}
