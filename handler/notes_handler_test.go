package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"main/model"
	"main/repository"
	"main/usecase"

	"github.com/gin-gonic/gin"
)

// memNotesStore backs the handlers with an in-memory collection so the HTTP
// surface can be exercised without a database.
type memNotesStore struct {
	nextID int
	notes  map[string][]model.Note
}

func newMemNotesStore() *memNotesStore {
	return &memNotesStore{notes: make(map[string][]model.Note)}
}

func (s *memNotesStore) LoadAll(ctx context.Context, userID string) ([]model.Note, error) {
	return append([]model.Note(nil), s.notes[userID]...), nil
}

func (s *memNotesStore) Notes(userID string) ([]model.Note, bool) {
	return append([]model.Note(nil), s.notes[userID]...), true
}

func (s *memNotesStore) Create(ctx context.Context, note *model.Note) error {
	s.nextID++
	note.ID = fmt.Sprintf("note-%d", s.nextID)
	s.notes[note.UserID] = append(s.notes[note.UserID], *note)
	return nil
}

func (s *memNotesStore) Update(ctx context.Context, userID, noteID string, update repository.NoteUpdate) (*model.Note, error) {
	for i := range s.notes[userID] {
		if s.notes[userID][i].ID == noteID {
			s.notes[userID][i].NoteText = update.NoteText
			s.notes[userID][i].Date = update.Date
			s.notes[userID][i].Image = update.Image
			n := s.notes[userID][i]
			return &n, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memNotesStore) Delete(ctx context.Context, userID, noteID string) error {
	kept := s.notes[userID][:0]
	for _, n := range s.notes[userID] {
		if n.ID != noteID {
			kept = append(kept, n)
		}
	}
	s.notes[userID] = kept
	return nil
}

func setupNotesRouter(store *memNotesStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	notesService := &usecase.NotesService{NotesRepo: store}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", "test-user")
		c.Next()
	})
	router.GET("/notes", func(c *gin.Context) {
		GetUserNotesHandler(c, notesService)
	})
	router.GET("/notes/search", func(c *gin.Context) {
		SearchNotesHandler(c, notesService)
	})
	router.DELETE("/notes/:id", func(c *gin.Context) {
		DeleteNoteHandler(c, notesService)
	})
	return router
}

func seedNotes(store *memNotesStore) {
	notes := []model.Note{
		{UserID: "test-user", Position: model.Position{Lat: 40, Lng: 29}, NoteText: "Coffee here", Date: "2024-01-10"},
		{UserID: "test-user", Position: model.Position{Lat: 41, Lng: 28}, NoteText: "Great view", Date: "2024-02-20"},
		{UserID: "test-user", Position: model.Position{Lat: 42, Lng: 27}, NoteText: "Another coffee spot", Date: "2024-03-05"},
	}
	for i := range notes {
		store.Create(context.Background(), &notes[i])
	}
}

type listResponse struct {
	Data []struct {
		ID       string `json:"id"`
		NoteText string `json:"noteText"`
		Date     string `json:"date"`
	} `json:"data"`
}

func TestGetUserNotesHandler(t *testing.T) {
	store := newMemNotesStore()
	seedNotes(store)
	router := setupNotesRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp listResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Data) != 3 {
		t.Errorf("expected 3 notes, got %d", len(resp.Data))
	}
}

func TestSearchNotesHandler(t *testing.T) {
	store := newMemNotesStore()
	seedNotes(store)
	router := setupNotesRouter(store)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantCount int
	}{
		{"no filters returns all", "", http.StatusOK, 3},
		{"text query case-insensitive", "q=COFFEE", http.StatusOK, 2},
		{"start date bound", "start_date=2024-02-01", http.StatusOK, 2},
		{"end date bound", "end_date=2024-01-31", http.StatusOK, 1},
		{"combined", "q=coffee&start_date=2024-02-01", http.StatusOK, 1},
		{"no match", "q=pizza", http.StatusOK, 0},
		{"bad date bound", "start_date=tomorrow", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/notes/search?"+tt.query, nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			var resp listResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("bad response body: %v", err)
			}
			if len(resp.Data) != tt.wantCount {
				t.Errorf("expected %d notes, got %d", tt.wantCount, len(resp.Data))
			}
		})
	}
}

func TestDeleteNoteHandler(t *testing.T) {
	store := newMemNotesStore()
	seedNotes(store)
	router := setupNotesRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/notes/note-1", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Deleting the same note again still succeeds
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/notes/note-1", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat delete, got %d: %s", w.Code, w.Body.String())
	}

	notes, _ := store.Notes("test-user")
	if len(notes) != 2 {
		t.Errorf("expected 2 notes left, got %d", len(notes))
	}
}
