package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"main/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func newMongoTestClient(t *testing.T) *mongo.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx,
		options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		t.Skipf("mongodb not available: %v", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Skipf("mongodb not reachable: %v", err)
	}

	return client
}

func TestNotesRepoOperations(t *testing.T) {
	client := newMongoTestClient(t)
	defer client.Disconnect(context.Background())

	ctx := context.Background()
	userID := uuid.New().String()

	coll := client.Database("geonote").Collection("testNotes")
	defer coll.Drop(ctx)

	repo := &NotesRepo{
		MongoCollection: coll,
		notes:           make(map[string][]model.Note),
	}

	var firstID string

	t.Run("Create", func(t *testing.T) {
		note := model.Note{
			UserID:   userID,
			Position: model.Position{Lat: 40.0, Lng: 29.0},
			NoteText: "Test note",
			Date:     "2024-01-10",
		}
		if err := repo.Create(ctx, &note); err != nil {
			t.Fatal("create note failed", err)
		}
		if note.ID == "" {
			t.Fatal("create did not assign an id")
		}
		firstID = note.ID
	})

	t.Run("CreateSecond", func(t *testing.T) {
		note := model.Note{
			UserID:   userID,
			Position: model.Position{Lat: 41.0, Lng: 28.0},
			NoteText: "Second note",
			Date:     "2024-02-20",
		}
		if err := repo.Create(ctx, &note); err != nil {
			t.Fatal("create note failed", err)
		}
	})

	t.Run("CreateWithoutUser", func(t *testing.T) {
		note := model.Note{
			NoteText: "Ownerless",
			Date:     "2024-01-01",
		}
		if err := repo.Create(ctx, &note); !errors.Is(err, ErrWriteFailed) {
			t.Fatal("expected ErrWriteFailed, got", err)
		}
	})

	t.Run("LoadAll", func(t *testing.T) {
		notes, err := repo.LoadAll(ctx, userID)
		if err != nil {
			t.Fatal("load all failed", err)
		}
		if len(notes) != 2 {
			t.Fatalf("expected 2 notes, got %d", len(notes))
		}
		// created_at ascending
		if notes[0].ID != firstID {
			t.Error("notes are not ordered oldest first")
		}
	})

	t.Run("NotesSnapshot", func(t *testing.T) {
		notes, ok := repo.Notes(userID)
		if !ok {
			t.Fatal("expected collection to be loaded")
		}
		if len(notes) != 2 {
			t.Fatalf("expected 2 notes in memory, got %d", len(notes))
		}
	})

	t.Run("Update", func(t *testing.T) {
		updated, err := repo.Update(ctx, userID, firstID, NoteUpdate{
			NoteText: "Edited note",
			Date:     "2024-01-11",
			Image:    "/api/images/123_pic.jpg",
		})
		if err != nil {
			t.Fatal("update note failed", err)
		}
		if updated.NoteText != "Edited note" || updated.Date != "2024-01-11" {
			t.Errorf("update did not persist: %+v", updated)
		}
		if updated.Position.Lat != 40.0 || updated.Position.Lng != 29.0 {
			t.Error("position must survive an update unchanged")
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		_, err := repo.Update(ctx, userID, "no-such-id", NoteUpdate{
			NoteText: "x",
			Date:     "2024-01-01",
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatal("expected ErrNotFound, got", err)
		}
	})

	t.Run("UpdateWrongUser", func(t *testing.T) {
		_, err := repo.Update(ctx, "someone-else", firstID, NoteUpdate{
			NoteText: "x",
			Date:     "2024-01-01",
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatal("expected ErrNotFound for another user's note, got", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := repo.Delete(ctx, userID, firstID); err != nil {
			t.Fatal("delete note failed", err)
		}
		notes, _ := repo.Notes(userID)
		for _, n := range notes {
			if n.ID == firstID {
				t.Error("deleted note still in memory")
			}
		}
	})

	t.Run("DeleteAgain", func(t *testing.T) {
		if err := repo.Delete(ctx, userID, firstID); err != nil {
			t.Fatal("repeated delete must succeed, got", err)
		}
	})

	t.Run("CountUserNotes", func(t *testing.T) {
		count, err := repo.CountUserNotes(ctx, userID)
		if err != nil {
			t.Fatal("count failed", err)
		}
		if count != 1 {
			t.Errorf("expected 1 remaining note, got %d", count)
		}
	})

	t.Run("DeleteUserNotes", func(t *testing.T) {
		if err := repo.DeleteUserNotes(ctx, userID); err != nil {
			t.Fatal("cascade delete failed", err)
		}
		count, err := repo.CountUserNotes(ctx, userID)
		if err != nil {
			t.Fatal("count failed", err)
		}
		if count != 0 {
			t.Errorf("expected no notes after cascade delete, got %d", count)
		}
	})
}
