package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotesRepo is the single source of truth for the note collection. It
// mediates between the handlers and the remote document store: every
// mutation goes to MongoDB first, and the in-memory collection changes only
// after the remote operation succeeded. An operation either fully succeeds
// or leaves both remote and local state as they were.
type NotesRepo struct {
	MongoCollection *mongo.Collection

	mu    sync.RWMutex
	notes map[string][]model.Note // authoritative collection, keyed by user
}

func GetNotesRepo(client *mongo.Client) *NotesRepo {
	return &NotesRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection("notes"),
		notes:           make(map[string][]model.Note),
	}
}

// NoteUpdate carries the fields an edit operation may change. Position is
// deliberately absent: it is set once at creation.
type NoteUpdate struct {
	NoteText string
	Date     string
	Image    string
}

// LoadAll fetches every note document for the user and replaces the
// in-memory collection atomically. Callers never observe a partially-loaded
// collection: on any failure the previous collection is left untouched.
func (r *NotesRepo) LoadAll(ctx context.Context, userID string) ([]model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "notes_load_failed")
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer cursor.Close(ctx)

	notes := []model.Note{}
	if err = cursor.All(ctx, &notes); err != nil {
		utils.TrackError("database", "notes_decode_failed")
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	r.mu.Lock()
	r.notes[userID] = notes
	r.mu.Unlock()

	return copyNotes(notes), nil
}

// Notes returns the current in-memory collection for the user. The second
// return reports whether LoadAll has populated it in this process.
func (r *NotesRepo) Notes(userID string) ([]model.Note, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes, ok := r.notes[userID]
	return copyNotes(notes), ok
}

// Create inserts the note document and, only after the insert succeeded,
// appends the note to the in-memory collection. The store-assigned id is
// written back into the note.
func (r *NotesRepo) Create(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	if note.UserID == "" {
		return fmt.Errorf("%w: user ID is required", ErrWriteFailed)
	}

	note.ID = primitive.NewObjectID().Hex()
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt

	if _, err := r.MongoCollection.InsertOne(ctx, note); err != nil {
		note.ID = ""
		utils.TrackError("database", "note_creation_failed")
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	r.mu.Lock()
	r.notes[note.UserID] = append(r.notes[note.UserID], *note)
	r.mu.Unlock()

	utils.TrackNoteOperation("create")
	return nil
}

// Update writes the merged fields to the store, then refreshes the whole
// in-memory collection via LoadAll. A full reload is chosen over patching a
// single entry; the collection is small enough that simplicity wins.
func (r *NotesRepo) Update(ctx context.Context, userID, noteID string, update NoteUpdate) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{"_id": noteID, "user_id": userID}
	set := bson.M{"$set": bson.M{
		"noteText":   update.NoteText,
		"date":       update.Date,
		"image":      update.Image,
		"updated_at": time.Now(),
	}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, set)
	if err != nil {
		utils.TrackError("database", "note_update_failed")
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "note_not_found")
		return nil, ErrNotFound
	}

	notes, err := r.LoadAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	utils.TrackNoteOperation("update")
	for i := range notes {
		if notes[i].ID == noteID {
			return &notes[i], nil
		}
	}
	// Deleted between the write and the reload by another session.
	return nil, ErrNotFound
}

// Delete removes the remote document, then the matching in-memory entry. A
// document already absent is a benign no-op, not an error: a concurrent
// deletion by another session is an expected race.
func (r *NotesRepo) Delete(ctx context.Context, userID, noteID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{"_id": noteID, "user_id": userID}
	if _, err := r.MongoCollection.DeleteOne(ctx, filter); err != nil {
		utils.TrackError("database", "note_delete_failed")
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	r.mu.Lock()
	kept := r.notes[userID][:0]
	for _, n := range r.notes[userID] {
		if n.ID != noteID {
			kept = append(kept, n)
		}
	}
	r.notes[userID] = kept
	r.mu.Unlock()

	utils.TrackNoteOperation("delete")
	return nil
}

// DeleteUserNotes removes every note belonging to the user; used when the
// account itself is deleted.
func (r *NotesRepo) DeleteUserNotes(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		utils.TrackError("database", "notes_delete_failed")
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	r.mu.Lock()
	delete(r.notes, userID)
	r.mu.Unlock()

	return nil
}

// CountUserNotes counts the user's notes in the remote store.
func (r *NotesRepo) CountUserNotes(ctx context.Context, userID string) (int, error) {
	timer := utils.TrackDBOperation("count", "notes")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	return int(count), nil
}

func copyNotes(notes []model.Note) []model.Note {
	out := make([]model.Note, len(notes))
	copy(out, notes)
	return out
}
