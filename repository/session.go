package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"main/model"
	"main/services"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepo struct {
	MongoCollection *mongo.Collection
}

func GetSessionRepo(client *mongo.Client) *SessionRepo {
	return &SessionRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection(utils.GetEnvAsString("SESSIONS_COLLECTION", "sessions")),
	}
}

func (r *SessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	timer := utils.TrackDBOperation("insert", "sessions")
	defer timer.ObserveDuration()

	if session == nil || session.SessionID == "" || session.UserID == "" {
		utils.TrackError("database", "invalid_session_data")
		return fmt.Errorf("%w: invalid session data", ErrWriteFailed)
	}

	if _, err := r.MongoCollection.InsertOne(ctx, session); err != nil {
		utils.TrackError("database", "session_creation_failed")
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.SetSession(session); err != nil {
			log.Printf("Warning: failed to cache session %s: %v", session.SessionID, err)
		}
	}

	return nil
}

func (r *SessionRepo) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	if sessionID == "" {
		return nil, fmt.Errorf("sessionID cannot be empty")
	}

	if services.GlobalSessionCache != nil {
		if session, err := services.GlobalSessionCache.GetSession(sessionID); err == nil && session != nil {
			utils.TrackCacheOperation("session", true)
			return session, nil
		}
		utils.TrackCacheOperation("session", false)
	}

	var session model.Session
	err := r.MongoCollection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "session_lookup_error")
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	return &session, nil
}

func (r *SessionRepo) UpdateSession(ctx context.Context, session *model.Session) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.ReplaceOne(ctx,
		bson.M{"session_id": session.SessionID}, session)
	if err != nil {
		utils.TrackError("database", "session_update_failed")
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	if services.GlobalSessionCache != nil {
		if session.IsActive {
			if err := services.GlobalSessionCache.SetSession(session); err != nil {
				log.Printf("Warning: failed to refresh cached session %s: %v", session.SessionID, err)
			}
		} else {
			services.GlobalSessionCache.DeleteSession(session.SessionID)
		}
	}

	return nil
}

// EndSession marks a session inactive rather than deleting it, so the
// session listing can still show when and where a login ended.
func (r *SessionRepo) EndSession(ctx context.Context, sessionID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		utils.TrackError("database", "session_end_failed")
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	if services.GlobalSessionCache != nil {
		services.GlobalSessionCache.DeleteSession(sessionID)
	}

	return nil
}

func (r *SessionRepo) GetActiveSessions(ctx context.Context, userID string) ([]*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "last_activity_at", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx,
		bson.M{"user_id": userID, "is_active": true, "expires_at": bson.M{"$gt": time.Now()}}, opts)
	if err != nil {
		utils.TrackError("database", "session_list_failed")
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	return sessions, nil
}

func (r *SessionRepo) CountActiveSessions(ctx context.Context, userID string) (int, error) {
	timer := utils.TrackDBOperation("count", "sessions")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx,
		bson.M{"user_id": userID, "is_active": true, "expires_at": bson.M{"$gt": time.Now()}})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	return int(count), nil
}

// EndLeastActiveSession evicts the stalest active session when the per-user
// session cap is reached.
func (r *SessionRepo) EndLeastActiveSession(ctx context.Context, userID string) error {
	opts := options.FindOne().SetSort(bson.D{{Key: "last_activity_at", Value: 1}})

	var stalest model.Session
	err := r.MongoCollection.FindOne(ctx,
		bson.M{"user_id": userID, "is_active": true}, opts).Decode(&stalest)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	return r.EndSession(ctx, stalest.SessionID)
}

func (r *SessionRepo) EndAllUserSessions(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		utils.TrackError("database", "session_logout_all_failed")
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	if services.GlobalSessionCache != nil {
		services.GlobalSessionCache.DeleteUserSessions(userID)
	}

	return nil
}

// DeleteUserSessions removes the user's session records entirely; used when
// the account itself is deleted.
func (r *SessionRepo) DeleteUserSessions(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", "sessions")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	if services.GlobalSessionCache != nil {
		services.GlobalSessionCache.DeleteUserSessions(userID)
	}

	return nil
}
