package repository

import (
	"context"
	"fmt"
	"os"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func GetUserRepo(client *mongo.Client) *UserRepo {
	return &UserRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection(utils.GetEnvAsString("USERS_COLLECTION", "users")),
	}
}

func (r *UserRepo) AddUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user.Username == "" || user.Password == "" {
		utils.TrackError("database", "invalid_user_data")
		return fmt.Errorf("%w: username and password required", ErrWriteFailed)
	}

	if _, err := r.MongoCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.TrackError("database", "duplicate_username")
			return fmt.Errorf("%w: username already taken", ErrWriteFailed)
		}
		utils.TrackError("database", "user_creation_failed")
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	return nil
}

// FindUserByUsername returns (nil, nil) when no user matches; a store error
// is reported separately so a lookup miss is never conflated with an outage.
func (r *UserRepo) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	return &user, nil
}

func (r *UserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.D{{Key: "user_id", Value: userID}}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	return &user, nil
}

func (r *UserRepo) UpdateUserPassword(ctx context.Context, userID, hashedPassword string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	if hashedPassword == "" {
		return fmt.Errorf("%w: empty password hash", ErrWriteFailed)
	}

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"password": hashedPassword}})
	if err != nil {
		utils.TrackError("database", "password_update_failed")
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *UserRepo) SetTwoFactor(ctx context.Context, userID, secret string, enabled bool) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{
			"two_factor_secret":  secret,
			"two_factor_enabled": enabled,
		}})
	if err != nil {
		utils.TrackError("database", "two_factor_update_failed")
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *UserRepo) DeleteUser(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", "users")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "user_delete_failed")
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
