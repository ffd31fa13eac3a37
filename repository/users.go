package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"planward/model"
	"planward/utils"
)

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func GetUserRepo(client *mongo.Client) *UserRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("USERS_COLLECTION", "users")
	return &UserRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *UserRepo) AddUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user.Username == "" || user.Password == "" {
		utils.TrackError("database", "invalid_user_data")
		return errors.New("username and password required")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, user); err != nil {
		utils.TrackError("database", "user_creation_failed")
		return errors.New("failed to add user to database")
	}
	return nil
}

// FindUserByUsername returns (nil, nil) when no such user exists.
func (r *UserRepo) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}
	return &user, nil
}

// FindUser returns (nil, nil) when the ID matches no user.
func (r *UserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.D{{Key: "user_id", Value: userID}}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.TrackError("database", "user_not_found")
		return nil, nil
	}
	if err != nil {
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) UpdateUserPassword(ctx context.Context, userID, hashedPassword string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	if hashedPassword == "" {
		utils.TrackError("database", "invalid_password_hash")
		return fmt.Errorf("password hash required")
	}

	update := bson.M{"$set": bson.M{
		"password":             hashedPassword,
		"last_password_change": time.Now(),
	}}
	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		utils.TrackError("database", "password_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "user_not_found")
		return errors.New("user not found")
	}
	return nil
}

func (r *UserRepo) DeleteUser(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", "users")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "user_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		return errors.New("user not found")
	}
	return nil
}
