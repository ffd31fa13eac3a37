package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"planward/utils"
)

// SetupIndexes creates the indexes every collection relies on. Safe to run on
// every startup; Mongo treats existing identical indexes as a no-op.
func SetupIndexes(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := client.Database(os.Getenv("MONGO_DB"))

	users := db.Collection(utils.GetEnvAsString("USERS_COLLECTION", "users"))
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	sessions := db.Collection(utils.GetEnvAsString("SESSIONS_COLLECTION", "sessions"))
	_, err = sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_active", Value: 1}},
		},
		{
			// expired sessions are reaped by Mongo itself
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}

	categories := db.Collection(utils.GetEnvAsString("CATEGORIES_COLLECTION", "categories"))
	_, err = categories.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "category_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create category indexes: %w", err)
	}

	state := db.Collection(utils.GetEnvAsString("STATE_COLLECTION", "study_state"))
	_, err = state.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create state indexes: %w", err)
	}

	return nil
}
