package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"planward/model"
	"planward/utils"
)

// StateRepo stores the per-user study state document. The document is read
// and replaced wholesale: the client session that produced a snapshot is the
// source of truth, and the last writer wins.
type StateRepo struct {
	MongoCollection *mongo.Collection
}

func GetStateRepo(client *mongo.Client) *StateRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("STATE_COLLECTION", "study_state")
	return &StateRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// LoadState returns the user's state, or a fresh zero-value state when no
// document exists yet. Missing TaskMeta entries are implied defaults, so a
// brand-new user is fully represented by the zero state.
func (r *StateRepo) LoadState(ctx context.Context, userID string) (*model.StudyState, error) {
	timer := utils.TrackDBOperation("find", "study_state")
	defer timer.ObserveDuration()

	var state model.StudyState
	err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&state)
	if err == mongo.ErrNoDocuments {
		state = model.StudyState{UserID: userID}
		state.EnsureMaps()
		return &state, nil
	}
	if err != nil {
		utils.TrackError("database", "state_fetch_failed")
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	state.EnsureMaps()
	return &state, nil
}

// SaveState replaces the user's whole state document, creating it on first
// write.
func (r *StateRepo) SaveState(ctx context.Context, userID string, state *model.StudyState) error {
	timer := utils.TrackDBOperation("replace", "study_state")
	defer timer.ObserveDuration()

	if state == nil {
		utils.TrackError("database", "nil_state")
		return fmt.Errorf("state cannot be nil")
	}

	state.UserID = userID
	state.UpdatedAt = time.Now()

	opts := options.Replace().SetUpsert(true)
	_, err := r.MongoCollection.ReplaceOne(ctx, bson.M{"user_id": userID}, state, opts)
	if err != nil {
		utils.TrackError("database", "state_save_failed")
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// DeleteState removes the user's state document, e.g. on account deletion.
func (r *StateRepo) DeleteState(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", "study_state")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		utils.TrackError("database", "state_deletion_failed")
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}
