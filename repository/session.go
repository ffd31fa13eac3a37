package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"planward/model"
	"planward/services"
	"planward/utils"
)

// SessionRepo stores login sessions in Mongo with the Redis session cache in
// front of reads (services.GlobalSessionCache, optional).
type SessionRepo struct {
	MongoCollection *mongo.Collection
}

func GetSessionRepo(client *mongo.Client) *SessionRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("SESSIONS_COLLECTION", "sessions")
	return &SessionRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *SessionRepo) CreateSession(session *model.Session) error {
	timer := utils.TrackDBOperation("insert", "sessions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if session == nil {
		utils.TrackError("database", "nil_session")
		return fmt.Errorf("session cannot be nil")
	}
	if session.SessionID == "" || session.UserID == "" {
		utils.TrackError("database", "invalid_session_data")
		return fmt.Errorf("invalid session data: missing required fields")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, session); err != nil {
		utils.TrackError("database", "session_creation_failed")
		return fmt.Errorf("failed to create session in database: %w", err)
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.SetSession(session); err != nil {
			log.Printf("Failed to cache session: %v", err)
		}
		services.GlobalSessionCache.InvalidateUserSessions(session.UserID)
	}
	return nil
}

func (r *SessionRepo) GetSession(sessionID string) (*model.Session, error) {
	if services.GlobalSessionCache != nil {
		if session, err := services.GlobalSessionCache.GetSession(sessionID); err == nil && session != nil {
			return session, nil
		}
	}

	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var session model.Session
	err := r.MongoCollection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&session)
	if err != nil {
		utils.TrackError("database", "session_not_found")
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.SetSession(&session); err != nil {
			log.Printf("Failed to cache session: %v", err)
		}
	}
	return &session, nil
}

func (r *SessionRepo) UpdateSession(session *model.Session) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"last_activity_at": session.LastActivityAt,
		"is_active":        session.IsActive,
		"expires_at":       session.ExpiresAt,
	}}
	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"session_id": session.SessionID}, update)
	if err != nil {
		utils.TrackError("database", "session_update_failed")
		return fmt.Errorf("failed to update session: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("session not found")
	}

	if services.GlobalSessionCache != nil {
		if session.IsActive {
			services.GlobalSessionCache.SetSession(session)
		} else {
			services.GlobalSessionCache.DeleteSession(session.SessionID)
		}
		services.GlobalSessionCache.InvalidateUserSessions(session.UserID)
	}
	return nil
}

func (r *SessionRepo) DeleteSession(sessionID string) error {
	timer := utils.TrackDBOperation("delete", "sessions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.MongoCollection.DeleteOne(ctx, bson.M{"session_id": sessionID}); err != nil {
		utils.TrackError("database", "session_deletion_failed")
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if services.GlobalSessionCache != nil {
		services.GlobalSessionCache.DeleteSession(sessionID)
	}
	return nil
}

// GetUserActiveSessions lists a user's live sessions, most recently active
// first, serving from the cache when it has the list.
func (r *SessionRepo) GetUserActiveSessions(userID string) ([]*model.Session, error) {
	if services.GlobalSessionCache != nil {
		if sessions, ok, err := services.GlobalSessionCache.GetUserSessions(userID); err == nil && ok {
			return sessions, nil
		}
	}

	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"user_id":    userID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	}
	cursor, err := r.MongoCollection.Find(ctx, filter)
	if err != nil {
		utils.TrackError("database", "session_fetch_failed")
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		utils.TrackError("database", "session_decode_failed")
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastActivityAt.After(sessions[j].LastActivityAt)
	})

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.CacheUserSessions(userID, sessions); err != nil {
			log.Printf("Failed to cache user sessions: %v", err)
		}
	}

	utils.ActiveSessions.Set(float64(len(sessions)))
	return sessions, nil
}

func (r *SessionRepo) CountActiveSessions(userID string) (int, error) {
	timer := utils.TrackDBOperation("count", "sessions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	})
	if err != nil {
		utils.TrackError("database", "session_count_failed")
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return int(count), nil
}

// EndLeastActiveSession closes the session with the oldest activity, used
// when a login pushes the user over the session limit.
func (r *SessionRepo) EndLeastActiveSession(userID string) error {
	sessions, err := r.GetUserActiveSessions(userID)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return fmt.Errorf("no active sessions")
	}

	// list is sorted most-recent first
	oldest := sessions[len(sessions)-1]
	oldest.IsActive = false
	return r.UpdateSession(oldest)
}

func (r *SessionRepo) EndAllUserSessions(userID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"is_active": false}}
	if _, err := r.MongoCollection.UpdateMany(ctx, bson.M{"user_id": userID, "is_active": true}, update); err != nil {
		utils.TrackError("database", "session_update_failed")
		return fmt.Errorf("failed to end sessions: %w", err)
	}

	if services.GlobalSessionCache != nil {
		services.GlobalSessionCache.InvalidateUserSessions(userID)
	}
	return nil
}
