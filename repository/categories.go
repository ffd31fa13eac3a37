package repository

import (
	"context"
	"errors"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"planward/model"
	"planward/utils"
)

type CategoriesRepo struct {
	MongoCollection *mongo.Collection
}

func GetCategoriesRepo(client *mongo.Client) *CategoriesRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("CATEGORIES_COLLECTION", "categories")
	return &CategoriesRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *CategoriesRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	timer := utils.TrackDBOperation("insert", "categories")
	defer timer.ObserveDuration()

	if category.UserID == "" || category.CategoryID == "" {
		utils.TrackError("database", "invalid_category_data")
		return errors.New("category ID and user ID are required")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, category); err != nil {
		utils.TrackError("database", "category_creation_failed")
		return err
	}
	return nil
}

func (r *CategoriesRepo) GetUserCategories(ctx context.Context, userID string) ([]*model.Category, error) {
	timer := utils.TrackDBOperation("find", "categories")
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "category_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []*model.Category
	if err = cursor.All(ctx, &categories); err != nil {
		utils.TrackError("database", "category_decode_failed")
		return nil, err
	}
	return categories, nil
}

func (r *CategoriesRepo) GetCategory(ctx context.Context, userID, categoryID string) (*model.Category, error) {
	timer := utils.TrackDBOperation("find", "categories")
	defer timer.ObserveDuration()

	var category model.Category
	err := r.MongoCollection.FindOne(ctx, bson.M{
		"user_id":     userID,
		"category_id": categoryID,
	}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		utils.TrackError("database", "category_lookup_error")
		return nil, err
	}
	return &category, nil
}

func (r *CategoriesRepo) UpdateCategory(ctx context.Context, userID string, category *model.Category) error {
	timer := utils.TrackDBOperation("update", "categories")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id":     userID,
		"category_id": category.CategoryID,
	}
	update := bson.M{"$set": bson.M{
		"name":  category.Name,
		"color": category.Color,
	}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "category_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "category_not_found")
		return errors.New("category not found")
	}
	return nil
}

func (r *CategoriesRepo) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	timer := utils.TrackDBOperation("delete", "categories")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{
		"user_id":     userID,
		"category_id": categoryID,
	})
	if err != nil {
		utils.TrackError("database", "category_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		utils.TrackError("database", "category_not_found")
		return errors.New("category not found")
	}
	return nil
}

func (r *CategoriesRepo) DeleteUserCategories(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", "categories")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		utils.TrackError("database", "category_deletion_failed")
		return err
	}
	return nil
}
