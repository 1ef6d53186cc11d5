package repository

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mediamanager/models"
)

// metaProjection excludes the binary payload from file reads.
var metaProjection = bson.M{"data": 0}

func containsRegex(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

// ---------- users ----------

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

// ---------- folders ----------

type MongoFolderRepository struct {
	collection *mongo.Collection
}

func NewMongoFolderRepository(db *mongo.Database) *MongoFolderRepository {
	return &MongoFolderRepository{collection: db.Collection("folders")}
}

func (r *MongoFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if _, err := r.collection.InsertOne(ctx, folder); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	return nil
}

func (r *MongoFolderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Folder, error) {
	var folder models.Folder
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&folder)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &folder, nil
}

func (r *MongoFolderRepository) ListRoots(ctx context.Context, userID primitive.ObjectID) ([]models.Folder, error) {
	filter := bson.M{"user_id": userID, "parent_id": nil}
	return r.find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
}

func (r *MongoFolderRepository) ListChildren(ctx context.Context, parentID primitive.ObjectID) ([]models.Folder, error) {
	filter := bson.M{"parent_id": parentID}
	return r.find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
}

func (r *MongoFolderRepository) FindChildByName(ctx context.Context, userID primitive.ObjectID, parentID *primitive.ObjectID, name string) (*models.Folder, error) {
	filter := bson.M{"user_id": userID, "name": name}
	if parentID != nil {
		filter["parent_id"] = *parentID
	} else {
		filter["parent_id"] = nil
	}

	var folder models.Folder
	err := r.collection.FindOne(ctx, filter).Decode(&folder)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &folder, nil
}

func (r *MongoFolderRepository) CountChildren(ctx context.Context, parentID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"parent_id": parentID})
	if err != nil {
		return 0, fmt.Errorf("failed to count subfolders: %w", err)
	}
	return count, nil
}

func (r *MongoFolderRepository) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		return fmt.Errorf("failed to rename folder: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoFolderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoFolderRepository) Search(ctx context.Context, filter FolderFilter) ([]models.Folder, int64, error) {
	query := bson.M{
		"user_id": filter.UserID,
		"name":    containsRegex(filter.NameContains),
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count folders: %w", err)
	}

	opts := options.Find().SetSort(bson.M{"name": 1})
	if filter.Skip > 0 {
		opts.SetSkip(filter.Skip)
	}
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	folders, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return folders, total, nil
}

func (r *MongoFolderRepository) DistinctNames(ctx context.Context, userID primitive.ObjectID, term string, limit int) ([]string, error) {
	filter := bson.M{"user_id": userID, "name": containsRegex(term)}
	values, err := r.collection.Distinct(ctx, "name", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to collect folder names: %w", err)
	}
	return capDistinct(values, limit), nil
}

func (r *MongoFolderRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Folder, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer cursor.Close(ctx)

	var folders []models.Folder
	if err = cursor.All(ctx, &folders); err != nil {
		return nil, fmt.Errorf("failed to decode folders: %w", err)
	}
	return folders, nil
}

// ---------- files ----------

type MongoFileRepository struct {
	collection *mongo.Collection
}

func NewMongoFileRepository(db *mongo.Database) *MongoFileRepository {
	return &MongoFileRepository{collection: db.Collection("files")}
}

func (r *MongoFileRepository) Create(ctx context.Context, file *models.File) error {
	if _, err := r.collection.InsertOne(ctx, file); err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	return nil
}

func (r *MongoFileRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.File, error) {
	var file models.File
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&file)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &file, nil
}

func (r *MongoFileRepository) GetMetaByID(ctx context.Context, id primitive.ObjectID) (*models.File, error) {
	var file models.File
	err := r.collection.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(metaProjection)).Decode(&file)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &file, nil
}

func (r *MongoFileRepository) ListMetaByFolder(ctx context.Context, folderID primitive.ObjectID, skip, limit int64) ([]models.File, error) {
	opts := options.Find().
		SetProjection(metaProjection).
		SetSort(bson.M{"created_at": -1})
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return r.find(ctx, bson.M{"folder_id": folderID}, opts)
}

func (r *MongoFileRepository) ListByFolder(ctx context.Context, folderID primitive.ObjectID) ([]models.File, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	return r.find(ctx, bson.M{"folder_id": folderID}, opts)
}

func (r *MongoFileRepository) CountByFolder(ctx context.Context, folderID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"folder_id": folderID})
	if err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}
	return count, nil
}

func (r *MongoFileRepository) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoFileRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoFileRepository) DeleteByFolder(ctx context.Context, folderID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"folder_id": folderID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete files: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *MongoFileRepository) Search(ctx context.Context, filter FileFilter) ([]models.File, int64, error) {
	query := r.searchQuery(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count files: %w", err)
	}

	opts := options.Find().
		SetProjection(metaProjection).
		SetSort(bson.M{"name": 1})
	if filter.Skip > 0 {
		opts.SetSkip(filter.Skip)
	}
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	files, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

func (r *MongoFileRepository) searchQuery(filter FileFilter) bson.M {
	nameRegex := containsRegex(filter.NameContains)
	query := bson.M{
		"user_id": filter.UserID,
		"$or": []bson.M{
			{"name": nameRegex},
			{"original_name": nameRegex},
		},
	}

	if filter.MimeContains != "" {
		query["mime_type"] = containsRegex(filter.MimeContains)
	}
	if filter.MinSize != nil || filter.MaxSize != nil {
		size := bson.M{}
		if filter.MinSize != nil {
			size["$gte"] = *filter.MinSize
		}
		if filter.MaxSize != nil {
			size["$lte"] = *filter.MaxSize
		}
		query["size"] = size
	}
	if filter.CreatedFrom != nil || filter.CreatedTo != nil {
		created := bson.M{}
		if filter.CreatedFrom != nil {
			created["$gte"] = *filter.CreatedFrom
		}
		if filter.CreatedTo != nil {
			created["$lte"] = *filter.CreatedTo
		}
		query["created_at"] = created
	}
	return query
}

func (r *MongoFileRepository) DistinctNames(ctx context.Context, userID primitive.ObjectID, term string, limit int) ([]string, error) {
	nameRegex := containsRegex(term)
	filter := bson.M{
		"user_id": userID,
		"$or": []bson.M{
			{"name": nameRegex},
			{"original_name": nameRegex},
		},
	}
	values, err := r.collection.Distinct(ctx, "name", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to collect file names: %w", err)
	}
	return capDistinct(values, limit), nil
}

func (r *MongoFileRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.File, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer cursor.Close(ctx)

	var files []models.File
	if err = cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode files: %w", err)
	}
	return files, nil
}

// capDistinct converts a Distinct result to sorted strings capped at limit.
func capDistinct(values []interface{}, limit int) []string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}
