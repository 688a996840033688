package repositories

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/hieulm/writeuphub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WriteUpRepository defines the interface for writeup data operations
type WriteUpRepository interface {
	Create(ctx context.Context, writeup *models.WriteUp) error
	GetByID(ctx context.Context, id string) (*models.WriteUp, error)
	GetBySlugAndIncrementViews(ctx context.Context, slug string) (*models.WriteUp, error)
	Update(ctx context.Context, writeup *models.WriteUp) error
	Delete(ctx context.Context, id string) error
	FindByAuthors(ctx context.Context, authorIDs []uint) ([]models.WriteUp, error)
	FindExcludingAuthors(ctx context.Context, authorIDs []uint, limit int64) ([]models.WriteUp, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.WriteUp, error)
	Search(ctx context.Context, term string) ([]models.WriteUp, error)
	IncrementShares(ctx context.Context, id string) (int64, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

// MongoWriteUpRepository implements WriteUpRepository for MongoDB
type MongoWriteUpRepository struct {
	collection *mongo.Collection
}

// NewMongoWriteUpRepository creates a new MongoWriteUpRepository and ensures
// the unique slug index, the storage-level guard behind the retry-on-collision
// path in the engagement service.
func NewMongoWriteUpRepository(ctx context.Context, db *mongo.Database) (*MongoWriteUpRepository, error) {
	coll := db.Collection("writeups")
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	if err != nil {
		return nil, err
	}
	return &MongoWriteUpRepository{collection: coll}, nil
}

// Create inserts a new writeup. A slug collision surfaces as ErrDuplicate.
func (r *MongoWriteUpRepository) Create(ctx context.Context, writeup *models.WriteUp) error {
	writeup.ID = primitive.NewObjectID()
	now := time.Now()
	writeup.CreatedAt = now
	writeup.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, writeup)
	return translateMongo(err)
}

// GetByID retrieves a writeup without touching the view counter (edit flow).
func (r *MongoWriteUpRepository) GetByID(ctx context.Context, id string) (*models.WriteUp, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var writeup models.WriteUp
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&writeup); err != nil {
		return nil, translateMongo(err)
	}
	return &writeup, nil
}

// GetBySlugAndIncrementViews resolves a writeup for reading and atomically
// bumps its view counter, returning the post-increment document.
func (r *MongoWriteUpRepository) GetBySlugAndIncrementViews(ctx context.Context, slug string) (*models.WriteUp, error) {
	var writeup models.WriteUp
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"slug": slug},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&writeup)
	if err != nil {
		return nil, translateMongo(err)
	}
	return &writeup, nil
}

// Update persists the editable fields of a writeup.
func (r *MongoWriteUpRepository) Update(ctx context.Context, writeup *models.WriteUp) error {
	writeup.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":      writeup.Title,
			"content":    writeup.Content,
			"category":   writeup.Category,
			"tags":       writeup.Tags,
			"updated_at": writeup.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": writeup.ID}, update)
	if err != nil {
		return translateMongo(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoWriteUpRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return translateMongo(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByAuthors returns writeups by any of the given authors, newest first.
// An empty author set yields an empty result, not the full collection.
func (r *MongoWriteUpRepository) FindByAuthors(ctx context.Context, authorIDs []uint) ([]models.WriteUp, error) {
	if len(authorIDs) == 0 {
		return []models.WriteUp{}, nil
	}
	return r.find(ctx, bson.M{"author_id": bson.M{"$in": authorIDs}}, 0)
}

// FindExcludingAuthors returns writeups by authors outside the given set,
// newest first, bounded by limit.
func (r *MongoWriteUpRepository) FindExcludingAuthors(ctx context.Context, authorIDs []uint, limit int64) ([]models.WriteUp, error) {
	return r.find(ctx, bson.M{"author_id": bson.M{"$nin": authorIDs}}, limit)
}

func (r *MongoWriteUpRepository) FindByIDs(ctx context.Context, ids []string) ([]models.WriteUp, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objIDs = append(objIDs, objID)
	}
	if len(objIDs) == 0 {
		return []models.WriteUp{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": objIDs}}, 0)
}

// Search matches term as a case-insensitive substring of title, content,
// tags or category. An empty term returns the full set.
func (r *MongoWriteUpRepository) Search(ctx context.Context, term string) ([]models.WriteUp, error) {
	filter := bson.M{}
	if term != "" {
		// Escape metacharacters so the term always matches as a literal substring.
		regex := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		filter = bson.M{"$or": bson.A{
			bson.M{"title": regex},
			bson.M{"content": regex},
			bson.M{"tags": regex},
			bson.M{"category": regex},
		}}
	}
	return r.find(ctx, filter, 0)
}

// IncrementShares atomically bumps the share counter and returns the new
// total. Every call counts; shares are never deduplicated.
func (r *MongoWriteUpRepository) IncrementShares(ctx context.Context, id string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrNotFound
	}
	var writeup models.WriteUp
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$inc": bson.M{"shares": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&writeup)
	if err != nil {
		return 0, translateMongo(err)
	}
	return writeup.Shares, nil
}

func (r *MongoWriteUpRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"author_id": authorID})
	return count, translateMongo(err)
}

func (r *MongoWriteUpRepository) find(ctx context.Context, filter bson.M, limit int64) ([]models.WriteUp, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, translateMongo(err)
	}
	defer cursor.Close(ctx)

	writeups := []models.WriteUp{}
	if err := cursor.All(ctx, &writeups); err != nil {
		return nil, translateMongo(err)
	}
	return writeups, nil
}

func translateMongo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
