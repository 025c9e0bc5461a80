package mongo

import (
	"context"
	"errors"
	"time"

	"learnhub/course-platform/internal/domain"
	"learnhub/course-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const instructorCollectionName = "instructors"

// mongoInstructorRepository implements repository.InstructorRepository using MongoDB.
type mongoInstructorRepository struct {
	collection *mongo.Collection
}

// NewMongoInstructorRepository creates a new instructor repository backed by MongoDB.
// It expects a connected *mongo.Database instance.
func NewMongoInstructorRepository(db *mongo.Database) repository.InstructorRepository {
	return &mongoInstructorRepository{
		collection: db.Collection(instructorCollectionName),
	}
}

// Create inserts a new instructor into the database.
func (r *mongoInstructorRepository) Create(ctx context.Context, instructor *domain.Instructor) (primitive.ObjectID, error) {
	// Basic validation; richer validation belongs in the service layer.
	if instructor.Email == "" || instructor.Name == "" {
		return primitive.NilObjectID, errors.New("instructor name and email are required")
	}
	if instructor.Tier == "" {
		instructor.Tier = domain.TierBasic
	}

	instructor.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	instructor.CreatedAt = now
	instructor.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, instructor)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves an instructor by their MongoDB ObjectID.
func (r *mongoInstructorRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Instructor, error) {
	var instructor domain.Instructor
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&instructor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &instructor, nil
}

// GetByEmail retrieves an instructor by their email address.
func (r *mongoInstructorRepository) GetByEmail(ctx context.Context, email string) (*domain.Instructor, error) {
	var instructor domain.Instructor
	filter := bson.M{"email": email}

	err := r.collection.FindOne(ctx, filter).Decode(&instructor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &instructor, nil
}

// SetTier updates the instructor's subscription tier.
func (r *mongoInstructorRepository) SetTier(ctx context.Context, id primitive.ObjectID, tier domain.Tier) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"tier":      tier,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureInstructorIndexes creates necessary indexes for the instructors collection.
func EnsureInstructorIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "tier", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
