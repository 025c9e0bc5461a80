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

const courseCollectionName = "courses"

// mongoCourseRepository implements repository.CourseRepository using MongoDB.
type mongoCourseRepository struct {
	collection *mongo.Collection
}

// NewMongoCourseRepository creates a new course repository backed by MongoDB.
func NewMongoCourseRepository(db *mongo.Database) repository.CourseRepository {
	return &mongoCourseRepository{
		collection: db.Collection(courseCollectionName),
	}
}

// Create inserts a new course into the database.
func (r *mongoCourseRepository) Create(ctx context.Context, course *domain.Course) (primitive.ObjectID, error) {
	if course.Title == "" || course.InstructorID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("course title and instructorId are required")
	}

	course.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, course)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a course by its ID.
func (r *mongoCourseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error) {
	var course domain.Course
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// GetByInstructorID retrieves all courses owned by an instructor.
func (r *mongoCourseRepository) GetByInstructorID(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Course, error) {
	var courses []domain.Course
	filter := bson.M{"instructorId": instructorID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &courses); err != nil {
		return nil, err
	}

	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// Update modifies an existing course. The InstructorID is never changed
// here; ownership transfer would be a separate operation.
func (r *mongoCourseRepository) Update(ctx context.Context, course *domain.Course) error {
	if course.ID == primitive.NilObjectID {
		return errors.New("course ID is required for update")
	}
	if course.Title == "" {
		return errors.New("course title cannot be empty")
	}

	filter := bson.M{"_id": course.ID}
	update := bson.M{
		"$set": bson.M{
			"title":        course.Title,
			"description":  course.Description,
			"category":     course.Category,
			"difficulty":   course.Difficulty,
			"price":        course.Price,
			"thumbnailUrl": course.ThumbnailURL,
			"previewUrl":   course.PreviewURL,
			"published":    course.Published,
			"updatedAt":    time.Now().UTC(),
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

// Delete removes a course, ensuring it belongs to the specified instructor.
// The combined filter prevents an instructor from deleting someone else's course.
func (r *mongoCourseRepository) Delete(ctx context.Context, id primitive.ObjectID, instructorID primitive.ObjectID) error {
	filter := bson.M{
		"_id":          id,
		"instructorId": instructorID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Either the course didn't exist or it belongs to another
		// instructor; the filter doesn't distinguish the two.
		return repository.ErrNotFound
	}

	return nil
}

// EnsureCourseIndexes creates necessary indexes for the courses collection.
func EnsureCourseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "instructorId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("course_text_search"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
