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

const lessonCollectionName = "lessons"

// mongoLessonRepository implements repository.LessonRepository using MongoDB.
type mongoLessonRepository struct {
	collection *mongo.Collection
}

// NewMongoLessonRepository creates a new lesson repository backed by MongoDB.
func NewMongoLessonRepository(db *mongo.Database) repository.LessonRepository {
	return &mongoLessonRepository{
		collection: db.Collection(lessonCollectionName),
	}
}

// Create inserts a new lesson into the database.
func (r *mongoLessonRepository) Create(ctx context.Context, lesson *domain.Lesson) (primitive.ObjectID, error) {
	if lesson.CourseID == primitive.NilObjectID ||
		lesson.InstructorID == primitive.NilObjectID ||
		lesson.Title == "" {
		return primitive.NilObjectID, errors.New("lesson requires courseId, instructorId and title")
	}

	lesson.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, lesson)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a lesson by its ID.
func (r *mongoLessonRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Lesson, error) {
	var lesson domain.Lesson
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&lesson)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

// GetByCourseID retrieves all lessons of a course, ordered by sequence.
func (r *mongoLessonRepository) GetByCourseID(ctx context.Context, courseID primitive.ObjectID) ([]domain.Lesson, error) {
	var lessons []domain.Lesson
	filter := bson.M{"courseId": courseID}
	findOptions := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &lessons); err != nil {
		return nil, err
	}

	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return lessons, nil
}

// Update modifies an existing lesson. Course and instructor links are
// never changed here.
func (r *mongoLessonRepository) Update(ctx context.Context, lesson *domain.Lesson) error {
	if lesson.ID == primitive.NilObjectID {
		return errors.New("lesson ID is required for update")
	}
	if lesson.Title == "" {
		return errors.New("lesson title cannot be empty")
	}

	filter := bson.M{"_id": lesson.ID}
	update := bson.M{
		"$set": bson.M{
			"title":     lesson.Title,
			"notes":     lesson.Notes,
			"sequence":  lesson.Sequence,
			"duration":  lesson.Duration,
			"videoUrl":  lesson.VideoURL,
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

// EnsureLessonIndexes creates necessary indexes for the lessons collection.
func EnsureLessonIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Lessons are listed per course in sequence order
			Keys:    bson.D{{Key: "courseId", Value: 1}, {Key: "sequence", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "instructorId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
