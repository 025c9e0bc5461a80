package service

import (
	"context"
	"errors"

	"learnhub/course-platform/internal/domain"
	"learnhub/course-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrCourseAccessDenied = errors.New("access denied to modify or delete this course")
	ErrCourseValidation   = errors.New("course validation failed")
)

// --- Service Interface ---
type CourseService interface {
	CreateCourse(ctx context.Context, instructorID primitive.ObjectID, title, description, category, difficulty string, price float64) (*domain.Course, error)
	GetCourseByID(ctx context.Context, courseID primitive.ObjectID) (*domain.Course, error)
	GetCoursesByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Course, error)
	UpdateCourse(ctx context.Context, instructorID, courseID primitive.ObjectID, title, description, category, difficulty string, price float64, published bool) (*domain.Course, error)
	DeleteCourse(ctx context.Context, instructorID, courseID primitive.ObjectID) error

	// AttachMedia points course artwork or preview at an uploaded asset.
	AttachMedia(ctx context.Context, instructorID, courseID primitive.ObjectID, asset *domain.MediaAsset) (*domain.Course, error)

	AddLesson(ctx context.Context, instructorID, courseID primitive.ObjectID, title, notes string, sequence, duration int) (*domain.Lesson, error)
	GetLessonsForCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Lesson, error)
	GetLessonByID(ctx context.Context, lessonID primitive.ObjectID) (*domain.Lesson, error)
}

// --- Service Implementation ---

type courseService struct {
	courseRepo repository.CourseRepository
	lessonRepo repository.LessonRepository
}

// NewCourseService creates a new instance of courseService.
func NewCourseService(courseRepo repository.CourseRepository, lessonRepo repository.LessonRepository) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
	}
}

// CreateCourse handles the creation of a new course by an instructor.
func (s *courseService) CreateCourse(ctx context.Context, instructorID primitive.ObjectID, title, description, category, difficulty string, price float64) (*domain.Course, error) {
	if title == "" {
		return nil, ErrCourseValidation
	}
	if instructorID == primitive.NilObjectID {
		return nil, errors.New("instructor ID is required to create a course")
	}
	if price < 0 {
		return nil, ErrCourseValidation
	}

	course := &domain.Course{
		InstructorID: instructorID,
		Title:        title,
		Description:  description,
		Category:     category,
		Difficulty:   difficulty,
		Price:        price,
	}

	courseID, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	// Fetch again so the caller sees DB-populated timestamps.
	return s.courseRepo.GetByID(ctx, courseID)
}

func (s *courseService) GetCourseByID(ctx context.Context, courseID primitive.ObjectID) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *courseService) GetCoursesByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Course, error) {
	if instructorID == primitive.NilObjectID {
		return nil, errors.New("instructor ID cannot be nil")
	}
	return s.courseRepo.GetByInstructorID(ctx, instructorID)
}

// UpdateCourse handles updating an existing course, ensuring ownership.
func (s *courseService) UpdateCourse(ctx context.Context, instructorID, courseID primitive.ObjectID, title, description, category, difficulty string, price float64, published bool) (*domain.Course, error) {
	if title == "" || price < 0 {
		return nil, ErrCourseValidation
	}
	if instructorID == primitive.NilObjectID || courseID == primitive.NilObjectID {
		return nil, errors.New("instructor ID and course ID are required")
	}

	existing, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if existing.InstructorID != instructorID {
		return nil, ErrCourseAccessDenied
	}

	existing.Title = title
	existing.Description = description
	existing.Category = category
	existing.Difficulty = difficulty
	existing.Price = price
	existing.Published = published

	if err := s.courseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteCourse handles deleting a course, ensuring ownership. The
// repository's combined filter enforces ownership at the DB level.
func (s *courseService) DeleteCourse(ctx context.Context, instructorID, courseID primitive.ObjectID) error {
	if instructorID == primitive.NilObjectID || courseID == primitive.NilObjectID {
		return errors.New("instructor ID and course ID are required")
	}

	err := s.courseRepo.Delete(ctx, courseID, instructorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	return nil
}

// AttachMedia links an uploaded asset to the owning course: thumbnails
// set the artwork, videos set the preview.
func (s *courseService) AttachMedia(ctx context.Context, instructorID, courseID primitive.ObjectID, asset *domain.MediaAsset) (*domain.Course, error) {
	course, err := s.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, ErrCourseAccessDenied
	}

	switch asset.Folder {
	case "thumbnails":
		course.ThumbnailURL = asset.URL
	case "videos":
		course.PreviewURL = asset.URL
	default:
		return nil, ErrCourseValidation
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// AddLesson appends a lesson to a course, ensuring ownership.
func (s *courseService) AddLesson(ctx context.Context, instructorID, courseID primitive.ObjectID, title, notes string, sequence, duration int) (*domain.Lesson, error) {
	if title == "" {
		return nil, ErrCourseValidation
	}

	course, err := s.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, ErrCourseAccessDenied
	}

	lesson := &domain.Lesson{
		CourseID:     courseID,
		InstructorID: instructorID,
		Title:        title,
		Notes:        notes,
		Sequence:     sequence,
		Duration:     duration,
	}

	lessonID, err := s.lessonRepo.Create(ctx, lesson)
	if err != nil {
		return nil, err
	}
	return s.lessonRepo.GetByID(ctx, lessonID)
}

func (s *courseService) GetLessonsForCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Lesson, error) {
	if courseID == primitive.NilObjectID {
		return nil, errors.New("course ID cannot be nil")
	}
	return s.lessonRepo.GetByCourseID(ctx, courseID)
}

func (s *courseService) GetLessonByID(ctx context.Context, lessonID primitive.ObjectID) (*domain.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}
