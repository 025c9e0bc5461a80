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
	ErrEmailTaken           = errors.New("instructor with this email already exists")
	ErrInstructorValidation = errors.New("instructor validation failed")
)

// --- Service Interface ---
type InstructorService interface {
	Register(ctx context.Context, name, email string, tier domain.Tier) (*domain.Instructor, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Instructor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Instructor, error)
}

// --- Service Implementation ---

type instructorService struct {
	instructorRepo repository.InstructorRepository
}

// NewInstructorService creates a new instance of instructorService.
func NewInstructorService(instructorRepo repository.InstructorRepository) InstructorService {
	return &instructorService{
		instructorRepo: instructorRepo,
	}
}

// Register creates a new instructor account. New instructors start on
// the basic tier unless a valid tier is given.
func (s *instructorService) Register(ctx context.Context, name, email string, tier domain.Tier) (*domain.Instructor, error) {
	if name == "" || email == "" {
		return nil, ErrInstructorValidation
	}
	if tier == "" {
		tier = domain.TierBasic
	}
	if !tier.IsValid() {
		return nil, ErrInvalidTier
	}

	instructor := &domain.Instructor{
		Name:  name,
		Email: email,
		Tier:  tier,
	}

	id, err := s.instructorRepo.Create(ctx, instructor)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	instructor.ID = id

	return s.instructorRepo.GetByID(ctx, id)
}

func (s *instructorService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Instructor, error) {
	instructor, err := s.instructorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInstructorNotFound
		}
		return nil, err
	}
	return instructor, nil
}

func (s *instructorService) GetByEmail(ctx context.Context, email string) (*domain.Instructor, error) {
	instructor, err := s.instructorRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInstructorNotFound
		}
		return nil, err
	}
	return instructor, nil
}
