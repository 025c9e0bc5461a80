package repository

import (
	"context"

	"learnhub/course-platform/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrConflict     = RepositoryError("state conflict") // Conditional update matched no document in the expected state
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// InstructorRepository defines the interface for interacting with instructor data.
type InstructorRepository interface {
	Create(ctx context.Context, instructor *domain.Instructor) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Instructor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Instructor, error)
	SetTier(ctx context.Context, id primitive.ObjectID, tier domain.Tier) error
}

// CourseRepository defines the interface for interacting with course data.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error)
	GetByInstructorID(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Course, error)
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id primitive.ObjectID, instructorID primitive.ObjectID) error // Ensure instructor owns the course
}

// LessonRepository defines the interface for interacting with lesson data.
type LessonRepository interface {
	Create(ctx context.Context, lesson *domain.Lesson) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Lesson, error)
	GetByCourseID(ctx context.Context, courseID primitive.ObjectID) ([]domain.Lesson, error) // Ordered by sequence
	Update(ctx context.Context, lesson *domain.Lesson) error
}

// MediaRepository defines the interface for interacting with upload metadata.
type MediaRepository interface {
	Create(ctx context.Context, asset *domain.MediaAsset) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MediaAsset, error)
	GetByInstructorID(ctx context.Context, instructorID primitive.ObjectID) ([]domain.MediaAsset, error)
}

// RevenueRepository defines the interface for the per-instructor,
// per-month ledger. Accrual operations must be atomic server-side
// updates: concurrent lesson-completion events race on the same
// document, and load-mutate-save would lose updates.
type RevenueRepository interface {
	// GetOrCreate returns the ledger for (instructor, month, year),
	// creating it with the given tier at month rollover if absent.
	GetOrCreate(ctx context.Context, instructorID primitive.ObjectID, month, year int, tier domain.Tier) (*domain.InstructorRevenue, error)

	Get(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*domain.InstructorRevenue, error)

	// AddRevenue atomically routes the event amount into its breakdown
	// bucket, increments totalEarned and appends the history entry.
	AddRevenue(ctx context.Context, instructorID primitive.ObjectID, month, year int, event domain.RevenueEvent) error

	// AddBonus atomically credits the bonus bucket and totalEarned and
	// appends to the bonus log.
	AddBonus(ctx context.Context, instructorID primitive.ObjectID, month, year int, event domain.BonusEvent) error

	// SetTier updates the tier and its derived share percentage on the
	// ledger without touching history.
	SetTier(ctx context.Context, instructorID primitive.ObjectID, month, year int, tier domain.Tier) error

	// SetPerformanceInputs updates the engagement/quality/retention
	// inputs the performance score is computed from.
	SetPerformanceInputs(ctx context.Context, instructorID primitive.ObjectID, month, year int, engagement, qualityScore, retentionRate float64, totalViews int64) error

	// ProcessPayout transitions pending -> processing, snapshotting the
	// payout amount from the current totalEarned. Returns ErrConflict
	// if the payout is not pending, ErrNotFound if no ledger exists.
	ProcessPayout(ctx context.Context, instructorID primitive.ObjectID, month, year int, transferRef string) (*domain.InstructorRevenue, error)

	// CompletePayout transitions processing -> completed.
	CompletePayout(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*domain.InstructorRevenue, error)

	// FailPayout transitions processing -> failed, recording the reason.
	FailPayout(ctx context.Context, instructorID primitive.ObjectID, month, year int, reason string) (*domain.InstructorRevenue, error)

	// TopPerformers returns the month's ledgers ordered by totalEarned.
	TopPerformers(ctx context.Context, month, year, limit int) ([]domain.InstructorRevenue, error)

	// MonthlyPayoutTotal sums completed payout amounts for the month.
	MonthlyPayoutTotal(ctx context.Context, month, year int) (float64, error)
}
