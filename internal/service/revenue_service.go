package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnhub/course-platform/internal/domain"
	"learnhub/course-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	// ErrValidation is the base class for rejected ledger input. The
	// specific causes below wrap it so callers can branch on either.
	ErrValidation = errors.New("revenue validation failed")

	ErrInvalidAmount    = fmt.Errorf("%w: amount must be non-negative", ErrValidation)
	ErrInvalidSource    = fmt.Errorf("%w: unrecognized revenue source", ErrValidation)
	ErrInvalidBonusType = fmt.Errorf("%w: unrecognized bonus type", ErrValidation)
	ErrInvalidTier      = fmt.Errorf("%w: unrecognized tier", ErrValidation)
	ErrInvalidPeriod    = fmt.Errorf("%w: month and year must form a valid period", ErrValidation)

	// ErrPayoutState means a transition was attempted from a state that
	// does not allow it (e.g. completing a payout that was never
	// processed, or failing one already completed). This is a caller
	// logic error, not a user-facing condition.
	ErrPayoutState = errors.New("invalid payout state transition")

	ErrLedgerNotFound     = errors.New("revenue ledger not found")
	ErrInstructorNotFound = errors.New("instructor not found")
)

// --- Service Interface ---
// RevenueService manages the per-instructor monthly ledger. Every
// operation taking a month/year pair follows the same period contract:
// both zero selects the current UTC month, and a half-specified or
// out-of-range pair is rejected with ErrInvalidPeriod.
type RevenueService interface {
	// AddRevenue accrues an earning into the instructor's ledger for
	// the given month, creating the ledger at month rollover if needed.
	AddRevenue(ctx context.Context, instructorID primitive.ObjectID, month, year int, amount float64, source domain.RevenueSource, contentID primitive.ObjectID, contentType string, studentID primitive.ObjectID, metadata map[string]string) (*domain.InstructorRevenue, error)

	// AddBonus awards a platform bonus; it credits the bonus bucket and
	// totalEarned and appends to the bonus log.
	AddBonus(ctx context.Context, instructorID primitive.ObjectID, month, year int, bonusType domain.BonusType, amount float64, description string) (*domain.InstructorRevenue, error)

	// RecordLessonCompletion accrues subscription revenue for one
	// lesson-completion event. Safe under concurrent completions.
	RecordLessonCompletion(ctx context.Context, instructorID, lessonID, studentID primitive.ObjectID, amount float64) (*domain.InstructorRevenue, error)

	GetLedger(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*domain.InstructorRevenue, error)

	// MonthlyShare computes the performance-weighted payout share from
	// the current ledger state. Pure read; nothing is mutated.
	MonthlyShare(ctx context.Context, instructorID primitive.ObjectID, month, year int, totalSubscriptionRevenue float64) (float64, error)

	// ChangeTier updates the instructor's tier and re-derives the share
	// percentage on the current month's ledger. History is untouched.
	ChangeTier(ctx context.Context, instructorID primitive.ObjectID, tier domain.Tier) error

	SetPerformanceInputs(ctx context.Context, instructorID primitive.ObjectID, month, year int, engagement, qualityScore, retentionRate float64, totalViews int64) error

	ProcessPayout(ctx context.Context, instructorID primitive.ObjectID, month, year int, transferRef string) (*domain.InstructorRevenue, error)
	CompletePayout(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*domain.InstructorRevenue, error)
	FailPayout(ctx context.Context, instructorID primitive.ObjectID, month, year int, reason string) (*domain.InstructorRevenue, error)

	TopPerformers(ctx context.Context, month, year, limit int) ([]domain.InstructorRevenue, error)
	MonthlyPayoutTotal(ctx context.Context, month, year int) (float64, error)
}

// --- Service Implementation ---

type revenueService struct {
	revenueRepo    repository.RevenueRepository
	instructorRepo repository.InstructorRepository
}

// NewRevenueService creates a new instance of revenueService.
func NewRevenueService(revenueRepo repository.RevenueRepository, instructorRepo repository.InstructorRepository) RevenueService {
	return &revenueService{
		revenueRepo:    revenueRepo,
		instructorRepo: instructorRepo,
	}
}

// normalizePeriod resolves the accrual period. Both values zero means
// "the current UTC month"; a half-specified or out-of-range period is
// rejected rather than silently overridden.
func normalizePeriod(month, year int) (int, int, error) {
	if month == 0 && year == 0 {
		now := time.Now().UTC()
		return int(now.Month()), now.Year(), nil
	}
	if month < 1 || month > 12 || year < 1 {
		return 0, 0, ErrInvalidPeriod
	}
	return month, year, nil
}

// ensureLedger loads the instructor (for the tier) and returns the
// month's ledger, creating it at rollover if absent.
func (s *revenueService) ensureLedger(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*domain.InstructorRevenue, error) {
	instructor, err := s.instructorRepo.GetByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInstructorNotFound
		}
		return nil, err
	}
	return s.revenueRepo.GetOrCreate(ctx, instructorID, month, year, instructor.Tier)
}

func (s *revenueService) AddRevenue(ctx context.Context, instructorID primitive.ObjectID, month, year int, amount float64, source domain.RevenueSource, contentID primitive.ObjectID, contentType string, studentID primitive.ObjectID, metadata map[string]string) (*domain.InstructorRevenue, error) {
	// Validation happens before any mutation; a rejected call leaves
	// the ledger exactly as it was.
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	if !source.IsValid() {
		return nil, ErrInvalidSource
	}

	month, year, err := normalizePeriod(month, year)
	if err != nil {
		return nil, err
	}
	if _, err := s.ensureLedger(ctx, instructorID, month, year); err != nil {
		return nil, err
	}

	event := domain.RevenueEvent{
		Amount:      amount,
		Source:      source,
		ContentID:   contentID,
		ContentType: contentType,
		StudentID:   studentID,
		Metadata:    metadata,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.revenueRepo.AddRevenue(ctx, instructorID, month, year, event); err != nil {
		return nil, err
	}

	return s.revenueRepo.Get(ctx, instructorID, month, year)
}

func (s *revenueService) AddBonus(ctx context.Context, instructorID primitive.ObjectID, month, year int, bonusType domain.BonusType, amount float64, description string) (*domain.InstructorRevenue, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	if !bonusType.IsValid() {
		return nil, ErrInvalidBonusType
	}

	month, year, err := normalizePeriod(month, year)
	if err != nil {
		return nil, err
	}
	if _, err := s.ensureLedger(ctx, instructorID, month, year); err != nil {
		return nil, err
	}

	event := domain.BonusEvent{
		Type:        bonusType,
		Amount:      amount,
		Description: description,
		AwardedAt:   time.Now().UTC(),
	}
	if err := s.revenueRepo.AddBonus(ctx, instructorID, month, year, event); err != nil {
		return nil, err
	}

	return s.revenueRepo.Get(ctx, instructorID, month, year)
}

func (s *revenueService) RecordLessonCompletion(ctx context.Context, instructorID, lessonID, studentID primitive.ObjectID, amount float64) (*domain.InstructorRevenue, error) {
	return s.AddRevenue(ctx, instructorID, 0, 0, amount, domain.SourceSubscription, lessonID, "lesson", studentID, map[string]string{
		"event": "lesson_completion",
	})
}

func (s *revenueService) GetLedger(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*domain.InstructorRevenue, error) {
	month, year, err := normalizePeriod(month, year)
	if err != nil {
		return nil, err
	}
	ledger, err := s.revenueRepo.Get(ctx, instructorID, month, year)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLedgerNotFound
		}
		return nil, err
	}
	return ledger, nil
}

func (s *revenueService) MonthlyShare(ctx context.Context, instructorID primitive.ObjectID, month, year int, totalSubscriptionRevenue float64) (float64, error) {
	if totalSubscriptionRevenue < 0 {
		return 0, ErrInvalidAmount
	}
	ledger, err := s.GetLedger(ctx, instructorID, month, year)
	if err != nil {
		return 0, err
	}
	return ledger.ComputeMonthlyShare(totalSubscriptionRevenue), nil
}

func (s *revenueService) ChangeTier(ctx context.Context, instructorID primitive.ObjectID, tier domain.Tier) error {
	if !tier.IsValid() {
		return ErrInvalidTier
	}

	if err := s.instructorRepo.SetTier(ctx, instructorID, tier); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInstructorNotFound
		}
		return err
	}

	// Keep the current month's ledger percentage in sync. A missing
	// ledger is fine: it will pick up the new tier at creation.
	month, year, _ := normalizePeriod(0, 0)
	err := s.revenueRepo.SetTier(ctx, instructorID, month, year, tier)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s *revenueService) SetPerformanceInputs(ctx context.Context, instructorID primitive.ObjectID, month, year int, engagement, qualityScore, retentionRate float64, totalViews int64) error {
	for _, v := range []float64{engagement, qualityScore, retentionRate} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: performance inputs must be within 0-100", ErrValidation)
		}
	}

	month, year, err := normalizePeriod(month, year)
	if err != nil {
		return err
	}
	if _, err := s.ensureLedger(ctx, instructorID, month, year); err != nil {
		return err
	}
	return s.revenueRepo.SetPerformanceInputs(ctx, instructorID, month, year, engagement, qualityScore, retentionRate, totalViews)
}

func (s *revenueService) ProcessPayout(ctx context.Context, instructorID primitive.ObjectID, month, year int, transferRef string) (*domain.InstructorRevenue, error) {
	if transferRef == "" {
		return nil, fmt.Errorf("%w: transfer reference is required", ErrValidation)
	}
	month, year, err := normalizePeriod(month, year)
	if err != nil {
		return nil, err
	}
	return s.mapPayoutErr(s.revenueRepo.ProcessPayout(ctx, instructorID, month, year, transferRef))
}

func (s *revenueService) CompletePayout(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*domain.InstructorRevenue, error) {
	month, year, err := normalizePeriod(month, year)
	if err != nil {
		return nil, err
	}
	return s.mapPayoutErr(s.revenueRepo.CompletePayout(ctx, instructorID, month, year))
}

func (s *revenueService) FailPayout(ctx context.Context, instructorID primitive.ObjectID, month, year int, reason string) (*domain.InstructorRevenue, error) {
	month, year, err := normalizePeriod(month, year)
	if err != nil {
		return nil, err
	}
	return s.mapPayoutErr(s.revenueRepo.FailPayout(ctx, instructorID, month, year, reason))
}

// mapPayoutErr translates repository transition outcomes into service errors.
func (s *revenueService) mapPayoutErr(ledger *domain.InstructorRevenue, err error) (*domain.InstructorRevenue, error) {
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrPayoutState
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLedgerNotFound
		}
		return nil, err
	}
	return ledger, nil
}

func (s *revenueService) TopPerformers(ctx context.Context, month, year, limit int) ([]domain.InstructorRevenue, error) {
	month, year, err := normalizePeriod(month, year)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.revenueRepo.TopPerformers(ctx, month, year, limit)
}

func (s *revenueService) MonthlyPayoutTotal(ctx context.Context, month, year int) (float64, error) {
	month, year, err := normalizePeriod(month, year)
	if err != nil {
		return 0, err
	}
	return s.revenueRepo.MonthlyPayoutTotal(ctx, month, year)
}
