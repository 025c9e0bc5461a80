package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"learnhub/course-platform/internal/domain"
	"learnhub/course-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes mirroring the MongoDB implementations'
// semantics, including the payout CAS behavior.

type memInstructorRepo struct {
	mu          sync.Mutex
	instructors map[primitive.ObjectID]*domain.Instructor
}

func newMemInstructorRepo() *memInstructorRepo {
	return &memInstructorRepo{instructors: map[primitive.ObjectID]*domain.Instructor{}}
}

func (r *memInstructorRepo) Create(_ context.Context, instructor *domain.Instructor) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.instructors {
		if existing.Email == instructor.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	instructor.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	instructor.CreatedAt = now
	instructor.UpdatedAt = now
	clone := *instructor
	r.instructors[instructor.ID] = &clone
	return instructor.ID, nil
}

func (r *memInstructorRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Instructor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	instructor, ok := r.instructors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *instructor
	return &clone, nil
}

func (r *memInstructorRepo) GetByEmail(_ context.Context, email string) (*domain.Instructor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, instructor := range r.instructors {
		if instructor.Email == email {
			clone := *instructor
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memInstructorRepo) SetTier(_ context.Context, id primitive.ObjectID, tier domain.Tier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	instructor, ok := r.instructors[id]
	if !ok {
		return repository.ErrNotFound
	}
	instructor.Tier = tier
	instructor.UpdatedAt = time.Now().UTC()
	return nil
}

type memRevenueRepo struct {
	mu      sync.Mutex
	ledgers map[string]*domain.InstructorRevenue
}

func newMemRevenueRepo() *memRevenueRepo {
	return &memRevenueRepo{ledgers: map[string]*domain.InstructorRevenue{}}
}

func ledgerKey(instructorID primitive.ObjectID, month, year int) string {
	return fmt.Sprintf("%s-%d-%d", instructorID.Hex(), month, year)
}

func (r *memRevenueRepo) GetOrCreate(_ context.Context, instructorID primitive.ObjectID, month, year int, tier domain.Tier) (*domain.InstructorRevenue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := ledgerKey(instructorID, month, year)
	if ledger, ok := r.ledgers[key]; ok {
		clone := *ledger
		return &clone, nil
	}
	now := time.Now().UTC()
	ledger := &domain.InstructorRevenue{
		ID:                     primitive.NewObjectID(),
		InstructorID:           instructorID,
		Month:                  month,
		Year:                   year,
		Tier:                   tier,
		RevenueSharePercentage: tier.SharePercentage(),
		History:                []domain.RevenueEvent{},
		BonusHistory:           []domain.BonusEvent{},
		Payout:                 domain.PayoutInfo{Status: domain.PayoutPending},
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	r.ledgers[key] = ledger
	clone := *ledger
	return &clone, nil
}

func (r *memRevenueRepo) Get(_ context.Context, instructorID primitive.ObjectID, month, year int) (*domain.InstructorRevenue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger, ok := r.ledgers[ledgerKey(instructorID, month, year)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *ledger
	clone.History = append([]domain.RevenueEvent(nil), ledger.History...)
	clone.BonusHistory = append([]domain.BonusEvent(nil), ledger.BonusHistory...)
	return &clone, nil
}

func (r *memRevenueRepo) AddRevenue(_ context.Context, instructorID primitive.ObjectID, month, year int, event domain.RevenueEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger, ok := r.ledgers[ledgerKey(instructorID, month, year)]
	if !ok {
		return repository.ErrNotFound
	}
	switch event.Source {
	case domain.SourceSubscription:
		ledger.RevenueBreakdown.FromSubscriptions += event.Amount
	case domain.SourceDirectSale:
		ledger.RevenueBreakdown.FromDirectSales += event.Amount
	case domain.SourceLiveSession:
		ledger.RevenueBreakdown.FromLiveSessions += event.Amount
	default:
		ledger.RevenueBreakdown.Bonuses += event.Amount
	}
	ledger.MonthlyRevenue.TotalEarned += event.Amount
	ledger.History = append(ledger.History, event)
	ledger.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memRevenueRepo) AddBonus(_ context.Context, instructorID primitive.ObjectID, month, year int, event domain.BonusEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger, ok := r.ledgers[ledgerKey(instructorID, month, year)]
	if !ok {
		return repository.ErrNotFound
	}
	ledger.RevenueBreakdown.Bonuses += event.Amount
	ledger.MonthlyRevenue.TotalEarned += event.Amount
	ledger.BonusHistory = append(ledger.BonusHistory, event)
	ledger.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memRevenueRepo) SetTier(_ context.Context, instructorID primitive.ObjectID, month, year int, tier domain.Tier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger, ok := r.ledgers[ledgerKey(instructorID, month, year)]
	if !ok {
		return repository.ErrNotFound
	}
	ledger.Tier = tier
	ledger.RevenueSharePercentage = tier.SharePercentage()
	ledger.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memRevenueRepo) SetPerformanceInputs(_ context.Context, instructorID primitive.ObjectID, month, year int, engagement, qualityScore, retentionRate float64, totalViews int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger, ok := r.ledgers[ledgerKey(instructorID, month, year)]
	if !ok {
		return repository.ErrNotFound
	}
	ledger.MonthlyRevenue.Engagement = engagement
	ledger.MonthlyRevenue.QualityScore = qualityScore
	ledger.MonthlyRevenue.TotalViews = totalViews
	ledger.ContentMetrics.RetentionRate = retentionRate
	return nil
}

func (r *memRevenueRepo) ProcessPayout(_ context.Context, instructorID primitive.ObjectID, month, year int, transferRef string) (*domain.InstructorRevenue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger, ok := r.ledgers[ledgerKey(instructorID, month, year)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if ledger.Payout.Status != domain.PayoutPending {
		return nil, repository.ErrConflict
	}
	now := time.Now().UTC()
	ledger.Payout.Status = domain.PayoutProcessing
	ledger.Payout.Amount = ledger.MonthlyRevenue.TotalEarned
	ledger.Payout.TransferRef = transferRef
	ledger.Payout.Date = &now
	clone := *ledger
	return &clone, nil
}

func (r *memRevenueRepo) CompletePayout(_ context.Context, instructorID primitive.ObjectID, month, year int) (*domain.InstructorRevenue, error) {
	return r.transition(instructorID, month, year, func(p *domain.PayoutInfo) {
		p.Status = domain.PayoutCompleted
	})
}

func (r *memRevenueRepo) FailPayout(_ context.Context, instructorID primitive.ObjectID, month, year int, reason string) (*domain.InstructorRevenue, error) {
	return r.transition(instructorID, month, year, func(p *domain.PayoutInfo) {
		p.Status = domain.PayoutFailed
		p.FailureReason = reason
	})
}

func (r *memRevenueRepo) transition(instructorID primitive.ObjectID, month, year int, apply func(*domain.PayoutInfo)) (*domain.InstructorRevenue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger, ok := r.ledgers[ledgerKey(instructorID, month, year)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if ledger.Payout.Status != domain.PayoutProcessing {
		return nil, repository.ErrConflict
	}
	apply(&ledger.Payout)
	clone := *ledger
	return &clone, nil
}

func (r *memRevenueRepo) TopPerformers(_ context.Context, month, year, limit int) ([]domain.InstructorRevenue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.InstructorRevenue
	for _, ledger := range r.ledgers {
		if ledger.Month == month && ledger.Year == year {
			out = append(out, *ledger)
		}
	}
	// Selection sort by earnings; fine at test sizes.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].MonthlyRevenue.TotalEarned > out[i].MonthlyRevenue.TotalEarned {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRevenueRepo) MonthlyPayoutTotal(_ context.Context, month, year int) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, ledger := range r.ledgers {
		if ledger.Month == month && ledger.Year == year && ledger.Payout.Status == domain.PayoutCompleted {
			total += ledger.Payout.Amount
		}
	}
	return total, nil
}

type memMediaRepo struct {
	mu     sync.Mutex
	assets map[primitive.ObjectID]*domain.MediaAsset
}

func newMemMediaRepo() *memMediaRepo {
	return &memMediaRepo{assets: map[primitive.ObjectID]*domain.MediaAsset{}}
}

func (r *memMediaRepo) Create(_ context.Context, asset *domain.MediaAsset) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	asset.ID = primitive.NewObjectID()
	asset.UploadedAt = time.Now().UTC()
	clone := *asset
	r.assets[asset.ID] = &clone
	return asset.ID, nil
}

func (r *memMediaRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.MediaAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	asset, ok := r.assets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *asset
	return &clone, nil
}

func (r *memMediaRepo) GetByInstructorID(_ context.Context, instructorID primitive.ObjectID) ([]domain.MediaAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.MediaAsset
	for _, asset := range r.assets {
		if asset.InstructorID == instructorID {
			out = append(out, *asset)
		}
	}
	return out, nil
}
