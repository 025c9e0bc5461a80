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

const revenueCollectionName = "instructor_revenue"

// mongoRevenueRepository implements repository.RevenueRepository.
//
// All accrual operations are single server-side updates ($inc/$push),
// never load-mutate-save: concurrent lesson-completion events hitting
// the same (instructor, month, year) document must not lose updates.
// Payout transitions filter on the current status, which gives them
// compare-and-swap semantics.
type mongoRevenueRepository struct {
	collection *mongo.Collection
}

// NewMongoRevenueRepository creates a new revenue ledger repository backed by MongoDB.
func NewMongoRevenueRepository(db *mongo.Database) repository.RevenueRepository {
	return &mongoRevenueRepository{
		collection: db.Collection(revenueCollectionName),
	}
}

// ledgerFilter is the canonical filter for one month's ledger.
func ledgerFilter(instructorID primitive.ObjectID, month, year int) bson.M {
	return bson.M{
		"instructorId": instructorID,
		"month":        month,
		"year":         year,
	}
}

// breakdownField maps a revenue source to its accumulator field.
// Callers must have validated the source already.
func breakdownField(source domain.RevenueSource) string {
	switch source {
	case domain.SourceSubscription:
		return "revenueBreakdown.fromSubscriptions"
	case domain.SourceDirectSale:
		return "revenueBreakdown.fromDirectSales"
	case domain.SourceLiveSession:
		return "revenueBreakdown.fromLiveSessions"
	default: // domain.SourceBonus
		return "revenueBreakdown.bonuses"
	}
}

// GetOrCreate returns the ledger for (instructor, month, year), creating
// a fresh one at month rollover if absent. The upsert is idempotent
// under concurrent callers thanks to the unique index on the triple.
func (r *mongoRevenueRepository) GetOrCreate(ctx context.Context, instructorID primitive.ObjectID, month, year int, tier domain.Tier) (*domain.InstructorRevenue, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"instructorId":           instructorID,
			"month":                  month,
			"year":                   year,
			"tier":                   tier,
			"revenueSharePercentage": tier.SharePercentage(),
			"revenueBreakdown":       domain.RevenueBreakdown{},
			"monthlyRevenue":         domain.MonthlyRevenue{},
			"contentMetrics":         domain.ContentMetrics{},
			"history":                []domain.RevenueEvent{},
			"bonusHistory":           []domain.BonusEvent{},
			"payout":                 domain.PayoutInfo{Status: domain.PayoutPending},
			"createdAt":              now,
			"updatedAt":              now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var ledger domain.InstructorRevenue
	err := r.collection.FindOneAndUpdate(ctx, ledgerFilter(instructorID, month, year), update, opts).Decode(&ledger)
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

// Get retrieves one month's ledger.
func (r *mongoRevenueRepository) Get(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*domain.InstructorRevenue, error) {
	var ledger domain.InstructorRevenue
	err := r.collection.FindOne(ctx, ledgerFilter(instructorID, month, year)).Decode(&ledger)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &ledger, nil
}

// AddRevenue atomically credits the source's breakdown bucket and
// totalEarned, and appends the immutable history entry, in one update.
func (r *mongoRevenueRepository) AddRevenue(ctx context.Context, instructorID primitive.ObjectID, month, year int, event domain.RevenueEvent) error {
	update := bson.M{
		"$inc": bson.M{
			breakdownField(event.Source): event.Amount,
			"monthlyRevenue.totalEarned": event.Amount,
		},
		"$push": bson.M{"history": event},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, ledgerFilter(instructorID, month, year), update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddBonus atomically credits the bonus bucket and totalEarned, and
// appends to the bonus log.
func (r *mongoRevenueRepository) AddBonus(ctx context.Context, instructorID primitive.ObjectID, month, year int, event domain.BonusEvent) error {
	update := bson.M{
		"$inc": bson.M{
			"revenueBreakdown.bonuses":   event.Amount,
			"monthlyRevenue.totalEarned": event.Amount,
		},
		"$push": bson.M{"bonusHistory": event},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, ledgerFilter(instructorID, month, year), update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetTier updates the tier and its derived share percentage. History
// entries are untouched.
func (r *mongoRevenueRepository) SetTier(ctx context.Context, instructorID primitive.ObjectID, month, year int, tier domain.Tier) error {
	update := bson.M{
		"$set": bson.M{
			"tier":                   tier,
			"revenueSharePercentage": tier.SharePercentage(),
			"updatedAt":              time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, ledgerFilter(instructorID, month, year), update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetPerformanceInputs updates the metrics the performance score reads.
func (r *mongoRevenueRepository) SetPerformanceInputs(ctx context.Context, instructorID primitive.ObjectID, month, year int, engagement, qualityScore, retentionRate float64, totalViews int64) error {
	update := bson.M{
		"$set": bson.M{
			"monthlyRevenue.engagement":    engagement,
			"monthlyRevenue.qualityScore":  qualityScore,
			"monthlyRevenue.totalViews":    totalViews,
			"contentMetrics.retentionRate": retentionRate,
			"updatedAt":                    time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, ledgerFilter(instructorID, month, year), update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ProcessPayout transitions pending -> processing. The filter includes
// the current status, and the pipeline update snapshots the payout
// amount from totalEarned server-side, so the transition and snapshot
// are one atomic step.
func (r *mongoRevenueRepository) ProcessPayout(ctx context.Context, instructorID primitive.ObjectID, month, year int, transferRef string) (*domain.InstructorRevenue, error) {
	filter := ledgerFilter(instructorID, month, year)
	filter["payout.status"] = domain.PayoutPending

	return r.transitionPayout(ctx, instructorID, month, year, filter, processPayoutUpdate(transferRef, time.Now().UTC()))
}

// processPayoutUpdate builds the pipeline update for the pending ->
// processing transition. In a pipeline $set stage every string value is
// an aggregation expression, which is what lets payout.amount snapshot
// totalEarned server-side; the caller-supplied transfer reference must
// be wrapped in $literal so a ref starting with '$' is stored verbatim
// instead of being evaluated as a field path.
func processPayoutUpdate(transferRef string, now time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"payout.status":      domain.PayoutProcessing,
			"payout.amount":      "$monthlyRevenue.totalEarned",
			"payout.transferRef": bson.M{"$literal": transferRef},
			"payout.date":        now,
			"updatedAt":          now,
		}}},
	}
}

// CompletePayout transitions processing -> completed.
func (r *mongoRevenueRepository) CompletePayout(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*domain.InstructorRevenue, error) {
	filter := ledgerFilter(instructorID, month, year)
	filter["payout.status"] = domain.PayoutProcessing

	update := bson.M{
		"$set": bson.M{
			"payout.status": domain.PayoutCompleted,
			"updatedAt":     time.Now().UTC(),
		},
	}

	return r.transitionPayout(ctx, instructorID, month, year, filter, update)
}

// FailPayout transitions processing -> failed, recording the reason.
func (r *mongoRevenueRepository) FailPayout(ctx context.Context, instructorID primitive.ObjectID, month, year int, reason string) (*domain.InstructorRevenue, error) {
	filter := ledgerFilter(instructorID, month, year)
	filter["payout.status"] = domain.PayoutProcessing

	update := bson.M{
		"$set": bson.M{
			"payout.status":        domain.PayoutFailed,
			"payout.failureReason": reason,
			"updatedAt":            time.Now().UTC(),
		},
	}

	return r.transitionPayout(ctx, instructorID, month, year, filter, update)
}

// transitionPayout runs a status-filtered update and maps a miss to
// either "no ledger" or "wrong state".
func (r *mongoRevenueRepository) transitionPayout(ctx context.Context, instructorID primitive.ObjectID, month, year int, filter bson.M, update interface{}) (*domain.InstructorRevenue, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ledger domain.InstructorRevenue
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ledger)
	if err == nil {
		return &ledger, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// No match: the ledger is either missing entirely or in another
	// payout state. Distinguish so the service can report it properly.
	if _, getErr := r.Get(ctx, instructorID, month, year); getErr != nil {
		return nil, getErr
	}
	return nil, repository.ErrConflict
}

// TopPerformers returns the month's ledgers ordered by total earnings.
func (r *mongoRevenueRepository) TopPerformers(ctx context.Context, month, year, limit int) ([]domain.InstructorRevenue, error) {
	filter := bson.M{"month": month, "year": year}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "monthlyRevenue.totalEarned", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ledgers []domain.InstructorRevenue
	if err = cursor.All(ctx, &ledgers); err != nil {
		return nil, err
	}

	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return ledgers, nil
}

// MonthlyPayoutTotal sums completed payout amounts for the month.
func (r *mongoRevenueRepository) MonthlyPayoutTotal(ctx context.Context, month, year int) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"month":         month,
			"year":          year,
			"payout.status": domain.PayoutCompleted,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$payout.amount"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// EnsureRevenueIndexes creates necessary indexes for the revenue collection.
func EnsureRevenueIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One ledger per instructor per calendar month
			Keys: bson.D{
				{Key: "instructorId", Value: 1},
				{Key: "month", Value: 1},
				{Key: "year", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			// Top-performer listings sort by earnings within a month
			Keys: bson.D{
				{Key: "year", Value: 1},
				{Key: "month", Value: 1},
				{Key: "monthlyRevenue.totalEarned", Value: -1},
			},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
