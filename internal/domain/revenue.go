package domain

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RevenueSource classifies where an earning came from.
type RevenueSource string

const (
	SourceSubscription RevenueSource = "subscription"
	SourceDirectSale   RevenueSource = "direct_sale"
	SourceLiveSession  RevenueSource = "live_session"
	SourceBonus        RevenueSource = "bonus"
)

// IsValid reports whether s is one of the known revenue sources.
func (s RevenueSource) IsValid() bool {
	switch s {
	case SourceSubscription, SourceDirectSale, SourceLiveSession, SourceBonus:
		return true
	}
	return false
}

// BonusType classifies a platform-granted bonus.
type BonusType string

const (
	BonusQuality          BonusType = "quality"
	BonusEngagement       BonusType = "engagement"
	BonusNewContent       BonusType = "new_content"
	BonusStudentRetention BonusType = "student_retention"
	BonusTopPerformer     BonusType = "top_performer"
)

// IsValid reports whether b is one of the known bonus types.
func (b BonusType) IsValid() bool {
	switch b {
	case BonusQuality, BonusEngagement, BonusNewContent, BonusStudentRetention, BonusTopPerformer:
		return true
	}
	return false
}

// PayoutStatus is the state of the monthly payout sub-record.
// Transitions are one-directional: pending -> processing -> completed|failed.
type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutCompleted  PayoutStatus = "completed"
	PayoutFailed     PayoutStatus = "failed"
)

// RevenueBreakdown holds the per-source accumulators. Each field only
// ever increases during a month.
type RevenueBreakdown struct {
	FromSubscriptions float64 `bson:"fromSubscriptions" json:"fromSubscriptions"`
	FromDirectSales   float64 `bson:"fromDirectSales" json:"fromDirectSales"`
	FromLiveSessions  float64 `bson:"fromLiveSessions" json:"fromLiveSessions"`
	Bonuses           float64 `bson:"bonuses" json:"bonuses"`
}

// MonthlyRevenue aggregates the month's totals and the engagement
// inputs used by the performance score.
type MonthlyRevenue struct {
	TotalEarned  float64 `bson:"totalEarned" json:"totalEarned"`
	TotalViews   int64   `bson:"totalViews" json:"totalViews"`
	Engagement   float64 `bson:"engagement" json:"engagement"`     // 0-100
	QualityScore float64 `bson:"qualityScore" json:"qualityScore"` // 0-100
}

// ContentMetrics is a snapshot of the instructor's catalog for the month.
type ContentMetrics struct {
	Courses        int     `bson:"courses" json:"courses"`
	Tutorials      int     `bson:"tutorials" json:"tutorials"`
	Students       int     `bson:"students" json:"students"`
	AverageRating  float64 `bson:"averageRating" json:"averageRating"`
	CompletionRate float64 `bson:"completionRate" json:"completionRate"` // 0-100
	RetentionRate  float64 `bson:"retentionRate" json:"retentionRate"`   // 0-100
}

// RevenueEvent is one immutable entry in the accrual history.
type RevenueEvent struct {
	Amount      float64            `bson:"amount" json:"amount"`
	Source      RevenueSource      `bson:"source" json:"source"`
	ContentID   primitive.ObjectID `bson:"contentId,omitempty" json:"contentId,omitempty"`
	ContentType string             `bson:"contentType,omitempty" json:"contentType,omitempty"` // e.g., "course", "tutorial"
	StudentID   primitive.ObjectID `bson:"studentId,omitempty" json:"studentId,omitempty"`
	Metadata    map[string]string  `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}

// BonusEvent is one immutable entry in the bonus log.
type BonusEvent struct {
	Type        BonusType `bson:"type" json:"type"`
	Amount      float64   `bson:"amount" json:"amount"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	AwardedAt   time.Time `bson:"awardedAt" json:"awardedAt"`
}

// PayoutInfo is the month-close payout sub-record.
type PayoutInfo struct {
	Status        PayoutStatus `bson:"status" json:"status"`
	Amount        float64      `bson:"amount" json:"amount"` // Snapshot of totalEarned at processing time
	TransferRef   string       `bson:"transferRef,omitempty" json:"transferRef,omitempty"`
	Date          *time.Time   `bson:"date,omitempty" json:"date,omitempty"`
	FailureReason string       `bson:"failureReason,omitempty" json:"failureReason,omitempty"`
}

// InstructorRevenue is the per-instructor, per-month ledger document.
// Uniqueness is enforced on (instructorId, month, year). Records are
// never deleted; they remain as an audit trail.
type InstructorRevenue struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InstructorID primitive.ObjectID `bson:"instructorId" json:"instructorId"`
	Month        int                `bson:"month" json:"month"` // 1-12
	Year         int                `bson:"year" json:"year"`

	Tier                   Tier    `bson:"tier" json:"tier"`
	RevenueSharePercentage float64 `bson:"revenueSharePercentage" json:"revenueSharePercentage"` // Derived from Tier, kept in sync on tier change

	RevenueBreakdown RevenueBreakdown `bson:"revenueBreakdown" json:"revenueBreakdown"`
	MonthlyRevenue   MonthlyRevenue   `bson:"monthlyRevenue" json:"monthlyRevenue"`
	ContentMetrics   ContentMetrics   `bson:"contentMetrics" json:"contentMetrics"`

	History      []RevenueEvent `bson:"history" json:"history"`           // Append-only
	BonusHistory []BonusEvent   `bson:"bonusHistory" json:"bonusHistory"` // Append-only

	Payout PayoutInfo `bson:"payout" json:"payout"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewContentBonusTotal sums the bonuses of type new_content awarded
// this month. The performance score only cares whether it is positive.
func (r *InstructorRevenue) NewContentBonusTotal() float64 {
	var total float64
	for _, b := range r.BonusHistory {
		if b.Type == BonusNewContent {
			total += b.Amount
		}
	}
	return total
}

// PerformanceScore computes the 0-100 weighted performance score from
// the month's engagement, retention, quality and new-content inputs.
// It is a pure function of the record; nothing is cached or stored.
func (r *InstructorRevenue) PerformanceScore() float64 {
	newContent := 0.0
	if r.NewContentBonusTotal() > 0 {
		newContent = 1.0
	}
	score := 0.4*(r.MonthlyRevenue.Engagement/100) +
		0.3*(r.ContentMetrics.RetentionRate/100) +
		0.2*(r.MonthlyRevenue.QualityScore/100) +
		0.1*newContent
	return score * 100
}

// ComputeMonthlyShare computes the instructor's performance-weighted
// share of the given total subscription revenue. The tier percentage is
// re-derived from the current tier on every call, so a tier change is
// picked up automatically. The result is rounded half-up to 2 decimals.
func (r *InstructorRevenue) ComputeMonthlyShare(totalSubscriptionRevenue float64) float64 {
	baseShare := totalSubscriptionRevenue * 0.6
	instructorShare := baseShare * (r.PerformanceScore() / 100)
	finalShare := instructorShare * (r.Tier.SharePercentage() / 100)
	return roundMoney(finalShare)
}

// roundMoney rounds to 2 decimal places, half-up.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
