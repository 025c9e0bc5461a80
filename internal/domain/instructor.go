package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tier is the instructor subscription level. It controls the revenue
// share percentage applied at payout time.
type Tier string

const (
	TierBasic   Tier = "basic"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
)

// SharePercentage returns the revenue share percentage for a tier.
// Unknown tiers fall back to the basic rate.
func (t Tier) SharePercentage() float64 {
	switch t {
	case TierPremium:
		return 85
	case TierPro:
		return 80
	default:
		return 70
	}
}

// IsValid reports whether t is one of the known tiers.
func (t Tier) IsValid() bool {
	switch t {
	case TierBasic, TierPro, TierPremium:
		return true
	}
	return false
}

// Instructor represents a content author on the platform.
type Instructor struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"` // Should be unique
	Tier      Tier               `bson:"tier" json:"tier"`
	Bio       string             `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
