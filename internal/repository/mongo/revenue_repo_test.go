package mongo

import (
	"testing"
	"time"

	"learnhub/course-platform/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestProcessPayoutUpdateKeepsTransferRefLiteral(t *testing.T) {
	now := time.Now().UTC()
	// A ref that happens to look like a field path must survive verbatim.
	pipeline := processPayoutUpdate("$monthlyRevenue.totalEarned", now)

	assert.Len(t, pipeline, 1)
	stage := pipeline[0]
	assert.Equal(t, "$set", stage[0].Key)

	set, ok := stage[0].Value.(bson.M)
	assert.True(t, ok)

	// The user value is wrapped so the server stores it as a string.
	assert.Equal(t, bson.M{"$literal": "$monthlyRevenue.totalEarned"}, set["payout.transferRef"])

	// The amount snapshot stays a bare field-path expression.
	assert.Equal(t, "$monthlyRevenue.totalEarned", set["payout.amount"])
	assert.Equal(t, domain.PayoutProcessing, set["payout.status"])
	assert.Equal(t, now, set["payout.date"])
}

func TestProcessPayoutUpdateOrdinaryRef(t *testing.T) {
	pipeline := processPayoutUpdate("tx_2024_06_0042", time.Now().UTC())

	set := pipeline[0][0].Value.(bson.M)
	assert.Equal(t, bson.M{"$literal": "tx_2024_06_0042"}, set["payout.transferRef"])
}
