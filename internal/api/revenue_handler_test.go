package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"learnhub/course-platform/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubRevenueService records the arguments of the payout calls so the
// handler's request parsing can be asserted.
type stubRevenueService struct {
	ledger *domain.InstructorRevenue

	gotMonth  int
	gotYear   int
	gotRef    string
	gotReason string
}

func (s *stubRevenueService) AddRevenue(_ context.Context, _ primitive.ObjectID, month, year int, _ float64, _ domain.RevenueSource, _ primitive.ObjectID, _ string, _ primitive.ObjectID, _ map[string]string) (*domain.InstructorRevenue, error) {
	s.gotMonth, s.gotYear = month, year
	return s.ledger, nil
}

func (s *stubRevenueService) AddBonus(_ context.Context, _ primitive.ObjectID, month, year int, _ domain.BonusType, _ float64, _ string) (*domain.InstructorRevenue, error) {
	s.gotMonth, s.gotYear = month, year
	return s.ledger, nil
}

func (s *stubRevenueService) RecordLessonCompletion(_ context.Context, _, _, _ primitive.ObjectID, _ float64) (*domain.InstructorRevenue, error) {
	return s.ledger, nil
}

func (s *stubRevenueService) GetLedger(_ context.Context, _ primitive.ObjectID, month, year int) (*domain.InstructorRevenue, error) {
	s.gotMonth, s.gotYear = month, year
	return s.ledger, nil
}

func (s *stubRevenueService) MonthlyShare(_ context.Context, _ primitive.ObjectID, month, year int, _ float64) (float64, error) {
	s.gotMonth, s.gotYear = month, year
	return 0, nil
}

func (s *stubRevenueService) ChangeTier(context.Context, primitive.ObjectID, domain.Tier) error {
	return nil
}

func (s *stubRevenueService) SetPerformanceInputs(_ context.Context, _ primitive.ObjectID, month, year int, _, _, _ float64, _ int64) error {
	s.gotMonth, s.gotYear = month, year
	return nil
}

func (s *stubRevenueService) ProcessPayout(_ context.Context, _ primitive.ObjectID, month, year int, transferRef string) (*domain.InstructorRevenue, error) {
	s.gotMonth, s.gotYear, s.gotRef = month, year, transferRef
	return s.ledger, nil
}

func (s *stubRevenueService) CompletePayout(_ context.Context, _ primitive.ObjectID, month, year int) (*domain.InstructorRevenue, error) {
	s.gotMonth, s.gotYear = month, year
	return s.ledger, nil
}

func (s *stubRevenueService) FailPayout(_ context.Context, _ primitive.ObjectID, month, year int, reason string) (*domain.InstructorRevenue, error) {
	s.gotMonth, s.gotYear, s.gotReason = month, year, reason
	return s.ledger, nil
}

func (s *stubRevenueService) TopPerformers(_ context.Context, month, year, _ int) ([]domain.InstructorRevenue, error) {
	s.gotMonth, s.gotYear = month, year
	return nil, nil
}

func (s *stubRevenueService) MonthlyPayoutTotal(_ context.Context, month, year int) (float64, error) {
	s.gotMonth, s.gotYear = month, year
	return 0, nil
}

func newPayoutTestRouter(t *testing.T) (*gin.Engine, *stubRevenueService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stub := &stubRevenueService{
		ledger: &domain.InstructorRevenue{
			ID:           primitive.NewObjectID(),
			InstructorID: primitive.NewObjectID(),
			Month:        6,
			Year:         2024,
			Tier:         domain.TierBasic,
		},
	}
	handler := NewRevenueHandler(stub, nil)

	router := gin.New()
	router.POST("/instructors/:instructorId/revenue/payout", handler.ProcessPayout)
	router.POST("/instructors/:instructorId/revenue/payout/complete", handler.CompletePayout)
	router.POST("/instructors/:instructorId/revenue/payout/fail", handler.FailPayout)
	return router, stub
}

// All three payout endpoints address the period the same way: month and
// year query parameters, with the payload (if any) in the JSON body.
func TestPayoutEndpointsReadPeriodFromQuery(t *testing.T) {
	router, stub := newPayoutTestRouter(t)
	base := "/instructors/" + primitive.NewObjectID().Hex() + "/revenue/payout"

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, base+"?month=6&year=2024", strings.NewReader(`{"transferRef":"tx_1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6, stub.gotMonth)
	assert.Equal(t, 2024, stub.gotYear)
	assert.Equal(t, "tx_1", stub.gotRef)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, base+"/complete?month=5&year=2023", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, stub.gotMonth)
	assert.Equal(t, 2023, stub.gotYear)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, base+"/fail?month=4&year=2022", strings.NewReader(`{"reason":"bank bounce"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, stub.gotMonth)
	assert.Equal(t, 2022, stub.gotYear)
	assert.Equal(t, "bank bounce", stub.gotReason)
}

// Omitted query parameters pass through as zero so the service defaults
// to the current period.
func TestPayoutEndpointsDefaultPeriod(t *testing.T) {
	router, stub := newPayoutTestRouter(t)
	base := "/instructors/" + primitive.NewObjectID().Hex() + "/revenue/payout"

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, base, strings.NewReader(`{"transferRef":"tx_9"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, stub.gotMonth)
	assert.Zero(t, stub.gotYear)
}
