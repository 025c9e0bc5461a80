package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"learnhub/course-platform/internal/domain"
	"learnhub/course-platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RevenueHandler holds the revenue and course service dependencies.
type RevenueHandler struct {
	revenueService service.RevenueService
	courseService  service.CourseService
}

// NewRevenueHandler creates a new RevenueHandler.
func NewRevenueHandler(revenueService service.RevenueService, courseService service.CourseService) *RevenueHandler {
	return &RevenueHandler{
		revenueService: revenueService,
		courseService:  courseService,
	}
}

// --- DTOs ---

// AddRevenueRequest defines the expected JSON for accruing revenue.
type AddRevenueRequest struct {
	Amount      float64           `json:"amount" binding:"gte=0"`
	Source      string            `json:"source" binding:"required"`
	ContentID   string            `json:"contentId"`
	ContentType string            `json:"contentType"`
	StudentID   string            `json:"studentId"`
	Metadata    map[string]string `json:"metadata"`
	Month       int               `json:"month" binding:"omitempty,min=1,max=12"`
	Year        int               `json:"year" binding:"omitempty,min=2000"`
}

// AddBonusRequest defines the expected JSON for awarding a bonus.
type AddBonusRequest struct {
	Type        string  `json:"type" binding:"required"`
	Amount      float64 `json:"amount" binding:"gte=0"`
	Description string  `json:"description"`
	Month       int     `json:"month" binding:"omitempty,min=1,max=12"`
	Year        int     `json:"year" binding:"omitempty,min=2000"`
}

// LessonCompletionRequest defines the expected JSON for a completion event.
type LessonCompletionRequest struct {
	StudentID string  `json:"studentId" binding:"required"`
	Amount    float64 `json:"amount" binding:"gte=0"`
}

// ChangeTierRequest defines the expected JSON for a tier change.
type ChangeTierRequest struct {
	Tier string `json:"tier" binding:"required,oneof=basic pro premium"`
}

// PerformanceInputsRequest defines the expected JSON for metric updates.
type PerformanceInputsRequest struct {
	Engagement    float64 `json:"engagement" binding:"min=0,max=100"`
	QualityScore  float64 `json:"qualityScore" binding:"min=0,max=100"`
	RetentionRate float64 `json:"retentionRate" binding:"min=0,max=100"`
	TotalViews    int64   `json:"totalViews" binding:"gte=0"`
	Month         int     `json:"month" binding:"omitempty,min=1,max=12"`
	Year          int     `json:"year" binding:"omitempty,min=2000"`
}

// ProcessPayoutRequest defines the expected JSON for starting a payout.
// The period is addressed via month/year query parameters, same as the
// other payout endpoints.
type ProcessPayoutRequest struct {
	TransferRef string `json:"transferRef" binding:"required"`
}

// FailPayoutRequest defines the expected JSON for failing a payout.
type FailPayoutRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// LedgerResponse is the DTO for returning one month's ledger.
type LedgerResponse struct {
	ID                     string                  `json:"id"`
	InstructorID           string                  `json:"instructorId"`
	Month                  int                     `json:"month"`
	Year                   int                     `json:"year"`
	Tier                   string                  `json:"tier"`
	RevenueSharePercentage float64                 `json:"revenueSharePercentage"`
	RevenueBreakdown       domain.RevenueBreakdown `json:"revenueBreakdown"`
	MonthlyRevenue         domain.MonthlyRevenue   `json:"monthlyRevenue"`
	ContentMetrics         domain.ContentMetrics   `json:"contentMetrics"`
	History                []domain.RevenueEvent   `json:"history"`
	BonusHistory           []domain.BonusEvent     `json:"bonusHistory"`
	Payout                 domain.PayoutInfo       `json:"payout"`
	PerformanceScore       float64                 `json:"performanceScore"`
	UpdatedAt              time.Time               `json:"updatedAt"`
}

// MapLedgerToResponse converts a domain.InstructorRevenue to its DTO.
// The performance score is computed on read, never stored.
func MapLedgerToResponse(ledger *domain.InstructorRevenue) LedgerResponse {
	if ledger == nil {
		return LedgerResponse{}
	}
	return LedgerResponse{
		ID:                     ledger.ID.Hex(),
		InstructorID:           ledger.InstructorID.Hex(),
		Month:                  ledger.Month,
		Year:                   ledger.Year,
		Tier:                   string(ledger.Tier),
		RevenueSharePercentage: ledger.RevenueSharePercentage,
		RevenueBreakdown:       ledger.RevenueBreakdown,
		MonthlyRevenue:         ledger.MonthlyRevenue,
		ContentMetrics:         ledger.ContentMetrics,
		History:                ledger.History,
		BonusHistory:           ledger.BonusHistory,
		Payout:                 ledger.Payout,
		PerformanceScore:       ledger.PerformanceScore(),
		UpdatedAt:              ledger.UpdatedAt,
	}
}

// parsePeriodQuery reads optional month/year query parameters.
func parsePeriodQuery(c *gin.Context) (int, int) {
	month, _ := strconv.Atoi(c.Query("month"))
	year, _ := strconv.Atoi(c.Query("year"))
	return month, year
}

// optionalObjectID parses a hex ID, treating "" as nil.
func optionalObjectID(raw string) (primitive.ObjectID, error) {
	if raw == "" {
		return primitive.NilObjectID, nil
	}
	return primitive.ObjectIDFromHex(raw)
}

// handleRevenueError maps revenue service errors to HTTP statuses.
func handleRevenueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPayoutState):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrLedgerNotFound), errors.Is(err, service.ErrInstructorNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Revenue operation failed.")
	}
}

// --- Handler Methods ---

// AddRevenue godoc
// @Summary Accrue revenue into an instructor's monthly ledger
// @Tags Revenue
// @Accept json
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Param event body AddRevenueRequest true "Revenue event"
// @Success 200 {object} LedgerResponse
// @Failure 400 {object} gin.H "Invalid amount or source"
// @Router /instructors/{instructorId}/revenue [post]
func (h *RevenueHandler) AddRevenue(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}

	var req AddRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	contentID, err := optionalObjectID(req.ContentID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid contentId format.")
		return
	}
	studentID, err := optionalObjectID(req.StudentID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid studentId format.")
		return
	}

	ledger, err := h.revenueService.AddRevenue(
		c.Request.Context(),
		instructorID,
		req.Month,
		req.Year,
		req.Amount,
		domain.RevenueSource(req.Source),
		contentID,
		req.ContentType,
		studentID,
		req.Metadata,
	)
	if err != nil {
		handleRevenueError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapLedgerToResponse(ledger))
}

// AddBonus godoc
// @Summary Award a platform bonus
// @Tags Revenue
// @Accept json
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Param bonus body AddBonusRequest true "Bonus details"
// @Success 200 {object} LedgerResponse
// @Router /instructors/{instructorId}/bonuses [post]
func (h *RevenueHandler) AddBonus(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}

	var req AddBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ledger, err := h.revenueService.AddBonus(
		c.Request.Context(),
		instructorID,
		req.Month,
		req.Year,
		domain.BonusType(req.Type),
		req.Amount,
		req.Description,
	)
	if err != nil {
		handleRevenueError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapLedgerToResponse(ledger))
}

// RecordLessonCompletion godoc
// @Summary Record a lesson-completion event and accrue its revenue
// @Tags Revenue
// @Accept json
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Param event body LessonCompletionRequest true "Completion details"
// @Success 200 {object} LedgerResponse
// @Router /lessons/{lessonId}/completions [post]
func (h *RevenueHandler) RecordLessonCompletion(c *gin.Context) {
	lessonID, ok := parseIDParam(c, "lessonId")
	if !ok {
		return
	}

	var req LessonCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	studentID, err := primitive.ObjectIDFromHex(req.StudentID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid studentId format.")
		return
	}

	lesson, err := h.courseService.GetLessonByID(c.Request.Context(), lessonID)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			abortWithError(c, http.StatusNotFound, "Lesson not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve lesson.")
		}
		return
	}

	ledger, err := h.revenueService.RecordLessonCompletion(c.Request.Context(), lesson.InstructorID, lesson.ID, studentID, req.Amount)
	if err != nil {
		handleRevenueError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapLedgerToResponse(ledger))
}

// GetLedger godoc
// @Summary Get an instructor's monthly ledger
// @Tags Revenue
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Param month query int false "Month (defaults to current)"
// @Param year query int false "Year (defaults to current)"
// @Success 200 {object} LedgerResponse
// @Failure 404 {object} gin.H "No ledger for that period"
// @Router /instructors/{instructorId}/revenue [get]
func (h *RevenueHandler) GetLedger(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}
	month, year := parsePeriodQuery(c)

	ledger, err := h.revenueService.GetLedger(c.Request.Context(), instructorID, month, year)
	if err != nil {
		handleRevenueError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapLedgerToResponse(ledger))
}

// GetMonthlyShare godoc
// @Summary Quote the performance-weighted monthly share
// @Tags Revenue
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Param subscriptionRevenue query number true "Total subscription revenue for the month"
// @Success 200 {object} gin.H "share"
// @Router /instructors/{instructorId}/revenue/share [get]
func (h *RevenueHandler) GetMonthlyShare(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}
	month, year := parsePeriodQuery(c)

	subscriptionRevenue, err := strconv.ParseFloat(c.Query("subscriptionRevenue"), 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "A numeric 'subscriptionRevenue' query parameter is required.")
		return
	}

	share, err := h.revenueService.MonthlyShare(c.Request.Context(), instructorID, month, year, subscriptionRevenue)
	if err != nil {
		handleRevenueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"share": share})
}

// ChangeTier godoc
// @Summary Change an instructor's subscription tier
// @Tags Revenue
// @Accept json
// @Param instructorId path string true "Instructor ID"
// @Param tier body ChangeTierRequest true "New tier"
// @Success 204 "Updated"
// @Router /instructors/{instructorId}/tier [put]
func (h *RevenueHandler) ChangeTier(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}

	var req ChangeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.revenueService.ChangeTier(c.Request.Context(), instructorID, domain.Tier(req.Tier)); err != nil {
		handleRevenueError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetPerformanceInputs godoc
// @Summary Update the metrics the performance score reads
// @Tags Revenue
// @Accept json
// @Param instructorId path string true "Instructor ID"
// @Param metrics body PerformanceInputsRequest true "Metric values"
// @Success 204 "Updated"
// @Router /instructors/{instructorId}/revenue/metrics [put]
func (h *RevenueHandler) SetPerformanceInputs(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}

	var req PerformanceInputsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	err := h.revenueService.SetPerformanceInputs(
		c.Request.Context(),
		instructorID,
		req.Month,
		req.Year,
		req.Engagement,
		req.QualityScore,
		req.RetentionRate,
		req.TotalViews,
	)
	if err != nil {
		handleRevenueError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ProcessPayout godoc
// @Summary Start the monthly payout (pending -> processing)
// @Tags Payouts
// @Accept json
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Param payout body ProcessPayoutRequest true "Transfer details"
// @Param month query int false "Month (defaults to current)"
// @Param year query int false "Year (defaults to current)"
// @Success 200 {object} LedgerResponse
// @Failure 409 {object} gin.H "Payout not in pending state"
// @Router /instructors/{instructorId}/revenue/payout [post]
func (h *RevenueHandler) ProcessPayout(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}
	month, year := parsePeriodQuery(c)

	var req ProcessPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ledger, err := h.revenueService.ProcessPayout(c.Request.Context(), instructorID, month, year, req.TransferRef)
	if err != nil {
		handleRevenueError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapLedgerToResponse(ledger))
}

// CompletePayout godoc
// @Summary Complete the payout (processing -> completed)
// @Tags Payouts
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Param month query int false "Month (defaults to current)"
// @Param year query int false "Year (defaults to current)"
// @Success 200 {object} LedgerResponse
// @Failure 409 {object} gin.H "Payout not in processing state"
// @Router /instructors/{instructorId}/revenue/payout/complete [post]
func (h *RevenueHandler) CompletePayout(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}
	month, year := parsePeriodQuery(c)

	ledger, err := h.revenueService.CompletePayout(c.Request.Context(), instructorID, month, year)
	if err != nil {
		handleRevenueError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapLedgerToResponse(ledger))
}

// FailPayout godoc
// @Summary Fail the payout (processing -> failed)
// @Tags Payouts
// @Accept json
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Param failure body FailPayoutRequest true "Failure reason"
// @Param month query int false "Month (defaults to current)"
// @Param year query int false "Year (defaults to current)"
// @Success 200 {object} LedgerResponse
// @Failure 409 {object} gin.H "Payout not in processing state"
// @Router /instructors/{instructorId}/revenue/payout/fail [post]
func (h *RevenueHandler) FailPayout(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}
	month, year := parsePeriodQuery(c)

	var req FailPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ledger, err := h.revenueService.FailPayout(c.Request.Context(), instructorID, month, year, req.Reason)
	if err != nil {
		handleRevenueError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapLedgerToResponse(ledger))
}

// TopPerformers godoc
// @Summary List the month's top-earning instructors
// @Tags Revenue
// @Produce json
// @Param month query int false "Month"
// @Param year query int false "Year"
// @Param limit query int false "Max results (default 10)"
// @Success 200 {array} LedgerResponse
// @Router /revenue/top-performers [get]
func (h *RevenueHandler) TopPerformers(c *gin.Context) {
	month, year := parsePeriodQuery(c)
	limit, _ := strconv.Atoi(c.Query("limit"))

	ledgers, err := h.revenueService.TopPerformers(c.Request.Context(), month, year, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve top performers.")
		return
	}

	responses := make([]LedgerResponse, len(ledgers))
	for i, ledger := range ledgers {
		responses[i] = MapLedgerToResponse(&ledger)
	}
	c.JSON(http.StatusOK, responses)
}

// MonthlyPayoutTotal godoc
// @Summary Sum of completed payouts for a month
// @Tags Payouts
// @Produce json
// @Param month query int false "Month"
// @Param year query int false "Year"
// @Success 200 {object} gin.H "total"
// @Router /revenue/payout-total [get]
func (h *RevenueHandler) MonthlyPayoutTotal(c *gin.Context) {
	month, year := parsePeriodQuery(c)

	total, err := h.revenueService.MonthlyPayoutTotal(c.Request.Context(), month, year)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute payout total.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}
