package api

import (
	"errors"
	"net/http"
	"time"

	"learnhub/course-platform/internal/domain"
	"learnhub/course-platform/internal/service"

	"github.com/gin-gonic/gin"
)

// InstructorHandler holds the instructor service dependency.
type InstructorHandler struct {
	instructorService service.InstructorService
}

// NewInstructorHandler creates a new InstructorHandler.
func NewInstructorHandler(instructorService service.InstructorService) *InstructorHandler {
	return &InstructorHandler{instructorService: instructorService}
}

// --- DTOs ---

// RegisterInstructorRequest defines the expected JSON for registering an instructor.
type RegisterInstructorRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Tier  string `json:"tier" binding:"omitempty,oneof=basic pro premium"`
}

// InstructorResponse is the DTO for returning instructor details.
type InstructorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Tier      string    `json:"tier"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MapInstructorToResponse converts a domain.Instructor to its DTO.
func MapInstructorToResponse(instructor *domain.Instructor) InstructorResponse {
	if instructor == nil {
		return InstructorResponse{}
	}
	return InstructorResponse{
		ID:        instructor.ID.Hex(),
		Name:      instructor.Name,
		Email:     instructor.Email,
		Tier:      string(instructor.Tier),
		CreatedAt: instructor.CreatedAt,
		UpdatedAt: instructor.UpdatedAt,
	}
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new instructor
// @Tags Instructors
// @Accept json
// @Produce json
// @Param instructor body RegisterInstructorRequest true "Instructor details"
// @Success 201 {object} InstructorResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Email already registered"
// @Router /instructors [post]
func (h *InstructorHandler) Register(c *gin.Context) {
	var req RegisterInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	instructor, err := h.instructorService.Register(c.Request.Context(), req.Name, req.Email, domain.Tier(req.Tier))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInstructorValidation), errors.Is(err, service.ErrInvalidTier):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to register instructor.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapInstructorToResponse(instructor))
}

// GetInstructor godoc
// @Summary Get one instructor
// @Tags Instructors
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Success 200 {object} InstructorResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /instructors/{instructorId} [get]
func (h *InstructorHandler) GetInstructor(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}

	instructor, err := h.instructorService.GetByID(c.Request.Context(), instructorID)
	if err != nil {
		if errors.Is(err, service.ErrInstructorNotFound) {
			abortWithError(c, http.StatusNotFound, "Instructor not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve instructor.")
		}
		return
	}

	c.JSON(http.StatusOK, MapInstructorToResponse(instructor))
}
