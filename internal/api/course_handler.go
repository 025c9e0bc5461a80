package api

import (
	"errors"
	"net/http"
	"time"

	"learnhub/course-platform/internal/domain"
	"learnhub/course-platform/internal/service"

	"github.com/gin-gonic/gin"
)

// CourseHandler holds the course service dependency.
type CourseHandler struct {
	courseService service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateCourseRequest defines the expected JSON for creating a course.
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category" binding:"omitempty"`
	Difficulty  string  `json:"difficulty" binding:"omitempty"` // e.g., "Beginner", "Intermediate", "Advanced"
	Price       float64 `json:"price" binding:"omitempty,gte=0"`
}

// UpdateCourseRequest defines the expected JSON for updating a course.
type UpdateCourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Difficulty  string  `json:"difficulty"`
	Price       float64 `json:"price" binding:"omitempty,gte=0"`
	Published   bool    `json:"published"`
}

// CreateLessonRequest defines the expected JSON for adding a lesson.
type CreateLessonRequest struct {
	Title    string `json:"title" binding:"required"`
	Notes    string `json:"notes"`
	Sequence int    `json:"sequence" binding:"omitempty,gte=0"`
	Duration int    `json:"duration" binding:"omitempty,gte=0"` // Seconds
}

// CourseResponse is the DTO for returning course details.
type CourseResponse struct {
	ID           string    `json:"id"`
	InstructorID string    `json:"instructorId"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category,omitempty"`
	Difficulty   string    `json:"difficulty,omitempty"`
	Price        float64   `json:"price"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	PreviewURL   string    `json:"previewUrl,omitempty"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LessonResponse is the DTO for returning lesson details.
type LessonResponse struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	Sequence  int       `json:"sequence"`
	Duration  int       `json:"duration,omitempty"`
	VideoURL  string    `json:"videoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// MapCourseToResponse converts a domain.Course to CourseResponse DTO.
func MapCourseToResponse(course *domain.Course) CourseResponse {
	if course == nil {
		return CourseResponse{}
	}
	return CourseResponse{
		ID:           course.ID.Hex(),
		InstructorID: course.InstructorID.Hex(),
		Title:        course.Title,
		Description:  course.Description,
		Category:     course.Category,
		Difficulty:   course.Difficulty,
		Price:        course.Price,
		ThumbnailURL: course.ThumbnailURL,
		PreviewURL:   course.PreviewURL,
		Published:    course.Published,
		CreatedAt:    course.CreatedAt,
		UpdatedAt:    course.UpdatedAt,
	}
}

// MapCoursesToResponse converts a slice of domain.Course to DTOs.
func MapCoursesToResponse(courses []domain.Course) []CourseResponse {
	responses := make([]CourseResponse, len(courses))
	for i, course := range courses {
		responses[i] = MapCourseToResponse(&course)
	}
	return responses
}

// MapLessonToResponse converts a domain.Lesson to LessonResponse DTO.
func MapLessonToResponse(lesson *domain.Lesson) LessonResponse {
	if lesson == nil {
		return LessonResponse{}
	}
	return LessonResponse{
		ID:        lesson.ID.Hex(),
		CourseID:  lesson.CourseID.Hex(),
		Title:     lesson.Title,
		Notes:     lesson.Notes,
		Sequence:  lesson.Sequence,
		Duration:  lesson.Duration,
		VideoURL:  lesson.VideoURL,
		CreatedAt: lesson.CreatedAt,
	}
}

// MapLessonsToResponse converts a slice of domain.Lesson to DTOs.
func MapLessonsToResponse(lessons []domain.Lesson) []LessonResponse {
	responses := make([]LessonResponse, len(lessons))
	for i, lesson := range lessons {
		responses[i] = MapLessonToResponse(&lesson)
	}
	return responses
}

// --- Handler Methods ---

// CreateCourse godoc
// @Summary Create a new course
// @Tags Courses
// @Accept json
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Param course body CreateCourseRequest true "Course details"
// @Success 201 {object} CourseResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /instructors/{instructorId}/courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}

	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	course, err := h.courseService.CreateCourse(
		c.Request.Context(),
		instructorID,
		req.Title,
		req.Description,
		req.Category,
		req.Difficulty,
		req.Price,
	)
	if err != nil {
		if errors.Is(err, service.ErrCourseValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create course.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapCourseToResponse(course))
}

// GetCourse godoc
// @Summary Get one course
// @Tags Courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} CourseResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /courses/{courseId} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, ok := parseIDParam(c, "courseId")
	if !ok {
		return
	}

	course, err := h.courseService.GetCourseByID(c.Request.Context(), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			abortWithError(c, http.StatusNotFound, "Course not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve course.")
		}
		return
	}

	c.JSON(http.StatusOK, MapCourseToResponse(course))
}

// GetInstructorCourses godoc
// @Summary List an instructor's courses
// @Tags Courses
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Success 200 {array} CourseResponse
// @Router /instructors/{instructorId}/courses [get]
func (h *CourseHandler) GetInstructorCourses(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}

	courses, err := h.courseService.GetCoursesByInstructor(c.Request.Context(), instructorID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve courses.")
		return
	}

	if courses == nil {
		c.JSON(http.StatusOK, []CourseResponse{})
		return
	}

	c.JSON(http.StatusOK, MapCoursesToResponse(courses))
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Param courseId path string true "Course ID"
// @Param course body UpdateCourseRequest true "Course details"
// @Success 200 {object} CourseResponse
// @Failure 403 {object} gin.H "Not the owner"
// @Failure 404 {object} gin.H "Not found"
// @Router /instructors/{instructorId}/courses/{courseId} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}
	courseID, ok := parseIDParam(c, "courseId")
	if !ok {
		return
	}

	var req UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	course, err := h.courseService.UpdateCourse(
		c.Request.Context(),
		instructorID,
		courseID,
		req.Title,
		req.Description,
		req.Category,
		req.Difficulty,
		req.Price,
		req.Published,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			abortWithError(c, http.StatusNotFound, "Course not found.")
		case errors.Is(err, service.ErrCourseAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrCourseValidation):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update course.")
		}
		return
	}

	c.JSON(http.StatusOK, MapCourseToResponse(course))
}

// DeleteCourse godoc
// @Summary Delete a course
// @Tags Courses
// @Param instructorId path string true "Instructor ID"
// @Param courseId path string true "Course ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Not found"
// @Router /instructors/{instructorId}/courses/{courseId} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}
	courseID, ok := parseIDParam(c, "courseId")
	if !ok {
		return
	}

	err := h.courseService.DeleteCourse(c.Request.Context(), instructorID, courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			abortWithError(c, http.StatusNotFound, "Course not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete course.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// AddLesson godoc
// @Summary Add a lesson to a course
// @Tags Lessons
// @Accept json
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Param courseId path string true "Course ID"
// @Param lesson body CreateLessonRequest true "Lesson details"
// @Success 201 {object} LessonResponse
// @Failure 403 {object} gin.H "Not the owner"
// @Router /instructors/{instructorId}/courses/{courseId}/lessons [post]
func (h *CourseHandler) AddLesson(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}
	courseID, ok := parseIDParam(c, "courseId")
	if !ok {
		return
	}

	var req CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	lesson, err := h.courseService.AddLesson(
		c.Request.Context(),
		instructorID,
		courseID,
		req.Title,
		req.Notes,
		req.Sequence,
		req.Duration,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			abortWithError(c, http.StatusNotFound, "Course not found.")
		case errors.Is(err, service.ErrCourseAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrCourseValidation):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add lesson.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapLessonToResponse(lesson))
}

// GetCourseLessons godoc
// @Summary List the lessons of a course
// @Tags Lessons
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {array} LessonResponse
// @Router /courses/{courseId}/lessons [get]
func (h *CourseHandler) GetCourseLessons(c *gin.Context) {
	courseID, ok := parseIDParam(c, "courseId")
	if !ok {
		return
	}

	lessons, err := h.courseService.GetLessonsForCourse(c.Request.Context(), courseID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve lessons.")
		return
	}

	if lessons == nil {
		c.JSON(http.StatusOK, []LessonResponse{})
		return
	}

	c.JSON(http.StatusOK, MapLessonsToResponse(lessons))
}
