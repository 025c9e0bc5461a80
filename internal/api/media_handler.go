package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"learnhub/course-platform/internal/domain"
	"learnhub/course-platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaHandler holds the media and course service dependencies.
type MediaHandler struct {
	mediaService  service.MediaService
	courseService service.CourseService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService service.MediaService, courseService service.CourseService) *MediaHandler {
	return &MediaHandler{
		mediaService:  mediaService,
		courseService: courseService,
	}
}

// --- DTOs ---

// UploadResponse is returned by the upload endpoint. The embedded
// result has the same shape regardless of which provider served the
// upload.
type UploadResponse struct {
	Result  domain.UploadResult `json:"result"`
	AssetID string              `json:"assetId"`
}

// MediaAssetResponse is the DTO for returning asset metadata.
type MediaAssetResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	Folder      string    `json:"folder"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Provider    string    `json:"provider"`
	URL         string    `json:"url"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// MapAssetToResponse converts a domain.MediaAsset to its DTO.
func MapAssetToResponse(asset *domain.MediaAsset) MediaAssetResponse {
	if asset == nil {
		return MediaAssetResponse{}
	}
	return MediaAssetResponse{
		ID:          asset.ID.Hex(),
		FileName:    asset.FileName,
		Folder:      asset.Folder,
		ContentType: asset.ContentType,
		Size:        asset.Size,
		Provider:    string(asset.Provider),
		URL:         asset.URL,
		UploadedAt:  asset.UploadedAt,
	}
}

// --- Handler Methods ---

// Upload godoc
// @Summary Upload a media file
// @Description Accepts a multipart file and persists it via the CDN
// @Description with local-disk fallback. Optionally links the asset to
// @Description a course (thumbnail or preview) or lesson.
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Param file formData file true "File payload"
// @Param folder formData string true "Logical folder (videos, thumbnails, documents, avatars)"
// @Param courseId formData string false "Course to attach the asset to"
// @Param lessonId formData string false "Lesson the asset belongs to"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 500 {object} gin.H "Both storage providers failed"
// @Router /instructors/{instructorId}/media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "A 'file' form field is required.")
		return
	}
	folder := c.PostForm("folder")

	courseID := primitive.NilObjectID
	if raw := c.PostForm("courseId"); raw != "" {
		courseID, err = primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid courseId format.")
			return
		}
	}
	lessonID := primitive.NilObjectID
	if raw := c.PostForm("lessonId"); raw != "" {
		lessonID, err = primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid lessonId format.")
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to open uploaded file.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read uploaded file.")
		return
	}

	asset, err := h.mediaService.Upload(
		c.Request.Context(),
		instructorID,
		courseID,
		lessonID,
		fileHeader.Filename,
		folder,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUpload), errors.Is(err, service.ErrInvalidFolder):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStorageFailure):
			abortWithError(c, http.StatusInternalServerError, "Upload failed on all storage providers.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to record upload.")
		}
		return
	}

	// Link the artwork/preview onto the course when one was named.
	if courseID != primitive.NilObjectID {
		if _, err := h.courseService.AttachMedia(c.Request.Context(), instructorID, courseID, asset); err != nil {
			// The file is persisted and the metadata recorded; a failed
			// link is reported but does not undo the upload.
			abortWithError(c, http.StatusConflict, "Uploaded, but failed to attach to course: "+err.Error())
			return
		}
	}

	message := "uploaded to CDN"
	if asset.Provider == domain.ProviderLocal {
		message = "CDN unavailable, stored locally"
	}

	c.JSON(http.StatusCreated, UploadResponse{
		Result: domain.UploadResult{
			Success:  true,
			Key:      asset.ObjectKey,
			URL:      asset.URL,
			Provider: asset.Provider,
			Message:  message,
		},
		AssetID: asset.ID.Hex(),
	})
}

// GetInstructorMedia godoc
// @Summary List an instructor's uploads
// @Tags Media
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Success 200 {array} MediaAssetResponse
// @Router /instructors/{instructorId}/media [get]
func (h *MediaHandler) GetInstructorMedia(c *gin.Context) {
	instructorID, ok := parseIDParam(c, "instructorId")
	if !ok {
		return
	}

	assets, err := h.mediaService.GetAssetsByInstructor(c.Request.Context(), instructorID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve media.")
		return
	}

	responses := make([]MediaAssetResponse, len(assets))
	for i, asset := range assets {
		responses[i] = MapAssetToResponse(&asset)
	}
	c.JSON(http.StatusOK, responses)
}
