package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"learnhub/course-platform/internal/domain"
	"learnhub/course-platform/internal/repository"
	"learnhub/course-platform/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMediaNotFound  = errors.New("media asset not found")
	ErrInvalidUpload  = errors.New("upload validation failed")
	ErrInvalidFolder  = errors.New("unrecognized upload folder")
	ErrStorageFailure = errors.New("upload could not be persisted")
)

// Logical folders an upload may target. Anything else is rejected
// before the chain runs.
var allowedFolders = map[string]bool{
	"videos":     true,
	"thumbnails": true,
	"documents":  true,
	"avatars":    true,
}

// --- Service Interface ---
type MediaService interface {
	// Upload runs the fallback chain for the payload and records the
	// asset metadata. Empty payloads are accepted and persisted as
	// zero-byte files.
	Upload(ctx context.Context, instructorID, courseID, lessonID primitive.ObjectID, fileName, folder, contentType string, data []byte) (*domain.MediaAsset, error)

	GetAsset(ctx context.Context, id primitive.ObjectID) (*domain.MediaAsset, error)
	GetAssetsByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]domain.MediaAsset, error)
}

// --- Service Implementation ---

type mediaService struct {
	mediaRepo repository.MediaRepository
	chain     *storage.FallbackStorage
}

// NewMediaService creates a new instance of mediaService. The chain is
// injected explicitly; this service owns no storage globals.
func NewMediaService(mediaRepo repository.MediaRepository, chain *storage.FallbackStorage) MediaService {
	return &mediaService{
		mediaRepo: mediaRepo,
		chain:     chain,
	}
}

// objectKey builds a collision-safe flat filename for an upload. The
// chain itself never resolves collisions, so the timestamp + uuid
// qualification happens here, before the chain is invoked.
func objectKey(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%d-%s%s", time.Now().UTC().UnixNano(), uuid.NewString(), ext)
}

func (s *mediaService) Upload(ctx context.Context, instructorID, courseID, lessonID primitive.ObjectID, fileName, folder, contentType string, data []byte) (*domain.MediaAsset, error) {
	if instructorID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: instructor ID is required", ErrInvalidUpload)
	}
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrInvalidUpload)
	}
	if !allowedFolders[folder] {
		return nil, ErrInvalidFolder
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := objectKey(fileName)

	result, err := s.chain.Upload(ctx, key, folder, contentType, data)
	if err != nil {
		// Both providers failed; nothing was persisted.
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	asset := &domain.MediaAsset{
		InstructorID: instructorID,
		CourseID:     courseID,
		LessonID:     lessonID,
		ObjectKey:    result.Key,
		Folder:       folder,
		FileName:     fileName,
		ContentType:  contentType,
		Size:         int64(len(data)),
		Provider:     result.Provider,
		URL:          result.URL,
	}

	assetID, err := s.mediaRepo.Create(ctx, asset)
	if err != nil {
		return nil, err
	}
	asset.ID = assetID

	return asset, nil
}

func (s *mediaService) GetAsset(ctx context.Context, id primitive.ObjectID) (*domain.MediaAsset, error) {
	asset, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return asset, nil
}

func (s *mediaService) GetAssetsByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]domain.MediaAsset, error) {
	if instructorID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: instructor ID is required", ErrInvalidUpload)
	}
	return s.mediaRepo.GetByInstructorID(ctx, instructorID)
}
