package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"learnhub/course-platform/internal/config"
	"learnhub/course-platform/internal/domain"
	"learnhub/course-platform/internal/storage"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubRemote stands in for the CDN side of the chain. When failWith is
// set every Upload fails, forcing the chain onto local disk.
type stubRemote struct {
	failWith error
	uploads  map[string][]byte
}

func (s *stubRemote) Upload(_ context.Context, key, folder, _ string, data []byte) (string, error) {
	if s.failWith != nil {
		return "", s.failWith
	}
	if s.uploads == nil {
		s.uploads = map[string][]byte{}
	}
	s.uploads[folder+"/"+key] = append([]byte(nil), data...)
	return s.URL(key, folder), nil
}

func (s *stubRemote) Delete(_ context.Context, key, folder string) error {
	delete(s.uploads, folder+"/"+key)
	return nil
}

func (s *stubRemote) URL(key, folder string) string {
	return "https://cdn.test/" + folder + "/" + key
}

func newTestMediaService(t *testing.T, remote storage.FileStorage) (MediaService, *memMediaRepo, string) {
	t.Helper()
	dir := t.TempDir()
	local := storage.NewLocalStorage(config.LocalConfig{
		UploadsDir:    dir,
		PublicBaseURL: "http://localhost:8080",
	})
	mediaRepo := newMemMediaRepo()
	return NewMediaService(mediaRepo, storage.NewFallbackStorage(remote, local)), mediaRepo, dir
}

func TestMediaUploadViaCDN(t *testing.T) {
	remote := &stubRemote{}
	svc, _, dir := newTestMediaService(t, remote)

	instructorID := primitive.NewObjectID()
	payload := []byte("frame data")
	asset, err := svc.Upload(context.Background(), instructorID, primitive.NilObjectID, primitive.NilObjectID, "intro.MP4", "videos", "video/mp4", payload)
	assert.NoError(t, err)

	assert.Equal(t, domain.ProviderCDN, asset.Provider)
	assert.False(t, asset.ID.IsZero())
	assert.Equal(t, "intro.MP4", asset.FileName)
	assert.Equal(t, "videos", asset.Folder)
	assert.Equal(t, "video/mp4", asset.ContentType)
	assert.Equal(t, int64(len(payload)), asset.Size)

	// Flat key carrying the lowercased original extension, no separators.
	assert.True(t, strings.HasSuffix(asset.ObjectKey, ".mp4"))
	assert.False(t, strings.ContainsAny(asset.ObjectKey, `/\`))
	assert.Equal(t, "https://cdn.test/videos/"+asset.ObjectKey, asset.URL)

	// Nothing should have touched local disk.
	_, err = os.Stat(filepath.Join(dir, "videos", asset.ObjectKey))
	assert.True(t, os.IsNotExist(err))

	stored, err := svc.GetAsset(context.Background(), asset.ID)
	assert.NoError(t, err)
	assert.Equal(t, asset.ObjectKey, stored.ObjectKey)
}

func TestMediaUploadFallsBackToLocal(t *testing.T) {
	remote := &stubRemote{failWith: errors.New("connection refused")}
	svc, _, dir := newTestMediaService(t, remote)

	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	asset, err := svc.Upload(context.Background(), primitive.NewObjectID(), primitive.NilObjectID, primitive.NilObjectID, "cover.png", "thumbnails", "image/png", payload)
	assert.NoError(t, err)

	assert.Equal(t, domain.ProviderLocal, asset.Provider)
	assert.Equal(t, "http://localhost:8080/uploads/thumbnails/"+asset.ObjectKey, asset.URL)

	written, err := os.ReadFile(filepath.Join(dir, "thumbnails", asset.ObjectKey))
	assert.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestMediaUploadBothProvidersFail(t *testing.T) {
	remote := &stubRemote{failWith: errors.New("connection refused")}

	// A regular file as the uploads root makes the local leg fail too.
	notADir := filepath.Join(t.TempDir(), "uploads")
	assert.NoError(t, os.WriteFile(notADir, []byte("occupied"), 0o644))
	local := storage.NewLocalStorage(config.LocalConfig{
		UploadsDir:    notADir,
		PublicBaseURL: "http://localhost:8080",
	})
	mediaRepo := newMemMediaRepo()
	svc := NewMediaService(mediaRepo, storage.NewFallbackStorage(remote, local))

	_, err := svc.Upload(context.Background(), primitive.NewObjectID(), primitive.NilObjectID, primitive.NilObjectID, "a.pdf", "documents", "application/pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrStorageFailure)

	// A failed chain records no asset.
	assets, err := mediaRepo.GetByInstructorID(context.Background(), primitive.NewObjectID())
	assert.NoError(t, err)
	assert.Empty(t, assets)
}

func TestMediaUploadValidation(t *testing.T) {
	svc, _, _ := newTestMediaService(t, &stubRemote{})
	ctx := context.Background()
	instructorID := primitive.NewObjectID()

	_, err := svc.Upload(ctx, primitive.NilObjectID, primitive.NilObjectID, primitive.NilObjectID, "a.png", "avatars", "", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidUpload)

	_, err = svc.Upload(ctx, instructorID, primitive.NilObjectID, primitive.NilObjectID, "", "avatars", "", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidUpload)

	_, err = svc.Upload(ctx, instructorID, primitive.NilObjectID, primitive.NilObjectID, "a.exe", "binaries", "", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidFolder)
}

func TestMediaUploadDefaultsContentType(t *testing.T) {
	svc, _, _ := newTestMediaService(t, &stubRemote{})

	asset, err := svc.Upload(context.Background(), primitive.NewObjectID(), primitive.NilObjectID, primitive.NilObjectID, "notes", "documents", "", []byte("plain"))
	assert.NoError(t, err)
	assert.Equal(t, "application/octet-stream", asset.ContentType)
	// No extension on the original name means none on the key either.
	assert.Equal(t, "", filepath.Ext(asset.ObjectKey))
}

func TestMediaUploadEmptyPayload(t *testing.T) {
	remote := &stubRemote{failWith: errors.New("timeout")}
	svc, _, dir := newTestMediaService(t, remote)

	asset, err := svc.Upload(context.Background(), primitive.NewObjectID(), primitive.NilObjectID, primitive.NilObjectID, "empty.txt", "documents", "text/plain", nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), asset.Size)

	info, err := os.Stat(filepath.Join(dir, "documents", asset.ObjectKey))
	assert.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestMediaUploadKeysAreUnique(t *testing.T) {
	svc, _, _ := newTestMediaService(t, &stubRemote{})
	ctx := context.Background()
	instructorID := primitive.NewObjectID()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		asset, err := svc.Upload(ctx, instructorID, primitive.NilObjectID, primitive.NilObjectID, "clip.mp4", "videos", "video/mp4", []byte("x"))
		assert.NoError(t, err)
		assert.False(t, seen[asset.ObjectKey], "object key reused: %s", asset.ObjectKey)
		seen[asset.ObjectKey] = true
	}
}

func TestGetAssetNotFound(t *testing.T) {
	svc, _, _ := newTestMediaService(t, &stubRemote{})

	_, err := svc.GetAsset(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrMediaNotFound)
}
