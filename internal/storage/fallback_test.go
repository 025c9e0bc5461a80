package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"learnhub/course-platform/internal/config"
	"learnhub/course-platform/internal/domain"

	"github.com/stretchr/testify/assert"
)

// fakeRemote stands in for the CDN backend. With failWith set it
// refuses every upload, simulating a network error or non-2xx status.
type fakeRemote struct {
	failWith error
	uploads  map[string][]byte
}

func newFakeRemote(failWith error) *fakeRemote {
	return &fakeRemote{failWith: failWith, uploads: map[string][]byte{}}
}

func (f *fakeRemote) Upload(_ context.Context, key, folder, _ string, data []byte) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	f.uploads[folder+"/"+key] = append([]byte(nil), data...)
	return f.URL(key, folder), nil
}

func (f *fakeRemote) Delete(_ context.Context, key, folder string) error {
	delete(f.uploads, folder+"/"+key)
	return nil
}

func (f *fakeRemote) URL(key, folder string) string {
	return "https://cdn.test/" + folder + "/" + key
}

func newTestChain(t *testing.T, remote FileStorage) (*FallbackStorage, string) {
	t.Helper()
	dir := t.TempDir()
	local := NewLocalStorage(config.LocalConfig{
		UploadsDir:    dir,
		PublicBaseURL: "http://localhost:8080",
	})
	return NewFallbackStorage(remote, local), dir
}

func TestFallbackRemoteSuccess(t *testing.T) {
	remote := newFakeRemote(nil)
	chain, dir := newTestChain(t, remote)

	result, err := chain.Upload(context.Background(), "lecture.mp4", "videos", "video/mp4", []byte("bytes"))
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, domain.ProviderCDN, result.Provider)
	assert.Equal(t, "lecture.mp4", result.Key)
	assert.Equal(t, "https://cdn.test/videos/lecture.mp4", result.URL)
	assert.NotContains(t, result.Key, "/")

	// Nothing should have been written locally.
	_, err = os.Stat(filepath.Join(dir, "videos", "lecture.mp4"))
	assert.True(t, os.IsNotExist(err))
}

func TestFallbackRemoteFailureFallsBackToLocal(t *testing.T) {
	remote := newFakeRemote(errors.New("connection refused"))
	chain, dir := newTestChain(t, remote)
	payload := []byte("the exact same bytes")

	result, err := chain.Upload(context.Background(), "lecture.mp4", "videos", "video/mp4", payload)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, domain.ProviderLocal, result.Provider)
	assert.Equal(t, "lecture.mp4", result.Key)
	assert.Equal(t, "http://localhost:8080/uploads/videos/lecture.mp4", result.URL)

	// The fallback file must be byte-identical to the payload.
	written, err := os.ReadFile(filepath.Join(dir, "videos", "lecture.mp4"))
	assert.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestFallbackEmptyPayload(t *testing.T) {
	remote := newFakeRemote(errors.New("timeout"))
	chain, dir := newTestChain(t, remote)

	result, err := chain.Upload(context.Background(), "blank.pdf", "documents", "application/pdf", []byte{})
	assert.NoError(t, err)
	assert.Equal(t, domain.ProviderLocal, result.Provider)

	info, err := os.Stat(filepath.Join(dir, "documents", "blank.pdf"))
	assert.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestFallbackBothBackendsFail(t *testing.T) {
	remote := newFakeRemote(errors.New("remote down"))
	failingLocal := newFakeRemote(errors.New("disk full"))
	chain := NewFallbackStorage(remote, failingLocal)

	result, err := chain.Upload(context.Background(), "doomed.mp4", "videos", "video/mp4", []byte("x"))
	assert.ErrorIs(t, err, ErrStorageFailed)
	assert.False(t, result.Success)
}

func TestFallbackRejectsPathSeparatorsInKey(t *testing.T) {
	chain, _ := newTestChain(t, newFakeRemote(nil))

	_, err := chain.Upload(context.Background(), "videos/escape.mp4", "videos", "video/mp4", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = chain.Upload(context.Background(), `..\escape.mp4`, "videos", "video/mp4", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}
