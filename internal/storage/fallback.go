package storage

import (
	"context"
	"fmt"
	"log"
	"strings"

	"learnhub/course-platform/internal/domain"
)

// FallbackStorage is the upload chain: try the CDN first, and if the
// remote attempt fails for any reason, persist to local disk instead.
// Callers get a uniform UploadResult either way; only a local-write
// failure after a remote failure surfaces as a hard error.
type FallbackStorage struct {
	remote FileStorage
	local  FileStorage
}

// NewFallbackStorage builds the chain from an explicit remote and local
// backend. Both are injected; the chain owns no global state.
func NewFallbackStorage(remote, local FileStorage) *FallbackStorage {
	return &FallbackStorage{remote: remote, local: local}
}

// Upload runs the chain. The key must be a flat filename; collision
// avoidance (timestamp-qualified names) is the caller's responsibility.
func (f *FallbackStorage) Upload(ctx context.Context, key, folder, contentType string, data []byte) (domain.UploadResult, error) {
	if strings.ContainsAny(key, `/\`) {
		return domain.UploadResult{}, ErrInvalidKey
	}

	url, remoteErr := f.remote.Upload(ctx, key, folder, contentType, data)
	if remoteErr == nil {
		return domain.UploadResult{
			Success:  true,
			Key:      key,
			URL:      url,
			Provider: domain.ProviderCDN,
			Message:  "uploaded to CDN",
		}, nil
	}

	// Remote failures are downgraded to a warning as long as the local
	// write succeeds; they must never reach the client.
	log.Printf("WARN: CDN upload failed for '%s/%s', falling back to local storage: %v", folder, key, remoteErr)

	url, localErr := f.local.Upload(ctx, key, folder, contentType, data)
	if localErr != nil {
		return domain.UploadResult{}, fmt.Errorf("%w: remote: %v, local: %v", ErrStorageFailed, remoteErr, localErr)
	}

	return domain.UploadResult{
		Success:  true,
		Key:      key,
		URL:      url,
		Provider: domain.ProviderLocal,
		Message:  "CDN unavailable, stored locally",
	}, nil
}

// Delete removes the object from both backends. Best effort: the
// chain does not record which backend served the original upload, so
// it asks both and reports the first error.
func (f *FallbackStorage) Delete(ctx context.Context, key, folder string) error {
	remoteErr := f.remote.Delete(ctx, key, folder)
	localErr := f.local.Delete(ctx, key, folder)
	if remoteErr != nil {
		return remoteErr
	}
	return localErr
}
