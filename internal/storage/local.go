package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"learnhub/course-platform/internal/config"
)

// localStorage implements FileStorage on the local filesystem. It backs
// the fallback half of the upload chain; files are served back to
// clients through the static /uploads route.
type localStorage struct {
	root          string
	publicBaseURL string
}

// NewLocalStorage creates the local-disk storage backend from config.
func NewLocalStorage(cfg config.LocalConfig) FileStorage {
	return &localStorage{
		root:          cfg.UploadsDir,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

// Upload writes the payload under root/folder/key, creating the folder
// if absent. MkdirAll tolerates concurrent creation (EEXIST races).
// Empty payloads are persisted as zero-byte files.
func (s *localStorage) Upload(_ context.Context, key, folder, _ string, data []byte) (string, error) {
	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("local mkdir %q: %w", dir, err)
	}

	path := filepath.Join(dir, key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("local write %q: %w", path, err)
	}

	return s.URL(key, folder), nil
}

// Delete removes the local file. A missing file is not an error.
func (s *localStorage) Delete(_ context.Context, key, folder string) error {
	path := filepath.Join(s.root, folder, key)
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		log.Printf("ERROR: Failed to remove local file '%s': %v", path, err)
		return err
	}
	return nil
}

// URL returns the static-route URL the file is served from.
func (s *localStorage) URL(key, folder string) string {
	return s.publicBaseURL + "/uploads/" + folder + "/" + key
}
