package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore persists avatars on the local filesystem.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates a LocalStore. The directory is created if it does
// not exist.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		baseDir = "datas/avatars"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// LocalBaseDir returns the root directory used for storing avatars.
func (s *LocalStore) LocalBaseDir() string {
	return s.baseDir
}

// Save writes the avatar to disk and returns a relative path that can later
// be turned into a public URL.
func (s *LocalStore) Save(ctx context.Context, userID uint, data []byte, ext string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty avatar payload")
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	normalized, err := normalizeExtension(ext)
	if err != nil {
		return "", err
	}

	relativePath := avatarKey(userID, normalized)
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write avatar: %w", err)
	}

	return relativePath, nil
}

var _ AvatarStore = (*LocalStore)(nil)
