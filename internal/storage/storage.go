package storage

import (
	"context"
	"fmt"
	"strings"

	"projekthub/internal/config"
)

const (
	// TypeLocal stores avatars on the local filesystem.
	TypeLocal = "local"
	// TypeS3 stores avatars in Amazon S3 or a compatible backend.
	TypeS3 = "s3"
	// TypeOSS stores avatars in Aliyun OSS.
	TypeOSS = "oss"
	// TypeCOS stores avatars in Tencent COS.
	TypeCOS = "cos"
	// TypeR2 stores avatars in Cloudflare R2.
	TypeR2 = "r2"
)

// AvatarStore persists avatar images and returns a storage-specific
// reference (a relative path for local storage, an object key otherwise)
// that is recorded on the user row.
type AvatarStore interface {
	Save(ctx context.Context, userID uint, data []byte, ext string) (string, error)
}

// LocalBaseDirProvider is implemented by stores whose files can be served
// directly over HTTP from a local directory.
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewAvatarStore instantiates the configured backend.
func NewAvatarStore(cfg config.Config) (AvatarStore, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStore(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Store(cfg)
	case TypeOSS:
		return NewOSSStore(cfg)
	case TypeCOS:
		return NewCOSStore(cfg)
	case TypeR2:
		return NewR2Store(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
