package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"projekthub/internal/config"
)

type ossStore struct {
	bucket *oss.Bucket
	prefix string
}

// NewOSSStore creates an AvatarStore backed by Aliyun OSS.
func NewOSSStore(cfg config.Config) (AvatarStore, error) {
	endpoint := strings.TrimSpace(cfg.StorageOSSEndpoint)
	if endpoint == "" {
		return nil, errors.New("storage: missing OSS endpoint")
	}
	bucketName := strings.TrimSpace(cfg.StorageOSSBucket)
	if bucketName == "" {
		return nil, errors.New("storage: missing OSS bucket")
	}
	accessKey := strings.TrimSpace(cfg.StorageOSSAccessKeyID)
	secretKey := strings.TrimSpace(cfg.StorageOSSAccessKeySecret)
	if accessKey == "" || secretKey == "" {
		return nil, errors.New("storage: missing OSS credentials")
	}

	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("storage: create OSS client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("storage: open OSS bucket: %w", err)
	}

	return &ossStore{
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(cfg.StorageOSSPrefix), "/"),
	}, nil
}

func (s *ossStore) Save(ctx context.Context, userID uint, data []byte, ext string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty avatar payload")
	}

	normalized, err := normalizeExtension(ext)
	if err != nil {
		return "", err
	}

	key := joinPrefix(s.prefix, avatarKey(userID, normalized))

	options := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentTypeFor(normalized)),
	}
	if err := s.bucket.PutObject(key, bytes.NewReader(data), options...); err != nil {
		return "", fmt.Errorf("put avatar: %w", err)
	}

	return key, nil
}

var _ AvatarStore = (*ossStore)(nil)
