package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tencentyun/cos-go-sdk-v5"

	"projekthub/internal/config"
)

type cosStore struct {
	client *cos.Client
	prefix string
}

// NewCOSStore creates an AvatarStore backed by Tencent COS.
func NewCOSStore(cfg config.Config) (AvatarStore, error) {
	bucketURL := strings.TrimSpace(cfg.StorageCOSBucketURL)
	if bucketURL == "" {
		return nil, errors.New("storage: missing COS bucket URL")
	}
	secretID := strings.TrimSpace(cfg.StorageCOSSecretID)
	secretKey := strings.TrimSpace(cfg.StorageCOSSecretKey)
	if secretID == "" || secretKey == "" {
		return nil, errors.New("storage: missing COS credentials")
	}

	parsed, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse COS bucket URL: %w", err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: parsed}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  secretID,
			SecretKey: secretKey,
		},
	})

	return &cosStore{
		client: client,
		prefix: strings.Trim(strings.TrimSpace(cfg.StorageCOSPrefix), "/"),
	}, nil
}

func (s *cosStore) Save(ctx context.Context, userID uint, data []byte, ext string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty avatar payload")
	}

	normalized, err := normalizeExtension(ext)
	if err != nil {
		return "", err
	}

	key := joinPrefix(s.prefix, avatarKey(userID, normalized))

	options := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType: contentTypeFor(normalized),
		},
	}
	resp, err := s.client.Object.Put(ctx, key, bytes.NewReader(data), options)
	if err != nil {
		return "", fmt.Errorf("put avatar: %w", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	return key, nil
}

var _ AvatarStore = (*cosStore)(nil)
