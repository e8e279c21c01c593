package storage

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
)

// allowedExtensions lists the image formats accepted for avatars.
var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// normalizeExtension lowercases the extension, strips the leading dot and
// rejects anything that is not a known image format.
func normalizeExtension(ext string) (string, error) {
	trimmed := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if !allowedExtensions[trimmed] {
		return "", fmt.Errorf("unsupported avatar format %q", ext)
	}
	return trimmed, nil
}

// avatarKey builds the object key for one upload. Keys are scoped per user
// and timestamped so an upload never overwrites a previous avatar.
func avatarKey(userID uint, ext string) string {
	now := time.Now().UTC()
	return path.Join(
		"avatars",
		fmt.Sprintf("%d", userID),
		fmt.Sprintf("%d.%s", now.UnixNano(), ext),
	)
}

func contentTypeFor(ext string) string {
	typeName := mime.TypeByExtension("." + ext)
	if typeName == "" {
		return "application/octet-stream"
	}
	return typeName
}

func joinPrefix(prefix, key string) string {
	cleaned := strings.Trim(strings.TrimSpace(prefix), "/")
	if cleaned == "" {
		return strings.TrimLeft(key, "/")
	}
	return path.Join(cleaned, strings.TrimLeft(key, "/"))
}
