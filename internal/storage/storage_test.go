package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"projekthub/internal/config"
)

func TestNormalizeExtension(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "Plain", input: "png", expected: "png"},
		{name: "LeadingDot", input: ".jpg", expected: "jpg"},
		{name: "UpperCase", input: "JPEG", expected: "jpeg"},
		{name: "Whitespace", input: " webp ", expected: "webp"},
		{name: "Executable", input: "exe", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
		{name: "Svg", input: "svg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeExtension(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestJoinPrefix(t *testing.T) {
	tests := []struct {
		prefix   string
		key      string
		expected string
	}{
		{prefix: "", key: "avatars/1/a.png", expected: "avatars/1/a.png"},
		{prefix: "uploads", key: "avatars/1/a.png", expected: "uploads/avatars/1/a.png"},
		{prefix: "/uploads/", key: "/avatars/1/a.png", expected: "uploads/avatars/1/a.png"},
	}

	for _, tt := range tests {
		if got := joinPrefix(tt.prefix, tt.key); got != tt.expected {
			t.Errorf("joinPrefix(%q, %q) = %q, expected %q", tt.prefix, tt.key, got, tt.expected)
		}
	}
}

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ref, err := store.Save(context.Background(), 7, []byte("image-bytes"), "png")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(ref, "avatars/7/") || !strings.HasSuffix(ref, ".png") {
		t.Errorf("unexpected reference %q", ref)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(ref)))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("stored content mismatch: %q", data)
	}
}

func TestLocalStoreRejectsUnknownFormat(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if _, err := store.Save(context.Background(), 7, []byte("MZ"), "exe"); err == nil {
		t.Error("expected an error for a non-image extension")
	}
}

func TestNewAvatarStoreUnknownType(t *testing.T) {
	cfg := config.Config{StorageType: "ftp", StorageLocalDir: t.TempDir()}
	if _, err := NewAvatarStore(cfg); err == nil {
		t.Error("expected an error for an unsupported storage type")
	}
}

func TestNewAvatarStoreDefaultsToLocal(t *testing.T) {
	cfg := config.Config{StorageLocalDir: t.TempDir()}
	store, err := NewAvatarStore(cfg)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if _, ok := store.(LocalBaseDirProvider); !ok {
		t.Error("expected a local store by default")
	}
}
