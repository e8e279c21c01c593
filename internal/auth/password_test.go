package auth

import "testing"

func TestPasswordHashingLifecycle(t *testing.T) {
	password := "hemligt1"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}
	if hash == "" {
		t.Fatal("expected hash to be populated")
	}

	if err := VerifyPassword(hash, password); err != nil {
		t.Fatalf("expected password to verify, got error: %v", err)
	}

	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Fatal("expected verification to fail for wrong password")
	}
}

func TestVerifyPasswordEmptyHash(t *testing.T) {
	// OAuth-provisioned accounts store no digest; password login must fail,
	// not panic.
	if err := VerifyPassword("", "anything"); err == nil {
		t.Fatal("expected verification to fail for empty stored hash")
	}
}
