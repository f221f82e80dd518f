package auth

import (
	"strings"
	"testing"
)

func TestHashKey_Format(t *testing.T) {
	t.Parallel()

	key := "mk_admin_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b"

	hash, err := HashKey(key)
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}

	// Verify PHC format: $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("Hash should be in PHC format, got: %s", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Errorf("Hash should have 6 parts, got: %d", len(parts))
	}
	if parts[3] != "m=65536,t=3,p=4" {
		t.Errorf("Expected m=65536,t=3,p=4, got: %s", parts[3])
	}
}

func TestHashKey_Uniqueness(t *testing.T) {
	t.Parallel()

	key := "mk_admin_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b"

	hash1, err := HashKey(key)
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}
	hash2, err := HashKey(key)
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}

	// Same key should produce different hashes (different salts)
	if hash1 == hash2 {
		t.Error("Same key should produce different hashes due to random salt")
	}

	match1, _ := VerifyKey(key, hash1)
	match2, _ := VerifyKey(key, hash2)
	if !match1 || !match2 {
		t.Error("Both hashes should verify correctly")
	}
}

func TestVerifyKey(t *testing.T) {
	t.Parallel()

	key := "mk_admin_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b"

	hash, err := HashKey(key)
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}

	match, err := VerifyKey(key, hash)
	if err != nil {
		t.Fatalf("VerifyKey failed: %v", err)
	}
	if !match {
		t.Error("Correct key should match")
	}

	match, err = VerifyKey("mk_admin_00000000000000000000000000000000", hash)
	if err != nil {
		t.Fatalf("VerifyKey should not error for wrong key: %v", err)
	}
	if match {
		t.Error("Wrong key should not match")
	}
}

func TestVerifyKey_InvalidHashFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		hash    string
		wantErr error
	}{
		{"empty", "", ErrInvalidHash},
		{"wrong format", "not-a-hash", ErrInvalidHash},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=4$salt$hash", ErrInvalidHash},
		{"missing parts", "$argon2id$v=19$m=65536", ErrInvalidHash},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := VerifyKey("key", tt.hash)
			if err != tt.wantErr {
				t.Errorf("VerifyKey with %q error = %v, want %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestVerifyKey_WrongVersion(t *testing.T) {
	t.Parallel()

	invalidVersionHash := "$argon2id$v=18$m=65536,t=3,p=4$c29tZXNhbHRoZXJl$c29tZWhhc2hoZXJl"

	match, err := VerifyKey("key", invalidVersionHash)
	if err != ErrIncompatibleVersion {
		t.Errorf("Expected ErrIncompatibleVersion, got: %v", err)
	}
	if match {
		t.Error("Should not match with incompatible version")
	}
}

func TestGenerateAdminKey(t *testing.T) {
	t.Parallel()

	generated, err := GenerateAdminKey()
	if err != nil {
		t.Fatalf("GenerateAdminKey failed: %v", err)
	}

	if !ValidateKeyFormat(generated.Plaintext) {
		t.Errorf("Generated key has invalid format: %s", generated.Plaintext)
	}

	match, err := VerifyKey(generated.Plaintext, generated.Hash)
	if err != nil {
		t.Fatalf("VerifyKey failed: %v", err)
	}
	if !match {
		t.Error("Generated key should verify against its own hash")
	}
}

func TestValidateKeyFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"valid", "mk_admin_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b", true},
		{"wrong prefix", "pk_admin_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b", false},
		{"too short", "mk_admin_4f8d2e1b", false},
		{"uppercase hex", "mk_admin_4F8D2E1B9C7A5F3D2E1B9C7A5F3D2E1B", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ValidateKeyFormat(tt.key); got != tt.want {
				t.Errorf("ValidateKeyFormat(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}
