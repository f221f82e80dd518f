package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Admin key format: mk_admin_{secret}
// Example: mk_admin_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const (
	keySecretBytes = 16 // 32 hex chars
)

var (
	// ErrInvalidKeyFormat indicates the key format is invalid.
	ErrInvalidKeyFormat = errors.New("invalid admin key format")

	keyFormatRegex = regexp.MustCompile(`^mk_admin_[a-f0-9]{32}$`)
)

// GeneratedKey contains the parts of a newly generated admin key.
type GeneratedKey struct {
	Plaintext string // Full key (show once only)
	Hash      string // Argon2id hash for storage
}

// GenerateAdminKey creates a new admin API key.
// Returns the plaintext key (to show once) and the hash (to store in config).
func GenerateAdminKey() (*GeneratedKey, error) {
	secretBytes := make([]byte, keySecretBytes)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	plaintext := fmt.Sprintf("mk_admin_%s", hex.EncodeToString(secretBytes))

	hash, err := HashKey(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash key: %w", err)
	}

	return &GeneratedKey{
		Plaintext: plaintext,
		Hash:      hash,
	}, nil
}

// ValidateKeyFormat checks if the key matches the expected format.
func ValidateKeyFormat(key string) bool {
	return keyFormatRegex.MatchString(key)
}
