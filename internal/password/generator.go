// Package password generates randomized user credentials.
package password

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// Character classes for generated passwords. Every password contains at
// least one character from each class.
const (
	UppercaseSet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	LowercaseSet  = "abcdefghijklmnopqrstuvwxyz"
	DigitSet      = "0123456789"
	PunctuationSet = "!@#$%^&*()-_=+[]{}"
)

const combinedSet = UppercaseSet + LowercaseSet + DigitSet + PunctuationSet

// DefaultLength is the password length used by credential issuance.
const DefaultLength = 12

// MinLength is the smallest length that can hold one character from each
// required class. Shorter requests are rejected rather than padded.
const MinLength = 4

// ErrLengthTooShort indicates the requested length cannot satisfy the
// character-class policy.
var ErrLengthTooShort = errors.New("password length must be at least 4")

// Generate produces a random password of the given length containing at
// least one uppercase letter, one lowercase letter, one digit, and one
// punctuation character. The remaining characters are drawn uniformly from
// the combined alphabet and the result is randomly permuted so the
// guaranteed classes are not predictably positioned.
func Generate(length int) (string, error) {
	if length < MinLength {
		return "", ErrLengthTooShort
	}

	chars := make([]byte, 0, length)

	for _, set := range []string{UppercaseSet, LowercaseSet, DigitSet, PunctuationSet} {
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	for len(chars) < length {
		c, err := pick(combinedSet)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	if err := shuffle(chars); err != nil {
		return "", err
	}

	return string(chars), nil
}

// pick returns one uniformly random character from the set.
func pick(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("random index: %w", err)
	}
	return set[n.Int64()], nil
}

// shuffle performs a Fisher-Yates shuffle using crypto/rand.
func shuffle(chars []byte) error {
	for i := len(chars) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("random swap index: %w", err)
		}
		j := n.Int64()
		chars[i], chars[j] = chars[j], chars[i]
	}
	return nil
}
