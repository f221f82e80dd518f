package password

import (
	"strings"
	"testing"
)

func TestGenerate_Length(t *testing.T) {
	t.Parallel()

	for _, length := range []int{4, 8, 12, 32, 64} {
		got, err := Generate(length)
		if err != nil {
			t.Fatalf("Generate(%d) failed: %v", length, err)
		}
		if len(got) != length {
			t.Errorf("Generate(%d) length = %d, want %d", length, len(got), length)
		}
	}
}

func TestGenerate_Policy(t *testing.T) {
	t.Parallel()

	// Run repeatedly to cover the random paths.
	for i := 0; i < 200; i++ {
		got, err := Generate(DefaultLength)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if !strings.ContainsAny(got, UppercaseSet) {
			t.Errorf("password %q has no uppercase character", got)
		}
		if !strings.ContainsAny(got, LowercaseSet) {
			t.Errorf("password %q has no lowercase character", got)
		}
		if !strings.ContainsAny(got, DigitSet) {
			t.Errorf("password %q has no digit", got)
		}
		if !strings.ContainsAny(got, PunctuationSet) {
			t.Errorf("password %q has no punctuation character", got)
		}

		for _, c := range got {
			if !strings.ContainsRune(combinedSet, c) {
				t.Errorf("password %q contains character %q outside the alphabet", got, c)
			}
		}
	}
}

func TestGenerate_MinimumLength(t *testing.T) {
	t.Parallel()

	// Length 4 is exactly the four guaranteed classes.
	got, err := Generate(4)
	if err != nil {
		t.Fatalf("Generate(4) failed: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("Generate(4) length = %d, want 4", len(got))
	}
}

func TestGenerate_RejectsTooShort(t *testing.T) {
	t.Parallel()

	for _, length := range []int{-1, 0, 3} {
		if _, err := Generate(length); err != ErrLengthTooShort {
			t.Errorf("Generate(%d) error = %v, want ErrLengthTooShort", length, err)
		}
	}
}

func TestGenerate_Unique(t *testing.T) {
	t.Parallel()

	const numPasswords = 100
	seen := make(map[string]bool, numPasswords)

	for i := 0; i < numPasswords; i++ {
		got, err := Generate(DefaultLength)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if seen[got] {
			t.Errorf("duplicate password generated: %s", got)
		}
		seen[got] = true
	}
}
