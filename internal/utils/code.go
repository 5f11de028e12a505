package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // omit easily confused chars

const (
	DefaultCodeLength = 6
	MinCodeLength     = 5
	MaxCodeLength     = 12
)

// GenerateCode returns n characters sampled from codeAlphabet. Lengths
// outside [MinCodeLength, MaxCodeLength] fall back to DefaultCodeLength.
// There is no uniqueness guarantee; callers that persist codes must handle
// collisions.
func GenerateCode(n int) (string, error) {
	if n < MinCodeLength || n > MaxCodeLength {
		n = DefaultCodeLength
	}
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		idxBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[idxBig.Int64()]
	}
	return string(b), nil
}

// IsGeneratedCode reports whether s could have been produced by GenerateCode.
func IsGeneratedCode(s string) bool {
	if len(s) < MinCodeLength || len(s) > MaxCodeLength {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(codeAlphabet, r) {
			return false
		}
	}
	return true
}

// IsAccessCode is the looser check applied to user input: upper-case letters
// and digits only, so hand-made codes such as "BIO101" pass.
func IsAccessCode(s string) bool {
	if s == "" || len(s) > MaxCodeLength {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
