package store

import (
	"crypto/rand"
	"fmt"
)

// codeAlphabet excludes visually ambiguous characters (I, L, O, 0, 1).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// GenerateCode returns a 6-character human-shareable join code. Codes guard
// joining only; they are not uniqueness-guaranteed.
func GenerateCode() (string, error) {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("store: generate join code: %w", err)
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b), nil
}
