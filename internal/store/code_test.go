package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, c), "unexpected character %q", c)
		}
		seen[code] = true
	}
	// 100 draws from a 32^6 space should not all collide.
	assert.Greater(t, len(seen), 1)
}

func TestCodeAlphabetExcludesAmbiguousCharacters(t *testing.T) {
	for _, c := range "ILO01" {
		assert.False(t, strings.ContainsRune(codeAlphabet, c), "alphabet contains ambiguous %q", c)
	}
}
