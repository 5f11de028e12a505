package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_Format(t *testing.T) {
	for _, n := range []int{5, 6, 8, 12} {
		code, err := GenerateCode(n)
		require.NoError(t, err)
		assert.Len(t, code, n)
		assert.True(t, IsGeneratedCode(code), "code %q", code)
		assert.True(t, IsAccessCode(code), "code %q", code)
	}
}

func TestGenerateCode_InvalidLengthFallsBack(t *testing.T) {
	for _, n := range []int{-1, 0, 4, 13} {
		code, err := GenerateCode(n)
		require.NoError(t, err)
		assert.Len(t, code, DefaultCodeLength)
	}
}

func TestIsAccessCode(t *testing.T) {
	assert.True(t, IsAccessCode("BIO101"))
	assert.True(t, IsAccessCode("MATH202"))
	assert.False(t, IsAccessCode(""))
	assert.False(t, IsAccessCode("bio101"))
	assert.False(t, IsAccessCode("BIO 101"))
	assert.False(t, IsAccessCode("ABCDEFGHJKLMN"))
}

func TestIsGeneratedCode_RejectsConfusableChars(t *testing.T) {
	assert.False(t, IsGeneratedCode("BIO101"))
	assert.False(t, IsGeneratedCode("ABCD"))
	assert.True(t, IsGeneratedCode("ABCDE"))
}
