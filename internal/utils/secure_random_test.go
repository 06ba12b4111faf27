package utils

import (
	"strings"
	"testing"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode("PN", 2, 4)
	require.NoError(t, err)

	parts := strings.Split(code, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "PN", parts[0])
	for _, p := range parts[1:] {
		assert.Len(t, p, 4)
		for _, r := range p {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected rune %q", r)
		}
	}

	other, err := GenerateCode("PN", 2, 4)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestGenerateCode_NoPrefix(t *testing.T) {
	code, err := GenerateCode("", 3, 3)
	require.NoError(t, err)
	assert.Len(t, strings.Split(code, "-"), 3)
}

func TestGenerateCode_InvalidArgs(t *testing.T) {
	_, err := GenerateCode("PN", 0, 4)
	assert.Error(t, err)
	_, err = GenerateCode("PN", 2, 0)
	assert.Error(t, err)
}

func TestGenerateJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("acc-1", "landlord", true, "secret", 60_000_000_000, "propnest")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.Subject)
	assert.Equal(t, "landlord", claims.Role)
	assert.True(t, claims.Admin)
	assert.Equal(t, "propnest", claims.Issuer)

	_, err = ParseAndValidateJWT(token, "wrong-secret")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("battery staple", hash))
}

func TestPasswordHash_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("p", 73))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.False(t, CheckPasswordHash("anything", ""))
}
