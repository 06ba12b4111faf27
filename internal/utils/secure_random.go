package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// codeAlphabet omits characters that are easy to misread (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateSecureRandomString generates a cryptographically secure random string of the specified byte length,
// then hex encodes it. For example, lengthInBytes=32 will result in a 64-character hex string.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateCode returns a human-friendly uppercase code, e.g. "PN-7KQ4-X9ZD".
// Used for referral codes and discount vouchers.
func GenerateCode(prefix string, groups, groupLen int) (string, error) {
	if groups <= 0 || groupLen <= 0 {
		return "", fmt.Errorf("groups and groupLen must be positive")
	}
	b := make([]byte, groups*groupLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	parts := make([]string, 0, groups+1)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	for g := 0; g < groups; g++ {
		var sb strings.Builder
		for i := 0; i < groupLen; i++ {
			sb.WriteByte(codeAlphabet[int(b[g*groupLen+i])%len(codeAlphabet)])
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, "-"), nil
}
