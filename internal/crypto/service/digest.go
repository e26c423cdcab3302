package service

import (
	"crypto/sha1" //nolint:gosec // breach lookups are defined over SHA-1
	"encoding/hex"
	"strings"
)

// Digest returns the uppercase hex SHA-1 of message.
func Digest(message string) string {
	sum := sha1.Sum([]byte(message)) //nolint:gosec // not used for security decisions
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
