// Package identity provides stable anonymous identity primitives.
//
// Raw user identifiers stay inside the process; only the one-way hash from
// UserHash is written to audit rows.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// UserHash derives the persisted audit identifier from a raw user ID:
// hex SHA-256 truncated to 16 characters.
func UserHash(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])[:16]
}

// SanitizeUserID validates an externally supplied user identifier.
func SanitizeUserID(id string) (string, bool) {
	id = strings.TrimSpace(id)
	if !userIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

// NewSessionID mints a short conversation session identifier.
func NewSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
