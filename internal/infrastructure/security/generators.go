// Package security provides id generation, editor tokens and password checks
package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
	"github.com/oklog/ulid/v2"
)

// GenerateULID generates a new ULID string.
func GenerateULID() string {
	return ulid.Make().String()
}

// NodeIDs is the id generator handed to editor sessions. ULIDs sort by
// creation time, so nodes added later compare greater.
var NodeIDs builder.IDGenerator = GenerateULID

// GenerateSecureKey creates a cryptographically secure random key and returns it as a hex string.
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
