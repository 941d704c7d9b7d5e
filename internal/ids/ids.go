// Package ids generates short identifiers for daybook entities.
package ids

import (
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"strings"
	"time"
)

// DefaultLength is the standard length for generated IDs.
const DefaultLength = 8

// Generate creates a deterministic, lowercase base32 ID derived from input.
func Generate(input string, length int) string {
	hash := sha256.Sum256([]byte(input))
	encoded := base32.StdEncoding.EncodeToString(hash[:])
	if length <= 0 {
		return ""
	}
	if length > len(encoded) {
		length = len(encoded)
	}
	return strings.ToLower(encoded[:length])
}

// GenerateWithTimestamp appends a timestamp to input before hashing.
func GenerateWithTimestamp(input string, timestamp time.Time, length int) string {
	return Generate(input+timestamp.Format(time.RFC3339Nano), length)
}

// GenerateWithSequence folds a sequence number into the input so that two
// entities created from the same input at the same instant still get
// distinct IDs.
func GenerateWithSequence(input string, timestamp time.Time, seq uint64, length int) string {
	return GenerateWithTimestamp(fmt.Sprintf("%s#%d", input, seq), timestamp, length)
}

// Slug derives a stable, human-readable identifier from a name: lowercased
// with runs of whitespace collapsed to single hyphens.
func Slug(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "-")
}
