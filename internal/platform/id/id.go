// Package id generates unique identifiers for Lorekeep records.
package id

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// encoding is unpadded base32 so ids stay URL- and filename-safe.
var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a 26-character lowercase base32 id backed by a random UUIDv4.
func NewID() (string, error) {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	// Set UUID version 4 and RFC 4122 variant bits.
	raw[6] = (raw[6] & 0x0F) | 0x40
	raw[8] = (raw[8] & 0x3F) | 0x80

	return strings.ToLower(encoding.EncodeToString(raw[:])), nil
}
