package model

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// RefCodeAlphabet omits characters that are easy to misread (0/O, 1/I).
const RefCodeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// NewID returns a time-ordered UUIDv7 for a new entity.
func NewID() (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("model: new id: %w", err)
	}
	return id, nil
}

// NewRefCode returns a human readable reference such as "A9X-2M4": length
// characters from RefCodeAlphabet with a hyphen in the middle.
func NewRefCode(length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	max := big.NewInt(int64(len(RefCodeAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("model: ref code: %w", err)
		}
		buf[i] = RefCodeAlphabet[n.Int64()]
	}
	mid := length / 2
	return string(buf[:mid]) + "-" + string(buf[mid:]), nil
}
