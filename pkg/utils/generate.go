package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// GenerateBookingReference builds a reference like HTL-20240601-K3XQ7M.
func GenerateBookingReference(now time.Time) (string, error) {
	suffix := make([]byte, 6)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate booking reference: %w", err)
		}
		suffix[i] = referenceAlphabet[n.Int64()]
	}
	return fmt.Sprintf("HTL-%s-%s", now.UTC().Format("20060102"), suffix), nil
}
