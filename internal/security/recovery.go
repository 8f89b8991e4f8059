package security

import (
	"crypto/rand"
	"fmt"
)

// RecoveryCodeBatchSize is the number of single-use backup codes issued
// per enrollment.
const RecoveryCodeBatchSize = 10

// GenerateRecoveryCodes produces a batch of random single-use backup
// codes. Each code is a 16-character hex string (64 bits of entropy).
func GenerateRecoveryCodes(count int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("recovery code count must be positive, got %d", count)
	}

	codes := make([]string, count)
	for i := range codes {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate recovery code: %w", err)
		}
		codes[i] = fmt.Sprintf("%X", buf)
	}
	return codes, nil
}
