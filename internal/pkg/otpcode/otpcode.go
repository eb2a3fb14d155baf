package otpcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	lowest  = 100000
	highest = 999999
)

var span = big.NewInt(highest - lowest + 1)

// New returns a 6-digit numeric code sampled uniformly from [100000, 999999].
func New() (string, error) {
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+lowest), nil
}
