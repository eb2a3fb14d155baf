package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort by creation time, which the
// details listing relies on as a tie-breaker for equal timestamps.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
