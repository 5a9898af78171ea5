package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	referenceEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	referenceEntropyMu sync.Mutex
)

// NewReference returns a unique, time-ordered ledger entry reference
func NewReference() string {
	referenceEntropyMu.Lock()
	defer referenceEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), referenceEntropy).String()
}
