package report

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

const caseIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CaseIDOption customizes the generator at construction time.
type CaseIDOption func(*CaseIDGenerator)

// WithClock overrides the clock used for the timestamp portion, useful for
// deterministic unit tests.
func WithClock(now func() time.Time) CaseIDOption {
	return func(g *CaseIDGenerator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithRandomSeed swaps the RNG seed used for the random suffix.
func WithRandomSeed(seed int64) CaseIDOption {
	return func(g *CaseIDGenerator) {
		g.rnd = rand.New(rand.NewSource(seed)) // #nosec G404 -- IDs are informational, not secrets.
	}
}

// CaseIDGenerator produces case identifiers of the form
// BAG-YYYYMMDD-HHMMSS-XXXX where XXXX is a random uppercase base-36 suffix.
// The timestamp is always UTC. Uniqueness is probabilistic only: the ID is a
// display reference in the outgoing email, not the key of any store.
type CaseIDGenerator struct {
	now func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewCaseIDGenerator constructs a generator with a wall clock and a
// time-seeded RNG.
func NewCaseIDGenerator(opts ...CaseIDOption) *CaseIDGenerator {
	g := &CaseIDGenerator{
		now: time.Now,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Next returns a fresh case identifier.
func (g *CaseIDGenerator) Next() string {
	ts := g.now().UTC()

	var suffix strings.Builder
	g.mu.Lock()
	for i := 0; i < 4; i++ {
		suffix.WriteByte(caseIDAlphabet[g.rnd.Intn(len(caseIDAlphabet))])
	}
	g.mu.Unlock()

	return fmt.Sprintf("BAG-%s-%s-%s", ts.Format("20060102"), ts.Format("150405"), suffix.String())
}
