package core

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator mints globally sortable ids: a 48-bit millisecond timestamp
// followed by 80 bits of entropy, rendered as a 26-character Crockford
// base32 string. Ids from one Generator strictly increase in mint order,
// including across same-millisecond calls and backward clock jumps.
// Each process owns its own Generator; cross-process ordering is only
// approximate.
type Generator struct {
	mu      sync.Mutex
	now     func() time.Time
	lastMs  uint64
	entropy [10]byte
	primed  bool
}

// NewGenerator creates a Generator backed by the wall clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Next returns the next id. It never blocks and never fails.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := ulid.Timestamp(g.now())
	if !g.primed || ms > g.lastMs {
		g.lastMs = ms
		g.fill()
		g.primed = true
	} else {
		// Repeated or regressed clock: advance the last-emitted value
		// instead of drawing fresh entropy.
		g.increment()
	}

	var id ulid.ULID
	_ = id.SetTime(g.lastMs)
	_ = id.SetEntropy(g.entropy[:])
	return id.String()
}

func (g *Generator) fill() {
	if _, err := rand.Read(g.entropy[:]); err != nil {
		// crypto/rand does not fail on supported platforms; if it ever
		// does, advancing the previous entropy keeps Next infallible.
		g.increment()
	}
}

func (g *Generator) increment() {
	for i := len(g.entropy) - 1; i >= 0; i-- {
		g.entropy[i]++
		if g.entropy[i] != 0 {
			return
		}
	}
	// Entropy overflowed; roll into the timestamp field.
	g.lastMs++
}
