// Package idgen produces identifiers for user-created records.
package idgen

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator returns a new unique identifier on every call.
type Generator interface {
	NewID() string
}

// UUIDv7 generates time-ordered UUIDv7 identifiers. The timestamp sits in the
// most significant bits, so IDs created later sort after earlier ones.
//
// UUIDv7 is stateless and safe for concurrent use.
type UUIDv7 struct{}

// NewID returns a hyphenated UUIDv7 string. It panics if the system random
// source fails.
func (UUIDv7) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Fixed hands out predetermined identifiers in order, for tests that need
// stable IDs. It panics once the list is exhausted.
type Fixed struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixed returns a Fixed generator over ids.
func NewFixed(ids ...string) *Fixed {
	return &Fixed{ids: ids}
}

func (g *Fixed) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic(fmt.Sprintf("idgen: fixed generator exhausted after %d ids", len(g.ids)))
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// Sequence returns prefix-1, prefix-2, ... and never runs out.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequence returns a Sequence generator using prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}
