package testutil

import (
	"fmt"
	"sync"
)

// SequenceGenerator returns "<prefix>-0001", "<prefix>-0002", ...
//
// Unlike pipeline.FixedGenerator it never runs out, which suits scenarios
// with an arbitrary number of frames while keeping golden traces stable.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a generator. An empty prefix becomes "frame".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "frame"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate implements pipeline.IDGenerator.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

// Reset restarts numbering at 1.
func (g *SequenceGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
