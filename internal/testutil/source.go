// Package testutil provides deterministic pipeline collaborators for tests
// and the scenario harness.
package testutil

import (
	"context"
	"io"
	"sync"
)

// SliceSource yields a fixed list of tokens, then io.EOF.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SliceSource struct {
	mu     sync.Mutex
	tokens []string
	next   int
}

// NewSliceSource creates a source over tokens. The slice is copied.
func NewSliceSource(tokens ...string) *SliceSource {
	return &SliceSource{tokens: append([]string(nil), tokens...)}
}

// Next implements pipeline.Source.
func (s *SliceSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.tokens) {
		return "", io.EOF
	}
	tok := s.tokens[s.next]
	s.next++
	return tok, nil
}

// Consumed returns how many tokens have been handed out.
func (s *SliceSource) Consumed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
