package testutil

import (
	"context"
	"sync"

	"github.com/roach88/cdma/internal/pipeline"
)

// RecordingSink keeps every published update in order.
//
// Thread-safety: safe for concurrent use via internal mutex.
type RecordingSink struct {
	mu      sync.Mutex
	updates []pipeline.Update
}

// NewRecordingSink creates an empty sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// Publish implements pipeline.Sink.
func (s *RecordingSink) Publish(_ context.Context, u pipeline.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, u)
	return nil
}

// Updates returns a copy of the recorded updates.
func (s *RecordingSink) Updates() []pipeline.Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pipeline.Update(nil), s.updates...)
}

// Decoded returns the decoded frames as "0101" strings, in publish order.
func (s *RecordingSink) Decoded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.updates))
	for i, u := range s.updates {
		out[i] = u.Decoded.String()
	}
	return out
}
