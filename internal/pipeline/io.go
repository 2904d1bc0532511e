package pipeline

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/roach88/cdma/internal/modem"
)

// Source supplies one text token per call. It returns io.EOF when the input
// is exhausted.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (string, error)

// Next calls f.
func (f SourceFunc) Next(ctx context.Context) (string, error) {
	return f(ctx)
}

// UserHistory is one user's cumulative decoded bits.
type UserHistory struct {
	User int    `json:"user"` // 1-based
	Bits string `json:"bits"`
}

// Update is published once per decoded frame.
type Update struct {
	Seq       int64         `json:"seq"`
	FrameID   string        `json:"frame_id"`
	Input     string        `json:"input"`
	Frame     modem.Frame   `json:"frame"`
	Signal    modem.Signal  `json:"signal"`
	Decoded   modem.Frame   `json:"decoded"`
	Histories []UserHistory `json:"histories"`
}

// HistoryMap returns the histories keyed by 1-based user index.
func (u Update) HistoryMap() map[int]string {
	m := make(map[int]string, len(u.Histories))
	for _, h := range u.Histories {
		m[h.User] = h.Bits
	}
	return m
}

// Sink receives every Update in decode order.
type Sink interface {
	Publish(ctx context.Context, u Update) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, u Update) error

// Publish calls f.
func (f SinkFunc) Publish(ctx context.Context, u Update) error {
	return f(ctx, u)
}

// Discard is a Sink that drops every update.
var Discard Sink = SinkFunc(func(context.Context, Update) error { return nil })

type scanResult struct {
	token string
	err   error
}

// ScannerSource yields whitespace-delimited tokens from a reader.
//
// Reads run on a helper goroutine so Next can return on ctx cancellation
// while the reader is blocked (e.g. an idle terminal). The helper exits on
// EOF, on a read error, or after Close once its pending token is dropped.
type ScannerSource struct {
	r      io.Reader
	once   sync.Once
	tokens chan scanResult
	done   chan struct{}
	close  sync.Once
}

// NewScannerSource creates a Source over r.
func NewScannerSource(r io.Reader) *ScannerSource {
	return &ScannerSource{
		r:      r,
		tokens: make(chan scanResult),
		done:   make(chan struct{}),
	}
}

func (s *ScannerSource) start() {
	go func() {
		defer close(s.tokens)

		sc := bufio.NewScanner(s.r)
		sc.Split(bufio.ScanWords)
		for sc.Scan() {
			select {
			case s.tokens <- scanResult{token: sc.Text()}:
			case <-s.done:
				return
			}
		}
		if err := sc.Err(); err != nil {
			select {
			case s.tokens <- scanResult{err: err}:
			case <-s.done:
			}
		}
	}()
}

// Next returns the next token, io.EOF at end of input, or ctx.Err().
func (s *ScannerSource) Next(ctx context.Context) (string, error) {
	s.once.Do(s.start)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-s.tokens:
		if !ok {
			return "", io.EOF
		}
		return res.token, res.err
	}
}

// Close releases the helper goroutine once its current read returns.
func (s *ScannerSource) Close() error {
	s.close.Do(func() { close(s.done) })
	return nil
}
