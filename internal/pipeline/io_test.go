package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty detached") }

func TestScannerSource_TokensThenEOF(t *testing.T) {
	src := NewScannerSource(strings.NewReader("a  b\nc"))
	ctx := context.Background()

	for _, want := range []string{"a", "b", "c"} {
		tok, err := src.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, tok)
	}

	_, err := src.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestScannerSource_ReadError(t *testing.T) {
	src := NewScannerSource(failingReader{})

	_, err := src.Next(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty detached")
}

func TestScannerSource_ContextCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	src := NewScannerSource(r)
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := src.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUpdate_HistoryMap(t *testing.T) {
	u := Update{Histories: []UserHistory{{User: 1, Bits: "01"}, {User: 2, Bits: "11"}}}
	assert.Equal(t, map[int]string{1: "01", 2: "11"}, u.HistoryMap())
}
