package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cdma/internal/pipeline"
)

func TestConsoleSink_PlainOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	sink := NewConsoleSink(buf)

	require.NoError(t, sink.Prompt())
	require.NoError(t, sink.Publish(context.Background(), pipeline.Update{
		Histories: []pipeline.UserHistory{
			{User: 1, Bits: "01"},
			{User: 2, Bits: "10"},
		},
	}))

	want := "Enter data: " +
		"Decoded User 1: 01\n" +
		"Decoded User 2: 10\n" +
		"Enter data: "
	assert.Equal(t, want, buf.String())
}

func TestConsoleSink_NoClearWhenNotTerminal(t *testing.T) {
	buf := &bytes.Buffer{}
	sink := NewConsoleSink(buf)

	assert.False(t, sink.clear)
	require.NoError(t, sink.Publish(context.Background(), pipeline.Update{}))
	assert.NotContains(t, buf.String(), clearScreen)
}

func TestConsoleSink_ClearsWhenEnabled(t *testing.T) {
	buf := &bytes.Buffer{}
	sink := NewConsoleSink(buf)
	sink.clear = true

	require.NoError(t, sink.Publish(context.Background(), pipeline.Update{
		Histories: []pipeline.UserHistory{{User: 1, Bits: "1"}},
	}))
	assert.Equal(t, clearScreen+"Decoded User 1: 1\nEnter data: ", buf.String())
}
