package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cdma/internal/pipeline"
)

func newRunCmd(t *testing.T, stdin string, opts *RunOptions) (*bytes.Buffer, *bytes.Buffer, func(args ...string) error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	return out, errOut, func(args ...string) error {
		c := newRunCommand(opts)
		c.SetIn(strings.NewReader(stdin))
		c.SetOut(out)
		c.SetErr(errOut)
		c.SetArgs(args)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return c.ExecuteContext(ctx)
	}
}

func TestRun_DecodesUntilSentinel(t *testing.T) {
	out, _, run := newRunCmd(t, "0101\n1\nexit\n0000\n", &RunOptions{RootOptions: &RootOptions{Format: "text"}})

	require.NoError(t, run())

	want := "Enter data: " +
		"Decoded User 1: 0\nDecoded User 2: 1\nDecoded User 3: 0\nDecoded User 4: 1\nEnter data: " +
		"Decoded User 1: 01\nDecoded User 2: 10\nDecoded User 3: 00\nDecoded User 4: 10\nEnter data: " +
		"\n"
	assert.Equal(t, want, out.String())
}

func TestRun_EOFStops(t *testing.T) {
	out, errOut, run := newRunCmd(t, "11", &RunOptions{RootOptions: &RootOptions{Format: "text", Width: 2}})

	require.NoError(t, run())
	assert.Contains(t, out.String(), "Decoded User 2: 1\n")
	assert.Contains(t, errOut.String(), "input exhausted")
	assert.Contains(t, errOut.String(), "channel closed")
}

func TestRun_RejectedTokenIsLogged(t *testing.T) {
	out, errOut, run := newRunCmd(t, "01x1 0011 exit", &RunOptions{RootOptions: &RootOptions{Format: "text"}})

	require.NoError(t, run())
	assert.Contains(t, out.String(), "Decoded User 3: 1\n")
	assert.NotContains(t, out.String(), "Decoded User 1: 00")
	assert.Contains(t, errOut.String(), "frame rejected")
	assert.Contains(t, errOut.String(), "rejected=1")
}

func TestRun_VerboseLogsFrames(t *testing.T) {
	_, errOut, run := newRunCmd(t, "0101 exit", &RunOptions{
		RootOptions: &RootOptions{Format: "text", Verbose: true},
	})

	require.NoError(t, run())
	assert.Contains(t, errOut.String(), "frame enqueued")
	assert.Contains(t, errOut.String(), "frame decoded")
}

func TestRun_MetricsFile(t *testing.T) {
	metricsPath := filepath.Join(t.TempDir(), "cdma.prom")
	_, _, run := newRunCmd(t, "0101 1 bad exit", &RunOptions{RootOptions: &RootOptions{Format: "text"}})

	require.NoError(t, run("--metrics-file", metricsPath))

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	metrics := string(data)
	assert.Contains(t, metrics, "cdma_frames_submitted_total 2\n")
	assert.Contains(t, metrics, "cdma_frames_rejected_total 1\n")
	assert.Contains(t, metrics, "cdma_frames_decoded_total 2\n")
	assert.Contains(t, metrics, "cdma_queue_depth 0\n")
}

func TestRun_InvalidConfig(t *testing.T) {
	_, _, run := newRunCmd(t, "", &RunOptions{RootOptions: &RootOptions{Format: "text", Width: 5}})

	err := run()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid channel config")
}

func TestRun_CustomIDGenerator(t *testing.T) {
	_, errOut, run := newRunCmd(t, "0101 exit", &RunOptions{
		RootOptions: &RootOptions{Format: "text", Verbose: true},
		IDGenerator: pipeline.NewFixedGenerator("frame-a"),
	})

	require.NoError(t, run())
	assert.Contains(t, errOut.String(), "frame_id=frame-a")
}

func TestRunHelpText(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	assert.Contains(t, cmd.Long, "sentinel")
	assert.NotNil(t, cmd.Flags().Lookup("metrics-file"))
}
