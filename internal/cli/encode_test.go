package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_WorkedExample(t *testing.T) {
	out, err := execute(t, "", "encode", "0101")
	require.NoError(t, err)

	want := "Frame: 0101\n" +
		"Signal: [0 4 0 0]\n" +
		"Decoded User 1: 0\n" +
		"Decoded User 2: 1\n" +
		"Decoded User 3: 0\n" +
		"Decoded User 4: 1\n"
	assert.Equal(t, want, out)
}

func TestEncode_Verbose(t *testing.T) {
	out, err := execute(t, "", "encode", "0101", "--verbose")
	require.NoError(t, err)

	assert.Contains(t, out, "Spreading codes (N=4):\n 1  1  1  1\n")
	assert.Contains(t, out, "Spread (code x voltage):\n 1  1  1  1\n-1  1 -1  1\n 1  1 -1 -1\n-1  1  1 -1\n")
	assert.Contains(t, out, "Signal: [0 4 0 0]\n")
}

func TestEncode_PadsShortInput(t *testing.T) {
	out, err := execute(t, "", "encode", "1", "--width", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Frame: 10000000\n")
	assert.Contains(t, out, "Decoded User 1: 1\n")
	assert.Contains(t, out, "Decoded User 8: 0\n")
}

func TestEncode_JSON(t *testing.T) {
	out, err := execute(t, "", "encode", "0110", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Width   int    `json:"width"`
			Input   string `json:"input"`
			Frame   string `json:"frame"`
			Signal  []int  `json:"signal"`
			Decoded string `json:"decoded"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 4, resp.Data.Width)
	assert.Equal(t, "0110", resp.Data.Frame)
	assert.Equal(t, []int{0, 0, 0, 4}, resp.Data.Signal)
	assert.Equal(t, "0110", resp.Data.Decoded)
}

func TestEncode_InvalidSymbol(t *testing.T) {
	out, err := execute(t, "", "encode", "01x1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

func TestEncode_LenientConfig(t *testing.T) {
	path := writeFile(t, "channel.cue", `channel: symbols: "lenient"`)

	out, err := execute(t, "", "encode", "ab", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Frame: 1100\n")
}

func TestEncode_MissingArg(t *testing.T) {
	_, err := execute(t, "", "encode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
