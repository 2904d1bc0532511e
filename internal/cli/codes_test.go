package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes_Text(t *testing.T) {
	out, err := execute(t, "", "codes")
	require.NoError(t, err)

	want := "Spreading codes (N=4):\n" +
		" 1  1  1  1\n" +
		" 1 -1  1 -1\n" +
		" 1  1 -1 -1\n" +
		" 1 -1 -1  1\n" +
		"Orthogonal: true\n"
	assert.Equal(t, want, out)
}

func TestCodes_JSON(t *testing.T) {
	out, err := execute(t, "", "codes", "--width", "8", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   CodesResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 8, resp.Data.Width)
	assert.Equal(t, 3, resp.Data.Order)
	assert.True(t, resp.Data.Orthogonal)
	require.Len(t, resp.Data.Codes, 8)
	assert.Equal(t, []int{1, -1, -1, 1, -1, 1, 1, -1}, resp.Data.Codes[7])
}

func TestCodes_InvalidWidth(t *testing.T) {
	out, err := execute(t, "", "codes", "--width", "12")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]: invalid channel config")
}
