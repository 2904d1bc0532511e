package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cdma/internal/frame"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
width: 8
symbols: lenient
frames: ["10000001", "exit"]
expect:
  decoded: ["10000001"]
  histories: { 1: "1", 8: "1" }
  rejected: 0
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, 8, scenario.Width)
	assert.Equal(t, []string{"10000001", "exit"}, scenario.Frames)
	require.NotNil(t, scenario.Expect)
	assert.Equal(t, []string{"10000001"}, scenario.Expect.Decoded)
	assert.Equal(t, map[int]string{1: "1", 8: "1"}, scenario.Expect.Histories)
	require.NotNil(t, scenario.Expect.Rejected)
	assert.Equal(t, 0, *scenario.Expect.Rejected)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "frame instead of frames"
frame: ["0101"]
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "frame")
}

func TestParseScenario_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    `{description: d, frames: ["1"]}`,
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    `{name: n, frames: ["1"]}`,
			wantErr: "description is required",
		},
		{
			name:    "no frames",
			yaml:    `{name: n, description: d}`,
			wantErr: "frames list is required",
		},
		{
			name:    "width not a power of two",
			yaml:    `{name: n, description: d, width: 6, frames: ["1"]}`,
			wantErr: "width",
		},
		{
			name:    "unknown symbol policy",
			yaml:    `{name: n, description: d, symbols: fuzzy, frames: ["1"]}`,
			wantErr: "symbol",
		},
		{
			name:    "decoded frame of wrong width",
			yaml:    `{name: n, description: d, frames: ["1"], expect: {decoded: ["10"]}}`,
			wantErr: "expect.decoded[0]",
		},
		{
			name:    "decoded frame not binary",
			yaml:    `{name: n, description: d, frames: ["1"], expect: {decoded: ["10x0"]}}`,
			wantErr: "expect.decoded[0]",
		},
		{
			name:    "history user out of range",
			yaml:    `{name: n, description: d, frames: ["1"], expect: {histories: {5: "1"}}}`,
			wantErr: "user 5 out of range",
		},
		{
			name:    "negative rejected",
			yaml:    `{name: n, description: d, frames: ["1"], expect: {rejected: -1}}`,
			wantErr: "non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScenario_ConfigOverrides(t *testing.T) {
	s := &Scenario{
		Width:      16,
		Fill:       "1",
		Overlength: "reject",
		Symbols:    "lenient",
		Sentinel:   "quit",
	}

	cfg, err := s.Config()
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Width)
	assert.Equal(t, "1", cfg.Fill)
	assert.Equal(t, frame.OverlengthReject, cfg.Overlength)
	assert.Equal(t, frame.SymbolsLenient, cfg.Symbols)
	assert.Equal(t, "quit", cfg.Sentinel)
}

func TestScenario_ConfigDefaults(t *testing.T) {
	cfg, err := (&Scenario{}).Config()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Width)
	assert.Equal(t, "0", cfg.Fill)
	assert.Equal(t, frame.OverlengthTruncate, cfg.Overlength)
	assert.Equal(t, frame.SymbolsStrict, cfg.Symbols)
	assert.Equal(t, "exit", cfg.Sentinel)
}
