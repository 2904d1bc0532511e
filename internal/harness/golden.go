package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot captures the complete trace for a scenario execution.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Width        int          `json:"width"`
	Trace        []TraceEvent `json:"trace"`
	Histories    []string     `json:"histories"`
	Rejected     int64        `json:"rejected"`
}

// Snapshot renders the golden representation of a result: indented JSON
// with a trailing newline. Field order is fixed by TraceSnapshot.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	snap := TraceSnapshot{
		ScenarioName: scenarioName,
		Width:        len(result.Histories),
		Trace:        result.Trace,
		Histories:    make([]string, len(result.Histories)),
		Rejected:     result.Stats.Rejected,
	}
	for i, h := range result.Histories {
		snap.Histories[i] = h.Bits
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
