package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/cdma/internal/pipeline"
	"github.com/roach88/cdma/internal/testutil"
)

// Run executes a scenario on a fresh pipeline and returns the result.
//
// Execution flow:
//  1. Resolve the channel config (defaults plus scenario overrides)
//  2. Build the pipeline with deterministic frame ids and no logging
//  3. Feed Frames through a slice source until the sentinel or EOF
//  4. Evaluate Expect against the recorded updates
//
// An error is returned only when the scenario can't be executed; failed
// expectations are reported through Result.Pass and Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	cfg, err := scenario.Config()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	cb, err := cfg.CodeBook()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	p, err := pipeline.New(cb,
		pipeline.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		pipeline.WithNormalizer(cfg.Normalizer()),
		pipeline.WithSentinel(cfg.Sentinel),
		pipeline.WithIDGenerator(testutil.NewSequenceGenerator("frame")),
	)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: failed to create pipeline: %w", scenario.Name, err)
	}

	src := testutil.NewSliceSource(scenario.Frames...)
	sink := testutil.NewRecordingSink()

	if err := p.Run(ctx, src, sink); err != nil {
		return nil, fmt.Errorf("scenario %s: pipeline failed: %w", scenario.Name, err)
	}

	result := NewResult()
	for _, u := range sink.Updates() {
		result.AddUpdate(u)
	}
	result.Histories = p.Histories()
	result.Stats = p.Stats()
	result.Ignored = len(scenario.Frames) - src.Consumed()

	for _, msg := range EvaluateExpect(result, scenario.Expect) {
		result.AddError(msg)
	}

	return result, nil
}
