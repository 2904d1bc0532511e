package harness

import "github.com/roach88/cdma/internal/pipeline"

// TraceEvent is one decoded frame as seen by the sink.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	FrameID string `json:"frame_id"`
	Input   string `json:"input"`
	Frame   string `json:"frame"`
	Signal  []int  `json:"signal"`
	Decoded string `json:"decoded"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation matched.
	Pass bool `json:"pass"`

	// Trace contains one event per decoded frame, in publish order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Histories is the final per-user history snapshot.
	Histories []pipeline.UserHistory `json:"histories"`

	// Stats are the pipeline counters after shutdown.
	Stats pipeline.Stats `json:"stats"`

	// Ignored counts tokens after the sentinel that were never read.
	Ignored int `json:"ignored"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddUpdate appends a published update to the trace.
func (r *Result) AddUpdate(u pipeline.Update) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:     u.Seq,
		FrameID: u.FrameID,
		Input:   u.Input,
		Frame:   u.Frame.String(),
		Signal:  append([]int(nil), u.Signal...),
		Decoded: u.Decoded.String(),
	})
}

// Decoded returns the decoded frames of the trace, in order.
func (r *Result) Decoded() []string {
	out := make([]string, len(r.Trace))
	for i, e := range r.Trace {
		out[i] = e.Decoded
	}
	return out
}

// HistoryMap returns the final histories keyed by 1-based user index.
func (r *Result) HistoryMap() map[int]string {
	m := make(map[int]string, len(r.Histories))
	for _, h := range r.Histories {
		m[h.User] = h.Bits
	}
	return m
}
