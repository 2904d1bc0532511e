package harness

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Expectation kinds, used as AssertionError.Type.
const (
	ExpectDecoded   = "decoded"
	ExpectHistories = "histories"
	ExpectRejected  = "rejected"
)

// AssertionError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Expectation kind for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %q -> %s -> %s\n", event.Seq, event.Input, event.Frame, event.Decoded)
		}
	}

	return buf.String()
}

// assertDecoded checks the exact decoded frame sequence.
func assertDecoded(result *Result, expected []string) error {
	actual := result.Decoded()
	if slices.Equal(actual, expected) {
		return nil
	}
	return &AssertionError{
		Type:     ExpectDecoded,
		Expected: fmt.Sprintf("%v", expected),
		Actual:   fmt.Sprintf("%v", actual),
		Trace:    result.Trace,
	}
}

// assertHistories checks the listed users only.
func assertHistories(result *Result, expected map[int]string) error {
	actual := result.HistoryMap()

	users := make([]int, 0, len(expected))
	for u := range expected {
		users = append(users, u)
	}
	sort.Ints(users)

	var mismatches []string
	for _, u := range users {
		if got := actual[u]; got != expected[u] {
			mismatches = append(mismatches, fmt.Sprintf("user %d: want %q, got %q", u, expected[u], got))
		}
	}
	if len(mismatches) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     ExpectHistories,
		Expected: formatHistories(expected, users),
		Actual:   strings.Join(mismatches, "; "),
		Trace:    result.Trace,
	}
}

func assertRejected(result *Result, expected int) error {
	if result.Stats.Rejected == int64(expected) {
		return nil
	}
	return &AssertionError{
		Type:     ExpectRejected,
		Expected: fmt.Sprintf("%d rejected tokens", expected),
		Actual:   fmt.Sprintf("%d rejected tokens", result.Stats.Rejected),
		Trace:    result.Trace,
	}
}

func formatHistories(h map[int]string, users []int) string {
	parts := make([]string, len(users))
	for i, u := range users {
		parts[i] = fmt.Sprintf("%d:%q", u, h[u])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// EvaluateExpect evaluates every expectation against the result.
// Returns a slice of error messages for failed expectations.
func EvaluateExpect(result *Result, expect *Expect) []string {
	if expect == nil {
		return nil
	}

	var errors []string
	if expect.Decoded != nil {
		if err := assertDecoded(result, expect.Decoded); err != nil {
			errors = append(errors, err.Error())
		}
	}
	if len(expect.Histories) > 0 {
		if err := assertHistories(result, expect.Histories); err != nil {
			errors = append(errors, err.Error())
		}
	}
	if expect.Rejected != nil {
		if err := assertRejected(result, *expect.Rejected); err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}
