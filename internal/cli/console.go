package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/roach88/cdma/internal/pipeline"
)

const (
	// DefaultPrompt is printed whenever the console waits for a frame.
	DefaultPrompt = "Enter data: "

	clearScreen = "\033[2J\033[1;1H"
)

// ConsoleSink renders every user's history after each decoded frame.
//
// The screen is cleared between frames only when the writer is a terminal,
// so piped output stays a plain log.
type ConsoleSink struct {
	mu     sync.Mutex
	w      io.Writer
	clear  bool
	prompt string
	label  lipgloss.Style
	bits   lipgloss.Style
}

// NewConsoleSink creates a sink writing to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	r := lipgloss.NewRenderer(w)
	return &ConsoleSink{
		w:      w,
		clear:  isTerminal(w),
		prompt: DefaultPrompt,
		label:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		bits:   r.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Prompt prints the input prompt.
func (s *ConsoleSink) Prompt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, s.prompt)
	return err
}

// Publish implements pipeline.Sink.
func (s *ConsoleSink) Publish(_ context.Context, u pipeline.Update) error {
	var b strings.Builder
	if s.clear {
		b.WriteString(clearScreen)
	}
	for _, h := range u.Histories {
		fmt.Fprintf(&b, "%s %s\n", s.label.Render(fmt.Sprintf("Decoded User %d:", h.User)), s.bits.Render(h.Bits))
	}
	b.WriteString(s.prompt)

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, b.String())
	return err
}
