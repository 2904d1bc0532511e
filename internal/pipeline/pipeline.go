package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/cdma/internal/frame"
	"github.com/roach88/cdma/internal/modem"
	"github.com/roach88/cdma/internal/walsh"
)

// DefaultSentinel is the token that requests shutdown.
const DefaultSentinel = "exit"

// Pipeline owns the shared queue, the shutdown state and the per-user
// decoded histories for one channel configuration.
//
// Thread-safety model:
//   - Submit(), Stop(), State(), Histories(): safe from any goroutine
//   - Produce(): one goroutine per Source
//   - Consume(): exactly one goroutine for the pipeline's lifetime
//
// A Pipeline is single-use: once Stopped it cannot be restarted.
type Pipeline struct {
	modem      *modem.Modem
	normalizer frame.Normalizer
	sentinel   string
	queue      *frameQueue
	clock      *Clock
	ids        IDGenerator
	logger     *slog.Logger
	metrics    *Metrics

	state     atomic.Int32
	consuming atomic.Bool

	// roles counts Produce/Consume calls in flight; Stopped is entered only
	// once the consumer has finished and roles drops to zero.
	roles        atomic.Int32
	consumerDone atomic.Bool

	submitted atomic.Int64
	rejected  atomic.Int64
	decoded   atomic.Int64

	// histories is written only by the consumer; mu lets other goroutines
	// take snapshots.
	mu        sync.RWMutex
	histories [][]byte
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithNormalizer replaces the default normalizer. A zero Width is filled in
// from the code book.
func WithNormalizer(n frame.Normalizer) Option {
	return func(p *Pipeline) {
		p.normalizer = n
	}
}

// WithSentinel changes the shutdown token. Default: "exit". It is folded
// like input tokens, so "ＱＵＩＴ" and "QUIT" are the same sentinel.
func WithSentinel(s string) Option {
	return func(p *Pipeline) {
		p.sentinel = s
	}
}

// WithIDGenerator sets the frame id generator. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(p *Pipeline) {
		p.ids = g
	}
}

// WithClock sets the sequence clock, e.g. to resume numbering.
func WithClock(c *Clock) Option {
	return func(p *Pipeline) {
		p.clock = c
	}
}

// WithMetrics registers the pipeline instruments with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(p *Pipeline) {
		p.metrics = NewMetrics(reg)
	}
}

// New creates a Running pipeline for the code book's channel width.
func New(cb *walsh.CodeBook, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		modem:      modem.New(cb),
		normalizer: frame.NewNormalizer(cb.Width()),
		sentinel:   DefaultSentinel,
		queue:      newFrameQueue(),
		clock:      NewClock(),
		ids:        UUIDv7Generator{},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.metrics == nil {
		p.metrics = NewMetrics(nil)
	}
	if p.normalizer.Width == 0 {
		p.normalizer.Width = cb.Width()
	}
	if p.normalizer.Width != cb.Width() {
		return nil, fmt.Errorf("%w: normalizer=%d codes=%d", ErrWidthMismatch, p.normalizer.Width, cb.Width())
	}
	if err := p.normalizer.Validate(); err != nil {
		return nil, err
	}
	sentinel, err := frame.FoldSentinel(p.sentinel)
	if err != nil {
		return nil, err
	}
	p.sentinel = sentinel

	p.histories = make([][]byte, cb.Width())
	p.state.Store(int32(Running))

	return p, nil
}

// Width returns the number of users.
func (p *Pipeline) Width() int {
	return p.modem.Width()
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// IsSentinel reports whether text is the shutdown token.
func (p *Pipeline) IsSentinel(text string) bool {
	return frame.Fold(text) == p.sentinel
}

// Stop requests shutdown: no further frames are accepted and the consumer
// exits once the queue is drained. Idempotent.
func (p *Pipeline) Stop() {
	if p.state.CompareAndSwap(int32(Running), int32(ShuttingDown)) {
		p.logger.Info("pipeline shutting down", "queued", p.queue.Len())
	}
	p.queue.Close()
}

// Submit runs one Producer step: the sentinel stops the pipeline, anything
// else is normalized and enqueued.
//
// Returns ErrStopped after shutdown, or the normalization error for tokens
// that can't become a frame.
func (p *Pipeline) Submit(text string) error {
	if p.State() != Running {
		return ErrStopped
	}

	if p.IsSentinel(text) {
		p.logger.Debug("sentinel received")
		p.Stop()
		return nil
	}

	f, err := p.normalizer.Normalize(text)
	if err != nil {
		p.rejected.Add(1)
		p.metrics.rejected.Inc()
		return fmt.Errorf("normalize %q: %w", text, err)
	}

	j := job{
		Seq:   p.clock.Next(),
		ID:    p.ids.Generate(),
		Input: text,
		Frame: f,
	}

	p.metrics.queueDepth.Inc()
	if !p.queue.Enqueue(j) {
		p.metrics.queueDepth.Dec()
		return ErrStopped
	}
	p.submitted.Add(1)
	p.metrics.submitted.Inc()

	p.logger.Debug("frame enqueued", "seq", j.Seq, "frame_id", j.ID, "frame", f.String())
	return nil
}

// Produce feeds tokens from src until the sentinel, io.EOF, shutdown or ctx
// cancellation. Rejected tokens are logged and skipped.
//
// Returns nil when the loop ended because the pipeline is shutting down.
func (p *Pipeline) Produce(ctx context.Context, src Source) error {
	p.roles.Add(1)
	return p.produce(ctx, src)
}

// produce expects the caller to have registered the role.
func (p *Pipeline) produce(ctx context.Context, src Source) error {
	defer p.leaveRole()

	for {
		if p.State() != Running {
			return nil
		}

		text, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			p.logger.Info("input exhausted")
			p.Stop()
			return nil
		}
		if err != nil {
			if p.State() != Running {
				return nil
			}
			p.Stop()
			return err
		}

		if err := p.Submit(text); err != nil {
			if errors.Is(err, ErrStopped) {
				return nil
			}
			p.logger.Warn("frame rejected", "input", text, "error", err)
		}
	}
}

// Consume is the Consumer loop. It decodes frames in FIFO order and
// publishes one Update per frame until the queue is closed and drained.
//
// Returns nil on clean shutdown, ctx.Err() on cancellation, or the sink's
// error. The pipeline is at least ShuttingDown when Consume returns, and
// Stopped once no Produce call is still running.
func (p *Pipeline) Consume(ctx context.Context, sink Sink) error {
	p.roles.Add(1)
	return p.consume(ctx, sink)
}

// consume expects the caller to have registered the role.
func (p *Pipeline) consume(ctx context.Context, sink Sink) error {
	defer p.leaveRole()

	if !p.consuming.CompareAndSwap(false, true) {
		return ErrConsumerRunning
	}
	defer func() {
		p.Stop()
		p.consumerDone.Store(true)
	}()

	for {
		if err := ctx.Err(); err != nil {
			p.abandon()
			return err
		}

		j, err := p.queue.Dequeue(ctx)
		if errors.Is(err, errDrained) {
			return nil
		}
		if err != nil {
			p.abandon()
			return err
		}
		p.metrics.queueDepth.Dec()

		update, err := p.process(j)
		if err != nil {
			// Normalized frames always match the width, so this is a bug
			// rather than bad input. Log and keep the channel alive.
			p.logger.Error("frame decode failed", "seq", j.Seq, "frame_id", j.ID, "error", err)
			continue
		}

		if err := sink.Publish(ctx, update); err != nil {
			p.abandon()
			return fmt.Errorf("publish frame %d: %w", j.Seq, err)
		}
	}
}

// abandon closes the queue and drops what is left in it from the depth
// gauge when the consumer exits early. Once closed, no Enqueue can succeed, so the count is final.
func (p *Pipeline) abandon() {
	p.Stop()
	if n := p.queue.Len(); n > 0 {
		p.metrics.queueDepth.Sub(float64(n))
		p.logger.Warn("queued frames dropped", "queued", n)
	}
}

// leaveRole marks one Produce or Consume call as returned and enters
// Stopped when it was the last one and the consumer is done.
func (p *Pipeline) leaveRole() {
	if p.roles.Add(-1) != 0 || !p.consumerDone.Load() {
		return
	}
	if State(p.state.Swap(int32(Stopped))) != Stopped {
		p.logger.Info("pipeline stopped", "frames", p.clock.Current())
	}
}

// process runs the modem outside any queue lock and records the result.
func (p *Pipeline) process(j job) (Update, error) {
	start := time.Now()

	signal, err := p.modem.Encode(j.Frame)
	if err != nil {
		return Update{}, err
	}
	decoded, err := p.modem.Decode(signal)
	if err != nil {
		return Update{}, err
	}

	p.mu.Lock()
	for r, bit := range decoded {
		p.histories[r] = append(p.histories[r], bit.Char())
	}
	histories := p.snapshotLocked()
	p.mu.Unlock()

	p.decoded.Add(1)
	p.metrics.decoded.Inc()
	p.metrics.decodeSeconds.Observe(time.Since(start).Seconds())

	p.logger.Debug("frame decoded", "seq", j.Seq, "frame_id", j.ID, "decoded", decoded.String())

	return Update{
		Seq:       j.Seq,
		FrameID:   j.ID,
		Input:     j.Input,
		Frame:     j.Frame,
		Signal:    signal,
		Decoded:   decoded,
		Histories: histories,
	}, nil
}

// Stats counts frames at each stage.
type Stats struct {
	Submitted int64 `json:"submitted"`
	Rejected  int64 `json:"rejected"`
	Decoded   int64 `json:"decoded"`
}

// Stats returns the current counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Rejected:  p.rejected.Load(),
		Decoded:   p.decoded.Load(),
	}
}

// Histories returns a snapshot of every user's decoded bits.
func (p *Pipeline) Histories() []UserHistory {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

func (p *Pipeline) snapshotLocked() []UserHistory {
	out := make([]UserHistory, len(p.histories))
	for r, h := range p.histories {
		out[r] = UserHistory{User: r + 1, Bits: string(h)}
	}
	return out
}

// Run starts the Producer and Consumer goroutines and waits for both.
//
// The producer's context is cancelled once the consumer exits, so a Source
// that honors ctx doesn't hold up shutdown.
func (p *Pipeline) Run(ctx context.Context, src Source, sink Sink) error {
	p.logger.Info("pipeline starting", "width", p.Width(), "sentinel", p.sentinel)

	g, gctx := errgroup.WithContext(ctx)
	prodCtx, cancelProducer := context.WithCancel(gctx)
	defer cancelProducer()

	// Both roles are registered before either starts, so Stopped can't be
	// entered until both have returned.
	p.roles.Add(2)
	g.Go(func() error {
		return p.produce(prodCtx, src)
	})
	g.Go(func() error {
		defer cancelProducer()
		return p.consume(gctx, sink)
	})

	return g.Wait()
}
