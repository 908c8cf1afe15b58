package tick

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aedjoel/discordia-go/internal/domain/shared"
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

// DefaultTickRate matches the server's snapshot cadence
const DefaultTickRate = 2 * time.Second

// Runner drives the fetch, decide, submit cycle. Every failure inside a
// cycle degrades to a no-op tick; nothing here is fatal to the process.
type Runner struct {
	client   GameClient
	strategy StrategyProvider
	sinks    []SummarySink
	clock    shared.Clock
	tickRate time.Duration
	log      *zap.Logger
}

// NewRunner wires a runner. A nil clock falls back to the system clock, a
// zero tick rate to the server cadence.
func NewRunner(client GameClient, strategy StrategyProvider, sinks []SummarySink, clock shared.Clock, tickRate time.Duration, log *zap.Logger) *Runner {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		client:   client,
		strategy: strategy,
		sinks:    sinks,
		clock:    clock,
		tickRate: tickRate,
		log:      log,
	}
}

// Run loops ticks until the context is cancelled. Transport failures are
// logged and the cycle skipped; the next cycle starts from fresh state.
func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		started := r.clock.Now()
		if _, err := r.Once(ctx); err != nil {
			r.log.Warn("tick skipped", zap.Error(err))
		}
		r.sleepRemainder(ctx, started)
	}
}

// Once executes a single complete tick and returns its summary
func (r *Runner) Once(ctx context.Context) (*Summary, error) {
	snap, err := r.client.FetchState(ctx)
	if err != nil {
		return nil, err
	}

	model, warnings := world.BuildModel(snap)
	for _, w := range warnings {
		r.log.Warn("snapshot entry dropped", zap.Int("tick", model.Tick), zap.String("reason", w))
	}

	strategy := r.strategy.Current()
	batch := NewEngine(model, strategy, r.log).Run()

	if err := r.client.SubmitActions(ctx, batch); err != nil {
		return nil, err
	}

	summary := Summarize(model, batch, len(warnings), r.clock.Now())
	r.log.Info("tick complete",
		zap.Int("tick", summary.Tick),
		zap.Int("actions", summary.Actions),
		zap.Int("workers", summary.Workers),
		zap.Int("soldiers", summary.Soldiers),
		zap.Int("spawn_energy", summary.SpawnEnergy),
	)

	for _, sink := range r.sinks {
		if err := sink.Record(ctx, summary); err != nil {
			r.log.Warn("summary sink failed", zap.Error(err))
		}
	}
	return summary, nil
}

// sleepRemainder waits out the rest of the tick window, respecting cancel
func (r *Runner) sleepRemainder(ctx context.Context, started time.Time) {
	elapsed := r.clock.Now().Sub(started)
	remaining := r.tickRate - elapsed
	if remaining <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-after(r.clock, remaining):
	}
}

// after adapts Clock.Sleep into a channel so cancellation can interrupt a
// real clock's wait without blocking the loop goroutine forever
func after(c shared.Clock, d time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		c.Sleep(d)
		close(done)
	}()
	return done
}
