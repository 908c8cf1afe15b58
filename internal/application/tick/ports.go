package tick

import (
	"context"

	"github.com/aedjoel/discordia-go/internal/domain/action"
	"github.com/aedjoel/discordia-go/internal/domain/economy"
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

// GameClient is the transport boundary: one snapshot fetch and one action
// submission per tick. Implemented by the HTTP adapter.
type GameClient interface {
	FetchState(ctx context.Context) (*world.Snapshot, error)
	SubmitActions(ctx context.Context, batch *action.Batch) error
}

// StrategyProvider supplies the strategy consumed at the start of each
// tick. Implementations swap the value between ticks; the engine never
// observes a mid-tick change.
type StrategyProvider interface {
	Current() economy.Strategy
}

// SummarySink receives the read-only per-tick summary. Sink failures are
// logged and never fail the tick.
type SummarySink interface {
	Record(ctx context.Context, s *Summary) error
}

// FixedStrategy is a StrategyProvider that always returns the same value,
// used in tests and the one-shot CLI path
type FixedStrategy struct {
	Strategy economy.Strategy
}

// Current returns the fixed strategy
func (f FixedStrategy) Current() economy.Strategy {
	return f.Strategy
}
