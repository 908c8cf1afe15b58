package tick_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aedjoel/discordia-go/internal/application/tick"
	"github.com/aedjoel/discordia-go/internal/domain/action"
	"github.com/aedjoel/discordia-go/internal/domain/economy"
	"github.com/aedjoel/discordia-go/internal/domain/shared"
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

// fakeClient serves a fixed snapshot and records submitted batches
type fakeClient struct {
	snapshot  *world.Snapshot
	fetchErr  error
	submitErr error
	submitted []*action.Batch
}

func (f *fakeClient) FetchState(ctx context.Context) (*world.Snapshot, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.snapshot, nil
}

func (f *fakeClient) SubmitActions(ctx context.Context, b *action.Batch) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, b)
	return nil
}

// recordingSink captures summaries handed to it
type recordingSink struct {
	summaries []*tick.Summary
	err       error
}

func (r *recordingSink) Record(ctx context.Context, s *tick.Summary) error {
	if r.err != nil {
		return r.err
	}
	r.summaries = append(r.summaries, s)
	return nil
}

func runnerSnapshot() *world.Snapshot {
	b := newWorld().
		unit("w1", "agent-1", "worker", 5, 5, 0, 0).
		source("src1", 6, 5, 500).
		structure("spawn-1", "spawn", 10, 10, 200)
	return b.snap
}

func TestRunner_OnceFetchesDecidesSubmits(t *testing.T) {
	// Arrange
	client := &fakeClient{snapshot: runnerSnapshot()}
	sink := &recordingSink{}
	clock := shared.NewMockClock(time.Time{})
	runner := tick.NewRunner(client, tick.FixedStrategy{Strategy: economy.DefaultStrategy()},
		[]tick.SummarySink{sink}, clock, time.Second, nil)

	// Act
	summary, err := runner.Once(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, client.submitted, 1)
	assert.Positive(t, client.submitted[0].Len())

	require.Len(t, sink.summaries, 1)
	assert.Equal(t, summary, sink.summaries[0])
	assert.Equal(t, 1, summary.Tick)
	assert.Equal(t, 1, summary.Workers)
	assert.NotEmpty(t, summary.BatchID)
	assert.Equal(t, summary.Actions, client.submitted[0].Len())
}

func TestRunner_FetchFailureSkipsTick(t *testing.T) {
	// Arrange
	client := &fakeClient{fetchErr: shared.NewTransportError("fetch_state", "connection refused")}
	sink := &recordingSink{}
	runner := tick.NewRunner(client, tick.FixedStrategy{Strategy: economy.DefaultStrategy()},
		[]tick.SummarySink{sink}, shared.NewMockClock(time.Time{}), time.Second, nil)

	// Act
	_, err := runner.Once(context.Background())

	// Assert - non-fatal, nothing submitted or recorded
	require.Error(t, err)
	assert.Empty(t, client.submitted)
	assert.Empty(t, sink.summaries)
}

func TestRunner_SubmitFailureReturnsError(t *testing.T) {
	// Arrange
	client := &fakeClient{snapshot: runnerSnapshot(), submitErr: errors.New("boom")}
	runner := tick.NewRunner(client, tick.FixedStrategy{Strategy: economy.DefaultStrategy()},
		nil, shared.NewMockClock(time.Time{}), time.Second, nil)

	// Act
	_, err := runner.Once(context.Background())

	// Assert
	assert.Error(t, err)
}

func TestRunner_SinkFailureDoesNotFailTick(t *testing.T) {
	// Arrange
	client := &fakeClient{snapshot: runnerSnapshot()}
	bad := &recordingSink{err: errors.New("db down")}
	good := &recordingSink{}
	runner := tick.NewRunner(client, tick.FixedStrategy{Strategy: economy.DefaultStrategy()},
		[]tick.SummarySink{bad, good}, shared.NewMockClock(time.Time{}), time.Second, nil)

	// Act
	summary, err := runner.Once(context.Background())

	// Assert - remaining sinks still receive the summary
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Len(t, good.summaries, 1)
}

func TestRunner_RunStopsOnCancel(t *testing.T) {
	// Arrange
	client := &fakeClient{snapshot: runnerSnapshot()}
	runner := tick.NewRunner(client, tick.FixedStrategy{Strategy: economy.DefaultStrategy()},
		nil, shared.NewMockClock(time.Time{}), time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	err := runner.Run(ctx)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize_CountsByType(t *testing.T) {
	// Arrange
	m, batch := newWorld().
		unit("w1", "agent-1", "worker", 5, 5, 0, 0).
		unit("s1", "agent-1", "soldier", 15, 15, 0, 0).
		structure("spawn-1", "spawn", 10, 10, 250).
		source("src1", 6, 5, 500).
		run(t, economy.DefaultStrategy())

	// Act
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	s := tick.Summarize(m, batch, 2, now)

	// Assert
	assert.Equal(t, 1, s.Workers)
	assert.Equal(t, 1, s.Soldiers)
	assert.Equal(t, 1, s.Structures)
	assert.Equal(t, 250, s.SpawnEnergy)
	assert.Equal(t, 1, s.VisibleChunks)
	assert.Equal(t, 2, s.Warnings)
	assert.Equal(t, now, s.RecordedAt)
	assert.Equal(t, batch.Len(), s.Actions)

	total := 0
	for _, n := range s.ActionCounts {
		total += n
	}
	assert.Equal(t, batch.Len(), total)
}
