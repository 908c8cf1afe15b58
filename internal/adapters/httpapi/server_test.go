package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aedjoel/discordia-go/internal/application/tick"
	"github.com/aedjoel/discordia-go/internal/domain/economy"
)

type fakeStrategyStore struct {
	current economy.Strategy
	setErr  error
}

func (f *fakeStrategyStore) Current() economy.Strategy {
	return f.current
}

func (f *fakeStrategyStore) Set(s economy.Strategy) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.current = s
	return nil
}

type fakeHistory struct {
	rows []RecordedSummary
}

func (f *fakeHistory) Recent(ctx context.Context, limit int) ([]RecordedSummary, error) {
	if limit < len(f.rows) {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

func serve(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestGetSummary_BeforeFirstTick(t *testing.T) {
	// Arrange
	s := NewServer(":0", &fakeStrategyStore{current: economy.DefaultStrategy()}, nil, nil)

	// Act
	rec := serve(s, http.MethodGet, "/api/summary", "")

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSummary_ReturnsLatest(t *testing.T) {
	// Arrange
	s := NewServer(":0", &fakeStrategyStore{current: economy.DefaultStrategy()}, nil, nil)
	require.NoError(t, s.Record(context.Background(), &tick.Summary{
		BatchID: "batch-1",
		Tick:    9,
		Workers: 3,
	}))

	// Act
	rec := serve(s, http.MethodGet, "/api/summary", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var got tick.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "batch-1", got.BatchID)
	assert.Equal(t, 9, got.Tick)
	assert.Equal(t, 3, got.Workers)
}

func TestGetHistory_DisabledWithoutPersistence(t *testing.T) {
	// Arrange
	s := NewServer(":0", &fakeStrategyStore{current: economy.DefaultStrategy()}, nil, nil)

	// Act
	rec := serve(s, http.MethodGet, "/api/history", "")

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetHistory_RespectsLimit(t *testing.T) {
	// Arrange
	history := &fakeHistory{rows: []RecordedSummary{
		{BatchID: "b3", Tick: 3, RecordedAt: time.Now()},
		{BatchID: "b2", Tick: 2, RecordedAt: time.Now()},
		{BatchID: "b1", Tick: 1, RecordedAt: time.Now()},
	}}
	s := NewServer(":0", &fakeStrategyStore{current: economy.DefaultStrategy()}, history, nil)

	// Act
	rec := serve(s, http.MethodGet, "/api/history?limit=2", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Summaries []RecordedSummary `json:"summaries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Summaries, 2)
}

func TestGetHistory_RejectsBadLimit(t *testing.T) {
	// Arrange
	s := NewServer(":0", &fakeStrategyStore{current: economy.DefaultStrategy()}, &fakeHistory{}, nil)

	// Act
	rec := serve(s, http.MethodGet, "/api/history?limit=zero", "")

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutStrategy_MergesPatch(t *testing.T) {
	// Arrange
	store := &fakeStrategyStore{current: economy.DefaultStrategy()}
	s := NewServer(":0", store, nil, nil)

	// Act
	rec := serve(s, http.MethodPut, "/api/strategy", `{"soldier_cap": 150, "priority_mode": "military"}`)

	// Assert - patched fields applied, the rest untouched
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 150, store.current.SoldierCap)
	assert.Equal(t, economy.ModeMilitary, store.current.PriorityMode)
	assert.Equal(t, economy.DefaultStrategy().WorkerCap, store.current.WorkerCap)
}

func TestPutStrategy_RejectedUpdateKeepsCurrent(t *testing.T) {
	// Arrange
	store := &fakeStrategyStore{
		current: economy.DefaultStrategy(),
		setErr:  errors.New("field 'WorkerHarvestThreshold' failed validation"),
	}
	s := NewServer(":0", store, nil, nil)

	// Act
	rec := serve(s, http.MethodPut, "/api/strategy", `{"worker_harvest_threshold": 2.5}`)

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, economy.DefaultStrategy(), store.current)
}

func TestGetStrategy_ReturnsCurrent(t *testing.T) {
	// Arrange
	s := NewServer(":0", &fakeStrategyStore{current: economy.DefaultStrategy()}, nil, nil)

	// Act
	rec := serve(s, http.MethodGet, "/api/strategy", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var got economy.Strategy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, economy.DefaultStrategy(), got)
}
