// Package persistence stores per-tick summaries for offline analysis. It
// sits strictly outside the decision core: nothing read from the database
// ever influences a tick.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aedjoel/discordia-go/internal/application/tick"
)

// TickSummaryModel is the GORM model for one recorded tick
type TickSummaryModel struct {
	ID            uint   `gorm:"primaryKey"`
	BatchID       string `gorm:"uniqueIndex;size:36"`
	Tick          int    `gorm:"index"`
	AgentLevel    int
	Workers       int
	Soldiers      int
	Healers       int
	Enemies       int
	Structures    int
	Sites         int
	SpawnEnergy   int
	VisibleChunks int
	Actions       int
	ActionCounts  string // JSON-encoded per-type counts
	Warnings      int
	RecordedAt    time.Time `gorm:"index"`
}

// TableName overrides the default pluralized table name
func (TickSummaryModel) TableName() string {
	return "tick_summaries"
}

// GormTickSummaryRepository implements tick.SummarySink using GORM
type GormTickSummaryRepository struct {
	db *gorm.DB
}

// NewGormTickSummaryRepository creates a new GORM tick summary repository
func NewGormTickSummaryRepository(db *gorm.DB) *GormTickSummaryRepository {
	return &GormTickSummaryRepository{db: db}
}

// Record persists one tick summary
func (r *GormTickSummaryRepository) Record(ctx context.Context, s *tick.Summary) error {
	counts, err := json.Marshal(s.ActionCounts)
	if err != nil {
		return fmt.Errorf("failed to encode action counts: %w", err)
	}

	model := &TickSummaryModel{
		BatchID:       s.BatchID,
		Tick:          s.Tick,
		AgentLevel:    s.AgentLevel,
		Workers:       s.Workers,
		Soldiers:      s.Soldiers,
		Healers:       s.Healers,
		Enemies:       s.Enemies,
		Structures:    s.Structures,
		Sites:         s.Sites,
		SpawnEnergy:   s.SpawnEnergy,
		VisibleChunks: s.VisibleChunks,
		Actions:       s.Actions,
		ActionCounts:  string(counts),
		Warnings:      s.Warnings,
		RecordedAt:    s.RecordedAt,
	}

	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return fmt.Errorf("failed to record tick summary: %w", result.Error)
	}
	return nil
}

// Recent returns the newest summaries, most recent first
func (r *GormTickSummaryRepository) Recent(ctx context.Context, limit int) ([]TickSummaryModel, error) {
	if limit <= 0 {
		limit = 50
	}
	var models []TickSummaryModel
	result := r.db.WithContext(ctx).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load tick summaries: %w", result.Error)
	}
	return models, nil
}
