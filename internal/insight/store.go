// Copyright 2026 QuakeWatch
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package insight

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists insights and engine bookkeeping in SQLite.
type Store struct {
	db  *bun.DB
	now func() time.Time
}

// Open opens (creating if needed) the insight database at dsn.
func Open(dsn string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("insight: open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return NewStore(bun.NewDB(sqlDB, sqlitedialect.New())), nil
}

// NewStore wraps an existing bun handle.
func NewStore(db *bun.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Init creates the schema if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	models := []any{
		(*Insight)(nil),
		(*EngineConfig)(nil),
		(*EngineRun)(nil),
	}
	for _, m := range models {
		if _, err := s.db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("insight: create table for %T: %w", m, err)
		}
	}
	return nil
}

// SaveInsights stores a batch of insights.
func (s *Store) SaveInsights(ctx context.Context, insights []Insight) error {
	if len(insights) == 0 {
		return nil
	}
	if _, err := s.db.NewInsert().Model(&insights).Exec(ctx); err != nil {
		return fmt.Errorf("insight: save insights: %w", err)
	}
	return nil
}

// Active returns unacknowledged insights still within their validity
// window, newest first.
func (s *Store) Active(ctx context.Context) ([]Insight, error) {
	var insights []Insight
	err := s.db.NewSelect().
		Model(&insights).
		Where("acknowledged = ?", false).
		Where("valid_until > ?", s.now()).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("insight: load active insights: %w", err)
	}
	return insights, nil
}

// BySeverity returns active insights at the given severity.
func (s *Store) BySeverity(ctx context.Context, severity string) ([]Insight, error) {
	var insights []Insight
	err := s.db.NewSelect().
		Model(&insights).
		Where("acknowledged = ?", false).
		Where("valid_until > ?", s.now()).
		Where("severity_level = ?", severity).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("insight: load insights by severity: %w", err)
	}
	return insights, nil
}

// Acknowledge marks an insight as seen.
func (s *Store) Acknowledge(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.NewUpdate().
		Model((*Insight)(nil)).
		Set("acknowledged = ?", true).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insight: acknowledge %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("insight: no insight with id %s", id)
	}
	return nil
}

// Config loads the engine configuration, seeding the default when the
// table is empty.
func (s *Store) Config(ctx context.Context, defaultModel string) (EngineConfig, error) {
	var cfg EngineConfig
	err := s.db.NewSelect().Model(&cfg).Order("id").Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		cfg = DefaultConfig(defaultModel)
		if _, err := s.db.NewInsert().Model(&cfg).Exec(ctx); err != nil {
			return EngineConfig{}, fmt.Errorf("insight: seed config: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return EngineConfig{}, fmt.Errorf("insight: load config: %w", err)
	}
	return cfg, nil
}

// RecordRun logs a completed pass and advances the schedule.
func (s *Store) RecordRun(ctx context.Context, cfg EngineConfig, run EngineRun) error {
	run.CreatedAt = s.now()
	if _, err := s.db.NewInsert().Model(&run).Exec(ctx); err != nil {
		return fmt.Errorf("insight: record run: %w", err)
	}

	now := s.now()
	next := now.Add(time.Duration(cfg.AnalysisFrequencyHours) * time.Hour)
	_, err := s.db.NewUpdate().
		Model((*EngineConfig)(nil)).
		Set("last_run_at = ?", now).
		Set("next_run_at = ?", next).
		Set("total_runs = total_runs + 1").
		Set("total_insights_generated = total_insights_generated + ?", run.InsightsGenerated).
		Where("id = ?", cfg.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insight: update schedule: %w", err)
	}
	return nil
}
