// Package store persists completed analyses as a write-only audit trail.
// It never sits on the request path: saves are best-effort and failures
// are logged, not surfaced.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"fundwise/pkg/models"
)

// HistoryRepo writes analysis responses to Postgres.
//
// Schema assumption (managed outside this service):
//
//	CREATE TABLE IF NOT EXISTS analysis_history (
//	  id UUID PRIMARY KEY,
//	  farmer_name TEXT,
//	  response_json JSONB,
//	  created_at TIMESTAMPTZ
//	);
type HistoryRepo struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewHistoryRepo connects using the given database URL. Returns an error
// rather than warning so the caller decides whether history is optional.
func NewHistoryRepo(ctx context.Context, databaseURL string, log zerolog.Logger) (*HistoryRepo, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	return &HistoryRepo{pool: pool, log: log.With().Str("component", "store").Logger()}, nil
}

// Save inserts one completed analysis. Safe to call on a nil repo.
func (r *HistoryRepo) Save(ctx context.Context, resp *models.AnalysisResponse) {
	if r == nil {
		return
	}
	jsonData, err := json.Marshal(resp)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to marshal analysis for history")
		return
	}

	query := `
		INSERT INTO analysis_history (id, farmer_name, response_json, created_at)
		VALUES ($1, $2, $3, $4);
	`
	if _, err := r.pool.Exec(ctx, query, uuid.New(), resp.FarmerName, jsonData, time.Now()); err != nil {
		r.log.Error().Err(err).Str("farmer", resp.FarmerName).Msg("failed to save analysis history")
	}
}

// Close releases the pool.
func (r *HistoryRepo) Close() {
	if r != nil && r.pool != nil {
		r.pool.Close()
	}
}
