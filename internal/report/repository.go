package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// BattleReport is one finished battle's persistent record.
type BattleReport struct {
	BattleID     string
	Winner       string
	TurnCount    int
	StartedAt    time.Time
	EndedAt      time.Time
	Participants json.RawMessage
	Events       json.RawMessage
}

// Repository stores battle reports.
type Repository interface {
	Create(ctx context.Context, report *BattleReport) error
}

// PostgresRepository persists battle reports through pgx.
type PostgresRepository struct {
	db *DB
}

// NewRepository creates a postgres-backed repository.
func NewRepository(db *DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts one battle report row.
func (r *PostgresRepository) Create(ctx context.Context, report *BattleReport) error {
	if report == nil {
		return fmt.Errorf("nil battle report")
	}

	const query = `
		INSERT INTO battle_reports
			(battle_id, winner, turn_count, started_at, ended_at, participants, events)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.pool.Exec(ctx, query,
		report.BattleID,
		report.Winner,
		report.TurnCount,
		report.StartedAt,
		report.EndedAt,
		report.Participants,
		report.Events,
	)
	if err != nil {
		return fmt.Errorf("insert battle report %s: %w", report.BattleID, err)
	}
	return nil
}
