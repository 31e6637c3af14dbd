package eventsourcing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PostgresEventStore persists event logs in the events table. The primary key
// (aggregate_type, aggregate_id, sequence) makes concurrent appends for the
// same aggregate id fail with a unique violation, which is surfaced as
// ErrSequenceConflict.
type PostgresEventStore struct {
	db *sql.DB
}

func NewPostgresEventStore(db *sql.DB) *PostgresEventStore {
	return &PostgresEventStore{db: db}
}

func (s *PostgresEventStore) Load(ctx context.Context, aggregateType, aggregateID string) ([]Envelope, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sequence, event_type, event_version, payload, metadata, created_at
		FROM events
		WHERE aggregate_type = $1 AND aggregate_id = $2
		ORDER BY sequence`,
		aggregateType, aggregateID)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var envelopes []Envelope
	for rows.Next() {
		env := Envelope{AggregateType: aggregateType, AggregateID: aggregateID}
		var metadata []byte
		if err := rows.Scan(&env.Sequence, &env.EventType, &env.EventVersion, &env.Payload, &metadata, &env.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &env.Metadata); err != nil {
				return nil, fmt.Errorf("decode event metadata: %w", err)
			}
		}
		envelopes = append(envelopes, env)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return envelopes, nil
}

func (s *PostgresEventStore) Append(ctx context.Context, aggregateType, aggregateID string, expectedSequence int, envelopes []Envelope) error {
	if len(envelopes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var current sql.NullInt64
	err = tx.QueryRowContext(ctx, `
		SELECT MAX(sequence) FROM events
		WHERE aggregate_type = $1 AND aggregate_id = $2`,
		aggregateType, aggregateID).Scan(&current)
	if err != nil {
		return fmt.Errorf("read current sequence: %w", err)
	}
	if int(current.Int64) != expectedSequence {
		return ErrSequenceConflict
	}

	for _, env := range envelopes {
		metadata, err := json.Marshal(env.Metadata)
		if err != nil {
			return fmt.Errorf("encode event metadata: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO events (aggregate_type, aggregate_id, sequence, event_type, event_version, payload, metadata, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			aggregateType, aggregateID, env.Sequence, env.EventType, env.EventVersion, []byte(env.Payload), metadata, env.Timestamp)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrSequenceConflict
			}
			return fmt.Errorf("insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return ErrSequenceConflict
		}
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
