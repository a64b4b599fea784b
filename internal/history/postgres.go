package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxdesk-backend/internal/models"
)

// PostgresStore keeps records in the penalty_calculations table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore on an open pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Save(ctx context.Context, rec *models.CalculationRecord) error {
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO penalty_calculations (id, user_id, domain, rule_key, request, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rec.ID, rec.UserID, rec.Domain, rec.RuleKey, []byte(rec.Request), result, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.CalculationRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, user_id, domain, rule_key, request, result, created_at
		FROM penalty_calculations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	records := []models.CalculationRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calculations: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.CalculationRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id::text, user_id, domain, rule_key, request, result, created_at
		FROM penalty_calculations
		WHERE id = $1
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (s *PostgresStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM penalty_calculations WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete calculations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRecord(row pgx.Row) (*models.CalculationRecord, error) {
	var rec models.CalculationRecord
	var request, result []byte
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Domain, &rec.RuleKey, &request, &result, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan calculation: %w", err)
	}
	rec.Request = json.RawMessage(request)
	if err := json.Unmarshal(result, &rec.Result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &rec, nil
}
