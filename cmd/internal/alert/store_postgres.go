package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store over PostgreSQL.
//
// The pgx pool is owned by the caller; this store must NOT close it.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("alert: nil pool")
	}
	return &PostgresStore{pool: pool}, nil
}

const alertColumns = `id, country, city, visa_type, status, created_at`

func scanAlert(row pgx.Row) (Alert, error) {
	var a Alert
	err := row.Scan(&a.ID, &a.Country, &a.City, &a.VisaType, &a.Status, &a.CreatedAt)
	return a, err
}

// Create inserts a new alert row.
func (s *PostgresStore) Create(ctx context.Context, in CreateAlertInput) (Alert, error) {
	const op = "alert.Create"

	a, err := scanAlert(s.pool.QueryRow(ctx,
		`INSERT INTO alerts (id, country, city, visa_type, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+alertColumns,
		in.ID, in.Country, in.City, in.VisaType, in.Status, in.CreatedAt,
	))
	if err != nil {
		return Alert{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// GetByID loads one alert.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (Alert, error) {
	const op = "alert.GetByID"

	a, err := scanAlert(s.pool.QueryRow(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Alert{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return Alert{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// UpdateStatus sets the status of an alert.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status Status) (Alert, error) {
	const op = "alert.UpdateStatus"

	a, err := scanAlert(s.pool.QueryRow(ctx,
		`UPDATE alerts SET status = $2 WHERE id = $1 RETURNING `+alertColumns,
		id, status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Alert{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return Alert{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// Delete removes an alert and returns the deleted row.
func (s *PostgresStore) Delete(ctx context.Context, id string) (Alert, error) {
	const op = "alert.Delete"

	a, err := scanAlert(s.pool.QueryRow(ctx,
		`DELETE FROM alerts WHERE id = $1 RETURNING `+alertColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Alert{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return Alert{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// ListBefore pages the feed newest-first. Ordering is by created_at alone;
// rows sharing a timestamp have no defined relative order across pages.
func (s *PostgresStore) ListBefore(ctx context.Context, before *time.Time, n int) ([]Alert, error) {
	const op = "alert.ListBefore"

	var (
		rows pgx.Rows
		err  error
	)
	if before == nil {
		rows, err = s.pool.Query(ctx,
			`SELECT `+alertColumns+` FROM alerts
			 ORDER BY created_at DESC LIMIT $1`, n)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT `+alertColumns+` FROM alerts
			 WHERE created_at < $1
			 ORDER BY created_at DESC LIMIT $2`, *before, n)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]Alert, 0, n)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
