package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that the requested snapshot was not found.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a stored portfolio report for one day.
type Snapshot struct {
	ID           int             `json:"id"`
	PortfolioID  string          `json:"portfolioId"`
	SnapshotDate time.Time       `json:"snapshotDate"`
	Data         json.RawMessage `json:"data"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Repository defines persistent storage for snapshots.
type Repository interface {
	Save(ctx context.Context, portfolioID string, date time.Time, data json.RawMessage) error
	GetLatest(ctx context.Context, portfolioID string) (*Snapshot, error)
	GetByDate(ctx context.Context, portfolioID string, date time.Time) (*Snapshot, error)
	GetNearestBefore(ctx context.Context, portfolioID string, date time.Time) (*Snapshot, error)
	List(ctx context.Context, portfolioID string, limit int) ([]Snapshot, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL snapshot repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const snapshotColumns = `id, portfolio_id, snapshot_date, data, created_at`

func scanSnapshot(row pgx.Row) (*Snapshot, error) {
	var s Snapshot
	if err := row.Scan(&s.ID, &s.PortfolioID, &s.SnapshotDate, &s.Data, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PgRepository) Save(ctx context.Context, portfolioID string, date time.Time, data json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO portfolio_snapshots (portfolio_id, snapshot_date, data)
		 VALUES ($1, $2, $3::jsonb)
		 ON CONFLICT (portfolio_id, snapshot_date)
		 DO UPDATE SET data = $3::jsonb`,
		portfolioID, date, data)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func (r *PgRepository) GetLatest(ctx context.Context, portfolioID string) (*Snapshot, error) {
	s, err := scanSnapshot(r.pool.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM portfolio_snapshots
		 WHERE portfolio_id = $1
		 ORDER BY snapshot_date DESC
		 LIMIT 1`, portfolioID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("getting latest snapshot: %w", err)
	}
	return s, err
}

func (r *PgRepository) GetByDate(ctx context.Context, portfolioID string, date time.Time) (*Snapshot, error) {
	s, err := scanSnapshot(r.pool.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM portfolio_snapshots
		 WHERE portfolio_id = $1 AND snapshot_date = $2`, portfolioID, date))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("getting snapshot by date: %w", err)
	}
	return s, err
}

func (r *PgRepository) GetNearestBefore(ctx context.Context, portfolioID string, date time.Time) (*Snapshot, error) {
	s, err := scanSnapshot(r.pool.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM portfolio_snapshots
		 WHERE portfolio_id = $1 AND snapshot_date <= $2
		 ORDER BY snapshot_date DESC
		 LIMIT 1`, portfolioID, date))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("getting snapshot before %s: %w", date.Format(time.DateOnly), err)
	}
	return s, err
}

func (r *PgRepository) List(ctx context.Context, portfolioID string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+snapshotColumns+` FROM portfolio_snapshots
		 WHERE portfolio_id = $1
		 ORDER BY snapshot_date DESC
		 LIMIT $2`, portfolioID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snapshots = append(snapshots, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snapshots, nil
}
