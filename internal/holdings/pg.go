package holdings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

// PgStore stores one holding collection as JSONB rows in the holdings table.
type PgStore[T Item] struct {
	pool      *pgxpool.Pool
	assetType domain.AssetType
	now       func() time.Time
}

// NewPgStore creates a PostgreSQL store for holdings of the given asset type.
func NewPgStore[T Item](pool *pgxpool.Pool, assetType domain.AssetType) *PgStore[T] {
	return &PgStore[T]{pool: pool, assetType: assetType, now: time.Now}
}

func decodeHolding[T Item](data []byte) (T, error) {
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return item, fmt.Errorf("decoding holding: %w", err)
	}
	return item, nil
}

func (s *PgStore[T]) List(ctx context.Context, portfolioID string) ([]T, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM holdings
		 WHERE asset_type = $1 AND ($2 = '' OR portfolio_id = $2)
		 ORDER BY created_at, id`, s.assetType, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("listing %s holdings: %w", s.assetType, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning %s holding: %w", s.assetType, err)
		}
		item, err := decodeHolding[T](data)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s holdings: %w", s.assetType, err)
	}
	return items, nil
}

func (s *PgStore[T]) Get(ctx context.Context, id string) (*T, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM holdings WHERE id = $1 AND asset_type = $2`, id, s.assetType).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting holding %s: %w", id, err)
	}
	item, err := decodeHolding[T](data)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *PgStore[T]) Create(ctx context.Context, item T) (T, error) {
	item, err := prepareCreate(item, s.now())
	if err != nil {
		return item, err
	}
	data, err := json.Marshal(item)
	if err != nil {
		return item, fmt.Errorf("encoding holding: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO holdings (id, portfolio_id, asset_type, data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4::jsonb, $5, $5)
		 ON CONFLICT (id) DO NOTHING`,
		item.HoldingID(), portfolioOf(item), s.assetType, data, createdAt(item))
	if err != nil {
		return item, fmt.Errorf("creating holding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return item, fmt.Errorf("holding %s already exists: %w", item.HoldingID(), domain.ErrInvalidOperation)
	}
	return item, nil
}

func (s *PgStore[T]) Update(ctx context.Context, item T) (T, error) {
	if err := domain.ValidateHolding(item); err != nil {
		return item, err
	}
	existing, err := s.Get(ctx, item.HoldingID())
	if err != nil {
		return item, err
	}
	if existing == nil {
		return item, fmt.Errorf("holding %s: %w", item.HoldingID(), domain.ErrNotFound)
	}

	item = stamp(item, item.HoldingID(), createdAt(*existing), s.now())
	data, err := json.Marshal(item)
	if err != nil {
		return item, fmt.Errorf("encoding holding: %w", err)
	}
	if _, err := s.pool.Exec(ctx,
		`UPDATE holdings SET portfolio_id = $2, data = $3::jsonb, updated_at = $4 WHERE id = $1`,
		item.HoldingID(), portfolioOf(item), data, s.now()); err != nil {
		return item, fmt.Errorf("updating holding %s: %w", item.HoldingID(), err)
	}
	return item, nil
}

func (s *PgStore[T]) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM holdings WHERE id = $1 AND asset_type = $2`, id, s.assetType)
	if err != nil {
		return fmt.Errorf("deleting holding %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("holding %s does not exist: %w", id, domain.ErrInvalidOperation)
	}
	return nil
}
