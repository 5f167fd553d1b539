package tag

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

// MemoryRepository keeps tags in memory, in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	tags  map[string]domain.Tag
}

// NewMemoryRepository creates a repository seeded with the system tags.
func NewMemoryRepository(now time.Time) *MemoryRepository {
	r := &MemoryRepository{tags: make(map[string]domain.Tag)}
	for _, t := range domain.DefaultTags(now) {
		r.order = append(r.order, t.ID)
		r.tags[t.ID] = t
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context) ([]domain.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Map(r.order, func(id string, _ int) domain.Tag { return r.tags[id] }), nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*domain.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tags[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *MemoryRepository) Save(_ context.Context, tag domain.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tags[tag.ID]; !ok {
		r.order = append(r.order, tag.ID)
	}
	r.tags[tag.ID] = tag
	return nil
}

// PgRepository stores tags in PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a PostgreSQL tag repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const tagColumns = `id, name, description, color, category, is_default, is_archived, usage_count, created_at, updated_at`

func scanTag(row pgx.Row) (domain.Tag, error) {
	var t domain.Tag
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Color, &t.Category,
		&t.IsDefault, &t.IsArchived, &t.UsageCount, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PgRepository) List(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY is_default DESC, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tags, nil
}

func (r *PgRepository) Get(ctx context.Context, id string) (*domain.Tag, error) {
	t, err := scanTag(r.pool.QueryRow(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting tag %s: %w", id, err)
	}
	return &t, nil
}

func (r *PgRepository) Save(ctx context.Context, t domain.Tag) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tags (`+tagColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		   name = $2, description = $3, color = $4, category = $5,
		   is_archived = $7, usage_count = $8, updated_at = $10`,
		t.ID, t.Name, t.Description, t.Color, t.Category,
		t.IsDefault, t.IsArchived, t.UsageCount, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving tag %s: %w", t.ID, err)
	}
	return nil
}

// EnsureDefaults inserts any missing system tags. Existing rows are left untouched.
func (r *PgRepository) EnsureDefaults(ctx context.Context, now time.Time) error {
	batch := &pgx.Batch{}
	for _, t := range domain.DefaultTags(now) {
		batch.Queue(
			`INSERT INTO tags (`+tagColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (id) DO NOTHING`,
			t.ID, t.Name, t.Description, t.Color, t.Category,
			t.IsDefault, t.IsArchived, t.UsageCount, t.CreatedAt, t.UpdatedAt)
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seeding default tags: %w", err)
	}
	return nil
}
