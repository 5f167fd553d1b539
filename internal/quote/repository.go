package quote

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that no quote is stored for a symbol.
var ErrNotFound = errors.New("quote not found")

// Quote is the latest close of a listed symbol.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Ticker    string          `json:"ticker"`
	Price     decimal.Decimal `json:"price"`
	AsOf      time.Time       `json:"asOf"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Repository defines persistent storage for quotes.
type Repository interface {
	SaveQuote(ctx context.Context, q Quote) error
	GetQuote(ctx context.Context, symbol string) (Quote, error)
	GetAllQuotes(ctx context.Context) ([]Quote, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL quote repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) SaveQuote(ctx context.Context, q Quote) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO quotes (symbol, ticker, price, as_of, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (symbol) DO UPDATE SET ticker = $2, price = $3, as_of = $4, updated_at = $5`,
		q.Symbol, q.Ticker, q.Price, q.AsOf, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving quote for %s: %w", q.Symbol, err)
	}
	return nil
}

func (r *PgRepository) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	var q Quote
	err := r.pool.QueryRow(ctx,
		`SELECT symbol, ticker, price, as_of, updated_at FROM quotes WHERE symbol = $1`,
		symbol).Scan(&q.Symbol, &q.Ticker, &q.Price, &q.AsOf, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, ErrNotFound
	}
	if err != nil {
		return Quote{}, fmt.Errorf("getting quote for %s: %w", symbol, err)
	}
	return q, nil
}

func (r *PgRepository) GetAllQuotes(ctx context.Context) ([]Quote, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT symbol, ticker, price, as_of, updated_at FROM quotes ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("getting all quotes: %w", err)
	}
	defer rows.Close()

	var quotes []Quote
	for rows.Next() {
		var q Quote
		if err := rows.Scan(&q.Symbol, &q.Ticker, &q.Price, &q.AsOf, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// MemoryRepository keeps quotes in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

// NewMemoryRepository creates an empty in-memory quote repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{quotes: make(map[string]Quote)}
}

func (r *MemoryRepository) SaveQuote(_ context.Context, q Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes[q.Symbol] = q
	return nil
}

func (r *MemoryRepository) GetQuote(_ context.Context, symbol string) (Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.quotes[symbol]
	if !ok {
		return Quote{}, ErrNotFound
	}
	return q, nil
}

func (r *MemoryRepository) GetAllQuotes(_ context.Context) ([]Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quotes := lo.Values(r.quotes)
	slices.SortFunc(quotes, func(a, b Quote) int { return strings.Compare(a.Symbol, b.Symbol) })
	return quotes, nil
}
