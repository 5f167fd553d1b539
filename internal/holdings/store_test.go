package holdings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newStockStore(items ...domain.Stock) *MemoryStore[domain.Stock] {
	s := NewMemoryStore(items...)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestMemoryStoreCreateAssignsID(t *testing.T) {
	s := newStockStore()
	ctx := context.Background()

	created, err := s.Create(ctx, domain.Stock{Lot: domain.Lot{
		PortfolioID: "p1", Symbol: "BHP.AX", Quantity: d("10"), PurchasePrice: d("45"), Currency: "AUD",
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create did not assign an id")
	}
	if !created.CreatedAt.Equal(fixedNow) || !created.UpdatedAt.Equal(fixedNow) {
		t.Errorf("timestamps = %v/%v, want %v", created.CreatedAt, created.UpdatedAt, fixedNow)
	}

	got, _ := s.Get(ctx, created.ID)
	if got == nil || got.Symbol != "BHP.AX" {
		t.Errorf("Get() = %+v, want BHP.AX", got)
	}
}

func TestMemoryStoreCreateValidates(t *testing.T) {
	s := newStockStore()

	_, err := s.Create(context.Background(), domain.Stock{Lot: domain.Lot{Symbol: "BAD", Quantity: d("-1")}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}

	_, err = s.Create(context.Background(), domain.Stock{Lot: domain.Lot{Symbol: "BAD", Currency: "XXZ"}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("currency err = %v, want ErrValidation", err)
	}
}

func TestMemoryStoreCreateDuplicateID(t *testing.T) {
	s := newStockStore(mockStocks()...)

	_, err := s.Create(context.Background(), mockStocks()[0])
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Errorf("err = %v, want ErrInvalidOperation", err)
	}
}

func TestMemoryStoreListByPortfolio(t *testing.T) {
	other := mockStocks()[0]
	other.ID, other.PortfolioID = "x", "other"
	s := newStockStore(append(mockStocks(), other)...)

	demo, _ := s.List(context.Background(), MockPortfolioID)
	if len(demo) != 3 {
		t.Errorf("List(demo) = %d, want 3", len(demo))
	}
	all, _ := s.List(context.Background(), "")
	if len(all) != 4 {
		t.Errorf("List(all) = %d, want 4", len(all))
	}
	if all[0].Symbol != "CBA.AX" || all[3].ID != "x" {
		t.Error("List did not preserve insertion order")
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := newStockStore(mockStocks()...)
	ctx := context.Background()

	cba := mockStocks()[0]
	cba.CurrentPrice = decimal.NewNullDecimal(d("110"))
	cba.CreatedAt = time.Time{}

	updated, err := s.Update(ctx, cba)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.CreatedAt.Equal(date("2023-01-15")) {
		t.Errorf("CreatedAt = %v, want original", updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(fixedNow) {
		t.Errorf("UpdatedAt = %v, want %v", updated.UpdatedAt, fixedNow)
	}

	missing := cba
	missing.ID = "nope"
	if _, err := s.Update(ctx, missing); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing update err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := newStockStore(mockStocks()...)
	ctx := context.Background()

	if err := s.Delete(ctx, "2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := s.Get(ctx, "2"); got != nil {
		t.Error("holding still present after delete")
	}
	list, _ := s.List(ctx, "")
	if len(list) != 2 {
		t.Errorf("List() = %d, want 2", len(list))
	}

	if err := s.Delete(ctx, "2"); !errors.Is(err, domain.ErrInvalidOperation) {
		t.Errorf("second delete err = %v, want ErrInvalidOperation", err)
	}
}

func TestMemoryStoreProperty(t *testing.T) {
	s := NewMemoryStore[domain.Property]()
	ctx := context.Background()

	_, err := s.Create(ctx, domain.Property{PurchasePrice: d("1")})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing address err = %v, want ErrValidation", err)
	}

	p, err := s.Create(ctx, mockProperties()[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "6" {
		t.Errorf("ID = %q, want the supplied id 6", p.ID)
	}
}
