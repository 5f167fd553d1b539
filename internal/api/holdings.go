package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/holdings"
)

// holdingRoutes serves create, update and delete for one holding collection.
type holdingRoutes[T holdings.Item] struct {
	store holdings.Store[T]
}

func (hr holdingRoutes[T]) create(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := hr.store.Create(r.Context(), withPortfolio(item, r.PathValue("id")))
	if err != nil {
		writeServiceError(w, "create holding", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (hr holdingRoutes[T]) get(w http.ResponseWriter, r *http.Request) {
	item, err := hr.owned(r)
	if err != nil {
		writeServiceError(w, "get holding", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (hr holdingRoutes[T]) update(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := hr.owned(r); err != nil {
		writeServiceError(w, "update holding", err)
		return
	}
	item = withID(withPortfolio(item, r.PathValue("id")), r.PathValue("holdingID"))
	updated, err := hr.store.Update(r.Context(), item)
	if err != nil {
		writeServiceError(w, "update holding", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (hr holdingRoutes[T]) delete(w http.ResponseWriter, r *http.Request) {
	if _, err := hr.owned(r); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("holding %s does not exist: %w", r.PathValue("holdingID"), domain.ErrInvalidOperation)
		}
		writeServiceError(w, "delete holding", err)
		return
	}
	if err := hr.store.Delete(r.Context(), r.PathValue("holdingID")); err != nil {
		writeServiceError(w, "delete holding", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// owned loads the holding named in the path. A holding of another portfolio is
// reported as missing.
func (hr holdingRoutes[T]) owned(r *http.Request) (T, error) {
	id, portfolioID := r.PathValue("holdingID"), r.PathValue("id")
	item, err := hr.store.Get(r.Context(), id)
	if err != nil {
		var zero T
		return zero, err
	}
	if item == nil || portfolioOf(*item) != portfolioID {
		var zero T
		return zero, fmt.Errorf("holding %s in portfolio %s: %w", id, portfolioID, domain.ErrNotFound)
	}
	return *item, nil
}

func portfolioOf[T holdings.Item](item T) string {
	switch v := any(item).(type) {
	case domain.Stock:
		return v.PortfolioID
	case domain.ETF:
		return v.PortfolioID
	case domain.Property:
		return v.PortfolioID
	}
	return ""
}

func withPortfolio[T holdings.Item](item T, portfolioID string) T {
	switch v := any(&item).(type) {
	case *domain.Stock:
		v.PortfolioID = portfolioID
	case *domain.ETF:
		v.PortfolioID = portfolioID
	case *domain.Property:
		v.PortfolioID = portfolioID
	}
	return item
}

func withID[T holdings.Item](item T, id string) T {
	switch v := any(&item).(type) {
	case *domain.Stock:
		v.ID = id
	case *domain.ETF:
		v.ID = id
	case *domain.Property:
		v.ID = id
	}
	return item
}

func registerHoldingRoutes[T holdings.Item](mux *http.ServeMux, collection string, store holdings.Store[T], protect func(http.HandlerFunc) http.Handler) {
	hr := holdingRoutes[T]{store: store}
	base := "/api/v1/portfolios/{id}/" + collection
	mux.Handle("POST "+base, protect(hr.create))
	mux.HandleFunc("GET "+base+"/{holdingID}", hr.get)
	mux.Handle("PUT "+base+"/{holdingID}", protect(hr.update))
	mux.Handle("DELETE "+base+"/{holdingID}", protect(hr.delete))
}
