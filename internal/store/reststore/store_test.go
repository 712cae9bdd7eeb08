package reststore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/stockledger/config"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/store"
)

func newTestStore(t *testing.T, h http.HandlerFunc) *Store {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(config.RestConfig{BaseURL: srv.URL + "/rest/v1", APIKey: "anon-key"})
}

func TestListProductsQuery(t *testing.T) {
	var got *http.Request
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1844674407370955161,"name":"Wireless Mouse","category_id":7,"price":29.99,"quantity":5,"min_stock_level":10,"is_active":true}]`)
	})

	rows, err := s.ListProducts(context.Background(), store.ProductFilter{
		CategoryID:          store.Int64(7),
		ActiveOnly:          true,
		QuantityGreaterThan: store.Int(0),
		Limit:               20,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1844674407370955161, rows[0].ID)
	assert.True(t, decimal.RequireFromString("29.99").Equal(rows[0].Price))

	require.NotNil(t, got)
	assert.Equal(t, "/rest/v1/product", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "eq.7", q.Get("category_id"))
	assert.Equal(t, "eq.true", q.Get("is_active"))
	assert.Equal(t, "gt.0", q.Get("quantity"))
	assert.Equal(t, "name.asc,id.asc", q.Get("order"))
	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "anon-key", got.Header.Get("apikey"))
	assert.Equal(t, "Bearer anon-key", got.Header.Get("Authorization"))
}

func TestLowStockFilteredLocally(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gt.0", r.URL.Query().Get("quantity"))
		_, _ = io.WriteString(w, `[
			{"id":1,"name":"A","quantity":3,"min_stock_level":10},
			{"id":2,"name":"B","quantity":30,"min_stock_level":10},
			{"id":3,"name":"C","quantity":10,"min_stock_level":10}]`)
	})
	n, err := s.CountProducts(context.Background(), store.ProductFilter{StockLevel: domain.StockLow})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCountSalesUsesContentRange(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
		assert.Equal(t, []string{"gte.2026-03-01T00:00:00Z", "lt.2026-04-01T00:00:00Z"}, r.URL.Query()["sale_date"])
		w.Header().Set("Content-Range", "0-0/42")
		_, _ = io.WriteString(w, `[{"id":1}]`)
	})
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	n, err := s.CountSales(context.Background(), store.SaleFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)
}

func TestGetProductNotFound(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	_, err := s.GetProduct(context.Background(), 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateProductQuantity(t *testing.T) {
	var body string
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.5", r.URL.Query().Get("id"))
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		_, _ = io.WriteString(w, `[{"id":5}]`)
	})
	require.NoError(t, s.UpdateProductQuantity(context.Background(), 5, 8))
	assert.Contains(t, body, `"quantity":8`)

	assert.ErrorIs(t, s.UpdateProductQuantity(context.Background(), 5, -1), store.ErrConstraint)
}

func TestInsertSale(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/sale", r.URL.Path)
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))
		w.WriteHeader(http.StatusCreated)
	})
	sale := &domain.Sale{ProductID: 1, QuantitySold: 2, PaymentMethod: domain.PaymentCash, PaymentStatus: domain.PaymentCompleted}
	id, err := s.InsertSale(context.Background(), sale)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, sale.ID, id)
	assert.False(t, sale.SaleDate.IsZero())
}

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unique", http.StatusConflict, `{"code":"23505","message":"duplicate key"}`, store.ErrConstraint},
		{"check", http.StatusBadRequest, `{"code":"23514","message":"violates check constraint"}`, store.ErrConstraint},
		{"rls", http.StatusForbidden, `{"code":"42501","message":"permission denied"}`, store.ErrPermission},
		{"down", http.StatusServiceUnavailable, ``, store.ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := s.InsertSale(context.Background(), &domain.Sale{})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUnreachableServiceIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	s := New(config.RestConfig{BaseURL: srv.URL})

	_, err := s.GetProduct(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.True(t, store.Retryable(err))
}

func TestDeleteCategoryInUse(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Range", "0-0/3")
		_, _ = io.WriteString(w, `[{"id":1}]`)
	})
	assert.ErrorIs(t, s.DeleteCategory(context.Background(), 7), store.ErrInUse)
}
