package reststore

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/store"
	"github.com/talkincode/stockledger/pkg/common"
)

func (s *Store) InsertSale(ctx context.Context, sale *domain.Sale) (int64, error) {
	if sale.ID == 0 {
		sale.ID = common.UUIDint64()
	}
	now := time.Now().UTC()
	if sale.SaleDate.IsZero() {
		sale.SaleDate = now
	}
	sale.CreatedAt = now
	if _, err := s.client.do(ctx, "InsertSale", http.MethodPost, saleTable, nil, fromSale(sale), preferMinimal); err != nil {
		return 0, err
	}
	return sale.ID, nil
}

func (s *Store) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	items, err := s.sales(ctx, "GetSale", q)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, store.New(store.ErrNotFound, "GetSale")
	}
	return &items[0], nil
}

func saleQuery(f store.SaleFilter) url.Values {
	q := url.Values{}
	q.Set("select", "*")
	if f.From != nil {
		q.Add("sale_date", "gte."+f.From.UTC().Format(time.RFC3339Nano))
	}
	if f.To != nil {
		q.Add("sale_date", "lt."+f.To.UTC().Format(time.RFC3339Nano))
	}
	if f.PaymentMethod != "" {
		q.Add("payment_method", "eq."+string(f.PaymentMethod))
	}
	if f.PaymentStatus != "" {
		q.Add("payment_status", "eq."+string(f.PaymentStatus))
	}
	if f.ProductID != nil {
		q.Add("product_id", "eq."+strconv.FormatInt(*f.ProductID, 10))
	}
	return q
}

func (s *Store) sales(ctx context.Context, op string, q url.Values) ([]domain.Sale, error) {
	resp, err := s.client.do(ctx, op, http.MethodGet, saleTable, q, nil, "")
	if err != nil {
		return nil, err
	}
	var rows []saleRow
	if err := s.client.decode(op, resp, &rows); err != nil {
		return nil, err
	}
	items := make([]domain.Sale, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toDomain())
	}
	return items, nil
}

func (s *Store) ListSales(ctx context.Context, f store.SaleFilter) ([]domain.Sale, error) {
	q := saleQuery(f)
	q.Set("order", "sale_date.desc,id.desc")
	if f.Limit > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return s.sales(ctx, "ListSales", q)
}

func (s *Store) CountSales(ctx context.Context, f store.SaleFilter) (int64, error) {
	return s.count(ctx, "CountSales", saleTable, saleQuery(f))
}
