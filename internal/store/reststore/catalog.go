package reststore

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/stockledger/config"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/store"
	"github.com/talkincode/stockledger/pkg/common"
)

const (
	productTable  = "product"
	categoryTable = "category"
	saleTable     = "sale"

	preferRepresentation = "return=representation"
	preferMinimal        = "return=minimal"
	preferCount          = "count=exact"
)

// Store implements store.Catalog and store.Ledger over the REST data service.
type Store struct {
	client *Client
}

func New(cfg config.RestConfig) *Store {
	return &Store{client: NewClient(cfg)}
}

var (
	_ store.Catalog = (*Store)(nil)
	_ store.Ledger  = (*Store)(nil)
)

// productQuery builds the server side filter. Stock levels comparing two
// columns cannot be expressed as a filter and are returned for local use.
func productQuery(f store.ProductFilter) (url.Values, string) {
	q := url.Values{}
	q.Set("select", "*")
	if f.CategoryID != nil {
		q.Add("category_id", "eq."+strconv.FormatInt(*f.CategoryID, 10))
	}
	if f.ActiveOnly {
		q.Add("is_active", "eq.true")
	}
	if f.QuantityGreaterThan != nil {
		q.Add("quantity", "gt."+strconv.Itoa(*f.QuantityGreaterThan))
	}
	if term := likeTerm(f.Search); term != "" {
		q.Add("or", "(name.ilike.*"+term+"*,sku.ilike.*"+term+"*,description.ilike.*"+term+"*)")
	}
	local := ""
	switch f.StockLevel {
	case domain.StockOut:
		q.Add("quantity", "lte.0")
	case domain.StockLow:
		q.Add("quantity", "gt.0")
		local = domain.StockLow
	case domain.StockIn:
		local = domain.StockIn
	}
	return q, local
}

func (s *Store) products(ctx context.Context, op string, q url.Values) ([]domain.Product, error) {
	resp, err := s.client.do(ctx, op, http.MethodGet, productTable, q, nil, "")
	if err != nil {
		return nil, err
	}
	var rows []productRow
	if err := s.client.decode(op, resp, &rows); err != nil {
		return nil, err
	}
	items := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toDomain())
	}
	return items, nil
}

func (s *Store) ListProducts(ctx context.Context, f store.ProductFilter) ([]domain.Product, error) {
	q, local := productQuery(f)
	field, desc := store.ProductSort(f.Sort)
	dir := ".asc"
	if desc {
		dir = ".desc"
	}
	q.Set("order", field+dir+",id.asc")
	if f.Limit > 0 && local == "" {
		q.Set("offset", strconv.Itoa(f.Offset))
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	items, err := s.products(ctx, "ListProducts", q)
	if err != nil || local == "" {
		return items, err
	}
	kept := items[:0]
	for _, p := range items {
		if p.StockLevel() == local {
			kept = append(kept, p)
		}
	}
	if f.Limit > 0 {
		return window(kept, f.Offset, f.Limit), nil
	}
	return kept, nil
}

func (s *Store) CountProducts(ctx context.Context, f store.ProductFilter) (int64, error) {
	q, local := productQuery(f)
	if local != "" {
		f.Offset, f.Limit = 0, 0
		items, err := s.ListProducts(ctx, f)
		if err != nil {
			return 0, err
		}
		return int64(len(items)), nil
	}
	return s.count(ctx, "CountProducts", productTable, q)
}

func (s *Store) count(ctx context.Context, op, table string, q url.Values) (int64, error) {
	q.Set("select", "id")
	q.Set("limit", "1")
	resp, err := s.client.do(ctx, op, http.MethodGet, table, q, nil, preferCount)
	if err != nil {
		return 0, err
	}
	if resp.total < 0 {
		return 0, store.Wrap(store.ErrUnavailable, op, errors.New("missing content-range total"))
	}
	return resp.total, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	q.Set("limit", "1")
	items, err := s.products(ctx, "GetProduct", q)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, store.New(store.ErrNotFound, "GetProduct")
	}
	return &items[0], nil
}

// patch updates one row by id and reports how many rows came back.
func (s *Store) patch(ctx context.Context, op, table string, id int64, body interface{}) (int, error) {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	q.Set("select", "id")
	resp, err := s.client.do(ctx, op, http.MethodPatch, table, q, body, preferRepresentation)
	if err != nil {
		return 0, err
	}
	var ids []struct {
		ID int64 `json:"id"`
	}
	if err := s.client.decode(op, resp, &ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *Store) UpdateProductQuantity(ctx context.Context, id int64, newQuantity int) error {
	if newQuantity < 0 {
		return store.New(store.ErrConstraint, "UpdateProductQuantity")
	}
	n, err := s.patch(ctx, "UpdateProductQuantity", productTable, id, map[string]interface{}{
		"quantity":   newQuantity,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.New(store.ErrNotFound, "UpdateProductQuantity")
	}
	return nil
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == 0 {
		p.ID = common.UUIDint64()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.client.do(ctx, "CreateProduct", http.MethodPost, productTable, nil, fromProduct(p), preferMinimal)
	return err
}

func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()
	body, err := patchBody(fromProduct(p), "id", "created_at")
	if err != nil {
		return store.Wrap(store.ErrConstraint, "UpdateProduct", err)
	}
	n, err := s.patch(ctx, "UpdateProduct", productTable, p.ID, body)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.New(store.ErrNotFound, "UpdateProduct")
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context, f store.CategoryFilter) ([]domain.Category, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "name.asc")
	if f.ActiveOnly {
		q.Add("is_active", "eq.true")
	}
	if term := likeTerm(f.Search); term != "" {
		q.Add("or", "(name.ilike.*"+term+"*,description.ilike.*"+term+"*)")
	}
	return s.categories(ctx, "ListCategories", q)
}

func (s *Store) categories(ctx context.Context, op string, q url.Values) ([]domain.Category, error) {
	resp, err := s.client.do(ctx, op, http.MethodGet, categoryTable, q, nil, "")
	if err != nil {
		return nil, err
	}
	var rows []categoryRow
	if err := s.client.decode(op, resp, &rows); err != nil {
		return nil, err
	}
	items := make([]domain.Category, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toDomain())
	}
	return items, nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	items, err := s.categories(ctx, "GetCategory", q)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, store.New(store.ErrNotFound, "GetCategory")
	}
	return &items[0], nil
}

func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	if c.ID == 0 {
		c.ID = common.UUIDint64()
	}
	c.NameKey = domain.CategoryNameKey(c.Name)
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := s.client.do(ctx, "CreateCategory", http.MethodPost, categoryTable, nil, fromCategory(c), preferMinimal)
	return err
}

func (s *Store) UpdateCategory(ctx context.Context, c *domain.Category) error {
	c.NameKey = domain.CategoryNameKey(c.Name)
	c.UpdatedAt = time.Now().UTC()
	body, err := patchBody(fromCategory(c), "id", "created_at")
	if err != nil {
		return store.Wrap(store.ErrConstraint, "UpdateCategory", err)
	}
	n, err := s.patch(ctx, "UpdateCategory", categoryTable, c.ID, body)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.New(store.ErrNotFound, "UpdateCategory")
	}
	return nil
}

func (s *Store) CountProductsInCategory(ctx context.Context, categoryID int64) (int64, error) {
	q := url.Values{}
	q.Set("category_id", "eq."+strconv.FormatInt(categoryID, 10))
	return s.count(ctx, "CountProductsInCategory", productTable, q)
}

// DeleteCategory refuses while products reference the category. The service
// foreign key covers the window between the check and the delete.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	inUse, err := s.CountProductsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return store.New(store.ErrInUse, "DeleteCategory")
	}
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	q.Set("select", "id")
	resp, err := s.client.do(ctx, "DeleteCategory", http.MethodDelete, categoryTable, q, nil, preferRepresentation)
	if err != nil {
		if errors.Is(err, store.ErrConstraint) {
			return store.Wrap(store.ErrInUse, "DeleteCategory", err)
		}
		return err
	}
	var ids []struct {
		ID int64 `json:"id"`
	}
	if err := s.client.decode("DeleteCategory", resp, &ids); err != nil {
		return err
	}
	if len(ids) == 0 {
		return store.New(store.ErrNotFound, "DeleteCategory")
	}
	return nil
}
