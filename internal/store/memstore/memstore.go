// Package memstore is a process-local catalog and ledger used for demos and tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/store"
	"github.com/talkincode/stockledger/pkg/common"
)

type saleKey struct {
	date time.Time
	id   int64
}

func saleKeyLess(a, b saleKey) bool {
	if a.date.Equal(b.date) {
		return a.id < b.id
	}
	return a.date.Before(b.date)
}

// Store keeps products, categories and sales in memory. Sales are indexed by
// sale date so range queries walk only the matching span.
type Store struct {
	mu         sync.RWMutex
	products   map[int64]domain.Product
	categories map[int64]domain.Category
	sales      map[int64]domain.Sale
	byDate     *btree.BTreeG[saleKey]
}

var (
	_ store.Catalog = (*Store)(nil)
	_ store.Ledger  = (*Store)(nil)
)

func New() *Store {
	return &Store{
		products:   make(map[int64]domain.Product),
		categories: make(map[int64]domain.Category),
		sales:      make(map[int64]domain.Sale),
		byDate:     btree.NewG[saleKey](16, saleKeyLess),
	}
}

func ctxErr(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return store.Wrap(store.ErrUnavailable, op, err)
	}
	return nil
}

func matchProduct(p domain.Product, f store.ProductFilter) bool {
	if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
		return false
	}
	if f.ActiveOnly && !p.IsActive {
		return false
	}
	if f.QuantityGreaterThan != nil && p.Quantity <= *f.QuantityGreaterThan {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		hay := strings.ToLower(p.Name + "\n" + p.SKUValue() + "\n" + p.Description)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	if f.StockLevel != "" && p.StockLevel() != f.StockLevel {
		return false
	}
	return true
}

func page[T any](rows []T, offset, limit int) []T {
	if limit <= 0 {
		return rows
	}
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func (s *Store) filterProducts(f store.ProductFilter) []domain.Product {
	rows := make([]domain.Product, 0)
	for _, p := range s.products {
		if matchProduct(p, f) {
			rows = append(rows, p)
		}
	}
	field, desc := store.ProductSort(f.Sort)
	sort.Slice(rows, func(i, j int) bool {
		c := compareProducts(rows[i], rows[j], field)
		if c == 0 {
			return rows[i].ID < rows[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return rows
}

func compareProducts(a, b domain.Product, field string) int {
	switch field {
	case "price":
		return a.Price.Cmp(b.Price)
	case "quantity":
		return a.Quantity - b.Quantity
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return strings.Compare(a.Name, b.Name)
}

func (s *Store) ListProducts(ctx context.Context, f store.ProductFilter) ([]domain.Product, error) {
	if err := ctxErr(ctx, "ListProducts"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return page(s.filterProducts(f), f.Offset, f.Limit), nil
}

func (s *Store) CountProducts(ctx context.Context, f store.ProductFilter) (int64, error) {
	if err := ctxErr(ctx, "CountProducts"); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.filterProducts(f))), nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if err := ctxErr(ctx, "GetProduct"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, store.New(store.ErrNotFound, "GetProduct")
	}
	return &p, nil
}

func (s *Store) UpdateProductQuantity(ctx context.Context, id int64, newQuantity int) error {
	if err := ctxErr(ctx, "UpdateProductQuantity"); err != nil {
		return err
	}
	if newQuantity < 0 {
		return store.New(store.ErrConstraint, "UpdateProductQuantity")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return store.New(store.ErrNotFound, "UpdateProductQuantity")
	}
	p.Quantity = newQuantity
	p.UpdatedAt = time.Now()
	s.products[id] = p
	return nil
}

func (s *Store) skuTaken(sku *string, exceptID int64) bool {
	if sku == nil {
		return false
	}
	for id, p := range s.products {
		if id != exceptID && p.SKU != nil && *p.SKU == *sku {
			return true
		}
	}
	return false
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := ctxErr(ctx, "CreateProduct"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = common.UUIDint64()
	}
	if _, exists := s.products[p.ID]; exists || s.skuTaken(p.SKU, p.ID) {
		return store.New(store.ErrConstraint, "CreateProduct")
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products[p.ID] = *p
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if err := ctxErr(ctx, "UpdateProduct"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.products[p.ID]
	if !ok {
		return store.New(store.ErrNotFound, "UpdateProduct")
	}
	if s.skuTaken(p.SKU, p.ID) {
		return store.New(store.ErrConstraint, "UpdateProduct")
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = time.Now()
	s.products[p.ID] = *p
	return nil
}

func (s *Store) ListCategories(ctx context.Context, f store.CategoryFilter) ([]domain.Category, error) {
	if err := ctxErr(ctx, "ListCategories"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(f.Search))
	rows := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if f.ActiveOnly && !c.IsActive {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Name+"\n"+c.Description), q) {
			continue
		}
		rows = append(rows, c)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	if err := ctxErr(ctx, "GetCategory"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, store.New(store.ErrNotFound, "GetCategory")
	}
	return &c, nil
}

func (s *Store) nameTaken(key string, exceptID int64) bool {
	for id, c := range s.categories {
		if id != exceptID && c.NameKey == key {
			return true
		}
	}
	return false
}

func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	if err := ctxErr(ctx, "CreateCategory"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = common.UUIDint64()
	}
	c.NameKey = domain.CategoryNameKey(c.Name)
	if s.nameTaken(c.NameKey, c.ID) {
		return store.New(store.ErrConstraint, "CreateCategory")
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *domain.Category) error {
	if err := ctxErr(ctx, "UpdateCategory"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.categories[c.ID]
	if !ok {
		return store.New(store.ErrNotFound, "UpdateCategory")
	}
	c.NameKey = domain.CategoryNameKey(c.Name)
	if s.nameTaken(c.NameKey, c.ID) {
		return store.New(store.ErrConstraint, "UpdateCategory")
	}
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = time.Now()
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) countInCategory(categoryID int64) int64 {
	var n int64
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n
}

func (s *Store) CountProductsInCategory(ctx context.Context, categoryID int64) (int64, error) {
	if err := ctxErr(ctx, "CountProductsInCategory"); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countInCategory(categoryID), nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	if err := ctxErr(ctx, "DeleteCategory"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return store.New(store.ErrNotFound, "DeleteCategory")
	}
	if s.countInCategory(id) > 0 {
		return store.New(store.ErrInUse, "DeleteCategory")
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) InsertSale(ctx context.Context, sale *domain.Sale) (int64, error) {
	if err := ctxErr(ctx, "InsertSale"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sale.ID == 0 {
		sale.ID = common.UUIDint64()
	}
	if _, exists := s.sales[sale.ID]; exists {
		return 0, store.New(store.ErrConstraint, "InsertSale")
	}
	now := time.Now()
	if sale.SaleDate.IsZero() {
		sale.SaleDate = now
	}
	sale.CreatedAt = now
	s.sales[sale.ID] = *sale
	s.byDate.ReplaceOrInsert(saleKey{date: sale.SaleDate, id: sale.ID})
	return sale.ID, nil
}

func (s *Store) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	if err := ctxErr(ctx, "GetSale"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sale, ok := s.sales[id]
	if !ok {
		return nil, store.New(store.ErrNotFound, "GetSale")
	}
	return &sale, nil
}

func matchSale(sale domain.Sale, f store.SaleFilter) bool {
	if f.PaymentMethod != "" && sale.PaymentMethod != f.PaymentMethod {
		return false
	}
	if f.PaymentStatus != "" && sale.PaymentStatus != f.PaymentStatus {
		return false
	}
	if f.ProductID != nil && sale.ProductID != *f.ProductID {
		return false
	}
	return true
}

// filterSales walks the date index newest first.
func (s *Store) filterSales(f store.SaleFilter) []domain.Sale {
	rows := make([]domain.Sale, 0)
	s.byDate.Descend(func(k saleKey) bool {
		if f.To != nil && !k.date.Before(*f.To) {
			return true
		}
		if f.From != nil && k.date.Before(*f.From) {
			return false
		}
		if sale := s.sales[k.id]; matchSale(sale, f) {
			rows = append(rows, sale)
		}
		return true
	})
	return rows
}

func (s *Store) ListSales(ctx context.Context, f store.SaleFilter) ([]domain.Sale, error) {
	if err := ctxErr(ctx, "ListSales"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return page(s.filterSales(f), f.Offset, f.Limit), nil
}

func (s *Store) CountSales(ctx context.Context, f store.SaleFilter) (int64, error) {
	if err := ctxErr(ctx, "CountSales"); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.filterSales(f))), nil
}
