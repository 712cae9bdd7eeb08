// Package store defines the catalog and ledger contracts consumed by the sale
// workflow, plus the error classes every backend maps its failures onto.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/pkg/common"
)

// ProductFilter narrows ListProducts. Nil pointers mean "no constraint".
type ProductFilter struct {
	CategoryID          *int64
	ActiveOnly          bool
	QuantityGreaterThan *int
	Search              string // name, sku or description, case-insensitive
	StockLevel          string // domain.StockIn, domain.StockLow, domain.StockOut
	Sort                string // see ProductSort
	Offset              int
	Limit               int
}

// ProductSortFields are the columns products may be ordered by.
var ProductSortFields = []string{"name", "price", "quantity", "created_at", "updated_at"}

// ProductSort parses a sort key such as "price" or "-created_at". Unknown
// fields fall back to name; a leading "-" means descending.
func ProductSort(key string) (field string, desc bool) {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "-") {
		key, desc = key[1:], true
	}
	if common.InSlice(key, ProductSortFields) {
		return key, desc
	}
	return "name", desc
}

// CategoryFilter narrows ListCategories.
type CategoryFilter struct {
	ActiveOnly bool
	Search     string
}

// SaleFilter narrows ListSales. From is inclusive, To exclusive.
type SaleFilter struct {
	From          *time.Time
	To            *time.Time
	PaymentMethod domain.PaymentMethod
	PaymentStatus domain.PaymentStatus
	ProductID     *int64
	Offset        int
	Limit         int
}

// Catalog holds products and categories.
type Catalog interface {
	// ListProducts returns matching products ordered by filter.Sort, then id.
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)

	// CountProducts returns the number of products matching filter, ignoring paging.
	CountProducts(ctx context.Context, filter ProductFilter) (int64, error)

	// GetProduct returns the current product or ErrNotFound.
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// UpdateProductQuantity sets the on-hand quantity.
	UpdateProductQuantity(ctx context.Context, id int64, newQuantity int) error

	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error

	// ListCategories returns matching categories ordered by name.
	ListCategories(ctx context.Context, filter CategoryFilter) ([]domain.Category, error)

	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error

	// DeleteCategory removes a category. It fails with ErrInUse while any
	// product references it.
	DeleteCategory(ctx context.Context, id int64) error

	// CountProductsInCategory counts products referencing the category.
	CountProductsInCategory(ctx context.Context, categoryID int64) (int64, error)
}

// Ledger holds sale records.
type Ledger interface {
	// InsertSale appends a sale and returns its id.
	InsertSale(ctx context.Context, s *domain.Sale) (int64, error)

	GetSale(ctx context.Context, id int64) (*domain.Sale, error)

	// ListSales returns matching sales, most recent sale_date first.
	ListSales(ctx context.Context, filter SaleFilter) ([]domain.Sale, error)

	// CountSales returns the number of sales matching filter, ignoring paging.
	CountSales(ctx context.Context, filter SaleFilter) (int64, error)
}

// Int64 returns a pointer to v, for filter fields.
func Int64(v int64) *int64 { return &v }

// Int returns a pointer to v, for filter fields.
func Int(v int) *int { return &v }

// Time returns a pointer to v, for filter fields.
func Time(v time.Time) *time.Time { return &v }
