package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMinStockLevel is the low stock threshold given to new products.
const DefaultMinStockLevel = 10

// Product is a catalog item. Quantity is the on-hand stock and is never negative.
type Product struct {
	ID            int64               `json:"id,string" gorm:"primaryKey"`
	Name          string              `json:"name" gorm:"size:200;index;not null"`
	Description   string              `json:"description" gorm:"size:1000"`
	SKU           *string             `json:"sku" gorm:"size:64;uniqueIndex"`
	CategoryID    int64               `json:"category_id,string" gorm:"index;not null"`
	Price         decimal.Decimal     `json:"price" gorm:"type:decimal(12,2);not null"`
	CostPrice     decimal.NullDecimal `json:"cost_price" gorm:"type:decimal(12,2)"`
	Quantity      int                 `json:"quantity" gorm:"not null"`
	MinStockLevel int                 `json:"min_stock_level" gorm:"not null"`
	ImageURL      string              `json:"image_url" gorm:"size:1024"`
	IsActive      bool                `json:"is_active" gorm:"index"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "product"
}

// Stock levels reported by StockLevel
const (
	StockOut = "out_of_stock"
	StockLow = "low_stock"
	StockIn  = "in_stock"
)

// StockLevel classifies the on-hand quantity against the product threshold.
func (p Product) StockLevel() string {
	switch {
	case p.Quantity <= 0:
		return StockOut
	case p.Quantity <= p.MinStockLevel:
		return StockLow
	default:
		return StockIn
	}
}

// IsLowStock reports whether the product is at or under its threshold.
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.MinStockLevel
}

// SKUValue returns the SKU or an empty string.
func (p Product) SKUValue() string {
	if p.SKU == nil {
		return ""
	}
	return *p.SKU
}

// NormalizeSKU trims the SKU and maps blanks to nil so several products may omit it.
func NormalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	v := strings.TrimSpace(*sku)
	if v == "" {
		return nil
	}
	return &v
}
