package reststore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/talkincode/stockledger/internal/domain"
)

// The service returns bigint ids as JSON numbers, so the wire rows carry
// plain int64 fields instead of the string-encoded ids of the domain types.

type productRow struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	SKU           *string             `json:"sku"`
	CategoryID    int64               `json:"category_id"`
	Price         decimal.Decimal     `json:"price"`
	CostPrice     decimal.NullDecimal `json:"cost_price"`
	Quantity      int                 `json:"quantity"`
	MinStockLevel int                 `json:"min_stock_level"`
	ImageURL      string              `json:"image_url"`
	IsActive      bool                `json:"is_active"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func fromProduct(p *domain.Product) productRow {
	return productRow{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		CategoryID:    p.CategoryID,
		Price:         p.Price,
		CostPrice:     p.CostPrice,
		Quantity:      p.Quantity,
		MinStockLevel: p.MinStockLevel,
		ImageURL:      p.ImageURL,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (r productRow) toDomain() domain.Product {
	return domain.Product{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		SKU:           r.SKU,
		CategoryID:    r.CategoryID,
		Price:         r.Price,
		CostPrice:     r.CostPrice,
		Quantity:      r.Quantity,
		MinStockLevel: r.MinStockLevel,
		ImageURL:      r.ImageURL,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type categoryRow struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	NameKey     string    `json:"name_key"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func fromCategory(c *domain.Category) categoryRow {
	return categoryRow{
		ID:          c.ID,
		Name:        c.Name,
		NameKey:     domain.CategoryNameKey(c.Name),
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (r categoryRow) toDomain() domain.Category {
	return domain.Category{
		ID:          r.ID,
		Name:        r.Name,
		NameKey:     r.NameKey,
		Description: r.Description,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type saleRow struct {
	ID              int64                `json:"id"`
	ProductID       int64                `json:"product_id"`
	ProductName     string               `json:"product_name"`
	CustomerName    string               `json:"customer_name"`
	CustomerEmail   string               `json:"customer_email"`
	CustomerPhone   string               `json:"customer_phone"`
	QuantitySold    int                  `json:"quantity_sold"`
	UnitPrice       decimal.Decimal      `json:"unit_price"`
	SubtotalAmount  decimal.Decimal      `json:"subtotal_amount"`
	SurchargeAmount decimal.Decimal      `json:"surcharge_amount"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	DiscountAmount  decimal.Decimal      `json:"discount_amount"`
	FinalAmount     decimal.Decimal      `json:"final_amount"`
	PaymentMethod   domain.PaymentMethod `json:"payment_method"`
	PaymentStatus   domain.PaymentStatus `json:"payment_status"`
	SaleDate        time.Time            `json:"sale_date"`
	Notes           string               `json:"notes"`
	CreatedAt       time.Time            `json:"created_at"`
}

func fromSale(s *domain.Sale) saleRow {
	return saleRow{
		ID:              s.ID,
		ProductID:       s.ProductID,
		ProductName:     s.ProductName,
		CustomerName:    s.CustomerName,
		CustomerEmail:   s.CustomerEmail,
		CustomerPhone:   s.CustomerPhone,
		QuantitySold:    s.QuantitySold,
		UnitPrice:       s.UnitPrice,
		SubtotalAmount:  s.SubtotalAmount,
		SurchargeAmount: s.SurchargeAmount,
		TotalAmount:     s.TotalAmount,
		DiscountAmount:  s.DiscountAmount,
		FinalAmount:     s.FinalAmount,
		PaymentMethod:   s.PaymentMethod,
		PaymentStatus:   s.PaymentStatus,
		SaleDate:        s.SaleDate,
		Notes:           s.Notes,
		CreatedAt:       s.CreatedAt,
	}
}

func (r saleRow) toDomain() domain.Sale {
	return domain.Sale{
		ID:              r.ID,
		ProductID:       r.ProductID,
		ProductName:     r.ProductName,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		QuantitySold:    r.QuantitySold,
		UnitPrice:       r.UnitPrice,
		SubtotalAmount:  r.SubtotalAmount,
		SurchargeAmount: r.SurchargeAmount,
		TotalAmount:     r.TotalAmount,
		DiscountAmount:  r.DiscountAmount,
		FinalAmount:     r.FinalAmount,
		PaymentMethod:   r.PaymentMethod,
		PaymentStatus:   r.PaymentStatus,
		SaleDate:        r.SaleDate,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
	}
}
