package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCard          PaymentMethod = "card"
	PaymentBankTransfer  PaymentMethod = "bank_transfer"
	PaymentDigitalWallet PaymentMethod = "digital_wallet"
)

var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentBankTransfer, PaymentDigitalWallet}

func (m PaymentMethod) Valid() bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentPending   PaymentStatus = "pending"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

var PaymentStatuses = []PaymentStatus{PaymentCompleted, PaymentPending, PaymentFailed, PaymentRefunded}

func (s PaymentStatus) Valid() bool {
	for _, v := range PaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Sale is an immutable ledger record. UnitPrice is the product price at the
// moment of sale and is never re-read from the catalog.
type Sale struct {
	ID              int64           `json:"id,string" gorm:"primaryKey"`
	ProductID       int64           `json:"product_id,string" gorm:"index;not null"`
	ProductName     string          `json:"product_name" gorm:"size:200"`
	CustomerName    string          `json:"customer_name" gorm:"size:200"`
	CustomerEmail   string          `json:"customer_email" gorm:"size:200"`
	CustomerPhone   string          `json:"customer_phone" gorm:"size:64"`
	QuantitySold    int             `json:"quantity_sold" gorm:"not null"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	SubtotalAmount  decimal.Decimal `json:"subtotal_amount" gorm:"type:decimal(12,2);not null"`
	SurchargeAmount decimal.Decimal `json:"surcharge_amount" gorm:"type:decimal(12,2);not null"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" gorm:"type:decimal(12,2);not null"`
	FinalAmount     decimal.Decimal `json:"final_amount" gorm:"type:decimal(12,2);not null"`
	PaymentMethod   PaymentMethod   `json:"payment_method" gorm:"size:32;index"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"size:32;index"`
	SaleDate        time.Time       `json:"sale_date" gorm:"index"`
	Notes           string          `json:"notes" gorm:"size:1000"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TableName Specify table name
func (Sale) TableName() string {
	return "sale"
}
