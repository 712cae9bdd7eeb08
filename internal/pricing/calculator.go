// Package pricing computes sale totals with exact decimal arithmetic.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/talkincode/stockledger/internal/domain"
)

// CardSurchargeRate is the card processing fee passed through to the customer.
var CardSurchargeRate = decimal.RequireFromString("0.03")

// AmountPlaces is the number of decimal places kept for currency amounts.
const AmountPlaces int32 = 2

var (
	ErrNegativePrice   = errors.New("unit price must not be negative")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidMethod   = errors.New("unknown payment method")
)

// Quote is the full price breakdown of a sale.
type Quote struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Surcharge decimal.Decimal `json:"surcharge"`
	Total     decimal.Decimal `json:"total"`
	Discount  decimal.Decimal `json:"discount"`
	Final     decimal.Decimal `json:"final"`
}

// Calculator holds the surcharge rate so callers never embed it.
type Calculator struct {
	SurchargeRate decimal.Decimal
}

// NewCalculator returns a calculator using CardSurchargeRate.
func NewCalculator() Calculator {
	return Calculator{SurchargeRate: CardSurchargeRate}
}

// WithRate returns a calculator using rate, or the default rate when rate is negative.
func WithRate(rate decimal.Decimal) Calculator {
	if rate.IsNegative() {
		return NewCalculator()
	}
	return Calculator{SurchargeRate: rate}
}

// Subtotal is unitPrice multiplied by quantity, exact.
func Subtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Surcharge returns the fee due on subtotal for method, rounded half away from zero.
func (c Calculator) Surcharge(subtotal decimal.Decimal, method domain.PaymentMethod) decimal.Decimal {
	if method != domain.PaymentCard {
		return decimal.Zero
	}
	return subtotal.Mul(c.SurchargeRate).Round(AmountPlaces)
}

// ClampDiscount bounds discount to [0, total].
func ClampDiscount(discount, total decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(total) {
		return total
	}
	return discount
}

// Quote computes subtotal, surcharge, total and final amount. The discount is
// rounded to AmountPlaces and clamped to the total, so Final is never negative
// and never carries fractions of a cent.
func (c Calculator) Quote(unitPrice decimal.Decimal, quantity int, method domain.PaymentMethod, discount decimal.Decimal) (Quote, error) {
	if unitPrice.IsNegative() {
		return Quote{}, ErrNegativePrice
	}
	if quantity < 1 {
		return Quote{}, ErrInvalidQuantity
	}
	if !method.Valid() {
		return Quote{}, ErrInvalidMethod
	}
	subtotal := Subtotal(unitPrice, quantity)
	surcharge := c.Surcharge(subtotal, method)
	total := subtotal.Add(surcharge)
	discount = ClampDiscount(discount.Round(AmountPlaces), total)
	return Quote{
		Subtotal:  subtotal,
		Surcharge: surcharge,
		Total:     total,
		Discount:  discount,
		Final:     total.Sub(discount),
	}, nil
}

// Apply copies the quote into the money fields of a sale.
func (q Quote) Apply(s *domain.Sale) {
	s.SubtotalAmount = q.Subtotal
	s.SurchargeAmount = q.Surcharge
	s.TotalAmount = q.Total
	s.DiscountAmount = q.Discount
	s.FinalAmount = q.Final
}
