package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/stockledger/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func TestQuoteCashNoDiscount(t *testing.T) {
	q, err := NewCalculator().Quote(d("29.99"), 2, domain.PaymentCash, decimal.Zero)
	require.NoError(t, err)

	assertAmount(t, "59.98", q.Subtotal, "subtotal")
	assertAmount(t, "0", q.Surcharge, "surcharge")
	assertAmount(t, "59.98", q.Total, "total")
	assertAmount(t, "59.98", q.Final, "final")
}

func TestQuoteCardWithDiscount(t *testing.T) {
	q, err := NewCalculator().Quote(d("19.99"), 1, domain.PaymentCard, d("2.00"))
	require.NoError(t, err)

	assertAmount(t, "19.99", q.Subtotal, "subtotal")
	assertAmount(t, "0.60", q.Surcharge, "surcharge")
	assertAmount(t, "20.59", q.Total, "total")
	assertAmount(t, "2.00", q.Discount, "discount")
	assertAmount(t, "18.59", q.Final, "final")
}

func TestSurchargeOnlyForCard(t *testing.T) {
	calc := NewCalculator()
	for _, m := range domain.PaymentMethods {
		q, err := calc.Quote(d("100.00"), 3, m, decimal.Zero)
		require.NoError(t, err)
		if m == domain.PaymentCard {
			assertAmount(t, "9.00", q.Surcharge, string(m))
		} else {
			assertAmount(t, "0", q.Surcharge, string(m))
		}
		assert.True(t, q.Final.Equal(q.Subtotal.Add(q.Surcharge).Sub(q.Discount)))
	}
}

func TestSurchargeRoundsHalfAwayFromZero(t *testing.T) {
	calc := NewCalculator()
	// 0.50 * 0.03 = 0.015
	assertAmount(t, "0.02", calc.Surcharge(d("0.50"), domain.PaymentCard), "surcharge")
	// 0.49 * 0.03 = 0.0147
	assertAmount(t, "0.01", calc.Surcharge(d("0.49"), domain.PaymentCard), "surcharge")
}

func TestSubtotalIsExact(t *testing.T) {
	assertAmount(t, "0.30", Subtotal(d("0.10"), 3), "subtotal")

	sum := decimal.Zero
	for i := 0; i < 1000; i++ {
		sum = sum.Add(Subtotal(d("0.01"), 1))
	}
	assertAmount(t, "10.00", sum, "repeated addition")
	assertAmount(t, "10.00", Subtotal(d("0.01"), 1000), "multiplied")
}

func TestDiscountIsClamped(t *testing.T) {
	calc := NewCalculator()

	q, err := calc.Quote(d("10.00"), 1, domain.PaymentCash, d("25.00"))
	require.NoError(t, err)
	assertAmount(t, "10.00", q.Discount, "discount")
	assertAmount(t, "0", q.Final, "final")

	q, err = calc.Quote(d("10.00"), 1, domain.PaymentCash, d("-3"))
	require.NoError(t, err)
	assertAmount(t, "0", q.Discount, "discount")
	assertAmount(t, "10.00", q.Final, "final")

	assertAmount(t, "5", ClampDiscount(d("5"), d("7")), "in range")
	assertAmount(t, "7", ClampDiscount(d("9"), d("7")), "above total")
}

func TestDiscountRoundsToMinorUnits(t *testing.T) {
	calc := NewCalculator()

	q, err := calc.Quote(d("19.99"), 1, domain.PaymentCard, d("1.005"))
	require.NoError(t, err)
	assertAmount(t, "20.59", q.Total, "total")
	assertAmount(t, "1.01", q.Discount, "discount")
	assertAmount(t, "19.58", q.Final, "final")
	assert.True(t, q.Final.Equal(q.Total.Sub(q.Discount)))

	q, err = calc.Quote(d("10.00"), 1, domain.PaymentCash, d("0.004"))
	require.NoError(t, err)
	assertAmount(t, "0", q.Discount, "discount")
	assertAmount(t, "10.00", q.Final, "final")

	// rounding happens before the clamp
	q, err = calc.Quote(d("10.00"), 1, domain.PaymentCash, d("10.004"))
	require.NoError(t, err)
	assertAmount(t, "10.00", q.Discount, "discount")
	assertAmount(t, "0", q.Final, "final")
}

func TestQuoteRejectsBadInput(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.Quote(d("-1"), 1, domain.PaymentCash, decimal.Zero)
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = calc.Quote(d("1"), 0, domain.PaymentCash, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = calc.Quote(d("1"), 1, domain.PaymentMethod("cheque"), decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestQuoteIsDeterministic(t *testing.T) {
	calc := NewCalculator()
	a, err := calc.Quote(d("7.77"), 7, domain.PaymentCard, d("1.11"))
	require.NoError(t, err)
	b, err := calc.Quote(d("7.77"), 7, domain.PaymentCard, d("1.11"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestZeroPriceIsAllowed(t *testing.T) {
	q, err := NewCalculator().Quote(decimal.Zero, 4, domain.PaymentCard, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, q.Final.IsZero())
}

func TestWithRate(t *testing.T) {
	calc := WithRate(d("0.05"))
	assertAmount(t, "5.00", calc.Surcharge(d("100"), domain.PaymentCard), "custom rate")

	calc = WithRate(d("-1"))
	assert.True(t, calc.SurchargeRate.Equal(CardSurchargeRate))
}

func TestQuoteApply(t *testing.T) {
	q, err := NewCalculator().Quote(d("19.99"), 1, domain.PaymentCard, d("2.00"))
	require.NoError(t, err)

	var s domain.Sale
	q.Apply(&s)
	assertAmount(t, "19.99", s.SubtotalAmount, "subtotal")
	assertAmount(t, "0.60", s.SurchargeAmount, "surcharge")
	assertAmount(t, "20.59", s.TotalAmount, "total")
	assertAmount(t, "2.00", s.DiscountAmount, "discount")
	assertAmount(t, "18.59", s.FinalAmount, "final")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "LKR 1,234.56", FormatAmount("LKR", d("1234.56")))
	assert.Equal(t, "LKR 59.98", FormatAmount("", d("59.98")))
	assert.Equal(t, "LKR 0.60", FormatAmount("LKR", d("0.6")))
}
