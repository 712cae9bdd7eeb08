package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductStockLevel(t *testing.T) {
	tests := []struct {
		qty, min int
		want     string
	}{
		{0, 10, StockOut},
		{1, 10, StockLow},
		{10, 10, StockLow},
		{11, 10, StockIn},
		{5, 0, StockIn},
	}
	for _, tt := range tests {
		p := Product{Quantity: tt.qty, MinStockLevel: tt.min}
		assert.Equal(t, tt.want, p.StockLevel(), "qty=%d min=%d", tt.qty, tt.min)
	}
}

func TestCategoryNameKey(t *testing.T) {
	assert.Equal(t, "electronics", CategoryNameKey("  Electronics "))
	assert.Equal(t, CategoryNameKey("GROCERIES"), CategoryNameKey("groceries"))
}

func TestNormalizeSKU(t *testing.T) {
	blank := "   "
	assert.Nil(t, NormalizeSKU(nil))
	assert.Nil(t, NormalizeSKU(&blank))

	sku := " AB-1 "
	got := NormalizeSKU(&sku)
	if assert.NotNil(t, got) {
		assert.Equal(t, "AB-1", *got)
	}
	assert.Equal(t, "AB-1", Product{SKU: got}.SKUValue())
	assert.Equal(t, "", Product{}.SKUValue())
}

func TestPaymentEnums(t *testing.T) {
	assert.True(t, PaymentCard.Valid())
	assert.True(t, PaymentDigitalWallet.Valid())
	assert.False(t, PaymentMethod("cheque").Valid())
	assert.True(t, PaymentRefunded.Valid())
	assert.False(t, PaymentStatus("").Valid())
}
