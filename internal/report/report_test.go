package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/store/memstore"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newGolden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func cardSale() domain.Sale {
	return domain.Sale{
		ID:              1001,
		ProductID:       5,
		ProductName:     "Wireless Mouse",
		CustomerName:    "Nimal Perera",
		CustomerEmail:   "nimal@example.com",
		QuantitySold:    2,
		UnitPrice:       amount("29.99"),
		SubtotalAmount:  amount("59.98"),
		SurchargeAmount: amount("1.80"),
		TotalAmount:     amount("61.78"),
		DiscountAmount:  amount("5"),
		FinalAmount:     amount("56.78"),
		PaymentMethod:   domain.PaymentCard,
		PaymentStatus:   domain.PaymentCompleted,
		SaleDate:        time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC),
		Notes:           "gift wrap, urgent",
	}
}

func cashSale() domain.Sale {
	return domain.Sale{
		ID:              1002,
		ProductID:       7,
		ProductName:     "USB Cable",
		QuantitySold:    3,
		UnitPrice:       amount("4.5"),
		SubtotalAmount:  amount("13.5"),
		SurchargeAmount: decimal.Zero,
		TotalAmount:     amount("13.5"),
		DiscountAmount:  decimal.Zero,
		FinalAmount:     amount("13.5"),
		PaymentMethod:   domain.PaymentCash,
		PaymentStatus:   domain.PaymentPending,
		SaleDate:        time.Date(2026, 3, 2, 9, 5, 7, 0, time.UTC),
	}
}

func TestReceipt(t *testing.T) {
	g := newGolden(t)

	var card bytes.Buffer
	s := cardSale()
	require.NoError(t, Receipt{ShopName: "Stock Ledger", Currency: "LKR", Location: time.UTC}.Write(&card, &s))
	g.Assert(t, "receipt_card", card.Bytes())

	var cash bytes.Buffer
	s = cashSale()
	require.NoError(t, Receipt{Location: time.UTC}.Write(&cash, &s))
	g.Assert(t, "receipt_cash", cash.Bytes())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []domain.Sale{cardSale(), cashSale()}, time.UTC))
	newGolden(t).Assert(t, "sales_export", buf.Bytes())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, "XLSX", []domain.Sale{cardSale(), cashSale()}, time.UTC))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Sale ID", f.GetCellValue(xlsxSheet, "A1"))
	assert.Equal(t, "Notes", f.GetCellValue(xlsxSheet, "M1"))
	assert.Equal(t, "1001", f.GetCellValue(xlsxSheet, "A2"))
	assert.Equal(t, "56.78", f.GetCellValue(xlsxSheet, "I2"))
	assert.Equal(t, "gift wrap, urgent", f.GetCellValue(xlsxSheet, "M2"))
	assert.Equal(t, "cash", f.GetCellValue(xlsxSheet, "J3"))
}

func TestExportNaming(t *testing.T) {
	day := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "sales-report-2026-03-09.csv", ExportFilename("", day))
	assert.Equal(t, "sales-report-2026-03-09.xlsx", ExportFilename("xlsx", day))
	assert.Equal(t, "text/csv; charset=utf-8", ContentType("csv"))
	assert.Error(t, Export(&bytes.Buffer{}, "pdf", nil, time.UTC))
}

func TestSummarize(t *testing.T) {
	var sales []domain.Sale
	for i := 1; i <= 10; i++ {
		method := domain.PaymentCash
		if i%2 == 0 {
			method = domain.PaymentCard
		}
		sales = append(sales, domain.Sale{
			FinalAmount:   decimal.NewFromInt(int64(i * 10)),
			PaymentMethod: method,
			PaymentStatus: domain.PaymentCompleted,
		})
	}
	sales = append(sales, domain.Sale{
		FinalAmount:   amount("999.99"),
		PaymentMethod: domain.PaymentCash,
		PaymentStatus: domain.PaymentRefunded,
	})

	s := Summarize(sales)
	assert.Equal(t, 11, s.Count)
	assert.Equal(t, 10, s.Completed)
	assert.Equal(t, "550.00", s.Revenue.StringFixed(2))
	assert.Equal(t, "55.00", s.Mean.StringFixed(2))
	assert.Equal(t, "55.00", s.Median.StringFixed(2))
	assert.Equal(t, "90.00", s.P90.StringFixed(2))
	assert.Equal(t, "250.00", s.ByMethod[domain.PaymentCash].StringFixed(2))
	assert.Equal(t, "300.00", s.ByMethod[domain.PaymentCard].StringFixed(2))
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Count)
	assert.True(t, s.Revenue.IsZero())
	assert.True(t, s.P90.IsZero())
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	products := []*domain.Product{
		{Name: "Plenty", Price: amount("10"), Quantity: 20, MinStockLevel: 5, IsActive: true},
		{Name: "Few", Price: amount("10"), Quantity: 3, MinStockLevel: 5, IsActive: true},
		{Name: "None", Price: amount("10"), Quantity: 0, MinStockLevel: 5, IsActive: true},
		{Name: "Retired", Price: amount("10"), Quantity: 1, MinStockLevel: 5, IsActive: false},
	}
	for _, p := range products {
		require.NoError(t, mem.CreateProduct(ctx, p))
	}
	for _, s := range []domain.Sale{cardSale(), cashSale()} {
		s := s
		_, err := mem.InsertSale(ctx, &s)
		require.NoError(t, err)
	}

	stats, err := Dashboard(ctx, mem, mem)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalProducts)
	assert.EqualValues(t, 2, stats.TotalSales)
	assert.EqualValues(t, 2, stats.LowStock)
	assert.Equal(t, "56.78", stats.Revenue.StringFixed(2))
}

func TestResolveRange(t *testing.T) {
	loc := time.FixedZone("LK", 5*3600+1800)
	now := time.Date(2026, 3, 15, 10, 20, 0, 0, loc)

	from, err := ResolveRange("today", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, loc), *from)

	from, err = ResolveRange("week", now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -7), *from)

	from, err = ResolveRange("quarter", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 15, 10, 20, 0, 0, loc), *from)

	from, err = ResolveRange("all", now)
	require.NoError(t, err)
	assert.Nil(t, from)

	_, err = ResolveRange("decade", now)
	assert.Error(t, err)
}

func TestParseBound(t *testing.T) {
	b, err := ParseBound("2026-03-01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *b)

	b, err = ParseBound("  ", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, b)

	_, err = ParseBound("not a date", time.UTC)
	assert.Error(t, err)
}
