// Package report derives dashboard figures, summaries, exports and receipts
// from the catalog and ledger.
package report

import (
	"context"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/pricing"
	"github.com/talkincode/stockledger/internal/store"
	"golang.org/x/sync/errgroup"
)

// DashboardStats headline numbers
type DashboardStats struct {
	TotalProducts int64           `json:"total_products"`
	TotalSales    int64           `json:"total_sales"`
	LowStock      int64           `json:"low_stock"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// Dashboard runs the headline queries in parallel. Low stock counts active
// products at or under their threshold, out of stock included. Revenue is
// the final amount of completed sales.
func Dashboard(ctx context.Context, catalog store.Catalog, ledger store.Ledger) (*DashboardStats, error) {
	var (
		result       DashboardStats
		low, out     int64
		completedSum decimal.Decimal
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		result.TotalProducts, err = catalog.CountProducts(ctx, store.ProductFilter{ActiveOnly: true})
		return err
	})
	g.Go(func() (err error) {
		result.TotalSales, err = ledger.CountSales(ctx, store.SaleFilter{})
		return err
	})
	g.Go(func() (err error) {
		low, err = catalog.CountProducts(ctx, store.ProductFilter{ActiveOnly: true, StockLevel: domain.StockLow})
		return err
	})
	g.Go(func() (err error) {
		out, err = catalog.CountProducts(ctx, store.ProductFilter{ActiveOnly: true, StockLevel: domain.StockOut})
		return err
	})
	g.Go(func() error {
		sales, err := ledger.ListSales(ctx, store.SaleFilter{PaymentStatus: domain.PaymentCompleted})
		if err != nil {
			return err
		}
		completedSum = sumFinal(sales)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.LowStock = low + out
	result.Revenue = completedSum
	return &result, nil
}

func sumFinal(sales []domain.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.FinalAmount)
	}
	return total
}

// Summary aggregates a set of sales. Revenue and the distribution figures
// cover completed sales only.
type Summary struct {
	Count     int                                      `json:"count"`
	Completed int                                      `json:"completed"`
	Revenue   decimal.Decimal                          `json:"revenue"`
	Mean      decimal.Decimal                          `json:"mean"`
	Median    decimal.Decimal                          `json:"median"`
	P90       decimal.Decimal                          `json:"p90"`
	ByMethod  map[domain.PaymentMethod]decimal.Decimal `json:"by_method"`
}

// Summarize computes the summary. Revenue and per-method totals are exact;
// mean, median and p90 are statistics rounded to cents.
func Summarize(sales []domain.Sale) Summary {
	s := Summary{
		Count:    len(sales),
		Revenue:  decimal.Zero,
		Mean:     decimal.Zero,
		Median:   decimal.Zero,
		P90:      decimal.Zero,
		ByMethod: make(map[domain.PaymentMethod]decimal.Decimal),
	}
	var amounts stats.Float64Data
	for _, sale := range sales {
		if sale.PaymentStatus != domain.PaymentCompleted {
			continue
		}
		s.Completed++
		s.Revenue = s.Revenue.Add(sale.FinalAmount)
		s.ByMethod[sale.PaymentMethod] = s.ByMethod[sale.PaymentMethod].Add(sale.FinalAmount)
		amounts = append(amounts, sale.FinalAmount.InexactFloat64())
	}
	if len(amounts) == 0 {
		return s
	}
	if v, err := stats.Mean(amounts); err == nil {
		s.Mean = cents(v)
	}
	if v, err := stats.Median(amounts); err == nil {
		s.Median = cents(v)
	}
	if v, err := stats.Percentile(amounts, 90); err == nil {
		s.P90 = cents(v)
	}
	return s
}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(pricing.AmountPlaces)
}
