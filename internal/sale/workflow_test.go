package sale

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/store"
)

type workflow struct {
	f        *fixture
	products map[string]domain.Product
	record   *domain.Sale
	err      error
}

func (w *workflow) aProduct(name, price string, qty int) error {
	p := &domain.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		Quantity:      qty,
		MinStockLevel: 2,
		IsActive:      true,
	}
	if err := w.f.mem.CreateProduct(context.Background(), p); err != nil {
		return err
	}
	w.products[name] = *p
	return nil
}

func (w *workflow) catalogRejectsUpdates() error {
	w.f.catalog.failUpdate = store.New(store.ErrUnavailable, "UpdateProductQuantity")
	return nil
}

func (w *workflow) product(name string) (domain.Product, error) {
	p, ok := w.products[name]
	if !ok {
		return p, fmt.Errorf("unknown product %q", name)
	}
	return p, nil
}

func (w *workflow) iSell(qty int, name, method, discount string) error {
	p, err := w.product(name)
	if err != nil {
		return err
	}
	c := NewComposer(w.f.guard)
	if err := c.SelectProduct(p, qty); err != nil {
		return err
	}
	if err := c.SetCustomer(Customer{}); err != nil {
		return err
	}
	if err := c.UpdatePayment(Payment{
		Method:   domain.PaymentMethod(method),
		Discount: decimal.RequireFromString(discount),
	}); err != nil {
		return err
	}
	w.record, w.err = c.Confirm(context.Background())
	return nil
}

func (w *workflow) tillSubmits(qty int, name, method string) error {
	p, err := w.product(name)
	if err != nil {
		return err
	}
	w.record, w.err = w.f.guard.CompleteSale(context.Background(), Request{
		ProductID:     p.ID,
		Quantity:      qty,
		PaymentMethod: domain.PaymentMethod(method),
		PaymentStatus: domain.PaymentCompleted,
	})
	return nil
}

func (w *workflow) startAndCancel(qty int, name string) error {
	p, err := w.product(name)
	if err != nil {
		return err
	}
	c := NewComposer(w.f.guard)
	if err := c.SelectProduct(p, qty); err != nil {
		return err
	}
	if err := c.SetCustomer(Customer{Name: "Walk-in"}); err != nil {
		return err
	}
	return c.Cancel()
}

func (w *workflow) saleCompleted() error {
	if w.err != nil {
		return fmt.Errorf("expected success, got %v", w.err)
	}
	if w.record == nil || w.record.ID == 0 {
		return fmt.Errorf("no sale recorded")
	}
	return nil
}

func (w *workflow) salePartiallyCommitted() error {
	if Code(w.err) != CodePartialCommit {
		return fmt.Errorf("expected partial commit, got %v", w.err)
	}
	if w.record == nil {
		return fmt.Errorf("partial commit must carry the sale")
	}
	return nil
}

func (w *workflow) saleFailsWith(code string) error {
	if got := Code(w.err); got != code {
		return fmt.Errorf("expected %s, got %s (%v)", code, got, w.err)
	}
	return nil
}

func equalAmount(field string, got decimal.Decimal, want string) error {
	if !got.Equal(decimal.RequireFromString(want)) {
		return fmt.Errorf("%s: expected %s, got %s", field, want, got.StringFixed(2))
	}
	return nil
}

func (w *workflow) finalAmountIs(want string) error {
	return equalAmount("final amount", w.record.FinalAmount, want)
}

func (w *workflow) surchargeIs(want string) error {
	return equalAmount("surcharge", w.record.SurchargeAmount, want)
}

func (w *workflow) productHasStock(name string, qty int) error {
	p, err := w.product(name)
	if err != nil {
		return err
	}
	got, err := w.f.mem.GetProduct(context.Background(), p.ID)
	if err != nil {
		return err
	}
	if got.Quantity != qty {
		return fmt.Errorf("%s: expected %d in stock, got %d", name, qty, got.Quantity)
	}
	return nil
}

func (w *workflow) ledgerHolds(n int) error {
	count, err := w.f.mem.CountSales(context.Background(), store.SaleFilter{})
	if err != nil {
		return err
	}
	if count != int64(n) {
		return fmt.Errorf("expected %d sales, got %d", n, count)
	}
	return nil
}

func (w *workflow) noStoreCalled() error {
	if n := w.f.storeCalls(); n != 0 {
		return fmt.Errorf("expected no store calls, got %d", n)
	}
	return nil
}

func initializeScenario(t *testing.T) func(ctx *godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		w := &workflow{}
		ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
			w.f = newFixture(t)
			w.products = map[string]domain.Product{}
			w.record, w.err = nil, nil
			return c, nil
		})

		ctx.Step(`^a product "([^"]*)" priced (\d+\.\d{2}) with (\d+) in stock$`, w.aProduct)
		ctx.Step(`^the catalog rejects stock updates$`, w.catalogRejectsUpdates)
		ctx.Step(`^I sell (\d+) "([^"]*)" paid by (\w+) with discount (\d+\.\d{2})$`, w.iSell)
		ctx.Step(`^the till submits (\d+) "([^"]*)" paid by (\w+)$`, w.tillSubmits)
		ctx.Step(`^I start a sale of (\d+) "([^"]*)" and cancel it$`, w.startAndCancel)
		ctx.Step(`^the sale is completed$`, w.saleCompleted)
		ctx.Step(`^the sale is partially committed$`, w.salePartiallyCommitted)
		ctx.Step(`^the sale fails with "([^"]*)"$`, w.saleFailsWith)
		ctx.Step(`^the final amount is (\d+\.\d{2})$`, w.finalAmountIs)
		ctx.Step(`^the surcharge is (\d+\.\d{2})$`, w.surchargeIs)
		ctx.Step(`^"([^"]*)" has (\d+) in stock$`, w.productHasStock)
		ctx.Step(`^the ledger holds (\d+) sales?$`, w.ledgerHolds)
		ctx.Step(`^no store was called$`, w.noStoreCalled)
	}
}

func TestSaleWorkflowFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario(t),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
