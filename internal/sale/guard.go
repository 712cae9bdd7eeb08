package sale

import (
	"context"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/shopspring/decimal"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/pricing"
	"github.com/talkincode/stockledger/internal/saga"
	"github.com/talkincode/stockledger/internal/store"
	"go.uber.org/zap"
)

// DefaultStoreTimeout bounds every store call made by the guard.
const DefaultStoreTimeout = 10 * time.Second

// Customer contact fields, all optional.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate applies the basic format check on email.
func (c Customer) Validate() error {
	if email := strings.TrimSpace(c.Email); email != "" && !strings.Contains(email, "@") {
		return invalid("customer.email", "must contain @")
	}
	return nil
}

// Request is everything CompleteSale needs. Prices are never taken from it.
// SaleID, when set, is used as the ledger id so that retrying the same request
// never records a second sale.
type Request struct {
	SaleID        int64
	ProductID     int64
	Quantity      int
	Customer      Customer
	PaymentMethod domain.PaymentMethod
	PaymentStatus domain.PaymentStatus
	Discount      decimal.Decimal
	Notes         string
}

// Validate checks the request shape.
func (r Request) Validate() error {
	if r.ProductID == 0 {
		return invalid("product_id", "a product must be selected")
	}
	if r.Quantity < 1 {
		return invalid("quantity", "must be at least 1")
	}
	if !r.PaymentMethod.Valid() {
		return invalid("payment_method", "unknown payment method %q", r.PaymentMethod)
	}
	if !r.PaymentStatus.Valid() {
		return invalid("payment_status", "unknown payment status %q", r.PaymentStatus)
	}
	return r.Customer.Validate()
}

// Guard records a sale and decrements inventory as a saga: ledger insert
// first, journal entry, then the catalog decrement.
type Guard struct {
	catalog    store.Catalog
	ledger     store.Ledger
	journal    saga.Journal
	bus        EventBus.Bus
	calculator func() pricing.Calculator
	timeout    time.Duration
	now        func() time.Time
}

type GuardOption func(*Guard)

// WithJournal records saga entries in j.
func WithJournal(j saga.Journal) GuardOption {
	return func(g *Guard) { g.journal = j }
}

// WithBus publishes sale events on bus.
func WithBus(bus EventBus.Bus) GuardOption {
	return func(g *Guard) { g.bus = bus }
}

// WithTimeout bounds each store call.
func WithTimeout(d time.Duration) GuardOption {
	return func(g *Guard) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithCalculator supplies the calculator used for each sale, read per call
// so rate changes apply without a restart.
func WithCalculator(fn func() pricing.Calculator) GuardOption {
	return func(g *Guard) {
		if fn != nil {
			g.calculator = fn
		}
	}
}

func NewGuard(catalog store.Catalog, ledger store.Ledger, opts ...GuardOption) *Guard {
	g := &Guard{
		catalog:    catalog,
		ledger:     ledger,
		calculator: pricing.NewCalculator,
		timeout:    DefaultStoreTimeout,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Calculator returns the calculator in effect.
func (g *Guard) Calculator() pricing.Calculator {
	return g.calculator()
}

// CompleteSale records the sale and decrements stock.
//
// Nothing is written unless the request is valid and the freshly read product
// has enough stock. Once the ledger insert has been sent, caller cancellation
// is no longer honored. When the decrement fails after the insert, the
// recorded sale is returned together with a *PartialCommitError.
func (g *Guard) CompleteSale(ctx context.Context, req Request) (*domain.Sale, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap(store.ErrUnavailable, "CompleteSale", err)
	}

	product, err := g.getProduct(ctx, req.ProductID)
	if err != nil {
		if store.Kind(err) == store.ErrNotFound {
			return nil, invalid("product_id", "product %d not found", req.ProductID)
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, invalid("product_id", "product %q is not active", product.Name)
	}

	quote, err := g.calculator().Quote(product.Price, req.Quantity, req.PaymentMethod, req.Discount)
	if err != nil {
		return nil, invalid("pricing", err.Error())
	}
	if req.Quantity > product.Quantity {
		return nil, &StockError{ProductID: product.ID, Requested: req.Quantity, Available: product.Quantity}
	}
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap(store.ErrUnavailable, "CompleteSale", err)
	}

	record := &domain.Sale{
		ID:            req.SaleID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		CustomerName:  strings.TrimSpace(req.Customer.Name),
		CustomerEmail: strings.TrimSpace(req.Customer.Email),
		CustomerPhone: strings.TrimSpace(req.Customer.Phone),
		QuantitySold:  req.Quantity,
		UnitPrice:     product.Price,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
		SaleDate:      g.now(),
		Notes:         strings.TrimSpace(req.Notes),
	}
	quote.Apply(record)

	// from here on writes run to completion
	detached := context.WithoutCancel(ctx)

	id, err := g.insertSale(detached, record)
	if err != nil {
		earlier, found := g.recordedEarlier(detached, req, err)
		if !found {
			return nil, err
		}
		record, id = earlier, earlier.ID
	}
	record.ID = id

	target := product.Quantity - record.QuantitySold
	if target < 0 {
		// only reachable for a sale adopted from an earlier attempt
		cause := &StockError{ProductID: product.ID, Requested: record.QuantitySold, Available: product.Quantity}
		g.publish(domain.TopicSalePartialCommit, record)
		return record, &PartialCommitError{Sale: record, Cause: cause}
	}
	entry := g.beginSaga(detached, record, product, target)

	if err := g.updateQuantity(detached, product.ID, target); err != nil {
		g.markSaga(detached, entry, domain.SagaInventoryPending, err.Error())
		g.publish(domain.TopicSalePartialCommit, record)
		zap.L().Warn("sale recorded but stock not adjusted",
			zap.Int64("sale_id", record.ID),
			zap.Int64("product_id", product.ID),
			zap.Int("quantity_before", product.Quantity),
			zap.Int("quantity_target", target),
			zap.Error(err),
			zap.String("namespace", "sale"),
		)
		return record, &PartialCommitError{Sale: record, Cause: err}
	}

	g.markSaga(detached, entry, domain.SagaInventoryConfirmed, "")
	g.publish(domain.TopicSaleCompleted, record)
	if target <= product.MinStockLevel {
		g.publish(domain.TopicStockLow, domain.StockLowEvent{
			ProductID:     product.ID,
			ProductName:   product.Name,
			SKU:           product.SKUValue(),
			Quantity:      target,
			MinStockLevel: product.MinStockLevel,
		})
	}
	zap.L().Info("sale completed",
		zap.Int64("sale_id", record.ID),
		zap.Int64("product_id", product.ID),
		zap.Int("quantity", req.Quantity),
		zap.String("final_amount", record.FinalAmount.StringFixed(pricing.AmountPlaces)),
		zap.String("namespace", "sale"),
	)
	return record, nil
}

func (g *Guard) getProduct(ctx context.Context, id int64) (*domain.Product, error) {
	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	p, err := g.catalog.GetProduct(cctx, id)
	return p, storeErr("GetProduct", err)
}

func (g *Guard) insertSale(ctx context.Context, record *domain.Sale) (int64, error) {
	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	id, err := g.ledger.InsertSale(cctx, record)
	return id, storeErr("InsertSale", err)
}

// recordedEarlier returns the sale written by an earlier attempt of the same
// request whose insert reached the ledger although that attempt saw a failure.
func (g *Guard) recordedEarlier(ctx context.Context, req Request, insertErr error) (*domain.Sale, bool) {
	if req.SaleID == 0 || store.Kind(insertErr) != store.ErrConstraint {
		return nil, false
	}
	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	earlier, err := g.ledger.GetSale(cctx, req.SaleID)
	if err != nil || earlier.ProductID != req.ProductID {
		return nil, false
	}
	zap.L().Info("sale already recorded by an earlier attempt",
		zap.Int64("sale_id", earlier.ID),
		zap.String("namespace", "sale"),
	)
	return earlier, true
}

func (g *Guard) updateQuantity(ctx context.Context, id int64, quantity int) error {
	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return storeErr("UpdateProductQuantity", g.catalog.UpdateProductQuantity(cctx, id, quantity))
}

// beginSaga journals the sale. A journal failure never fails the sale, the
// entry is then simply missing and the failure is logged.
func (g *Guard) beginSaga(ctx context.Context, record *domain.Sale, product *domain.Product, target int) *domain.SaleSaga {
	if g.journal == nil {
		return nil
	}
	entry := &domain.SaleSaga{
		SaleID:         record.ID,
		ProductID:      product.ID,
		QuantitySold:   record.QuantitySold,
		QuantityBefore: product.Quantity,
		QuantityTarget: target,
	}
	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	if err := g.journal.Begin(cctx, entry); err != nil {
		zap.L().Error("saga journal begin failed",
			zap.Int64("sale_id", record.ID),
			zap.Error(err),
			zap.String("namespace", "sale"),
		)
		return nil
	}
	return entry
}

func (g *Guard) markSaga(ctx context.Context, entry *domain.SaleSaga, status, errMsg string) {
	if g.journal == nil || entry == nil {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	if err := g.journal.UpdateStatus(cctx, entry.ID, status, errMsg); err != nil {
		zap.L().Error("saga journal update failed",
			zap.Int64("saga_id", entry.ID),
			zap.String("status", status),
			zap.Error(err),
			zap.String("namespace", "sale"),
		)
		return
	}
	entry.Status = status
	entry.ErrorMsg = errMsg
}

func (g *Guard) publish(topic string, arg interface{}) {
	if g.bus == nil {
		return
	}
	g.bus.Publish(topic, arg)
}
