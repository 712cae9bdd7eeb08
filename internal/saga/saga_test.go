package saga

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/store"
	"github.com/talkincode/stockledger/internal/store/memstore"
	"github.com/talkincode/stockledger/internal/testutil"
)

func journals(t *testing.T) map[string]Journal {
	bolt, err := OpenBoltJournal(filepath.Join(t.TempDir(), "saga.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })
	return map[string]Journal{
		"gorm": NewGormJournal(testutil.OpenSQLite(t)),
		"bolt": bolt,
	}
}

func seedProduct(t *testing.T, catalog store.Catalog, qty int) *domain.Product {
	p := &domain.Product{Name: "Wireless Mouse", Price: decimal.RequireFromString("29.99"), Quantity: qty, MinStockLevel: 2, IsActive: true}
	require.NoError(t, catalog.CreateProduct(context.Background(), p))
	return p
}

func pendingEntry(t *testing.T, j Journal, p *domain.Product, saleID int64, sold int) *domain.SaleSaga {
	ctx := context.Background()
	entry := &domain.SaleSaga{
		SaleID:         saleID,
		ProductID:      p.ID,
		QuantitySold:   sold,
		QuantityBefore: p.Quantity,
		QuantityTarget: p.Quantity - sold,
	}
	require.NoError(t, j.Begin(ctx, entry))
	require.NoError(t, j.UpdateStatus(ctx, entry.ID, domain.SagaInventoryPending, "timeout"))
	return entry
}

func newReconciler(t *testing.T, j Journal, catalog store.Catalog, opts Options) *Reconciler {
	r, err := NewReconciler(j, catalog, opts)
	require.NoError(t, err)
	t.Cleanup(r.Stop)
	return r
}

func TestJournalContract(t *testing.T) {
	for name, j := range journals(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			entry := &domain.SaleSaga{SaleID: 501, ProductID: 9, QuantitySold: 2, QuantityBefore: 5, QuantityTarget: 3}
			require.NoError(t, j.Begin(ctx, entry))
			assert.NotZero(t, entry.ID)
			assert.Equal(t, domain.SagaSaleWritten, entry.Status)

			got, err := j.GetBySale(ctx, 501)
			require.NoError(t, err)
			assert.Equal(t, entry.ID, got.ID)

			require.NoError(t, j.UpdateStatus(ctx, entry.ID, domain.SagaInventoryConfirmed, ""))
			got, err = j.Get(ctx, entry.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.SagaInventoryConfirmed, got.Status)
			assert.NotNil(t, got.ConfirmedAt)

			require.NoError(t, j.IncrementRetry(ctx, entry.ID))
			got, err = j.Get(ctx, entry.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, got.RetryCount)

			rows, total, err := j.List(ctx, domain.SagaInventoryConfirmed, 1, 10)
			require.NoError(t, err)
			assert.EqualValues(t, 1, total)
			assert.Len(t, rows, 1)

			rows, total, err = j.List(ctx, domain.SagaManual, 1, 10)
			require.NoError(t, err)
			assert.Zero(t, total)
			assert.Empty(t, rows)

			require.NoError(t, j.AppendLog(ctx, &domain.SaleSagaLog{SagaID: entry.ID, SaleID: 501, Action: "begin", Status: "success"}))
			logs, err := j.Logs(ctx, entry.ID)
			require.NoError(t, err)
			assert.Len(t, logs, 1)

			require.NoError(t, j.DeleteLogsOlderThan(ctx, 30))
			logs, err = j.Logs(ctx, entry.ID)
			require.NoError(t, err)
			assert.Len(t, logs, 1)

			_, err = j.Get(ctx, 123456)
			assert.ErrorIs(t, err, ErrEntryNotFound)
			assert.ErrorIs(t, j.UpdateStatus(ctx, 123456, domain.SagaManual, ""), ErrEntryNotFound)
		})
	}
}

func TestReconcileWritesMissingDecrement(t *testing.T) {
	for name, j := range journals(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			catalog := memstore.New()
			p := seedProduct(t, catalog, 5)
			entry := pendingEntry(t, j, p, 1001, 2)

			report, err := newReconciler(t, j, catalog, Options{}).RunOnce(ctx)
			require.NoError(t, err)
			assert.Equal(t, Report{Scanned: 1, Written: 1}, report)

			got, err := catalog.GetProduct(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, 3, got.Quantity)

			saved, err := j.Get(ctx, entry.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.SagaInventoryConfirmed, saved.Status)

			logs, err := j.Logs(ctx, entry.ID)
			require.NoError(t, err)
			require.NotEmpty(t, logs)
			assert.Equal(t, "reconcile", logs[0].Action)
		})
	}
}

func TestReconcileConfirmsAppliedDecrement(t *testing.T) {
	ctx := context.Background()
	j := NewGormJournal(testutil.OpenSQLite(t))
	catalog := memstore.New()
	p := seedProduct(t, catalog, 5)
	entry := pendingEntry(t, j, p, 1002, 2)
	require.NoError(t, catalog.UpdateProductQuantity(ctx, p.ID, 3))

	report, err := newReconciler(t, j, catalog, Options{}).RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Confirmed)

	got, err := catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)

	saved, err := j.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SagaInventoryConfirmed, saved.Status)
}

func TestReconcileDriftNeedsOperator(t *testing.T) {
	ctx := context.Background()
	j := NewGormJournal(testutil.OpenSQLite(t))
	catalog := memstore.New()
	p := seedProduct(t, catalog, 5)
	entry := pendingEntry(t, j, p, 1003, 2)
	require.NoError(t, catalog.UpdateProductQuantity(ctx, p.ID, 9))

	r := newReconciler(t, j, catalog, Options{})
	report, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Manual)

	got, err := catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Quantity, "drifted stock is never overwritten")

	saved, err := j.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SagaManual, saved.Status)
	assert.Contains(t, saved.ErrorMsg, "drifted")

	resolved, err := r.Resolve(ctx, entry.ID, "counted shelf")
	require.NoError(t, err)
	assert.Equal(t, domain.SagaResolved, resolved.Status)

	_, err = r.Resolve(ctx, entry.ID, "again")
	assert.ErrorIs(t, err, ErrNotManual)
}

type downCatalog struct {
	store.Catalog
}

func (downCatalog) GetProduct(context.Context, int64) (*domain.Product, error) {
	return nil, store.New(store.ErrUnavailable, "GetProduct")
}

func TestReconcileRetriesThenGivesUp(t *testing.T) {
	ctx := context.Background()
	j := NewGormJournal(testutil.OpenSQLite(t))
	mem := memstore.New()
	p := seedProduct(t, mem, 5)
	entry := pendingEntry(t, j, p, 1004, 1)

	r := newReconciler(t, j, downCatalog{Catalog: mem}, Options{MaxRetry: 2})

	report, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	saved, err := j.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SagaInventoryPending, saved.Status)
	assert.Equal(t, 1, saved.RetryCount)

	_, err = r.RunOnce(ctx)
	require.NoError(t, err)
	saved, err = j.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SagaManual, saved.Status)
	assert.Contains(t, saved.ErrorMsg, "retries exhausted")

	report, err = r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Scanned)
}

func TestStaleWrittenEntriesAfterGrace(t *testing.T) {
	ctx := context.Background()
	j := NewGormJournal(testutil.OpenSQLite(t))
	catalog := memstore.New()
	p := seedProduct(t, catalog, 4)
	require.NoError(t, j.Begin(ctx, &domain.SaleSaga{SaleID: 1005, ProductID: p.ID, QuantitySold: 1, QuantityBefore: 4, QuantityTarget: 3}))

	report, err := newReconciler(t, j, catalog, Options{Grace: time.Hour}).RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Scanned, "fresh entries belong to an in-flight sale")

	time.Sleep(5 * time.Millisecond)
	report, err = newReconciler(t, j, catalog, Options{Grace: time.Millisecond}).RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Written)
}
