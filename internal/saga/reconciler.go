package saga

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/store"
	"go.uber.org/zap"
)

// Options tune a Reconciler. Zero values fall back to defaults.
type Options struct {
	MaxRetry  int
	Workers   int
	BatchSize int
	Grace     time.Duration
	Timeout   time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxRetry <= 0 {
		o.MaxRetry = 3
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	if o.Grace <= 0 {
		o.Grace = 2 * time.Minute
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	return o
}

// Report summarizes one reconciliation pass
type Report struct {
	Scanned   int `json:"scanned"`
	Confirmed int `json:"confirmed"`
	Written   int `json:"written"`
	Manual    int `json:"manual"`
	Failed    int `json:"failed"`
}

type outcome int

const (
	outcomeConfirmed outcome = iota
	outcomeWritten
	outcomeManual
	outcomeFailed
)

func (r *Report) add(o outcome) {
	switch o {
	case outcomeConfirmed:
		r.Confirmed++
	case outcomeWritten:
		r.Written++
	case outcomeManual:
		r.Manual++
	default:
		r.Failed++
	}
}

// Reconciler finishes inventory decrements that a sale could not confirm.
type Reconciler struct {
	journal  Journal
	catalog  store.Catalog
	opts     Options
	pool     *ants.Pool
	maxRetry atomic.Int64
	running  atomic.Bool
	ticker   *time.Ticker
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewReconciler creates a reconciler backed by a worker pool of opts.Workers
func NewReconciler(journal Journal, catalog store.Catalog, opts Options) (*Reconciler, error) {
	opts = opts.withDefaults()
	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, errors.Wrap(err, "create reconcile pool")
	}
	r := &Reconciler{
		journal:  journal,
		catalog:  catalog,
		opts:     opts,
		pool:     pool,
		stopChan: make(chan struct{}),
	}
	r.maxRetry.Store(int64(opts.MaxRetry))
	return r, nil
}

// SetMaxRetry changes the retry budget for subsequent passes
func (r *Reconciler) SetMaxRetry(n int) {
	if n > 0 {
		r.maxRetry.Store(int64(n))
	}
}

// Start begins periodic reconciliation
func (r *Reconciler) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	r.ticker = time.NewTicker(interval)
	go r.syncLoop(ctx)

	zap.L().Info("saga reconciler started",
		zap.Duration("interval", interval),
		zap.Int("workers", r.opts.Workers),
		zap.Int64("max_retry", r.maxRetry.Load()),
	)
}

// Stop halts the loop and releases the worker pool
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() {
		if r.ticker != nil {
			r.ticker.Stop()
		}
		close(r.stopChan)
		r.pool.Release()
		zap.L().Info("saga reconciler stopped")
	})
}

func (r *Reconciler) syncLoop(ctx context.Context) {
	for {
		select {
		case <-r.ticker.C:
			report, err := r.RunOnce(ctx)
			if err != nil {
				if !errors.Is(err, ErrPassRunning) {
					zap.L().Error("reconciliation pass failed", zap.Error(err))
				}
				continue
			}
			if report.Scanned > 0 {
				zap.L().Info("reconciliation pass done", zap.Any("report", report))
			}
		case <-r.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce reconciles every due entry once. Passes never overlap.
func (r *Reconciler) RunOnce(ctx context.Context) (Report, error) {
	var report Report
	if !r.running.CompareAndSwap(false, true) {
		return report, ErrPassRunning
	}
	defer r.running.Store(false)

	entries, err := r.due(ctx)
	if err != nil {
		return report, err
	}
	report.Scanned = len(entries)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, entry := range entries {
		entry := entry
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			o := r.reconcile(ctx, entry)
			mu.Lock()
			report.add(o)
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			report.add(outcomeFailed)
			mu.Unlock()
			zap.L().Warn("reconcile submit failed", zap.Int64("saga_id", entry.ID), zap.Error(err))
		}
	}
	wg.Wait()
	return report, nil
}

func (r *Reconciler) due(ctx context.Context) ([]*domain.SaleSaga, error) {
	pending, err := r.journal.GetRetryable(ctx, int(r.maxRetry.Load()), r.opts.BatchSize)
	if err != nil {
		return nil, errors.Wrap(err, "load pending entries")
	}
	stale, err := r.journal.GetStale(ctx, time.Now().Add(-r.opts.Grace), r.opts.BatchSize)
	if err != nil {
		return nil, errors.Wrap(err, "load stale entries")
	}
	seen := make(map[int64]bool, len(pending)+len(stale))
	entries := make([]*domain.SaleSaga, 0, len(pending)+len(stale))
	for _, e := range append(pending, stale...) {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		entries = append(entries, e)
	}
	return entries, nil
}

// reconcile compares the product quantity with the entry:
// at the before quantity the decrement never landed and is written now,
// at the target it already landed, anything else is drift for an operator.
func (r *Reconciler) reconcile(ctx context.Context, entry *domain.SaleSaga) outcome {
	cctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	product, err := r.catalog.GetProduct(cctx, entry.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.markManual(ctx, entry, "product no longer exists")
			return outcomeManual
		}
		r.retryLater(ctx, entry, err)
		return outcomeFailed
	}

	payload := map[string]interface{}{
		"before":  entry.QuantityBefore,
		"target":  entry.QuantityTarget,
		"current": product.Quantity,
	}
	switch product.Quantity {
	case entry.QuantityTarget:
		r.confirm(ctx, entry, "already applied", payload)
		return outcomeConfirmed
	case entry.QuantityBefore:
		if err := r.catalog.UpdateProductQuantity(cctx, entry.ProductID, entry.QuantityTarget); err != nil {
			r.retryLater(ctx, entry, err)
			return outcomeFailed
		}
		r.confirm(ctx, entry, "decrement written", payload)
		return outcomeWritten
	default:
		msg := fmt.Sprintf("quantity drifted: before %d, target %d, now %d",
			entry.QuantityBefore, entry.QuantityTarget, product.Quantity)
		r.markManual(ctx, entry, msg)
		return outcomeManual
	}
}

func (r *Reconciler) confirm(ctx context.Context, entry *domain.SaleSaga, note string, payload map[string]interface{}) {
	if err := r.journal.UpdateStatus(ctx, entry.ID, domain.SagaInventoryConfirmed, ""); err != nil {
		zap.L().Error("failed to confirm saga entry", zap.Int64("saga_id", entry.ID), zap.Error(err))
		return
	}
	payload["note"] = note
	r.logAttempt(ctx, entry, "reconcile", "success", "", payload)
	zap.L().Info("saga entry reconciled",
		zap.Int64("saga_id", entry.ID),
		zap.Int64("sale_id", entry.SaleID),
		zap.String("note", note),
	)
}

func (r *Reconciler) retryLater(ctx context.Context, entry *domain.SaleSaga, cause error) {
	if err := r.journal.IncrementRetry(ctx, entry.ID); err != nil {
		zap.L().Error("failed to increment retry", zap.Int64("saga_id", entry.ID), zap.Error(err))
	}
	if int64(entry.RetryCount+1) >= r.maxRetry.Load() {
		r.markManual(ctx, entry, "retries exhausted: "+cause.Error())
		return
	}
	if err := r.journal.UpdateStatus(ctx, entry.ID, domain.SagaInventoryPending, cause.Error()); err != nil {
		zap.L().Error("failed to update saga status", zap.Int64("saga_id", entry.ID), zap.Error(err))
	}
	r.logAttempt(ctx, entry, "reconcile", "failure", cause.Error(), nil)
}

func (r *Reconciler) markManual(ctx context.Context, entry *domain.SaleSaga, msg string) {
	if err := r.journal.UpdateStatus(ctx, entry.ID, domain.SagaManual, msg); err != nil {
		zap.L().Error("failed to update saga status", zap.Int64("saga_id", entry.ID), zap.Error(err))
	}
	r.logAttempt(ctx, entry, "manual", "failure", msg, nil)
	zap.L().Warn("saga entry needs manual follow-up",
		zap.Int64("saga_id", entry.ID),
		zap.Int64("sale_id", entry.SaleID),
		zap.Int64("product_id", entry.ProductID),
		zap.String("reason", msg),
	)
}

// Resolve closes a manual entry after an operator fixed the stock by hand
func (r *Reconciler) Resolve(ctx context.Context, id int64, note string) (*domain.SaleSaga, error) {
	entry, err := r.journal.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.SagaManual {
		return nil, ErrNotManual
	}
	if err := r.journal.UpdateStatus(ctx, id, domain.SagaResolved, note); err != nil {
		return nil, err
	}
	r.logAttempt(ctx, entry, "resolve", "success", "", map[string]interface{}{"note": note})
	return r.journal.Get(ctx, id)
}

func (r *Reconciler) logAttempt(ctx context.Context, entry *domain.SaleSaga, action, status, errMsg string, payload map[string]interface{}) {
	log := &domain.SaleSagaLog{
		SagaID:     entry.ID,
		SaleID:     entry.SaleID,
		Action:     action,
		Status:     status,
		ErrorMsg:   errMsg,
		ExecutedAt: time.Now(),
	}
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			log.Payload = string(b)
		}
	}
	if err := r.journal.AppendLog(ctx, log); err != nil {
		zap.L().Warn("failed to write saga log", zap.Error(err))
	}
}
