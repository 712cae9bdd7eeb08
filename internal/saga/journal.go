// Package saga keeps the record of every sale whose inventory decrement is not
// yet known to have landed, and reconciles those entries in the background.
package saga

import (
	"context"
	"errors"
	"time"

	"github.com/talkincode/stockledger/internal/domain"
)

var (
	ErrEntryNotFound = errors.New("saga entry not found")
	ErrNotManual     = errors.New("saga entry is not awaiting manual resolution")
	ErrPassRunning   = errors.New("reconciliation pass already running")
)

// Journal persists saga entries and their audit log.
type Journal interface {
	// Begin records a new entry in the sale_written state
	Begin(ctx context.Context, entry *domain.SaleSaga) error

	// Get retrieves an entry by ID
	Get(ctx context.Context, id int64) (*domain.SaleSaga, error)

	// GetBySale retrieves the entry of a sale
	GetBySale(ctx context.Context, saleID int64) (*domain.SaleSaga, error)

	// UpdateStatus moves an entry to status and records errMsg
	UpdateStatus(ctx context.Context, id int64, status, errMsg string) error

	// IncrementRetry increments the retry counter
	IncrementRetry(ctx context.Context, id int64) error

	// GetRetryable retrieves inventory_pending entries with retry_count < maxRetry
	GetRetryable(ctx context.Context, maxRetry, limit int) ([]*domain.SaleSaga, error)

	// GetStale retrieves sale_written entries created before cutoff
	GetStale(ctx context.Context, cutoff time.Time, limit int) ([]*domain.SaleSaga, error)

	// List retrieves entries newest first, optionally by status
	List(ctx context.Context, status string, page, pageSize int) ([]*domain.SaleSaga, int64, error)

	// AppendLog inserts an audit log entry
	AppendLog(ctx context.Context, log *domain.SaleSagaLog) error

	// Logs retrieves the audit log of an entry, newest first
	Logs(ctx context.Context, sagaID int64) ([]*domain.SaleSagaLog, error)

	// DeleteLogsOlderThan removes audit logs older than days
	DeleteLogsOlderThan(ctx context.Context, days int) error
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}

func stamp(entry *domain.SaleSaga, status string, now time.Time) {
	entry.Status = status
	entry.UpdatedAt = now
	if status == domain.SagaInventoryConfirmed {
		entry.ConfirmedAt = &now
	}
}
