package saga

import (
	"context"
	"errors"
	"time"

	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/pkg/common"
	"gorm.io/gorm"
)

// GormJournal is the GORM implementation of Journal
type GormJournal struct {
	db *gorm.DB
}

// NewGormJournal creates a new GORM-based journal
func NewGormJournal(db *gorm.DB) *GormJournal {
	return &GormJournal{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEntryNotFound
	}
	return err
}

func (j *GormJournal) Begin(ctx context.Context, entry *domain.SaleSaga) error {
	if entry.ID == 0 {
		entry.ID = common.UUIDint64()
	}
	now := time.Now()
	entry.Status = domain.SagaSaleWritten
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return j.db.WithContext(ctx).Create(entry).Error
}

func (j *GormJournal) Get(ctx context.Context, id int64) (*domain.SaleSaga, error) {
	var entry domain.SaleSaga
	err := j.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

func (j *GormJournal) GetBySale(ctx context.Context, saleID int64) (*domain.SaleSaga, error) {
	var entry domain.SaleSaga
	err := j.db.WithContext(ctx).Where("sale_id = ?", saleID).First(&entry).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

func (j *GormJournal) UpdateStatus(ctx context.Context, id int64, status, errMsg string) error {
	now := time.Now()
	values := map[string]interface{}{
		"status":     status,
		"error_msg":  errMsg,
		"updated_at": now,
	}
	if status == domain.SagaInventoryConfirmed {
		values["confirmed_at"] = now
	}
	result := j.db.WithContext(ctx).
		Model(&domain.SaleSaga{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (j *GormJournal) IncrementRetry(ctx context.Context, id int64) error {
	return j.db.WithContext(ctx).
		Model(&domain.SaleSaga{}).
		Where("id = ?", id).
		Update("retry_count", gorm.Expr("retry_count + 1")).Error
}

func (j *GormJournal) GetRetryable(ctx context.Context, maxRetry, limit int) ([]*domain.SaleSaga, error) {
	var entries []*domain.SaleSaga
	err := j.db.WithContext(ctx).
		Where("status = ?", domain.SagaInventoryPending).
		Where("retry_count < ?", maxRetry).
		Order("created_at ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (j *GormJournal) GetStale(ctx context.Context, cutoff time.Time, limit int) ([]*domain.SaleSaga, error) {
	var entries []*domain.SaleSaga
	err := j.db.WithContext(ctx).
		Where("status = ?", domain.SagaSaleWritten).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (j *GormJournal) List(ctx context.Context, status string, page, pageSize int) ([]*domain.SaleSaga, int64, error) {
	var entries []*domain.SaleSaga
	var total int64
	page, pageSize = normalizePage(page, pageSize)

	query := j.db.WithContext(ctx).Model(&domain.SaleSaga{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error
	return entries, total, err
}

func (j *GormJournal) AppendLog(ctx context.Context, log *domain.SaleSagaLog) error {
	if log.ID == 0 {
		log.ID = common.UUIDint64()
	}
	log.CreatedAt = time.Now()
	return j.db.WithContext(ctx).Create(log).Error
}

func (j *GormJournal) Logs(ctx context.Context, sagaID int64) ([]*domain.SaleSagaLog, error) {
	var logs []*domain.SaleSagaLog
	err := j.db.WithContext(ctx).
		Where("saga_id = ?", sagaID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

func (j *GormJournal) DeleteLogsOlderThan(ctx context.Context, days int) error {
	cutoff := time.Now().AddDate(0, 0, -days)
	return j.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.SaleSagaLog{}).Error
}
