package saga

import (
	"context"
	"encoding/binary"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/pkg/common"
	bolt "go.etcd.io/bbolt"
)

var (
	sagaBucket    = []byte("sale_saga")
	saleIdxBucket = []byte("sale_saga_by_sale")
	logBucket     = []byte("sale_saga_log")

	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

// BoltJournal keeps the journal in a local bbolt file so entries survive a
// restart even when the application database is the one that failed.
type BoltJournal struct {
	db *bolt.DB
}

// OpenBoltJournal opens or creates the journal file at path
func OpenBoltJournal(path string) (*BoltJournal, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open saga journal")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{sagaBucket, saleIdxBucket, logBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init saga journal")
	}
	return &BoltJournal{db: db}, nil
}

func (j *BoltJournal) Close() error {
	return j.db.Close()
}

func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func putEntry(tx *bolt.Tx, entry *domain.SaleSaga) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return tx.Bucket(sagaBucket).Put(itob(entry.ID), data)
}

func getEntry(tx *bolt.Tx, id int64) (*domain.SaleSaga, error) {
	data := tx.Bucket(sagaBucket).Get(itob(id))
	if data == nil {
		return nil, ErrEntryNotFound
	}
	var entry domain.SaleSaga
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// scan walks every entry; keep returns false to skip.
func (j *BoltJournal) scan(keep func(*domain.SaleSaga) bool) ([]*domain.SaleSaga, error) {
	var entries []*domain.SaleSaga
	err := j.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sagaBucket).ForEach(func(_, v []byte) error {
			var entry domain.SaleSaga
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			if keep(&entry) {
				entries = append(entries, &entry)
			}
			return nil
		})
	})
	return entries, err
}

func oldestFirst(entries []*domain.SaleSaga, limit int) []*domain.SaleSaga {
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].CreatedAt.Before(entries[b].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func (j *BoltJournal) Begin(_ context.Context, entry *domain.SaleSaga) error {
	if entry.ID == 0 {
		entry.ID = common.UUIDint64()
	}
	now := time.Now()
	entry.CreatedAt = now
	stamp(entry, domain.SagaSaleWritten, now)
	return j.db.Update(func(tx *bolt.Tx) error {
		idx := tx.Bucket(saleIdxBucket)
		if idx.Get(itob(entry.SaleID)) != nil {
			return errors.Errorf("saga for sale %d already exists", entry.SaleID)
		}
		if err := putEntry(tx, entry); err != nil {
			return err
		}
		return idx.Put(itob(entry.SaleID), itob(entry.ID))
	})
}

func (j *BoltJournal) Get(_ context.Context, id int64) (*domain.SaleSaga, error) {
	var entry *domain.SaleSaga
	err := j.db.View(func(tx *bolt.Tx) (err error) {
		entry, err = getEntry(tx, id)
		return err
	})
	return entry, err
}

func (j *BoltJournal) GetBySale(_ context.Context, saleID int64) (*domain.SaleSaga, error) {
	var entry *domain.SaleSaga
	err := j.db.View(func(tx *bolt.Tx) (err error) {
		id := tx.Bucket(saleIdxBucket).Get(itob(saleID))
		if id == nil {
			return ErrEntryNotFound
		}
		entry, err = getEntry(tx, int64(binary.BigEndian.Uint64(id)))
		return err
	})
	return entry, err
}

func (j *BoltJournal) update(id int64, fn func(*domain.SaleSaga)) error {
	return j.db.Update(func(tx *bolt.Tx) error {
		entry, err := getEntry(tx, id)
		if err != nil {
			return err
		}
		fn(entry)
		return putEntry(tx, entry)
	})
}

func (j *BoltJournal) UpdateStatus(_ context.Context, id int64, status, errMsg string) error {
	return j.update(id, func(entry *domain.SaleSaga) {
		stamp(entry, status, time.Now())
		entry.ErrorMsg = errMsg
	})
}

func (j *BoltJournal) IncrementRetry(_ context.Context, id int64) error {
	return j.update(id, func(entry *domain.SaleSaga) {
		entry.RetryCount++
	})
}

func (j *BoltJournal) GetRetryable(_ context.Context, maxRetry, limit int) ([]*domain.SaleSaga, error) {
	entries, err := j.scan(func(e *domain.SaleSaga) bool {
		return e.Status == domain.SagaInventoryPending && e.RetryCount < maxRetry
	})
	if err != nil {
		return nil, err
	}
	return oldestFirst(entries, limit), nil
}

func (j *BoltJournal) GetStale(_ context.Context, cutoff time.Time, limit int) ([]*domain.SaleSaga, error) {
	entries, err := j.scan(func(e *domain.SaleSaga) bool {
		return e.Status == domain.SagaSaleWritten && e.CreatedAt.Before(cutoff)
	})
	if err != nil {
		return nil, err
	}
	return oldestFirst(entries, limit), nil
}

func (j *BoltJournal) List(_ context.Context, status string, page, pageSize int) ([]*domain.SaleSaga, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	entries, err := j.scan(func(e *domain.SaleSaga) bool {
		return status == "" || e.Status == status
	})
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].CreatedAt.After(entries[b].CreatedAt)
	})
	total := int64(len(entries))
	start := (page - 1) * pageSize
	if start >= len(entries) {
		return []*domain.SaleSaga{}, total, nil
	}
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end], total, nil
}

func (j *BoltJournal) AppendLog(_ context.Context, log *domain.SaleSagaLog) error {
	if log.ID == 0 {
		log.ID = common.UUIDint64()
	}
	log.CreatedAt = time.Now()
	data, err := json.Marshal(log)
	if err != nil {
		return err
	}
	return j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(logBucket).Put(itob(log.ID), data)
	})
}

func (j *BoltJournal) Logs(_ context.Context, sagaID int64) ([]*domain.SaleSagaLog, error) {
	var logs []*domain.SaleSagaLog
	err := j.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(logBucket).ForEach(func(_, v []byte) error {
			var log domain.SaleSagaLog
			if err := json.Unmarshal(v, &log); err != nil {
				return err
			}
			if log.SagaID == sagaID {
				logs = append(logs, &log)
			}
			return nil
		})
	})
	sort.SliceStable(logs, func(a, b int) bool {
		return logs[a].CreatedAt.After(logs[b].CreatedAt)
	})
	return logs, err
}

func (j *BoltJournal) DeleteLogsOlderThan(_ context.Context, days int) error {
	cutoff := time.Now().AddDate(0, 0, -days)
	return j.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(logBucket)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var log domain.SaleSagaLog
			if err := json.Unmarshal(v, &log); err != nil {
				return err
			}
			if log.CreatedAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
