package gormstore

import (
	"context"
	"time"

	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/store"
	"github.com/talkincode/stockledger/pkg/common"
	"gorm.io/gorm"
)

func (s *Store) InsertSale(ctx context.Context, sale *domain.Sale) (int64, error) {
	if sale.ID == 0 {
		sale.ID = common.UUIDint64()
	}
	// timestamps are stored in UTC so range filters compare correctly on sqlite
	now := time.Now().UTC()
	if sale.SaleDate.IsZero() {
		sale.SaleDate = now
	}
	sale.SaleDate = sale.SaleDate.UTC()
	sale.CreatedAt = now
	if err := s.db.WithContext(ctx).Create(sale).Error; err != nil {
		return 0, classify("InsertSale", err)
	}
	return sale.ID, nil
}

func (s *Store) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	var sale domain.Sale
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sale).Error; err != nil {
		return nil, classify("GetSale", err)
	}
	return &sale, nil
}

func (s *Store) saleQuery(ctx context.Context, f store.SaleFilter) *gorm.DB {
	db := s.db.WithContext(ctx).Model(&domain.Sale{})
	if f.From != nil {
		db = db.Where("sale_date >= ?", f.From.UTC())
	}
	if f.To != nil {
		db = db.Where("sale_date < ?", f.To.UTC())
	}
	if f.PaymentMethod != "" {
		db = db.Where("payment_method = ?", f.PaymentMethod)
	}
	if f.PaymentStatus != "" {
		db = db.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.ProductID != nil {
		db = db.Where("product_id = ?", *f.ProductID)
	}
	return db
}

func (s *Store) ListSales(ctx context.Context, f store.SaleFilter) ([]domain.Sale, error) {
	var rows []domain.Sale
	db := s.saleQuery(ctx, f).Order("sale_date DESC").Order("id DESC")
	if f.Limit > 0 {
		db = db.Offset(f.Offset).Limit(f.Limit)
	}
	if err := db.Find(&rows).Error; err != nil {
		return nil, classify("ListSales", err)
	}
	return rows, nil
}

func (s *Store) CountSales(ctx context.Context, f store.SaleFilter) (int64, error) {
	var total int64
	if err := s.saleQuery(ctx, f).Count(&total).Error; err != nil {
		return 0, classify("CountSales", err)
	}
	return total, nil
}
