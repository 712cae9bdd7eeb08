package gormstore

import (
	"context"
	"strings"
	"time"

	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/store"
	"github.com/talkincode/stockledger/pkg/common"
	"gorm.io/gorm"
)

func (s *Store) productQuery(ctx context.Context, f store.ProductFilter) *gorm.DB {
	db := s.db.WithContext(ctx).Model(&domain.Product{})
	if f.CategoryID != nil {
		db = db.Where("category_id = ?", *f.CategoryID)
	}
	if f.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}
	if f.QuantityGreaterThan != nil {
		db = db.Where("quantity > ?", *f.QuantityGreaterThan)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		clause, args := s.likeClause([]string{"name", "sku", "description"}, q)
		db = db.Where(clause, args...)
	}
	switch f.StockLevel {
	case domain.StockOut:
		db = db.Where("quantity <= 0")
	case domain.StockLow:
		db = db.Where("quantity > 0 AND quantity <= min_stock_level")
	case domain.StockIn:
		db = db.Where("quantity > min_stock_level")
	}
	return db
}

func (s *Store) ListProducts(ctx context.Context, f store.ProductFilter) ([]domain.Product, error) {
	var rows []domain.Product
	field, desc := store.ProductSort(f.Sort)
	dir := " ASC"
	if desc {
		dir = " DESC"
	}
	db := s.productQuery(ctx, f).Order(field + dir).Order("id ASC")
	if f.Limit > 0 {
		db = db.Offset(f.Offset).Limit(f.Limit)
	}
	if err := db.Find(&rows).Error; err != nil {
		return nil, classify("ListProducts", err)
	}
	return rows, nil
}

func (s *Store) CountProducts(ctx context.Context, f store.ProductFilter) (int64, error) {
	var total int64
	if err := s.productQuery(ctx, f).Count(&total).Error; err != nil {
		return 0, classify("CountProducts", err)
	}
	return total, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, classify("GetProduct", err)
	}
	return &p, nil
}

func (s *Store) UpdateProductQuantity(ctx context.Context, id int64, newQuantity int) error {
	if newQuantity < 0 {
		return store.New(store.ErrConstraint, "UpdateProductQuantity")
	}
	result := s.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   newQuantity,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return classify("UpdateProductQuantity", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.New(store.ErrNotFound, "UpdateProductQuantity")
	}
	return nil
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == 0 {
		p.ID = common.UUIDint64()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return classify("CreateProduct", s.db.WithContext(ctx).Create(p).Error)
}

func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now()
	result := s.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", p.ID).Select("*").Omit("created_at").Updates(p)
	if result.Error != nil {
		return classify("UpdateProduct", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.New(store.ErrNotFound, "UpdateProduct")
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context, f store.CategoryFilter) ([]domain.Category, error) {
	db := s.db.WithContext(ctx).Model(&domain.Category{})
	if f.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		clause, args := s.likeClause([]string{"name", "description"}, q)
		db = db.Where(clause, args...)
	}
	var rows []domain.Category
	if err := db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, classify("ListCategories", err)
	}
	return rows, nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, classify("GetCategory", err)
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	if c.ID == 0 {
		c.ID = common.UUIDint64()
	}
	c.NameKey = domain.CategoryNameKey(c.Name)
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	return classify("CreateCategory", s.db.WithContext(ctx).Create(c).Error)
}

func (s *Store) UpdateCategory(ctx context.Context, c *domain.Category) error {
	c.NameKey = domain.CategoryNameKey(c.Name)
	c.UpdatedAt = time.Now()
	result := s.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", c.ID).Select("*").Omit("created_at").Updates(c)
	if result.Error != nil {
		return classify("UpdateCategory", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.New(store.ErrNotFound, "UpdateCategory")
	}
	return nil
}

func (s *Store) CountProductsInCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	if err != nil {
		return 0, classify("CountProductsInCategory", err)
	}
	return count, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&domain.Product{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
			return classify("DeleteCategory", err)
		}
		if inUse > 0 {
			return store.New(store.ErrInUse, "DeleteCategory")
		}
		result := tx.Where("id = ?", id).Delete(&domain.Category{})
		if result.Error != nil {
			return classify("DeleteCategory", result.Error)
		}
		if result.RowsAffected == 0 {
			return store.New(store.ErrNotFound, "DeleteCategory")
		}
		return nil
	})
}
