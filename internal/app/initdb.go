package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/store"
	"go.uber.org/zap"
)

// settingDefaults lets the config file seed sys_config on first start.
func (a *Application) settingDefaults() map[string]string {
	cfg := a.appConfig
	out := make(map[string]string)
	if cfg.Sale.CardSurchargeRate != "" {
		out["sale.card_surcharge_rate"] = cfg.Sale.CardSurchargeRate
	}
	if cfg.Store.TimeoutSeconds > 0 {
		out["sale.store_timeout_seconds"] = strconv.Itoa(cfg.Store.TimeoutSeconds)
	}
	if cfg.Reconcile.MaxRetry > 0 {
		out["reconcile.max_retry"] = strconv.Itoa(cfg.Reconcile.MaxRetry)
	}
	if cfg.Notify.To != "" {
		out["notify.low_stock_email"] = cfg.Notify.To
	}
	return out
}

func (a *Application) checkSettings() {
	overrides := a.settingDefaults()
	for sortid, schema := range loadSchemas() {
		category, name, ok := strings.Cut(schema.Key, ".")
		if !ok {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)
		if count > 0 {
			continue
		}

		value := schema.Default
		if v, ok := overrides[schema.Key]; ok {
			value = v
		}
		if err := a.gormDB.Create(&domain.SysConfig{
			Sort:   sortid,
			Type:   category,
			Name:   name,
			Value:  value,
			Remark: schema.Description,
		}).Error; err != nil {
			zap.L().Error("failed to create default config", zap.String("key", schema.Key), zap.Error(err))
			continue
		}
		zap.L().Info("initialized config", zap.String("key", schema.Key), zap.String("default", value))
	}
}

var defaultCategories = []domain.Category{
	{Name: "Electronics", Description: "Devices and accessories", IsActive: true},
	{Name: "Groceries", Description: "Food and household items", IsActive: true},
	{Name: "Stationery", Description: "Office and school supplies", IsActive: true},
}

type demoProduct struct {
	category string
	product  domain.Product
}

func sku(v string) *string { return &v }

var demoProducts = []demoProduct{
	{"Electronics", domain.Product{
		Name: "Wireless Mouse", SKU: sku("EL-0001"), Description: "2.4 GHz optical mouse",
		Price: decimal.RequireFromString("2499.00"), Quantity: 25, MinStockLevel: 5, IsActive: true,
	}},
	{"Groceries", domain.Product{
		Name: "Ceylon Tea 400g", SKU: sku("GR-0001"), Description: "BOPF black tea",
		Price: decimal.RequireFromString("1150.00"), Quantity: 60, MinStockLevel: domain.DefaultMinStockLevel, IsActive: true,
	}},
	{"Stationery", domain.Product{
		Name: "A4 Notebook", SKU: sku("ST-0001"), Description: "200 pages, ruled",
		Price: decimal.RequireFromString("385.50"), Quantity: 8, MinStockLevel: domain.DefaultMinStockLevel, IsActive: true,
	}},
}

// checkCatalog seeds default categories and demo products into an empty
// local catalog. A hosted catalog is never seeded.
func (a *Application) checkCatalog(ctx context.Context) {
	if a.appConfig.Store.Catalog == BackendRest {
		return
	}
	existing, err := a.catalog.ListCategories(ctx, store.CategoryFilter{})
	if err != nil {
		zap.L().Error("failed to query categories", zap.Error(err))
		return
	}
	if len(existing) > 0 {
		return
	}

	ids := make(map[string]int64, len(defaultCategories))
	for _, c := range defaultCategories {
		c := c
		if err := a.catalog.CreateCategory(ctx, &c); err != nil {
			zap.L().Error("failed to create default category", zap.String("name", c.Name), zap.Error(err))
			continue
		}
		ids[c.Name] = c.ID
		zap.L().Info("initialized default category", zap.String("name", c.Name))
	}

	for _, d := range demoProducts {
		id, ok := ids[d.category]
		if !ok {
			continue
		}
		p := d.product
		p.CategoryID = id
		if err := a.catalog.CreateProduct(ctx, &p); err != nil {
			zap.L().Error("failed to create demo product", zap.String("name", p.Name), zap.Error(err))
			continue
		}
		zap.L().Info("initialized demo product", zap.String("name", p.Name))
	}
}
