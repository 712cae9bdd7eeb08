package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/talkincode/stockledger/config"
	"github.com/talkincode/stockledger/internal/saga"
	"github.com/talkincode/stockledger/internal/sale"
	"github.com/talkincode/stockledger/internal/store"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
	Location() *time.Location
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
	SaveSettings(settings map[string]string) error
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ConfigManagerProvider provides configuration manager access
type ConfigManagerProvider interface {
	ConfigMgr() *ConfigManager
}

// StoreProvider provides the catalog and ledger backends
type StoreProvider interface {
	Catalog() store.Catalog
	Ledger() store.Ledger
}

// SaleProvider provides the sale workflow services
type SaleProvider interface {
	Guard() *sale.Guard
	Drafts() *sale.Registry
}

// ReconcileProvider provides the saga journal and reconciler
type ReconcileProvider interface {
	Journal() saga.Journal
	Reconciler() *saga.Reconciler
}

// AppContext combines all provider interfaces for full application context
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	ConfigManagerProvider
	StoreProvider
	SaleProvider
	ReconcileProvider

	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
