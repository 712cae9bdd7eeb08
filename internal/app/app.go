package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/talkincode/stockledger/config"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/notify"
	"github.com/talkincode/stockledger/internal/pricing"
	"github.com/talkincode/stockledger/internal/saga"
	"github.com/talkincode/stockledger/internal/sale"
	"github.com/talkincode/stockledger/internal/store"
	"github.com/talkincode/stockledger/internal/store/gormstore"
	"github.com/talkincode/stockledger/internal/store/memstore"
	"github.com/talkincode/stockledger/internal/store/reststore"
	"github.com/talkincode/stockledger/pkg/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store backends
const (
	BackendDatabase = "database"
	BackendRest     = "rest"
	BackendMemory   = "memory"
)

// Journal backends
const (
	JournalDatabase = "database"
	JournalBolt     = "bolt"
)

// backend is a store implementing both contracts.
type backend interface {
	store.Catalog
	store.Ledger
}

type Application struct {
	appConfig     *config.AppConfig
	location      *time.Location
	gormDB        *gorm.DB
	sched         *cron.Cron
	configManager *ConfigManager
	backends      map[string]backend
	catalog       store.Catalog
	ledger        store.Ledger
	bus           EventBus.Bus
	journal       saga.Journal
	closers       []io.Closer
	reconciler    *saga.Reconciler
	guard         *sale.Guard
	drafts        *sale.Registry
	notifier      *notify.LowStockNotifier
}

// Ensure Application implements all interfaces
var (
	_ DBProvider            = (*Application)(nil)
	_ ConfigProvider        = (*Application)(nil)
	_ SettingsProvider      = (*Application)(nil)
	_ SchedulerProvider     = (*Application)(nil)
	_ ConfigManagerProvider = (*Application)(nil)
	_ StoreProvider         = (*Application)(nil)
	_ SaleProvider          = (*Application)(nil)
	_ ReconcileProvider     = (*Application)(nil)
	_ AppContext            = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig, location: time.Local}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

// Location is the configured business time zone.
func (a *Application) Location() *time.Location {
	return a.location
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Catalog() store.Catalog             { return a.catalog }
func (a *Application) Ledger() store.Ledger               { return a.ledger }
func (a *Application) Guard() *sale.Guard                 { return a.guard }
func (a *Application) Drafts() *sale.Registry             { return a.drafts }
func (a *Application) Journal() saga.Journal              { return a.journal }
func (a *Application) Reconciler() *saga.Reconciler       { return a.reconciler }
func (a *Application) Bus() EventBus.Bus                  { return a.bus }
func (a *Application) Notifier() *notify.LowStockNotifier { return a.notifier }

// Init sets up logging, metrics and the database, then wires the services.
// Background jobs are started separately by StartBackgroundJobs.
func (a *Application) Init(cfg *config.AppConfig) error {
	a.appConfig = cfg
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
		a.location = loc
	}

	initLogger(cfg)

	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	a.gormDB, err = getDatabase(cfg.Database, cfg.GetDataDir())
	if err != nil {
		return err
	}
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}
	return a.setup()
}

// NewWithDB builds an application over an already migrated database without
// touching logging or metrics.
func NewWithDB(cfg *config.AppConfig, db *gorm.DB) (*Application, error) {
	a := NewApplication(cfg)
	a.OverrideDB(db)
	if err := a.setup(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Application) setup() error {
	a.checkSettings()
	if err := a.InitServices(); err != nil {
		return err
	}
	a.checkCatalog(context.Background())
	return nil
}

func initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		_ = os.MkdirAll(filepath.Dir(cfg.Logger.Filename), 0o755)
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(logger)
}

// InitServices builds stores, the event bus, the saga journal and the sale
// workflow on top of an open database.
func (a *Application) InitServices() error {
	cfg := a.appConfig
	if a.configManager == nil {
		a.configManager = NewConfigManager(a.gormDB)
	}
	a.backends = make(map[string]backend)

	var err error
	if a.catalog, err = a.backend(cfg.Store.Catalog); err != nil {
		return err
	}
	if a.ledger, err = a.backend(cfg.Store.Ledger); err != nil {
		return err
	}

	a.bus = EventBus.New()
	if err := a.subscribeMetrics(); err != nil {
		return err
	}

	if a.journal, err = a.openJournal(); err != nil {
		return err
	}

	timeout := cfg.StoreTimeout()
	if secs := a.configManager.Sale().StoreTimeoutSeconds; secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}
	a.guard = sale.NewGuard(a.catalog, a.ledger,
		sale.WithJournal(a.journal),
		sale.WithBus(a.bus),
		sale.WithTimeout(timeout),
		sale.WithCalculator(a.Calculator),
	)
	a.drafts = sale.NewRegistry(a.guard, cfg.DraftTTL())

	a.reconciler, err = saga.NewReconciler(a.journal, a.catalog, saga.Options{
		MaxRetry:  a.maxRetry(),
		Workers:   cfg.Reconcile.Workers,
		BatchSize: cfg.Reconcile.BatchSize,
		Grace:     cfg.ReconcileGrace(),
		Timeout:   timeout,
	})
	if err != nil {
		return err
	}

	var mailer notify.Mailer
	if cfg.Notify.SmtpHost != "" {
		mailer = notify.NewSMTPMailer(cfg.Notify)
	}
	a.notifier = notify.NewLowStockNotifier(mailer, a.lowStockRecipients, a.location)
	return a.notifier.Subscribe(a.bus)
}

func (a *Application) backend(kind string) (backend, error) {
	if kind == "" {
		kind = BackendDatabase
	}
	if b, ok := a.backends[kind]; ok {
		return b, nil
	}
	var b backend
	switch kind {
	case BackendDatabase:
		b = gormstore.New(a.gormDB)
	case BackendRest:
		if a.appConfig.Store.Rest.BaseURL == "" {
			return nil, errors.New("rest store selected but store.rest.base_url is empty")
		}
		b = reststore.New(a.appConfig.Store.Rest)
	case BackendMemory:
		b = memstore.New()
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}
	a.backends[kind] = b
	return b, nil
}

func (a *Application) openJournal() (saga.Journal, error) {
	switch a.appConfig.Reconcile.Journal {
	case JournalBolt:
		j, err := saga.OpenBoltJournal(filepath.Join(a.appConfig.GetDataDir(), "saga.db"))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, j)
		return j, nil
	case JournalDatabase, "":
		return saga.NewGormJournal(a.gormDB), nil
	}
	return nil, fmt.Errorf("unknown saga journal %q", a.appConfig.Reconcile.Journal)
}

// Calculator returns the pricing calculator for the current surcharge setting.
func (a *Application) Calculator() pricing.Calculator {
	if rate, ok := a.configManager.Sale().SurchargeRate(); ok {
		return pricing.WithRate(rate)
	}
	if rate, err := decimal.NewFromString(a.appConfig.Sale.CardSurchargeRate); err == nil {
		return pricing.WithRate(rate)
	}
	return pricing.NewCalculator()
}

func (a *Application) maxRetry() int {
	if n := a.configManager.Reconcile().MaxRetry; n > 0 {
		return n
	}
	return a.appConfig.Reconcile.MaxRetry
}

func (a *Application) lowStockRecipients() []string {
	if to := notify.SplitRecipients(a.configManager.Notify().LowStockEmail); len(to) > 0 {
		return to
	}
	return notify.SplitRecipients(a.appConfig.Notify.To)
}

func (a *Application) subscribeMetrics() error {
	err := a.bus.Subscribe(domain.TopicSaleCompleted, func(s *domain.Sale) {
		metrics.Incr("sale_completed_total", 1)
		if s.PaymentStatus == domain.PaymentCompleted {
			metrics.Incr("sale_revenue_cents", s.FinalAmount.Shift(2).IntPart())
		}
	})
	if err != nil {
		return err
	}
	return a.bus.Subscribe(domain.TopicSalePartialCommit, func(s *domain.Sale) {
		metrics.Incr("sale_partial_commit_total", 1)
	})
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	db := a.gormDB
	if track {
		db = db.Debug()
	}
	return db.Migrator().AutoMigrate(domain.Tables...)
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

// InitDb recreates every table and seeds the default settings and catalog.
func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
		return
	}
	a.checkSettings()
	if a.configManager != nil {
		a.configManager.Reload()
	}
	if a.catalog != nil {
		a.checkCatalog(context.Background())
	}
}

// ConfigMgr returns the configuration manager
func (a *Application) ConfigMgr() *ConfigManager {
	return a.configManager
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// GetSettingsStringValue retrieves a string configuration value
func (a *Application) GetSettingsStringValue(category, key string) string {
	return a.configManager.GetString(category, key)
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return a.configManager.GetInt64(category, key)
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return a.configManager.GetBool(category, key)
}

// SaveSettings persists settings and applies those that take effect live.
func (a *Application) SaveSettings(settings map[string]string) error {
	if err := a.configManager.Save(settings); err != nil {
		return err
	}
	if a.reconciler != nil {
		a.reconciler.SetMaxRetry(a.maxRetry())
	}
	return nil
}

// StartBackgroundJobs starts the cron jobs and the saga reconciler.
func (a *Application) StartBackgroundJobs(ctx context.Context) {
	a.initJob()
	a.reconciler.Start(ctx, a.appConfig.ReconcileInterval())
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.reconciler != nil {
		a.reconciler.Stop()
	}
	if a.bus != nil {
		a.bus.WaitAsync()
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			zap.L().Warn("close resource failed", zap.Error(err))
		}
	}
	_ = metrics.Close()
	_ = zap.L().Sync()
}
