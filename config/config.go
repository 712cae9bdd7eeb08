package config

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig system settings
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Currency string `yaml:"currency"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig admin api settings
type WebConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Secret string `yaml:"secret"`
}

// DBConfig application database settings
type DBConfig struct {
	Type     string `yaml:"type"` // postgres | sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// LogConfig logger settings
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// RestConfig hosted data service settings, used when a store backend is "rest"
type RestConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Debug   bool   `yaml:"debug"`
}

// StoreConfig selects the catalog and ledger backends.
// Supported backends: database, rest, memory.
type StoreConfig struct {
	Catalog        string     `yaml:"catalog"`
	Ledger         string     `yaml:"ledger"`
	TimeoutSeconds int        `yaml:"timeout_seconds"`
	Rest           RestConfig `yaml:"rest"`
}

// SaleConfig sale workflow settings
type SaleConfig struct {
	CardSurchargeRate string `yaml:"card_surcharge_rate"`
	DraftTTLMinutes   int    `yaml:"draft_ttl_minutes"`
}

// ReconcileConfig saga reconciliation settings
type ReconcileConfig struct {
	Journal         string `yaml:"journal"` // database | bolt
	IntervalSeconds int    `yaml:"interval_seconds"`
	GraceSeconds    int    `yaml:"grace_seconds"`
	MaxRetry        int    `yaml:"max_retry"`
	Workers         int    `yaml:"workers"`
	BatchSize       int    `yaml:"batch_size"`
}

// NotifyConfig low stock alert mail settings
type NotifyConfig struct {
	SmtpHost string `yaml:"smtp_host"`
	SmtpPort int    `yaml:"smtp_port"`
	SmtpUser string `yaml:"smtp_user"`
	SmtpPass string `yaml:"smtp_pass"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// Enabled reports whether mail delivery is configured.
func (n NotifyConfig) Enabled() bool {
	return n.SmtpHost != "" && n.To != ""
}

type AppConfig struct {
	System    SysConfig       `yaml:"system"`
	Web       WebConfig       `yaml:"web"`
	Database  DBConfig        `yaml:"database"`
	Logger    LogConfig       `yaml:"logger"`
	Store     StoreConfig     `yaml:"store"`
	Sale      SaleConfig      `yaml:"sale"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Notify    NotifyConfig    `yaml:"notify"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetExportDir() string {
	return path.Join(c.System.Workdir, "export")
}

// StoreTimeout bounds every catalog and ledger call.
func (c *AppConfig) StoreTimeout() time.Duration {
	if c.Store.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Store.TimeoutSeconds) * time.Second
}

func (c *AppConfig) DraftTTL() time.Duration {
	if c.Sale.DraftTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Sale.DraftTTLMinutes) * time.Minute
}

func (c *AppConfig) ReconcileInterval() time.Duration {
	if c.Reconcile.IntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.Reconcile.IntervalSeconds) * time.Second
}

func (c *AppConfig) ReconcileGrace() time.Duration {
	if c.Reconcile.GraceSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.Reconcile.GraceSeconds) * time.Second
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.GetLogDir(), 0o755)
	_ = os.MkdirAll(c.GetDataDir(), 0o755)
	_ = os.MkdirAll(c.GetExportDir(), 0o755)
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "StockLedger",
			Location: "Asia/Colombo",
			Workdir:  "/var/stockledger",
			Currency: "LKR",
			Debug:    true,
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 1818,
		},
		Database: DBConfig{
			Type:     "sqlite",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "stockledger.db",
			User:     "postgres",
			Passwd:   "myroot",
			MaxConn:  100,
			IdleConn: 10,
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: true,
			Filename:   "/var/stockledger/logs/stockledger.log",
		},
		Store: StoreConfig{
			Catalog:        "database",
			Ledger:         "database",
			TimeoutSeconds: 10,
		},
		Sale: SaleConfig{
			CardSurchargeRate: "0.03",
			DraftTTLMinutes:   30,
		},
		Reconcile: ReconcileConfig{
			Journal:         "database",
			IntervalSeconds: 60,
			GraceSeconds:    120,
			MaxRetry:        3,
			Workers:         8,
			BatchSize:       100,
		},
	}
}

// DefaultAppConfig is used when no config file can be found.
var DefaultAppConfig = defaultConfig()

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// LoadConfig reads the YAML config file, falling back to ./stockledger.yml,
// /etc/stockledger.yml and finally the built-in defaults. STOCKLEDGER_*
// environment variables override file values.
func LoadConfig(cfile string) (*AppConfig, error) {
	if cfile == "" {
		cfile = "stockledger.yml"
	}
	if !fileExists(cfile) {
		cfile = "/etc/stockledger.yml"
	}
	cfg := defaultConfig()
	if fileExists(cfile) {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	setEnvValue("STOCKLEDGER_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	setEnvValue("STOCKLEDGER_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("STOCKLEDGER_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("STOCKLEDGER_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("STOCKLEDGER_WEB_PORT", &cfg.Web.Port)
	setEnvValue("STOCKLEDGER_WEB_SECRET", &cfg.Web.Secret)

	setEnvValue("STOCKLEDGER_DB_TYPE", &cfg.Database.Type)
	setEnvValue("STOCKLEDGER_DB_HOST", &cfg.Database.Host)
	setEnvValue("STOCKLEDGER_DB_NAME", &cfg.Database.Name)
	setEnvValue("STOCKLEDGER_DB_USER", &cfg.Database.User)
	setEnvValue("STOCKLEDGER_DB_PWD", &cfg.Database.Passwd)
	setEnvIntValue("STOCKLEDGER_DB_PORT", &cfg.Database.Port)
	setEnvBoolValue("STOCKLEDGER_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("STOCKLEDGER_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("STOCKLEDGER_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	setEnvValue("STOCKLEDGER_STORE_CATALOG", &cfg.Store.Catalog)
	setEnvValue("STOCKLEDGER_STORE_LEDGER", &cfg.Store.Ledger)
	setEnvIntValue("STOCKLEDGER_STORE_TIMEOUT", &cfg.Store.TimeoutSeconds)
	setEnvValue("STOCKLEDGER_REST_URL", &cfg.Store.Rest.BaseURL)
	setEnvValue("STOCKLEDGER_REST_KEY", &cfg.Store.Rest.APIKey)

	setEnvValue("STOCKLEDGER_CARD_SURCHARGE_RATE", &cfg.Sale.CardSurchargeRate)
	setEnvValue("STOCKLEDGER_RECONCILE_JOURNAL", &cfg.Reconcile.Journal)
	setEnvIntValue("STOCKLEDGER_RECONCILE_INTERVAL", &cfg.Reconcile.IntervalSeconds)

	setEnvValue("STOCKLEDGER_SMTP_HOST", &cfg.Notify.SmtpHost)
	setEnvIntValue("STOCKLEDGER_SMTP_PORT", &cfg.Notify.SmtpPort)
	setEnvValue("STOCKLEDGER_SMTP_USER", &cfg.Notify.SmtpUser)
	setEnvValue("STOCKLEDGER_SMTP_PWD", &cfg.Notify.SmtpPass)
	setEnvValue("STOCKLEDGER_NOTIFY_TO", &cfg.Notify.To)

	cfg.initDirs()
	return cfg, nil
}

func setEnvValue(name string, val *string) {
	var evalue = strings.TrimSpace(os.Getenv(name))
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = strings.TrimSpace(os.Getenv(name))
	if evalue != "" {
		if b, err := cast.ToBoolE(evalue); err == nil {
			*val = b
		}
	}
}

func setEnvIntValue(name string, val *int) {
	var evalue = strings.TrimSpace(os.Getenv(name))
	if evalue == "" {
		return
	}
	if p, err := cast.ToIntE(evalue); err == nil {
		*val = p
	}
}
