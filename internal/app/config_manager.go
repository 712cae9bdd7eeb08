package app

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/talkincode/stockledger/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed config_schemas.json
var configSchemasData []byte

// ConfigSchema describes one sys_config entry.
type ConfigSchema struct {
	Key         string `json:"key"`
	Type        string `json:"type"`
	Default     string `json:"default"`
	Description string `json:"description"`
}

type ConfigSchemasJSON struct {
	Schemas []ConfigSchema `json:"schemas"`
}

// SaleSettings is the typed view of the "sale" category.
type SaleSettings struct {
	CardSurchargeRate   string `mapstructure:"card_surcharge_rate"`
	StoreTimeoutSeconds int    `mapstructure:"store_timeout_seconds"`
}

// SurchargeRate parses the stored rate; ok is false when it is unusable.
func (s SaleSettings) SurchargeRate() (decimal.Decimal, bool) {
	rate, err := decimal.NewFromString(strings.TrimSpace(s.CardSurchargeRate))
	if err != nil || rate.IsNegative() {
		return decimal.Zero, false
	}
	return rate, true
}

// ReconcileSettings is the typed view of the "reconcile" category.
type ReconcileSettings struct {
	MaxRetry int `mapstructure:"max_retry"`
}

// NotifySettings is the typed view of the "notify" category.
type NotifySettings struct {
	LowStockEmail string `mapstructure:"low_stock_email"`
}

// ConfigManager caches sys_config rows, keyed "category.name".
type ConfigManager struct {
	db      *gorm.DB
	mu      sync.RWMutex
	values  map[string]string
	schemas map[string]ConfigSchema
}

func NewConfigManager(db *gorm.DB) *ConfigManager {
	m := &ConfigManager{
		db:      db,
		values:  make(map[string]string),
		schemas: make(map[string]ConfigSchema),
	}
	for _, s := range loadSchemas() {
		m.schemas[s.Key] = s
	}
	m.Reload()
	return m
}

func loadSchemas() []ConfigSchema {
	var data ConfigSchemasJSON
	if err := json.Unmarshal(configSchemasData, &data); err != nil {
		zap.L().Error("failed to load config schemas", zap.Error(err))
		return nil
	}
	return data.Schemas
}

// Reload refreshes the cache from the database.
func (m *ConfigManager) Reload() {
	var rows []domain.SysConfig
	if err := m.db.Order("sort").Find(&rows).Error; err != nil {
		zap.L().Error("load sys_config failed", zap.Error(err), zap.String("namespace", "settings"))
		return
	}
	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r.Type+"."+r.Name] = r.Value
	}
	m.mu.Lock()
	m.values = values
	m.mu.Unlock()
}

// GetString falls back to the schema default when the row is missing.
func (m *ConfigManager) GetString(category, name string) string {
	key := category + "." + name
	m.mu.RLock()
	v, ok := m.values[key]
	m.mu.RUnlock()
	if ok {
		return v
	}
	return m.schemas[key].Default
}

func (m *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(m.GetString(category, name))
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.GetString(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.GetString(category, name))
}

// Category returns all values of one category keyed by name.
func (m *ConfigManager) Category(category string) map[string]string {
	out := make(map[string]string)
	prefix := category + "."
	for key, s := range m.schemas {
		if strings.HasPrefix(key, prefix) {
			out[strings.TrimPrefix(key, prefix)] = s.Default
		}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for key, v := range m.values {
		if strings.HasPrefix(key, prefix) {
			out[strings.TrimPrefix(key, prefix)] = v
		}
	}
	return out
}

// Decode fills out from a category using mapstructure tags.
func (m *ConfigManager) Decode(category string, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(m.Category(category))
}

func (m *ConfigManager) Sale() SaleSettings {
	var s SaleSettings
	if err := m.Decode("sale", &s); err != nil {
		zap.L().Warn("decode sale settings failed", zap.Error(err), zap.String("namespace", "settings"))
	}
	return s
}

func (m *ConfigManager) Reconcile() ReconcileSettings {
	var s ReconcileSettings
	if err := m.Decode("reconcile", &s); err != nil {
		zap.L().Warn("decode reconcile settings failed", zap.Error(err), zap.String("namespace", "settings"))
	}
	return s
}

func (m *ConfigManager) Notify() NotifySettings {
	var s NotifySettings
	if err := m.Decode("notify", &s); err != nil {
		zap.L().Warn("decode notify settings failed", zap.Error(err), zap.String("namespace", "settings"))
	}
	return s
}

// All returns every known setting keyed "category.name".
func (m *ConfigManager) All() map[string]string {
	out := make(map[string]string, len(m.schemas))
	for key, s := range m.schemas {
		out[key] = s.Default
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for key, v := range m.values {
		out[key] = v
	}
	return out
}

// Schemas returns the known setting definitions.
func (m *ConfigManager) Schemas() map[string]ConfigSchema {
	return m.schemas
}

// Validate checks a value against its schema type.
func (m *ConfigManager) Validate(key, value string) error {
	s, ok := m.schemas[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	switch s.Type {
	case "int":
		n, err := cast.ToIntE(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer", key)
		}
	case "decimal":
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil || d.IsNegative() {
			return fmt.Errorf("%s must be a non-negative decimal", key)
		}
	}
	return nil
}

// Save validates and upserts the given settings, then reloads the cache.
func (m *ConfigManager) Save(settings map[string]string) error {
	for key, value := range settings {
		if err := m.Validate(key, value); err != nil {
			return err
		}
	}
	err := m.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range settings {
			category, name, _ := strings.Cut(key, ".")
			res := tx.Model(&domain.SysConfig{}).
				Where("type = ? and name = ?", category, name).
				Update("value", value)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				if err := tx.Create(&domain.SysConfig{
					Type:   category,
					Name:   name,
					Value:  value,
					Remark: m.schemas[key].Description,
				}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.Reload()
	return nil
}
