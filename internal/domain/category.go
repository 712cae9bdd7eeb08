package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Category groups products. Names are unique ignoring case, enforced through NameKey.
type Category struct {
	ID          int64     `json:"id,string" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:50;not null"`
	NameKey     string    `json:"-" gorm:"size:50;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"size:200"`
	IsActive    bool      `json:"is_active" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "category"
}

// BeforeSave keeps the case-insensitive unique key in step with Name.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.NameKey = CategoryNameKey(c.Name)
	return nil
}

// CategoryNameKey is the comparison form of a category name.
func CategoryNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
