package domain

import "time"

// Saga states of a sale and its inventory decrement
const (
	SagaSaleWritten        = "sale_written"        // ledger insert done, decrement not yet known
	SagaInventoryPending   = "inventory_pending"   // decrement failed, waiting for reconciliation
	SagaInventoryConfirmed = "inventory_confirmed" // decrement applied
	SagaManual             = "manual"              // reconciliation gave up, operator follow-up needed
	SagaResolved           = "resolved"            // operator closed a manual entry
)

// SaleSaga tracks the inventory side of one recorded sale.
type SaleSaga struct {
	ID             int64      `json:"id,string" gorm:"primaryKey"`
	SaleID         int64      `json:"sale_id,string" gorm:"uniqueIndex"`
	ProductID      int64      `json:"product_id,string" gorm:"index"`
	QuantitySold   int        `json:"quantity_sold"`
	QuantityBefore int        `json:"quantity_before"`
	QuantityTarget int        `json:"quantity_target"`
	Status         string     `json:"status" gorm:"size:32;index"`
	ErrorMsg       string     `json:"error_msg" gorm:"size:1000"`
	RetryCount     int        `json:"retry_count" gorm:"default:0"`
	CreatedAt      time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ConfirmedAt    *time.Time `json:"confirmed_at"`
}

// TableName Specify table name
func (SaleSaga) TableName() string {
	return "sale_saga"
}

// SaleSagaLog audit trail of saga transitions
type SaleSagaLog struct {
	ID         int64     `json:"id,string" gorm:"primaryKey"`
	SagaID     int64     `json:"saga_id,string" gorm:"index"`
	SaleID     int64     `json:"sale_id,string"`
	Action     string    `json:"action"` // "begin", "confirm", "pending", "reconcile", "manual", "resolve"
	Status     string    `json:"status"` // "success", "failure"
	Payload    string    `json:"payload" gorm:"type:text"`
	ErrorMsg   string    `json:"error_msg" gorm:"size:1000"`
	ExecutedAt time.Time `json:"executed_at"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// TableName Specify table name
func (SaleSagaLog) TableName() string {
	return "sale_saga_log"
}
