package domain

// Event bus topics
const (
	TopicSaleCompleted     = "sale:completed"
	TopicSalePartialCommit = "sale:partial_commit"
	TopicStockLow          = "stock:low"
)

// StockLowEvent is published when a sale leaves a product at or under its threshold.
type StockLowEvent struct {
	ProductID     int64
	ProductName   string
	SKU           string
	Quantity      int
	MinStockLevel int
}
