package domain

import "time"

type SalesImportMessage struct {
	TaskID string `json:"task_id"`
}

type NotificationMessage struct {
	Event     string    `json:"event"`
	OwnerID   string    `json:"owner_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventOrderPlaced     = "order.placed"
	EventLowStock        = "inventory.low_stock"
	EventImportCompleted = "import.completed"
	EventImportFailed    = "import.failed"
	EventCustom          = "custom"
)
