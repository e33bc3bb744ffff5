package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ImportTaskStatus string

const (
	StatusQueued     ImportTaskStatus = "queued"
	StatusProcessing ImportTaskStatus = "processing"
	StatusCompleted  ImportTaskStatus = "completed"
	StatusFailed     ImportTaskStatus = "failed"
)

// ImportTask tracks a sales import from a spreadsheet.
type ImportTask struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID       string             `bson:"userId" json:"userId"`
	Status        ImportTaskStatus   `bson:"status" json:"status"`
	SpreadsheetID string             `bson:"spreadsheetId" json:"spreadsheetId"`
	Range         string             `bson:"range" json:"range"`
	Imported      int                `bson:"imported" json:"imported"`
	ErrorMessage  string             `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	RetryCount    int                `bson:"retryCount" json:"retryCount"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
