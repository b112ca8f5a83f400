package model

import "time"

// Receipt processing states. In the local-only configuration entry is always
// manual, so receipts are stored as processed with full confidence.
const (
	ReceiptStatusPending      = "pending"
	ReceiptStatusProcessed    = "processed"
	ReceiptStatusFailed       = "failed"
	ReceiptStatusManualReview = "manual_review"
)

type Receipt struct {
	ID               string        `json:"id"`
	StoreID          string        `json:"storeId"`
	Date             time.Time     `json:"date"`
	Total            float64       `json:"total"`
	Items            []ReceiptItem `json:"items"`
	ProcessingStatus string        `json:"processingStatus"`
	ImageURL         string        `json:"imageUrl"`
	RawText          string        `json:"rawText"`
	Confidence       *float64      `json:"confidence,omitempty"`
}

type ReceiptItem struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   float64 `json:"quantity"`
	Category   string  `json:"category"`
	Matched    bool    `json:"matched"`
	Confidence float64 `json:"confidence"`
}
