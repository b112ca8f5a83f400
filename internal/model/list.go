package model

import "time"

// ShoppingList is an active or completed trip list. Once completed
// (IsActive=false, CompletedAt set) the record is immutable history.
type ShoppingList struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	StoreID      string         `json:"storeId"`
	TemplateID   string         `json:"templateId,omitempty"`
	Items        []ShoppingItem `json:"items"`
	IsActive     bool           `json:"isActive"`
	CreatedAt    time.Time      `json:"createdAt"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
	LastModified time.Time      `json:"lastModified"`
}

// ShoppingItem is embedded in a list, not a top-level record.
type ShoppingItem struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Checked   bool       `json:"checked"`
	Quantity  string     `json:"quantity"`
	Notes     string     `json:"notes"`
	AddedAt   time.Time  `json:"addedAt"`
	CheckedAt *time.Time `json:"checkedAt,omitempty"`
}
