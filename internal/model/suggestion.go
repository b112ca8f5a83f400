package model

import "time"

// Suggestion is one proposed addition to the current list.
type Suggestion struct {
	ItemName   string  `json:"itemName"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// ItemUsage tracks how often an item name has been added, keyed by normalized
// name in the item-history setting. Not user-facing.
type ItemUsage struct {
	Count    int       `json:"count"`
	LastUsed time.Time `json:"lastUsed"`
}
