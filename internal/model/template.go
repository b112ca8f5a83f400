package model

import "time"

// TemplateItem frequency bands, for UI grouping only.
const (
	FrequencyAlways    = 0.8 // >= always
	FrequencySometimes = 0.5 // >= sometimes, below always
)

// Template is a reusable list blueprint that accumulates usage statistics.
type Template struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	StoreID      string         `json:"storeId"`
	Items        []TemplateItem `json:"items"`
	Usage        TemplateUsage  `json:"usage"`
	CreatedAt    time.Time      `json:"createdAt"`
	LastModified time.Time      `json:"lastModified"`
}

type TemplateItem struct {
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	Frequency         float64  `json:"frequency"`
	SuggestedQuantity string   `json:"suggestedQuantity"`
	Alternatives      []string `json:"alternatives,omitempty"`
}

// FrequencyBand returns "always", "sometimes", or "rare" for an item.
func (ti TemplateItem) FrequencyBand() string {
	switch {
	case ti.Frequency >= FrequencyAlways:
		return "always"
	case ti.Frequency >= FrequencySometimes:
		return "sometimes"
	default:
		return "rare"
	}
}

type TemplateUsage struct {
	TimesUsed      int                 `json:"timesUsed"`
	LastUsed       *time.Time          `json:"lastUsed,omitempty"`
	AverageItems   float64             `json:"averageItems"`
	CompletionRate float64             `json:"completionRate"`
	Evolution      []TemplateEvolution `json:"evolution"`
}

type TemplateEvolution struct {
	Date       time.Time `json:"date"`
	Action     string    `json:"action"` // item_added, item_removed, frequency_updated, category_changed
	ItemName   string    `json:"itemName"`
	OldValue   string    `json:"oldValue,omitempty"`
	NewValue   string    `json:"newValue"`
	Confidence float64   `json:"confidence"`
}
