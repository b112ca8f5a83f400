package model

import "time"

// Store types. Presets carry a known layout; custom stores start from the
// default layout.
const (
	StoreTypeTraderJoes   = "trader-joes"
	StoreTypePriceChopper = "price-chopper"
	StoreTypeWholeFoods   = "whole-foods"
	StoreTypeCustom       = "custom"
)

// Sort orders a store can prefer for its lists.
const (
	SortAisle     = "aisle"
	SortCategory  = "category"
	SortManual    = "manual"
	SortFrequency = "frequency"
)

// StoreProfile describes a physical store the user shops at.
type StoreProfile struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Type        string           `json:"type"`
	Address     string           `json:"address,omitempty"`
	Layout      StoreLayout      `json:"layout"`
	Preferences StorePreferences `json:"preferences"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// StoreLayout is a static sections -> aisles -> category-tags tree used as a
// sorting hint. It is not mutated by normal operation.
type StoreLayout struct {
	Sections []StoreSection `json:"sections"`
}

type StoreSection struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Order  int          `json:"order"`
	Aisles []StoreAisle `json:"aisles"`
}

type StoreAisle struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

type StorePreferences struct {
	DefaultSort       string `json:"defaultSort"`
	ShowPrices        bool   `json:"showPrices"`
	EstimatedShopTime int    `json:"estimatedShopTime,omitempty"` // minutes
}
