package service

import (
	"fmt"
	"sort"
	"time"

	"shoplist/internal/model"
)

// SaveReceiptParams carries the fields for manual receipt entry.
type SaveReceiptParams struct {
	StoreID string
	Date    string // RFC 3339; empty means now
	Total   float64
	Items   []model.ReceiptItem
	RawText string
}

// SaveReceipt stores a manually entered receipt. Manual entry is always
// processed with full confidence; there are no images in the local-only
// configuration. Every receipt item feeds the suggestion history.
func (s *Service) SaveReceipt(p SaveReceiptParams) (*model.Receipt, error) {
	date := s.now()
	if p.Date != "" {
		parsed, err := parseTime(p.Date)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	confidence := 1.0
	receipt := &model.Receipt{
		ID:               s.newID(),
		StoreID:          p.StoreID,
		Date:             date,
		Total:            p.Total,
		Items:            p.Items,
		ProcessingStatus: model.ReceiptStatusProcessed,
		ImageURL:         "",
		RawText:          p.RawText,
		Confidence:       &confidence,
	}
	if receipt.Items == nil {
		receipt.Items = []model.ReceiptItem{}
	}

	if err := s.store.Receipts.Add(receipt); err != nil {
		return nil, err
	}
	for _, item := range receipt.Items {
		if err := s.recordItemUse(item.Name); err != nil {
			return nil, err
		}
	}
	s.notify("receipt", "created", receipt.ID)
	return receipt, nil
}

// GetReceipts returns receipts, optionally filtered by store, newest first.
func (s *Service) GetReceipts(storeID string) ([]model.Receipt, error) {
	var receipts []model.Receipt
	var err error
	if storeID != "" {
		receipts, err = s.store.Receipts.GetByStore(storeID)
	} else {
		receipts, err = s.store.Receipts.GetAll()
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(receipts, func(i, j int) bool {
		return receipts[i].Date.After(receipts[j].Date)
	})
	return receipts, nil
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", value, err)
	}
	return t.UTC(), nil
}
