package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"shoplist/internal/model"
)

type ReceiptStore struct {
	db *sql.DB
}

func NewReceiptStore(db *sql.DB) *ReceiptStore {
	return &ReceiptStore{db: db}
}

const receiptCols = `id, store_id, date, total, items, processing_status, image_url, raw_text, confidence`

func scanReceipt(scanner interface{ Scan(...any) error }) (*model.Receipt, error) {
	var r model.Receipt
	var items []byte
	var confidence sql.NullFloat64

	err := scanner.Scan(
		&r.ID, &r.StoreID, &r.Date, &r.Total, &items,
		&r.ProcessingStatus, &r.ImageURL, &r.RawText, &confidence,
	)
	if err != nil {
		return nil, err
	}
	if confidence.Valid {
		r.Confidence = &confidence.Float64
	}
	if err := json.Unmarshal(items, &r.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if r.Items == nil {
		r.Items = []model.ReceiptItem{}
	}
	return &r, nil
}

func (s *ReceiptStore) Get(id string) (*model.Receipt, error) {
	row := s.db.QueryRow(`SELECT `+receiptCols+` FROM receipts WHERE id = ?`, id)
	r, err := scanReceipt(row)
	if err != nil {
		return nil, storageErr("get receipt", err)
	}
	return r, nil
}

func (s *ReceiptStore) GetAll() ([]model.Receipt, error) {
	return s.query(`SELECT ` + receiptCols + ` FROM receipts`)
}

// GetByStore uses the store_id index.
func (s *ReceiptStore) GetByStore(storeID string) ([]model.Receipt, error) {
	return s.query(`SELECT `+receiptCols+` FROM receipts WHERE store_id = ?`, storeID)
}

func (s *ReceiptStore) query(q string, args ...any) ([]model.Receipt, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, storageErr("query receipts", err)
	}
	defer rows.Close()

	var receipts []model.Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, storageErr("scan receipt", err)
		}
		receipts = append(receipts, *r)
	}
	return receipts, storageErr("query receipts", rows.Err())
}

func (s *ReceiptStore) Add(r *model.Receipt) error {
	items, err := json.Marshal(r.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	var confidence sql.NullFloat64
	if r.Confidence != nil {
		confidence = sql.NullFloat64{Float64: *r.Confidence, Valid: true}
	}

	_, err = s.db.Exec(
		`INSERT INTO receipts (`+receiptCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StoreID, r.Date, r.Total, items, r.ProcessingStatus, r.ImageURL, r.RawText, confidence,
	)
	return storageErr("add receipt", err)
}
