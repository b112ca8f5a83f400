package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shoplist/internal/model"
)

const itemHistoryKey = "itemHistory"

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", storageErr(fmt.Sprintf("get setting %q", key), err)
	}
	return value, nil
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	return storageErr(fmt.Sprintf("set setting %q", key), err)
}

// ItemHistory returns the usage map keyed by normalized item name. A missing
// row reads as an empty history.
func (s *SettingsStore) ItemHistory() (map[string]model.ItemUsage, error) {
	raw, err := s.Get(itemHistoryKey)
	if errors.Is(err, ErrNotFound) {
		return map[string]model.ItemUsage{}, nil
	}
	if err != nil {
		return nil, err
	}

	history := make(map[string]model.ItemUsage)
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("decode item history: %w", err)
	}
	return history, nil
}

func (s *SettingsStore) SetItemHistory(history map[string]model.ItemUsage) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode item history: %w", err)
	}
	return s.Set(itemHistoryKey, string(raw))
}
