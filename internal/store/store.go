// Package store is the record store: durable, queryable persistence for the
// five domain collections, with index-backed filtering and transactional
// cascading deletes. All mutation from the service layer goes through it.
package store

import (
	"database/sql"
)

// Store bundles the per-collection stores over one database handle and owns
// the operations that span collections.
type Store struct {
	db *sql.DB

	Profiles  *ProfileStore
	Lists     *ListStore
	Templates *TemplateStore
	Receipts  *ReceiptStore
	Settings  *SettingsStore
}

func New(db *sql.DB) *Store {
	return &Store{
		db:        db,
		Profiles:  NewProfileStore(db),
		Lists:     NewListStore(db),
		Templates: NewTemplateStore(db),
		Receipts:  NewReceiptStore(db),
		Settings:  NewSettingsStore(db),
	}
}

// DeleteStoreCascade removes the store profile plus every list and template
// referencing it in a single transaction. Either the whole cascade commits or
// none of it is visible. Deleting an absent store is a no-op.
func (s *Store) DeleteStoreCascade(storeID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("begin cascade delete", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM lists WHERE store_id = ?`, storeID); err != nil {
		return storageErr("cascade delete lists", err)
	}
	if _, err := tx.Exec(`DELETE FROM templates WHERE store_id = ?`, storeID); err != nil {
		return storageErr("cascade delete templates", err)
	}
	if _, err := tx.Exec(`DELETE FROM stores WHERE id = ?`, storeID); err != nil {
		return storageErr("cascade delete store", err)
	}

	return storageErr("commit cascade delete", tx.Commit())
}

// ClearAll empties every collection. Used only by import and reset flows.
func (s *Store) ClearAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("begin clear all", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"stores", "lists", "templates", "receipts", "settings"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return storageErr("clear "+table, err)
		}
	}

	return storageErr("commit clear all", tx.Commit())
}
