package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"shoplist/internal/model"
)

type ListStore struct {
	db *sql.DB
}

func NewListStore(db *sql.DB) *ListStore {
	return &ListStore{db: db}
}

const listCols = `id, name, store_id, template_id, items, is_active, created_at, completed_at, last_modified`

func scanList(scanner interface{ Scan(...any) error }) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var templateID sql.NullString
	var completedAt sql.NullTime
	var items []byte
	var active int

	err := scanner.Scan(
		&l.ID, &l.Name, &l.StoreID, &templateID, &items,
		&active, &l.CreatedAt, &completedAt, &l.LastModified,
	)
	if err != nil {
		return nil, err
	}

	l.IsActive = active != 0
	l.TemplateID = templateID.String
	if completedAt.Valid {
		l.CompletedAt = &completedAt.Time
	}
	if err := json.Unmarshal(items, &l.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if l.Items == nil {
		l.Items = []model.ShoppingItem{}
	}
	return &l, nil
}

func listArgs(l *model.ShoppingList) ([]any, error) {
	items, err := json.Marshal(l.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	var templateID sql.NullString
	if l.TemplateID != "" {
		templateID = sql.NullString{String: l.TemplateID, Valid: true}
	}
	var completedAt sql.NullTime
	if l.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *l.CompletedAt, Valid: true}
	}
	active := 0
	if l.IsActive {
		active = 1
	}
	return []any{l.ID, l.Name, l.StoreID, templateID, items, active, l.CreatedAt, completedAt, l.LastModified}, nil
}

func (s *ListStore) Get(id string) (*model.ShoppingList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err != nil {
		return nil, storageErr("get list", err)
	}
	return l, nil
}

func (s *ListStore) GetAll() ([]model.ShoppingList, error) {
	return s.query(`SELECT ` + listCols + ` FROM lists`)
}

// GetByStore uses the store_id index.
func (s *ListStore) GetByStore(storeID string) ([]model.ShoppingList, error) {
	return s.query(`SELECT `+listCols+` FROM lists WHERE store_id = ?`, storeID)
}

// GetActive uses the is_active index.
func (s *ListStore) GetActive(active bool) ([]model.ShoppingList, error) {
	v := 0
	if active {
		v = 1
	}
	return s.query(`SELECT `+listCols+` FROM lists WHERE is_active = ?`, v)
}

func (s *ListStore) query(q string, args ...any) ([]model.ShoppingList, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, storageErr("query lists", err)
	}
	defer rows.Close()

	var lists []model.ShoppingList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, storageErr("scan list", err)
		}
		lists = append(lists, *l)
	}
	return lists, storageErr("query lists", rows.Err())
}

func (s *ListStore) Add(l *model.ShoppingList) error {
	args, err := listArgs(l)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO lists (`+listCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	return storageErr("add list", err)
}

func (s *ListStore) Put(l *model.ShoppingList) error {
	args, err := listArgs(l)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO lists (`+listCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, store_id = excluded.store_id,
		   template_id = excluded.template_id, items = excluded.items,
		   is_active = excluded.is_active, completed_at = excluded.completed_at,
		   last_modified = excluded.last_modified`,
		args...,
	)
	return storageErr("put list", err)
}
