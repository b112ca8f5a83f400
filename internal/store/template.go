package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"shoplist/internal/model"
)

type TemplateStore struct {
	db *sql.DB
}

func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateCols = `id, name, store_id, items, usage, created_at, last_modified`

func scanTemplate(scanner interface{ Scan(...any) error }) (*model.Template, error) {
	var t model.Template
	var items, usage []byte

	err := scanner.Scan(&t.ID, &t.Name, &t.StoreID, &items, &usage, &t.CreatedAt, &t.LastModified)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &t.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if err := json.Unmarshal(usage, &t.Usage); err != nil {
		return nil, fmt.Errorf("decode usage: %w", err)
	}
	if t.Items == nil {
		t.Items = []model.TemplateItem{}
	}
	return &t, nil
}

func templateArgs(t *model.Template) ([]any, error) {
	items, err := json.Marshal(t.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	usage, err := json.Marshal(t.Usage)
	if err != nil {
		return nil, fmt.Errorf("encode usage: %w", err)
	}
	return []any{t.ID, t.Name, t.StoreID, items, usage, t.CreatedAt, t.LastModified}, nil
}

func (s *TemplateStore) Get(id string) (*model.Template, error) {
	row := s.db.QueryRow(`SELECT `+templateCols+` FROM templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if err != nil {
		return nil, storageErr("get template", err)
	}
	return t, nil
}

func (s *TemplateStore) GetAll() ([]model.Template, error) {
	return s.query(`SELECT ` + templateCols + ` FROM templates`)
}

// GetByStore uses the store_id index.
func (s *TemplateStore) GetByStore(storeID string) ([]model.Template, error) {
	return s.query(`SELECT `+templateCols+` FROM templates WHERE store_id = ?`, storeID)
}

func (s *TemplateStore) query(q string, args ...any) ([]model.Template, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, storageErr("query templates", err)
	}
	defer rows.Close()

	var templates []model.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, storageErr("scan template", err)
		}
		templates = append(templates, *t)
	}
	return templates, storageErr("query templates", rows.Err())
}

func (s *TemplateStore) Add(t *model.Template) error {
	args, err := templateArgs(t)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO templates (`+templateCols+`) VALUES (?, ?, ?, ?, ?, ?, ?)`, args...)
	return storageErr("add template", err)
}

func (s *TemplateStore) Put(t *model.Template) error {
	args, err := templateArgs(t)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO templates (`+templateCols+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, store_id = excluded.store_id,
		   items = excluded.items, usage = excluded.usage,
		   last_modified = excluded.last_modified`,
		args...,
	)
	return storageErr("put template", err)
}
