package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"shoplist/internal/model"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileCols = `id, name, type, address, layout, preferences, created_at`

func scanProfile(scanner interface{ Scan(...any) error }) (*model.StoreProfile, error) {
	var p model.StoreProfile
	var layout, prefs []byte

	err := scanner.Scan(&p.ID, &p.Name, &p.Type, &p.Address, &layout, &prefs, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(layout, &p.Layout); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	if err := json.Unmarshal(prefs, &p.Preferences); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return &p, nil
}

func (s *ProfileStore) Get(id string) (*model.StoreProfile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM stores WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err != nil {
		return nil, storageErr("get store", err)
	}
	return p, nil
}

func (s *ProfileStore) GetAll() ([]model.StoreProfile, error) {
	rows, err := s.db.Query(`SELECT ` + profileCols + ` FROM stores`)
	if err != nil {
		return nil, storageErr("get all stores", err)
	}
	defer rows.Close()

	var profiles []model.StoreProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, storageErr("scan store", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, storageErr("get all stores", rows.Err())
}

// Add inserts a new store profile. Fails with ErrDuplicateKey if the id is
// already present.
func (s *ProfileStore) Add(p *model.StoreProfile) error {
	layout, err := json.Marshal(p.Layout)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	prefs, err := json.Marshal(p.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO stores (`+profileCols+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Type, p.Address, layout, prefs, p.CreatedAt,
	)
	return storageErr("add store", err)
}

// Put upserts the profile, replacing any existing record wholesale.
func (s *ProfileStore) Put(p *model.StoreProfile) error {
	layout, err := json.Marshal(p.Layout)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	prefs, err := json.Marshal(p.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO stores (`+profileCols+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, type = excluded.type, address = excluded.address,
		   layout = excluded.layout, preferences = excluded.preferences`,
		p.ID, p.Name, p.Type, p.Address, layout, prefs, p.CreatedAt,
	)
	return storageErr("put store", err)
}
