// Package service enforces the domain invariants and exposes the operations
// the application facade calls. All records are created here, never directly
// by callers; writes go through the record store's transactional operations.
package service

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"shoplist/internal/model"
	"shoplist/internal/store"
	"shoplist/internal/websocket"
)

// Service is the domain service. Stateless per call; all state lives in the
// record store.
type Service struct {
	store  *store.Store
	hub    *websocket.Hub
	logger *slog.Logger
	dbPath string

	// Injected for tests; default to the real clock and uuid generation.
	now   func() time.Time
	newID func() string
}

func New(st *store.Store, hub *websocket.Hub, dbPath string, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		hub:    hub,
		logger: logger,
		dbPath: dbPath,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// notify broadcasts a record-change event so a connected facade can re-derive
// its projections. A nil hub disables broadcasting (tests).
func (s *Service) notify(entity, action, id string) {
	if s.hub != nil {
		s.hub.Broadcast(websocket.NewEvent(entity, action, id))
	}
}

// --- Store profiles ---

// StoreParams carries the caller-supplied fields for store creation. Nil or
// zero fields take the documented defaults.
type StoreParams struct {
	Name        string
	Type        string
	Address     string
	Layout      *model.StoreLayout
	Preferences *model.StorePreferences
}

// CreateStore fills omitted fields with defaults (type custom, category sort,
// prices shown, 30 minute estimate, three-section default layout), generates
// the id, and stamps createdAt.
func (s *Service) CreateStore(p StoreParams) (*model.StoreProfile, error) {
	profile := &model.StoreProfile{
		ID:        s.newID(),
		Name:      p.Name,
		Type:      p.Type,
		Address:   p.Address,
		CreatedAt: s.now(),
	}
	if profile.Name == "" {
		profile.Name = "New Store"
	}
	if profile.Type == "" {
		profile.Type = model.StoreTypeCustom
	}
	if p.Layout != nil {
		profile.Layout = *p.Layout
	} else {
		profile.Layout = DefaultLayout()
	}
	if p.Preferences != nil {
		profile.Preferences = *p.Preferences
	} else {
		profile.Preferences = model.StorePreferences{
			DefaultSort:       model.SortCategory,
			ShowPrices:        true,
			EstimatedShopTime: 30,
		}
	}

	if err := s.store.Profiles.Add(profile); err != nil {
		return nil, err
	}
	s.notify("store", "created", profile.ID)
	return profile, nil
}

// StoreUpdate holds a partial update; nil fields are left unchanged.
type StoreUpdate struct {
	Name        *string
	Type        *string
	Address     *string
	Layout      *model.StoreLayout
	Preferences *model.StorePreferences
}

func (s *Service) UpdateStore(id string, u StoreUpdate) (*model.StoreProfile, error) {
	profile, err := s.store.Profiles.Get(id)
	if err != nil {
		return nil, err
	}

	if u.Name != nil {
		profile.Name = *u.Name
	}
	if u.Type != nil {
		profile.Type = *u.Type
	}
	if u.Address != nil {
		profile.Address = *u.Address
	}
	if u.Layout != nil {
		profile.Layout = *u.Layout
	}
	if u.Preferences != nil {
		profile.Preferences = *u.Preferences
	}

	if err := s.store.Profiles.Put(profile); err != nil {
		return nil, err
	}
	s.notify("store", "updated", profile.ID)
	return profile, nil
}

func (s *Service) GetStores() ([]model.StoreProfile, error) {
	return s.store.Profiles.GetAll()
}

func (s *Service) GetStore(id string) (*model.StoreProfile, error) {
	return s.store.Profiles.Get(id)
}

// DeleteStore removes the profile and cascades to every list and template
// referencing it, atomically.
func (s *Service) DeleteStore(id string) error {
	if err := s.store.DeleteStoreCascade(id); err != nil {
		return err
	}
	s.notify("store", "deleted", id)
	return nil
}

// DefaultLayout is the fixed three-section layout new stores start from.
func DefaultLayout() model.StoreLayout {
	return model.StoreLayout{
		Sections: []model.StoreSection{
			{
				ID: "produce", Name: "Produce", Order: 1,
				Aisles: []model.StoreAisle{
					{ID: "fresh-produce", Name: "Fresh Produce", Categories: []string{"fruits", "vegetables"}},
				},
			},
			{
				ID: "center-store", Name: "Center Store", Order: 2,
				Aisles: []model.StoreAisle{
					{ID: "pantry", Name: "Pantry Items", Categories: []string{"pantry", "snacks", "beverages"}},
				},
			},
			{
				ID: "perimeter", Name: "Perimeter", Order: 3,
				Aisles: []model.StoreAisle{
					{ID: "dairy-meat", Name: "Dairy & Meat", Categories: []string{"dairy", "meat", "frozen"}},
				},
			},
		},
	}
}

// --- Storage info ---

// StorageInfo reports how much space the backing database occupies.
type StorageInfo struct {
	UsedBytes int64  `json:"usedBytes"`
	Path      string `json:"path"`
}

func (s *Service) StorageInfo() (StorageInfo, error) {
	info := StorageInfo{Path: s.dbPath}
	fi, err := os.Stat(s.dbPath)
	if err != nil {
		return info, fmt.Errorf("stat database: %w", err)
	}
	info.UsedBytes = fi.Size()
	return info, nil
}
