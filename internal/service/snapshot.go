package service

import (
	"encoding/json"
	"fmt"
	"time"

	"shoplist/internal/model"
)

const snapshotVersion = "1.0"

// Snapshot is the export/import wire format: every collection plus the item
// history and a format version tag.
type Snapshot struct {
	Stores      []model.StoreProfile       `json:"stores"`
	Lists       []model.ShoppingList       `json:"lists"`
	Templates   []model.Template           `json:"templates"`
	Receipts    []model.Receipt            `json:"receipts"`
	ItemHistory map[string]model.ItemUsage `json:"itemHistory"`
	ExportedAt  time.Time                  `json:"exportedAt"`
	Version     string                     `json:"version"`
}

// ExportData serializes every collection into a single JSON document.
func (s *Service) ExportData() ([]byte, error) {
	stores, err := s.store.Profiles.GetAll()
	if err != nil {
		return nil, err
	}
	lists, err := s.store.Lists.GetAll()
	if err != nil {
		return nil, err
	}
	templates, err := s.store.Templates.GetAll()
	if err != nil {
		return nil, err
	}
	receipts, err := s.store.Receipts.GetAll()
	if err != nil {
		return nil, err
	}
	history, err := s.store.Settings.ItemHistory()
	if err != nil {
		return nil, err
	}

	snapshot := Snapshot{
		Stores:      stores,
		Lists:       lists,
		Templates:   templates,
		Receipts:    receipts,
		ItemHistory: history,
		ExportedAt:  s.now(),
		Version:     snapshotVersion,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// ImportData replaces all existing data with the snapshot's contents.
// Records are re-created with fresh ids; cross-record references (list to
// store, list to template, receipt to store) are remapped to the new ids so
// linkage survives by content.
//
// The snapshot is validated before anything is cleared, but the clear-then-
// reload sequence is not atomic: a storage fault mid-import can leave the
// store empty. Known gap, accepted by design.
func (s *Service) ImportData(data []byte) error {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("%w: decode snapshot: %w", ErrImportFailed, err)
	}
	if snapshot.Version != "" && snapshot.Version != snapshotVersion {
		return fmt.Errorf("%w: unsupported snapshot version %q", ErrImportFailed, snapshot.Version)
	}

	if err := s.store.ClearAll(); err != nil {
		return err
	}

	storeIDs := make(map[string]string, len(snapshot.Stores))
	for _, p := range snapshot.Stores {
		imported := p
		imported.ID = s.newID()
		if err := s.store.Profiles.Add(&imported); err != nil {
			return err
		}
		storeIDs[p.ID] = imported.ID
	}

	templateIDs := make(map[string]string, len(snapshot.Templates))
	for _, tpl := range snapshot.Templates {
		imported := tpl
		imported.ID = s.newID()
		imported.StoreID = storeIDs[tpl.StoreID]
		if err := s.store.Templates.Add(&imported); err != nil {
			return err
		}
		templateIDs[tpl.ID] = imported.ID
	}

	for _, list := range snapshot.Lists {
		imported := list
		imported.ID = s.newID()
		imported.StoreID = storeIDs[list.StoreID]
		imported.TemplateID = templateIDs[list.TemplateID]
		items := make([]model.ShoppingItem, len(list.Items))
		for i, item := range list.Items {
			items[i] = item
			items[i].ID = s.newID()
		}
		imported.Items = items
		if err := s.store.Lists.Add(&imported); err != nil {
			return err
		}
	}

	for _, r := range snapshot.Receipts {
		imported := r
		imported.ID = s.newID()
		imported.StoreID = storeIDs[r.StoreID]
		if err := s.store.Receipts.Add(&imported); err != nil {
			return err
		}
	}

	if snapshot.ItemHistory != nil {
		if err := s.store.Settings.SetItemHistory(snapshot.ItemHistory); err != nil {
			return err
		}
	}

	s.notify("data", "reloaded", "")
	return nil
}

// ClearAllData wipes every collection, including the item history.
func (s *Service) ClearAllData() error {
	if err := s.store.ClearAll(); err != nil {
		return err
	}
	s.notify("data", "cleared", "")
	return nil
}
