package service

import (
	"sort"
	"strings"

	"shoplist/internal/model"
)

// ListParams carries caller-supplied fields for list creation.
type ListParams struct {
	Name       string
	StoreID    string
	TemplateID string
	Items      []model.ShoppingItem
}

// CreateList defaults items to empty and marks the list active, stamping both
// timestamps.
func (s *Service) CreateList(p ListParams) (*model.ShoppingList, error) {
	now := s.now()
	list := &model.ShoppingList{
		ID:           s.newID(),
		Name:         p.Name,
		StoreID:      p.StoreID,
		TemplateID:   p.TemplateID,
		Items:        p.Items,
		IsActive:     true,
		CreatedAt:    now,
		LastModified: now,
	}
	if list.Name == "" {
		list.Name = "New List"
	}
	if list.Items == nil {
		list.Items = []model.ShoppingItem{}
	}

	if err := s.store.Lists.Add(list); err != nil {
		return nil, err
	}
	s.notify("list", "created", list.ID)
	return list, nil
}

// GetLists returns lists, optionally filtered by store and active state,
// newest first.
func (s *Service) GetLists(storeID string, activeOnly bool) ([]model.ShoppingList, error) {
	var lists []model.ShoppingList
	var err error
	switch {
	case storeID != "":
		lists, err = s.store.Lists.GetByStore(storeID)
	case activeOnly:
		lists, err = s.store.Lists.GetActive(true)
	default:
		lists, err = s.store.Lists.GetAll()
	}
	if err != nil {
		return nil, err
	}

	if storeID != "" && activeOnly {
		active := lists[:0]
		for _, l := range lists {
			if l.IsActive {
				active = append(active, l)
			}
		}
		lists = active
	}

	sort.Slice(lists, func(i, j int) bool {
		return lists[i].CreatedAt.After(lists[j].CreatedAt)
	})
	return lists, nil
}

func (s *Service) GetList(id string) (*model.ShoppingList, error) {
	return s.store.Lists.Get(id)
}

// ListUpdate holds a partial list update; nil fields are left unchanged.
type ListUpdate struct {
	Name    *string
	StoreID *string
}

// UpdateList merges the given fields and restamps lastModified.
func (s *Service) UpdateList(id string, u ListUpdate) (*model.ShoppingList, error) {
	list, err := s.store.Lists.Get(id)
	if err != nil {
		return nil, err
	}

	if u.Name != nil {
		list.Name = *u.Name
	}
	if u.StoreID != nil {
		list.StoreID = *u.StoreID
	}
	list.LastModified = s.now()

	if err := s.store.Lists.Put(list); err != nil {
		return nil, err
	}
	s.notify("list", "updated", list.ID)
	return list, nil
}

// ItemParams carries caller-supplied fields for adding an item to a list.
type ItemParams struct {
	Name     string
	Category string
	Quantity string
	Notes    string
}

// AddItemToList appends a new item to the list. An omitted category is
// derived from the name; the item name is recorded into the usage history
// that feeds future suggestions.
func (s *Service) AddItemToList(listID string, p ItemParams) (*model.ShoppingItem, error) {
	list, err := s.store.Lists.Get(listID)
	if err != nil {
		return nil, err
	}

	item := model.ShoppingItem{
		ID:       s.newID(),
		Name:     p.Name,
		Category: p.Category,
		Quantity: p.Quantity,
		Notes:    p.Notes,
		AddedAt:  s.now(),
	}
	if item.Name == "" {
		item.Name = "New Item"
	}
	if item.Category == "" {
		item.Category = Categorize(item.Name)
	}
	if item.Quantity == "" {
		item.Quantity = "1"
	}

	list.Items = append(list.Items, item)
	list.LastModified = s.now()

	if err := s.store.Lists.Put(list); err != nil {
		return nil, err
	}
	if err := s.recordItemUse(item.Name); err != nil {
		return nil, err
	}
	s.notify("list", "updated", list.ID)
	return &item, nil
}

// ItemUpdate holds a partial item update; nil fields are left unchanged.
// ClearCheckedAt explicitly unsets the checked timestamp; reverting Checked
// to false does NOT clear it on its own. Whether that asymmetry is intended
// (preserving last-checked history) is an open question inherited from the
// original behavior; it is preserved here rather than fixed.
type ItemUpdate struct {
	Name           *string
	Category       *string
	Checked        *bool
	Quantity       *string
	Notes          *string
	ClearCheckedAt bool
}

func (s *Service) UpdateListItem(listID, itemID string, u ItemUpdate) (*model.ShoppingItem, error) {
	list, err := s.store.Lists.Get(listID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range list.Items {
		if list.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, itemNotFound(listID, itemID)
	}

	item := &list.Items[idx]
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Category != nil {
		item.Category = *u.Category
	}
	if u.Quantity != nil {
		item.Quantity = *u.Quantity
	}
	if u.Notes != nil {
		item.Notes = *u.Notes
	}
	if u.Checked != nil {
		if *u.Checked && !item.Checked {
			now := s.now()
			item.CheckedAt = &now
		}
		item.Checked = *u.Checked
	}
	if u.ClearCheckedAt {
		item.CheckedAt = nil
	}

	list.LastModified = s.now()
	if err := s.store.Lists.Put(list); err != nil {
		return nil, err
	}
	s.notify("list", "updated", list.ID)

	out := *item
	return &out, nil
}

// DeleteListItem removes the item by id. A second delete of the same item is
// a no-op, not an error.
func (s *Service) DeleteListItem(listID, itemID string) error {
	list, err := s.store.Lists.Get(listID)
	if err != nil {
		return err
	}

	kept := list.Items[:0]
	for _, item := range list.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	list.Items = kept
	list.LastModified = s.now()

	if err := s.store.Lists.Put(list); err != nil {
		return err
	}
	s.notify("list", "updated", list.ID)
	return nil
}

// CompleteList deactivates the list and stamps completedAt. Completion is
// one-way: completing an already-completed list leaves completedAt untouched.
// If the list came from a template, usage learning runs as a side effect.
func (s *Service) CompleteList(id string) error {
	list, err := s.store.Lists.Get(id)
	if err != nil {
		return err
	}
	if !list.IsActive {
		return nil
	}

	now := s.now()
	list.IsActive = false
	list.CompletedAt = &now
	list.LastModified = now

	if err := s.store.Lists.Put(list); err != nil {
		return err
	}

	if list.TemplateID != "" {
		if err := s.recordTemplateUse(list.TemplateID); err != nil {
			s.logger.Warn("template usage learning failed", "template", list.TemplateID, "error", err)
		}
	}
	s.notify("list", "completed", list.ID)
	return nil
}

// recordItemUse bumps the usage counter for a normalized item name. This is
// the sole feedback path into the suggestion engine.
func (s *Service) recordItemUse(name string) error {
	history, err := s.store.Settings.ItemHistory()
	if err != nil {
		return err
	}

	normalized := strings.ToLower(strings.TrimSpace(name))
	usage := history[normalized]
	usage.Count++
	usage.LastUsed = s.now()
	history[normalized] = usage

	return s.store.Settings.SetItemHistory(history)
}

func itemNotFound(listID, itemID string) error {
	return notFoundErr("item " + itemID + " in list " + listID)
}
