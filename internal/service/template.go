package service

import (
	"shoplist/internal/model"
)

// TemplateParams carries caller-supplied fields for template creation.
type TemplateParams struct {
	Name    string
	StoreID string
	Items   []model.TemplateItem
}

// CreateTemplate initializes usage statistics: never used, average item count
// from the initial items, full completion rate, empty evolution log.
func (s *Service) CreateTemplate(p TemplateParams) (*model.Template, error) {
	now := s.now()
	tpl := &model.Template{
		ID:      s.newID(),
		Name:    p.Name,
		StoreID: p.StoreID,
		Items:   p.Items,
		Usage: model.TemplateUsage{
			TimesUsed:      0,
			AverageItems:   float64(len(p.Items)),
			CompletionRate: 1.0,
			Evolution:      []model.TemplateEvolution{},
		},
		CreatedAt:    now,
		LastModified: now,
	}
	if tpl.Name == "" {
		tpl.Name = "New Template"
	}
	if tpl.Items == nil {
		tpl.Items = []model.TemplateItem{}
	}

	if err := s.store.Templates.Add(tpl); err != nil {
		return nil, err
	}
	s.notify("template", "created", tpl.ID)
	return tpl, nil
}

// GetTemplates returns templates, optionally filtered by store.
func (s *Service) GetTemplates(storeID string) ([]model.Template, error) {
	if storeID != "" {
		return s.store.Templates.GetByStore(storeID)
	}
	return s.store.Templates.GetAll()
}

func (s *Service) GetTemplate(id string) (*model.Template, error) {
	return s.store.Templates.Get(id)
}

// GenerateListFromTemplate instantiates a new active shopping list from the
// template: fresh item ids, nothing checked, quantities from the template's
// suggestions. The template's usage counter is bumped as a side effect.
func (s *Service) GenerateListFromTemplate(templateID, listName string) (*model.ShoppingList, error) {
	tpl, err := s.store.Templates.Get(templateID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if listName == "" {
		listName = tpl.Name + " - " + now.Format("1/2/2006")
	}

	items := make([]model.ShoppingItem, 0, len(tpl.Items))
	for _, ti := range tpl.Items {
		quantity := ti.SuggestedQuantity
		if quantity == "" {
			quantity = "1"
		}
		items = append(items, model.ShoppingItem{
			ID:       s.newID(),
			Name:     ti.Name,
			Category: ti.Category,
			Checked:  false,
			Quantity: quantity,
			AddedAt:  now,
		})
	}

	list, err := s.CreateList(ListParams{
		Name:       listName,
		StoreID:    tpl.StoreID,
		TemplateID: tpl.ID,
		Items:      items,
	})
	if err != nil {
		return nil, err
	}

	if err := s.recordTemplateUse(tpl.ID); err != nil {
		return nil, err
	}
	return list, nil
}

// recordTemplateUse bumps timesUsed and lastUsed. Usage accumulates
// monotonically; templates have no state machine.
func (s *Service) recordTemplateUse(templateID string) error {
	tpl, err := s.store.Templates.Get(templateID)
	if err != nil {
		return err
	}

	now := s.now()
	tpl.Usage.TimesUsed++
	tpl.Usage.LastUsed = &now
	tpl.LastModified = now

	if err := s.store.Templates.Put(tpl); err != nil {
		return err
	}
	s.notify("template", "updated", tpl.ID)
	return nil
}
