package service

import (
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"shoplist/internal/database"
	"shoplist/internal/model"
	"shoplist/internal/store"
)

// testClock hands out strictly increasing timestamps so ordering assertions
// are deterministic.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := &testClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := New(store.New(db), nil, ":memory:", slog.Default())
	svc.now = clock.Now
	return svc, clock
}

func TestCreateStoreDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.CreateStore(StoreParams{})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if p.ID == "" {
		t.Error("expected generated id")
	}
	if p.Name != "New Store" {
		t.Errorf("name = %q, want %q", p.Name, "New Store")
	}
	if p.Type != model.StoreTypeCustom {
		t.Errorf("type = %q, want custom", p.Type)
	}
	if p.Preferences.DefaultSort != model.SortCategory {
		t.Errorf("defaultSort = %q, want category", p.Preferences.DefaultSort)
	}
	if !p.Preferences.ShowPrices {
		t.Error("expected showPrices = true")
	}
	if p.Preferences.EstimatedShopTime != 30 {
		t.Errorf("estimatedShopTime = %d, want 30", p.Preferences.EstimatedShopTime)
	}
	if len(p.Layout.Sections) != 3 {
		t.Errorf("layout sections = %d, want 3", len(p.Layout.Sections))
	}
	if p.CreatedAt.IsZero() {
		t.Error("expected createdAt stamped")
	}
}

func TestCreateStoreKeepsProvidedPreferences(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.CreateStore(StoreParams{
		Name:        "Co-op",
		Type:        model.StoreTypeWholeFoods,
		Preferences: &model.StorePreferences{DefaultSort: model.SortAisle, ShowPrices: false},
	})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if p.Preferences.DefaultSort != model.SortAisle {
		t.Errorf("defaultSort = %q, want aisle", p.Preferences.DefaultSort)
	}
	if p.Preferences.ShowPrices {
		t.Error("expected showPrices = false when explicitly provided")
	}
}

func TestDeleteStoreCascades(t *testing.T) {
	svc, _ := newTestService(t)

	p, _ := svc.CreateStore(StoreParams{Name: "Market"})
	list, _ := svc.CreateList(ListParams{Name: "Trip", StoreID: p.ID})
	tpl, _ := svc.CreateTemplate(TemplateParams{Name: "Weekly", StoreID: p.ID})

	if err := svc.DeleteStore(p.ID); err != nil {
		t.Fatalf("delete store: %v", err)
	}

	if _, err := svc.GetList(list.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("list err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetTemplate(tpl.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("template err = %v, want ErrNotFound", err)
	}
}

func TestAddItemUniqueIDsAndLastModified(t *testing.T) {
	svc, _ := newTestService(t)

	list, err := svc.CreateList(ListParams{Name: "Trip", StoreID: "store-1"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	seen := make(map[string]bool)
	last := list.LastModified
	for _, name := range []string{"Milk", "Bread", "Coffee", "Milk"} {
		item, err := svc.AddItemToList(list.ID, ItemParams{Name: name})
		if err != nil {
			t.Fatalf("add item %s: %v", name, err)
		}
		if seen[item.ID] {
			t.Fatalf("duplicate item id %s", item.ID)
		}
		seen[item.ID] = true

		got, err := svc.GetList(list.ID)
		if err != nil {
			t.Fatalf("get list: %v", err)
		}
		if !got.LastModified.After(last) {
			t.Errorf("lastModified %v not after %v", got.LastModified, last)
		}
		last = got.LastModified
	}
}

func TestAddItemAutoCategorizesAndDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	list, _ := svc.CreateList(ListParams{Name: "Trip", StoreID: "store-1"})

	item, err := svc.AddItemToList(list.ID, ItemParams{Name: "Whole Milk"})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.Category != "dairy" {
		t.Errorf("category = %q, want dairy", item.Category)
	}
	if item.Quantity != "1" {
		t.Errorf("quantity = %q, want 1", item.Quantity)
	}
	if item.Checked {
		t.Error("expected unchecked")
	}
}

func TestAddItemListNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItemToList("missing", ItemParams{Name: "Milk"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateListItemCheckedTransition(t *testing.T) {
	svc, _ := newTestService(t)

	list, _ := svc.CreateList(ListParams{Name: "Trip", StoreID: "store-1"})
	item, _ := svc.AddItemToList(list.ID, ItemParams{Name: "Milk"})

	checked := true
	updated, err := svc.UpdateListItem(list.ID, item.ID, ItemUpdate{Checked: &checked})
	if err != nil {
		t.Fatalf("check item: %v", err)
	}
	if updated.CheckedAt == nil {
		t.Fatal("expected checkedAt set on false->true")
	}
	checkedAt := *updated.CheckedAt

	// Reverting does not clear checkedAt on its own.
	unchecked := false
	updated, err = svc.UpdateListItem(list.ID, item.ID, ItemUpdate{Checked: &unchecked})
	if err != nil {
		t.Fatalf("uncheck item: %v", err)
	}
	if updated.Checked {
		t.Error("expected checked = false")
	}
	if updated.CheckedAt == nil || !updated.CheckedAt.Equal(checkedAt) {
		t.Errorf("checkedAt = %v, want preserved %v", updated.CheckedAt, checkedAt)
	}

	// Re-checking an already-unchecked item stamps a fresh time.
	updated, err = svc.UpdateListItem(list.ID, item.ID, ItemUpdate{Checked: &checked})
	if err != nil {
		t.Fatalf("re-check item: %v", err)
	}
	if !updated.CheckedAt.After(checkedAt) {
		t.Errorf("checkedAt = %v, want after %v", updated.CheckedAt, checkedAt)
	}

	// Explicit unset clears it.
	updated, err = svc.UpdateListItem(list.ID, item.ID, ItemUpdate{ClearCheckedAt: true})
	if err != nil {
		t.Fatalf("clear checkedAt: %v", err)
	}
	if updated.CheckedAt != nil {
		t.Errorf("checkedAt = %v, want nil after explicit clear", updated.CheckedAt)
	}
}

func TestUpdateListItemNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	list, _ := svc.CreateList(ListParams{Name: "Trip", StoreID: "store-1"})

	name := "Milk"
	_, err := svc.UpdateListItem(list.ID, "missing-item", ItemUpdate{Name: &name})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	_, err = svc.UpdateListItem("missing-list", "missing-item", ItemUpdate{Name: &name})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteListItemIdempotent(t *testing.T) {
	svc, _ := newTestService(t)

	list, _ := svc.CreateList(ListParams{Name: "Trip", StoreID: "store-1"})
	item, _ := svc.AddItemToList(list.ID, ItemParams{Name: "Milk"})
	svc.AddItemToList(list.ID, ItemParams{Name: "Bread"})

	if err := svc.DeleteListItem(list.ID, item.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	after, _ := svc.GetList(list.ID)

	if err := svc.DeleteListItem(list.ID, item.ID); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	again, _ := svc.GetList(list.ID)

	if len(after.Items) != 1 || len(again.Items) != 1 {
		t.Errorf("items after deletes = %d, %d; want 1, 1", len(after.Items), len(again.Items))
	}
	if again.Items[0].Name != "Bread" {
		t.Errorf("remaining item = %q, want Bread", again.Items[0].Name)
	}
}

func TestCompleteListOneWay(t *testing.T) {
	svc, _ := newTestService(t)

	list, _ := svc.CreateList(ListParams{Name: "Trip", StoreID: "store-1"})

	if err := svc.CompleteList(list.ID); err != nil {
		t.Fatalf("complete list: %v", err)
	}
	first, _ := svc.GetList(list.ID)
	if first.IsActive {
		t.Error("expected isActive = false")
	}
	if first.CompletedAt == nil {
		t.Fatal("expected completedAt set")
	}

	// Completing again observes the completed state and changes nothing.
	if err := svc.CompleteList(list.ID); err != nil {
		t.Fatalf("second complete: %v", err)
	}
	second, _ := svc.GetList(list.ID)
	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Errorf("completedAt changed from %v to %v", first.CompletedAt, second.CompletedAt)
	}
}

func TestCompleteListNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.CompleteList("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetListsFilterAndOrder(t *testing.T) {
	svc, _ := newTestService(t)

	a, _ := svc.CreateList(ListParams{Name: "A", StoreID: "s1"})
	b, _ := svc.CreateList(ListParams{Name: "B", StoreID: "s1"})
	svc.CreateList(ListParams{Name: "C", StoreID: "s2"})
	svc.CompleteList(a.ID)

	lists, err := svc.GetLists("s1", false)
	if err != nil {
		t.Fatalf("get lists: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("lists = %d, want 2", len(lists))
	}
	// Newest first.
	if lists[0].ID != b.ID {
		t.Errorf("lists[0] = %s, want %s (newest first)", lists[0].ID, b.ID)
	}

	active, err := svc.GetLists("s1", true)
	if err != nil {
		t.Fatalf("get active lists: %v", err)
	}
	if len(active) != 1 || active[0].ID != b.ID {
		t.Errorf("active lists = %v, want just %s", active, b.ID)
	}
}
