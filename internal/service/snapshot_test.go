package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"shoplist/internal/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	profile, _ := svc.CreateStore(StoreParams{Name: "Market", Type: model.StoreTypeTraderJoes})
	tpl, _ := svc.CreateTemplate(TemplateParams{
		Name:    "Weekly",
		StoreID: profile.ID,
		Items: []model.TemplateItem{
			{Name: "Milk", Category: "dairy", Frequency: model.FrequencyAlways},
		},
	})
	list, _ := svc.GenerateListFromTemplate(tpl.ID, "Saturday Run")
	svc.AddItemToList(list.ID, ItemParams{Name: "Bread"})
	svc.SaveReceipt(SaveReceiptParams{
		StoreID: profile.ID,
		Total:   42.50,
		Items:   []model.ReceiptItem{{Name: "Milk", Price: 3.99, Quantity: 1}},
	})

	data, err := svc.ExportData()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	historyBefore, _ := svc.store.Settings.ItemHistory()

	if err := svc.ImportData(data); err != nil {
		t.Fatalf("import: %v", err)
	}

	stores, _ := svc.GetStores()
	if len(stores) != 1 || stores[0].Name != "Market" {
		t.Fatalf("stores after import = %v, want one named Market", stores)
	}
	if stores[0].ID == profile.ID {
		t.Error("imported store kept its old id, expected a fresh one")
	}

	templates, _ := svc.GetTemplates("")
	if len(templates) != 1 || templates[0].Name != "Weekly" {
		t.Fatalf("templates after import = %v", templates)
	}
	// Cross-record linkage survives by content.
	if templates[0].StoreID != stores[0].ID {
		t.Errorf("template storeID = %s, want remapped %s", templates[0].StoreID, stores[0].ID)
	}

	lists, _ := svc.GetLists("", false)
	if len(lists) != 1 {
		t.Fatalf("lists after import = %d, want 1", len(lists))
	}
	if lists[0].StoreID != stores[0].ID {
		t.Errorf("list storeID = %s, want remapped %s", lists[0].StoreID, stores[0].ID)
	}
	if lists[0].TemplateID != templates[0].ID {
		t.Errorf("list templateID = %s, want remapped %s", lists[0].TemplateID, templates[0].ID)
	}
	var names []string
	for _, item := range lists[0].Items {
		names = append(names, item.Name)
	}
	if diff := cmp.Diff([]string{"Milk", "Bread"}, names); diff != "" {
		t.Errorf("list items mismatch (-want +got):\n%s", diff)
	}

	receipts, _ := svc.GetReceipts("")
	if len(receipts) != 1 || receipts[0].Total != 42.50 {
		t.Fatalf("receipts after import = %v", receipts)
	}

	historyAfter, _ := svc.store.Settings.ItemHistory()
	if diff := cmp.Diff(historyBefore, historyAfter); diff != "" {
		t.Errorf("item history mismatch (-before +after):\n%s", diff)
	}
}

func TestImportRejectsMalformedData(t *testing.T) {
	svc, _ := newTestService(t)
	svc.CreateStore(StoreParams{Name: "Market"})

	err := svc.ImportData([]byte("{not json"))
	if !errors.Is(err, ErrImportFailed) {
		t.Fatalf("err = %v, want ErrImportFailed", err)
	}

	// Validation happens before anything is cleared.
	stores, _ := svc.GetStores()
	if len(stores) != 1 {
		t.Errorf("stores = %d after rejected import, want 1", len(stores))
	}
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	svc, _ := newTestService(t)

	data, _ := json.Marshal(Snapshot{Version: "9.9"})
	if err := svc.ImportData(data); !errors.Is(err, ErrImportFailed) {
		t.Fatalf("err = %v, want ErrImportFailed", err)
	}
}

func TestImportReplacesExistingData(t *testing.T) {
	svc, _ := newTestService(t)

	svc.CreateStore(StoreParams{Name: "Old Market"})
	data, err := svc.ExportData()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	svc.CreateStore(StoreParams{Name: "Added Later"})
	if err := svc.ImportData(data); err != nil {
		t.Fatalf("import: %v", err)
	}

	stores, _ := svc.GetStores()
	if len(stores) != 1 || stores[0].Name != "Old Market" {
		t.Errorf("stores after import = %v, want just Old Market", stores)
	}
}
