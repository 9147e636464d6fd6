package services

import (
	"reflect"
	"testing"
	"time"

	"github.com/toanvet/farmaudit/internal/models"
)

func scopeItems() []*models.ChecklistItem {
	return []*models.ChecklistItem{
		{ID: "1", Module: "Biosecurity", Category: "Entry control", Weight: 5},
		{ID: "2", Module: "Biosecurity", Category: "Hygiene", Weight: 5},
		{ID: "3", Module: "Biosecurity", Category: "Entry control", Weight: 5},
		{ID: "4", Module: "Environment", Category: "Climate", Weight: 10},
	}
}

func TestDeriveScope(t *testing.T) {
	scope := DeriveScope(scopeItems())
	want := []ModuleScope{
		{Module: "Biosecurity", Categories: []string{"Entry control", "Hygiene"}},
		{Module: "Environment", Categories: []string{"Climate"}},
	}
	if !reflect.DeepEqual(scope, want) {
		t.Fatalf("scope=%+v, want %+v", scope, want)
	}
}

func TestSelectAllIsDefault(t *testing.T) {
	sel := SelectAll(DeriveScope(scopeItems()))
	if len(sel) != 3 {
		t.Fatalf("selected=%d, want every category", len(sel))
	}
	if got := FilterItems(scopeItems(), sel); len(got) != 4 {
		t.Fatalf("filtered=%d, want all items with full selection", len(got))
	}
}

func TestToggleCategory(t *testing.T) {
	sel := SelectAll(DeriveScope(scopeItems()))
	sel2 := ToggleCategory(sel, "Hygiene")
	if _, ok := sel2["Hygiene"]; ok {
		t.Fatal("Hygiene should be deselected")
	}
	if _, ok := sel["Hygiene"]; !ok {
		t.Fatal("toggle must not mutate the input selection")
	}
	sel3 := ToggleCategory(sel2, "Hygiene")
	if !reflect.DeepEqual(sel3, sel) {
		t.Fatal("double toggle should restore the selection")
	}
}

func TestToggleModuleAllOrNothing(t *testing.T) {
	scope := DeriveScope(scopeItems())
	bioCats := scope[0].Categories

	sel := SelectAll(scope)
	// Fully selected module: toggling deselects all of it.
	sel = ToggleModule(sel, bioCats)
	for _, c := range bioCats {
		if _, ok := sel[c]; ok {
			t.Fatalf("category %q should be deselected", c)
		}
	}
	if _, ok := sel["Climate"]; !ok {
		t.Fatal("other modules must be untouched")
	}

	// Partially selected module: toggling selects all of it.
	sel = ToggleCategory(sel, "Hygiene")
	sel = ToggleModule(sel, bioCats)
	for _, c := range bioCats {
		if _, ok := sel[c]; !ok {
			t.Fatalf("category %q should be selected after partial toggle", c)
		}
	}
}

func TestFilterItems(t *testing.T) {
	items := scopeItems()
	sel := Selection{"Entry control": {}}
	got := FilterItems(items, sel)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("filtered=%+v, want items 1 and 3", got)
	}
}

func TestScopeRoundTripPreservesResult(t *testing.T) {
	items := scopeItems()
	items[0].InputType = models.InputYesNo
	items[1].InputType = models.InputYesNo
	items[2].InputType = models.InputYesNo
	items[3].InputType = models.InputNumber
	items[3].StandardMin, items[3].StandardMax = "20", "30"
	cat := NewCatalog(items)

	s := NewSession("VT1", "Dr. Toan", "Auditor", time.Now())
	s = UpdateItem(cat, s, "1", "1")
	s = UpdateItem(cat, s, "2", "0")
	s = UpdateItem(cat, s, "4", "25")

	scope := DeriveScope(items)
	full := SelectAll(scope)
	before := ComputeResult(FilterItems(items, full), s.Items, nil, models.DefaultScoringConfig())

	// Deselect a category, score the narrowed scope, then restore.
	narrowed := ToggleCategory(full, "Hygiene")
	mid := ComputeResult(FilterItems(items, narrowed), s.Items, nil, models.DefaultScoringConfig())
	if mid.TotalItems != 3 {
		t.Fatalf("narrowed totalItems=%d, want 3", mid.TotalItems)
	}
	if mid.CompletedItems > mid.TotalItems {
		t.Fatal("completedItems must never exceed totalItems")
	}

	restored := ToggleCategory(narrowed, "Hygiene")
	after := ComputeResult(FilterItems(items, restored), s.Items, nil, models.DefaultScoringConfig())
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("result changed across deselect/reselect: %+v vs %+v", before, after)
	}
}
