package services

import "github.com/toanvet/farmaudit/internal/models"

// ModuleScope lists the distinct categories of one module, in first-seen
// catalog order. The category is the unit of scope filtering.
type ModuleScope struct {
	Module     string   `json:"module"`
	Categories []string `json:"categories"`
}

// Selection is the set of currently selected categories. Values are copied
// on every toggle; callers treat a Selection as immutable.
type Selection map[string]struct{}

// DeriveScope walks the catalog and groups distinct categories per module.
func DeriveScope(items []*models.ChecklistItem) []ModuleScope {
	var order []string
	cats := map[string][]string{}
	seen := map[string]map[string]struct{}{}
	for _, it := range items {
		if _, ok := seen[it.Module]; !ok {
			order = append(order, it.Module)
			seen[it.Module] = map[string]struct{}{}
		}
		if _, ok := seen[it.Module][it.Category]; !ok {
			seen[it.Module][it.Category] = struct{}{}
			cats[it.Module] = append(cats[it.Module], it.Category)
		}
	}
	out := make([]ModuleScope, 0, len(order))
	for _, mod := range order {
		out = append(out, ModuleScope{Module: mod, Categories: cats[mod]})
	}
	return out
}

// SelectAll returns the default selection: every category in scope.
func SelectAll(scope []ModuleScope) Selection {
	sel := Selection{}
	for _, ms := range scope {
		for _, c := range ms.Categories {
			sel[c] = struct{}{}
		}
	}
	return sel
}

// ToggleCategory flips one category in or out of the selection.
func ToggleCategory(sel Selection, category string) Selection {
	next := cloneSelection(sel)
	if _, ok := next[category]; ok {
		delete(next, category)
	} else {
		next[category] = struct{}{}
	}
	return next
}

// ToggleModule is all-or-nothing: if every category of the module is already
// selected the whole module is deselected, otherwise all of its categories
// are selected. Categories of other modules are left alone.
func ToggleModule(sel Selection, categories []string) Selection {
	next := cloneSelection(sel)
	all := true
	for _, c := range categories {
		if _, ok := next[c]; !ok {
			all = false
			break
		}
	}
	for _, c := range categories {
		if all {
			delete(next, c)
		} else {
			next[c] = struct{}{}
		}
	}
	return next
}

// FilterItems restricts the catalog to items whose category is selected.
// Deselected items keep their recorded session state; they are merely out of
// scope for scoring and progress until re-selected.
func FilterItems(items []*models.ChecklistItem, sel Selection) []*models.ChecklistItem {
	out := make([]*models.ChecklistItem, 0, len(items))
	for _, it := range items {
		if _, ok := sel[it.Category]; ok {
			out = append(out, it)
		}
	}
	return out
}

func cloneSelection(sel Selection) Selection {
	next := make(Selection, len(sel)+1)
	for c := range sel {
		next[c] = struct{}{}
	}
	return next
}
