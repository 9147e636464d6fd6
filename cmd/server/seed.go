package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/toanvet/farmaudit/internal/api"
	"github.com/toanvet/farmaudit/internal/models"
)

// loadCatalogIfEmpty bootstraps the checklist from a JSON file on first run.
// A store that already holds items is left untouched so admin edits survive
// restarts.
func loadCatalogIfEmpty(store api.Store, path string) error {
	existing, err := store.ListChecklistItems()
	if err != nil {
		return fmt.Errorf("check catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}
	var items []*models.ChecklistItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("parse catalog file: %w", err)
	}
	for _, it := range items {
		if it == nil || it.ID == "" {
			continue
		}
		if err := store.InsertChecklistItem(it); err != nil {
			return fmt.Errorf("insert catalog item %s: %w", it.ID, err)
		}
	}
	log.Printf("Loaded %d checklist items from %s", len(items), path)
	return nil
}
