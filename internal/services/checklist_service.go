package services

import (
	"strings"

	"github.com/toanvet/farmaudit/internal/models"
)

// ChecklistStore abstracts persistence of the checklist catalog.
type ChecklistStore interface {
	ListChecklistItems() ([]*models.ChecklistItem, error)
	GetChecklistItem(id string) (*models.ChecklistItem, error)
	InsertChecklistItem(*models.ChecklistItem) error
	UpdateChecklistItem(*models.ChecklistItem) error
	DeleteChecklistItem(id string) error
}

// ChecklistService owns the catalog admin path. Edits produce a new catalog
// snapshot on the next load; in-progress sessions keep scoring against the
// snapshot they started with.
type ChecklistService struct {
	store ChecklistStore
}

func NewChecklistService(store ChecklistStore) *ChecklistService {
	return &ChecklistService{store: store}
}

// Catalog loads the current checklist definition as an immutable snapshot.
func (s *ChecklistService) Catalog() (*Catalog, error) {
	items, err := s.store.ListChecklistItems()
	if err != nil {
		return nil, err
	}
	return NewCatalog(items), nil
}

func (s *ChecklistService) CreateItem(it *models.ChecklistItem) (*models.ChecklistItem, error) {
	if it == nil {
		return nil, NewInvalidError("item required")
	}
	if err := validateItem(it); err != nil {
		return nil, err
	}
	if it.ID == "" {
		it.ID = shortID(8)
	} else if existing, err := s.store.GetChecklistItem(it.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, NewConflictError("item id exists")
	}
	if err := s.store.InsertChecklistItem(it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *ChecklistService) UpdateItem(it *models.ChecklistItem) error {
	if it == nil || strings.TrimSpace(it.ID) == "" {
		return NewInvalidError("item id required")
	}
	if err := validateItem(it); err != nil {
		return err
	}
	existing, err := s.store.GetChecklistItem(it.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewNotFoundError("item not found")
	}
	return s.store.UpdateChecklistItem(it)
}

func (s *ChecklistService) DeleteItem(id string) error {
	existing, err := s.store.GetChecklistItem(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewNotFoundError("item not found")
	}
	return s.store.DeleteChecklistItem(id)
}

func validateItem(it *models.ChecklistItem) error {
	if strings.TrimSpace(it.Module) == "" {
		return NewInvalidError("module required")
	}
	if strings.TrimSpace(it.Category) == "" {
		return NewInvalidError("category required")
	}
	if strings.TrimSpace(it.Title) == "" {
		return NewInvalidError("title required")
	}
	if it.Weight < 0 {
		return NewInvalidError("weight must be non-negative")
	}
	switch it.InputType {
	case models.InputNumber, models.InputYesNo, models.InputPhoto, models.InputScale, models.InputText:
	case "":
		it.InputType = models.InputText
	default:
		return NewInvalidError("unknown input type " + string(it.InputType))
	}
	switch it.PhotoRule {
	case models.PhotoAlways, models.PhotoOnFail, models.PhotoNone, "":
	default:
		return NewInvalidError("unknown photo rule " + string(it.PhotoRule))
	}
	return nil
}
