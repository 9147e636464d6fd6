package services

import (
	"time"

	"github.com/toanvet/farmaudit/internal/models"
)

// Catalog is the checklist definition loaded once per session. It is
// immutable for the duration of an audit; administrative edits produce a new
// catalog snapshot, never a live mutation.
type Catalog struct {
	items []*models.ChecklistItem
	byID  map[string]*models.ChecklistItem
}

func NewCatalog(items []*models.ChecklistItem) *Catalog {
	c := &Catalog{
		items: append([]*models.ChecklistItem(nil), items...),
		byID:  make(map[string]*models.ChecklistItem, len(items)),
	}
	for _, it := range c.items {
		c.byID[it.ID] = it
	}
	return c
}

// Items returns catalog items in load order.
func (c *Catalog) Items() []*models.ChecklistItem {
	return append([]*models.ChecklistItem(nil), c.items...)
}

func (c *Catalog) Get(id string) *models.ChecklistItem { return c.byID[id] }

func (c *Catalog) Len() int { return len(c.items) }

// NewSession creates an empty audit session.
func NewSession(farm, auditorName, role string, start time.Time) *models.AuditSession {
	return &models.AuditSession{
		Farm:        farm,
		AuditorName: auditorName,
		Role:        role,
		StartTime:   start,
		Items:       map[string]*models.AuditItemState{},
	}
}

// UpdateItem records a raw input value for one item and re-grades it,
// returning a new session snapshot. The input session is never mutated;
// callers serialize calls against a single session themselves.
//
// An unknown item id is a silent no-op: items can leave the visible scope
// through category deselection without their prior answers being deleted,
// so a late update for a hidden item is ordinary, not an error.
func UpdateItem(cat *Catalog, s *models.AuditSession, itemID, raw string) *models.AuditSession {
	item := cat.Get(itemID)
	if item == nil {
		return s
	}

	out := ScoreItem(item, raw)

	next := cloneSession(s)
	cur := next.Items[itemID]
	if cur == nil {
		cur = &models.AuditItemState{ID: itemID, Status: models.StatusPending}
	} else {
		cp := *cur
		cur = &cp
	}

	cur.Status = out.Status
	cur.ActualValue = raw
	cur.AutoComment = out.AutoComment
	// Freeze the standard rendering on first scoring; later catalog edits
	// must not rewrite the audit trail.
	if cur.StandardSnapshot == "" {
		cur.StandardSnapshot = out.StandardSnapshot
	}

	next.Items[itemID] = cur
	return next
}

// AttachEvidence records a photo reference for an item without touching its
// status or recorded value. A state is created in PENDING if none exists yet:
// field staff may photograph a spot before grading it.
func AttachEvidence(s *models.AuditSession, itemID, url string) *models.AuditSession {
	next := cloneSession(s)
	cur := next.Items[itemID]
	if cur == nil {
		cur = &models.AuditItemState{ID: itemID, Status: models.StatusPending}
	} else {
		cp := *cur
		cur = &cp
	}
	cur.EvidenceURL = url
	next.Items[itemID] = cur
	return next
}

// SetNotes records free-text notes for an item; never auto-populated.
func SetNotes(s *models.AuditSession, itemID, notes string) *models.AuditSession {
	next := cloneSession(s)
	cur := next.Items[itemID]
	if cur == nil {
		cur = &models.AuditItemState{ID: itemID, Status: models.StatusPending}
	} else {
		cp := *cur
		cur = &cp
	}
	cur.Notes = notes
	next.Items[itemID] = cur
	return next
}

// AnsweredCount reports how many of the given items carry a non-PENDING
// answer. Callers pass the scoped item list so progress follows the filter.
func AnsweredCount(s *models.AuditSession, items []*models.ChecklistItem) int {
	n := 0
	for _, it := range items {
		if st := s.Items[it.ID]; st != nil && st.Status != models.StatusPending {
			n++
		}
	}
	return n
}

func cloneSession(s *models.AuditSession) *models.AuditSession {
	next := *s
	next.Items = make(map[string]*models.AuditItemState, len(s.Items)+1)
	for id, st := range s.Items {
		next.Items[id] = st
	}
	return &next
}
