package services

import (
	"sort"
	"strings"
	"time"

	"github.com/toanvet/farmaudit/internal/models"
)

// AuditStore abstracts persistence for submitted audits.
type AuditStore interface {
	SaveAudit(rec *models.HistoryRecord, details []*models.AuditDetail) error
	ListHistory() ([]*models.HistoryRecord, error)
	GetHistory(sessionID string) (*models.HistoryRecord, error)
	ListDetails(sessionID string) ([]*models.AuditDetail, error)
}

// AuditService hosts the submission workflow and the history browser.
type AuditService struct {
	store AuditStore
	now   func() time.Time
	idGen func() string
}

func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return shortID(12) },
	}
}

// SubmitResult is what the report screen consumes after a submission.
type SubmitResult struct {
	SessionID    string                 `json:"session_id"`
	Score        float64                `json:"score"`
	Rating       string                 `json:"rating"`
	CriticalFail bool                   `json:"critical_fail"`
	Result       models.FarmAuditResult `json:"result"`
}

// Submit validates provenance, scores the session against the catalog, and
// persists the summary record plus one detail row per recorded answer. The
// session is finalized by this call; the stored rows are the source for
// later reconstruction.
func (s *AuditService) Submit(cat *Catalog, session *models.AuditSession, moduleConfigs []models.ModuleConfig, cfg models.ScoringConfig) (*SubmitResult, error) {
	if session == nil {
		return nil, NewInvalidError("session required")
	}
	if strings.TrimSpace(session.Farm) == "" {
		return nil, NewInvalidError("farm required")
	}
	if strings.TrimSpace(session.AuditorName) == "" {
		return nil, NewInvalidError("auditor name required")
	}
	if strings.TrimSpace(session.Role) == "" {
		return nil, NewInvalidError("role required")
	}
	if session.Role == models.ViewerRole {
		return nil, NewForbiddenError("viewer sessions are read-only")
	}

	result := ComputeResult(cat.Items(), session.Items, moduleConfigs, cfg)
	rating := RatingLabel(result.FinalScore, cfg)

	ts := session.StartTime
	if ts.IsZero() {
		ts = s.now()
	}
	rec := &models.HistoryRecord{
		SessionID:      s.idGen(),
		Timestamp:      ts,
		FarmID:         session.Farm,
		User:           session.AuditorName,
		Score:          result.FinalScore,
		Rating:         rating,
		GeneralComment: session.GeneralComment,
	}
	details := DetailRows(cat, session)
	for _, d := range details {
		d.SessionID = rec.SessionID
	}

	if err := s.store.SaveAudit(rec, details); err != nil {
		return nil, err
	}
	return &SubmitResult{
		SessionID:    rec.SessionID,
		Score:        result.FinalScore,
		Rating:       rating,
		CriticalFail: result.CriticalFail,
		Result:       result,
	}, nil
}

// History lists submitted audits, newest first.
func (s *AuditService) History() ([]*models.HistoryRecord, error) {
	recs, err := s.store.ListHistory()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Timestamp.After(recs[j].Timestamp) })
	return recs, nil
}

// Details returns the per-item rows of one submitted audit.
func (s *AuditService) Details(sessionID string) ([]*models.AuditDetail, error) {
	rec, err := s.store.GetHistory(sessionID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, NewNotFoundError("audit not found")
	}
	return s.store.ListDetails(sessionID)
}

// Replay rebuilds a read-only session from a persisted audit. The role is
// forced to the viewer designation so the result can never be re-submitted.
func (s *AuditService) Replay(cat *Catalog, sessionID string) (*models.AuditSession, *models.HistoryRecord, error) {
	rec, err := s.store.GetHistory(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, NewNotFoundError("audit not found")
	}
	details, err := s.store.ListDetails(sessionID)
	if err != nil {
		return nil, nil, err
	}
	return ReconstructSession(cat, rec, details), rec, nil
}

// DetailRows maps session state to submission rows, one per recorded item,
// in catalog order. Rows whose item has left the catalog keep the recorded
// id as title and weight 0. ReconstructSession is the inverse of this
// mapping; keep the two in step.
func DetailRows(cat *Catalog, session *models.AuditSession) []*models.AuditDetail {
	out := make([]*models.AuditDetail, 0, len(session.Items))
	emit := func(st *models.AuditItemState, item *models.ChecklistItem) {
		d := &models.AuditDetail{
			ItemID:           st.ID,
			StandardSnapshot: st.StandardSnapshot,
			ActualValue:      st.ActualValue,
			Status:           st.Status,
			Reason:           st.Notes,
			AutoComment:      st.AutoComment,
			EvidenceURL:      st.EvidenceURL,
		}
		if item != nil {
			d.Title = item.Title
			d.InputType = item.InputType
			d.Unit = item.Unit
			d.Weight = item.Weight
			if st.Status == models.StatusPass {
				d.Score = item.Weight
			}
		} else {
			d.Title = st.ID
			d.InputType = models.InputText
		}
		out = append(out, d)
	}

	seen := map[string]struct{}{}
	for _, item := range cat.Items() {
		if st := session.Items[item.ID]; st != nil {
			emit(st, item)
			seen[item.ID] = struct{}{}
		}
	}
	// Orphaned states (item removed from the catalog after answering) are
	// still part of the audit trail; append them in id order.
	var orphans []string
	for id := range session.Items {
		if _, ok := seen[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		emit(session.Items[id], nil)
	}
	return out
}

// ReconstructSession is the inverse of DetailRows: it rebuilds session state
// from persisted rows. Only rows whose item still exists in the catalog are
// restored, matching how the report screen resolves answers for display.
func ReconstructSession(cat *Catalog, rec *models.HistoryRecord, details []*models.AuditDetail) *models.AuditSession {
	session := NewSession(rec.FarmID, rec.User, models.ViewerRole, rec.Timestamp)
	session.GeneralComment = rec.GeneralComment
	byID := make(map[string]*models.AuditDetail, len(details))
	for _, d := range details {
		byID[d.ItemID] = d
	}
	for _, item := range cat.Items() {
		d := byID[item.ID]
		if d == nil {
			continue
		}
		session.Items[item.ID] = &models.AuditItemState{
			ID:               item.ID,
			Status:           d.Status,
			ActualValue:      d.ActualValue,
			Notes:            d.Reason,
			AutoComment:      d.AutoComment,
			EvidenceURL:      d.EvidenceURL,
			StandardSnapshot: d.StandardSnapshot,
		}
	}
	return session
}
