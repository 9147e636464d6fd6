package services

import (
	"testing"
	"time"

	"github.com/toanvet/farmaudit/internal/models"
)

type stubDashboardStore struct {
	history []*models.HistoryRecord
	details []*models.AuditDetail
	items   []*models.ChecklistItem
}

func (s *stubDashboardStore) ListHistory() ([]*models.HistoryRecord, error) { return s.history, nil }
func (s *stubDashboardStore) ListAllDetails() ([]*models.AuditDetail, error) {
	return s.details, nil
}
func (s *stubDashboardStore) ListChecklistItems() ([]*models.ChecklistItem, error) {
	return s.items, nil
}

func dashboardFixture(now time.Time) *stubDashboardStore {
	yesterday := now.Add(-24 * time.Hour)
	return &stubDashboardStore{
		items: []*models.ChecklistItem{
			{ID: "w1", Module: "Water", Title: "Chlorine level", Risk: "CRITICAL", Weight: 5},
			{ID: "f1", Module: "Feed", Title: "Feed storage dry", Risk: "LOW", Weight: 3},
		},
		history: []*models.HistoryRecord{
			{SessionID: "s1", Timestamp: yesterday, FarmID: "VT1", User: "lan", Score: 90},
			{SessionID: "s2", Timestamp: now, FarmID: "VT2", User: "minh", Score: 70},
			{SessionID: "s3", Timestamp: now, FarmID: "VT1", User: "lan", Score: 80},
		},
		details: []*models.AuditDetail{
			{SessionID: "s1", ItemID: "w1", Status: models.StatusFail},
			{SessionID: "s2", ItemID: "w1", Status: models.StatusFail, EvidenceURL: "https://img/1.jpg"},
			{SessionID: "s2", ItemID: "f1", Status: models.StatusFail},
			{SessionID: "s3", ItemID: "f1", Status: models.StatusPass, EvidenceURL: "https://img/2.jpg"},
		},
	}
}

func TestDashboardSummaryKPIs(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := NewDashboardService(dashboardFixture(now))
	svc.now = func() time.Time { return now }

	sum, err := svc.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	kpi := sum.Summary
	if kpi.TotalAudits != 3 {
		t.Fatalf("total audits = %d", kpi.TotalAudits)
	}
	if kpi.AuditsToday != 2 {
		t.Fatalf("audits today = %d", kpi.AuditsToday)
	}
	if kpi.Compliance != 80.0 {
		t.Fatalf("compliance = %v, want 80.0", kpi.Compliance)
	}
	// Only the two w1 fails count: the item is CRITICAL, f1 is not.
	if kpi.CriticalFails != 2 {
		t.Fatalf("critical fails = %d", kpi.CriticalFails)
	}
	if kpi.TotalPhotos != 2 {
		t.Fatalf("total photos = %d", kpi.TotalPhotos)
	}
}

func TestDashboardFarmRankingSortedByScore(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := NewDashboardService(dashboardFixture(now))
	svc.now = func() time.Time { return now }

	sum, err := svc.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(sum.FarmRanking) != 2 {
		t.Fatalf("ranking len = %d", len(sum.FarmRanking))
	}
	if sum.FarmRanking[0].Farm != "VT1" || sum.FarmRanking[0].Score != 85.0 {
		t.Fatalf("top farm = %+v", sum.FarmRanking[0])
	}
	if sum.FarmRanking[1].Farm != "VT2" || sum.FarmRanking[1].Score != 70.0 {
		t.Fatalf("second farm = %+v", sum.FarmRanking[1])
	}
}

func TestDashboardTrendGroupsByDay(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := NewDashboardService(dashboardFixture(now))
	svc.now = func() time.Time { return now }

	sum, err := svc.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(sum.Trend) != 2 {
		t.Fatalf("trend len = %d", len(sum.Trend))
	}
	if sum.Trend[0].Date != "2025-03-09" || sum.Trend[0].Score != 90.0 {
		t.Fatalf("trend[0] = %+v", sum.Trend[0])
	}
	if sum.Trend[1].Date != "2025-03-10" || sum.Trend[1].Score != 75.0 {
		t.Fatalf("trend[1] = %+v", sum.Trend[1])
	}
}

func TestDashboardTopFails(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := NewDashboardService(dashboardFixture(now))
	svc.now = func() time.Time { return now }

	sum, err := svc.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(sum.TopFails) != 2 {
		t.Fatalf("top fails len = %d", len(sum.TopFails))
	}
	top := sum.TopFails[0]
	if top.ItemID != "w1" || top.Fails != 2 {
		t.Fatalf("top fail = %+v", top)
	}
	if top.Module != "Water" || top.Title != "Chlorine level" || top.Risk != "CRITICAL" {
		t.Fatalf("top fail enrichment = %+v", top)
	}
	if !top.LastFail.Equal(now) {
		t.Fatalf("last fail = %v, want %v", top.LastFail, now)
	}
	if sum.TopFails[1].ItemID != "f1" || sum.TopFails[1].Fails != 1 {
		t.Fatalf("second fail = %+v", sum.TopFails[1])
	}
}

func TestDashboardTopFailsCapped(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store := &stubDashboardStore{}
	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		store.items = append(store.items, &models.ChecklistItem{ID: id, Module: "M", Title: id, Weight: 1})
		store.details = append(store.details, &models.AuditDetail{SessionID: "s", ItemID: id, Status: models.StatusFail})
	}
	svc := NewDashboardService(store)
	svc.now = func() time.Time { return now }

	sum, err := svc.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(sum.TopFails) != topFailLimit {
		t.Fatalf("top fails len = %d, want %d", len(sum.TopFails), topFailLimit)
	}
}

func TestDashboardEmptyStore(t *testing.T) {
	svc := NewDashboardService(&stubDashboardStore{})
	sum, err := svc.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Summary.TotalAudits != 0 || sum.Summary.Compliance != 0 {
		t.Fatalf("empty summary = %+v", sum.Summary)
	}
	if len(sum.FarmRanking) != 0 || len(sum.Trend) != 0 || len(sum.TopFails) != 0 {
		t.Fatalf("expected empty aggregates: %+v", sum)
	}
}
