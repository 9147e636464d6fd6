package services

import (
	"sort"
	"time"

	"github.com/toanvet/farmaudit/internal/models"
)

// DashboardStore abstracts the reads behind the dashboard aggregates.
type DashboardStore interface {
	ListHistory() ([]*models.HistoryRecord, error)
	ListAllDetails() ([]*models.AuditDetail, error)
	ListChecklistItems() ([]*models.ChecklistItem, error)
}

type DashboardService struct {
	store DashboardStore
	now   func() time.Time
}

func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

type DashboardKPI struct {
	Compliance    float64 `json:"compliance"`
	AuditsToday   int     `json:"audits_today"`
	CriticalFails int     `json:"critical_fails"`
	TotalPhotos   int     `json:"total_photos"`
	TotalAudits   int     `json:"total_audits"`
}

type FarmRank struct {
	Farm  string  `json:"farm"`
	Score float64 `json:"score"`
}

type TrendPoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

type TopFail struct {
	ItemID      string    `json:"item_id"`
	Module      string    `json:"module"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Risk        string    `json:"risk,omitempty"`
	Fails       int       `json:"fails"`
	LastFail    time.Time `json:"last_fail"`
}

type DashboardSummary struct {
	Summary     DashboardKPI `json:"summary"`
	FarmRanking []FarmRank   `json:"farm_ranking"`
	Trend       []TrendPoint `json:"trend"`
	TopFails    []TopFail    `json:"top_fails"`
}

const topFailLimit = 5

// Summary aggregates all submitted audits into the dashboard view:
// compliance KPIs, per-farm ranking, a daily score trend, and the most
// frequently failing checklist items.
func (s *DashboardService) Summary() (*DashboardSummary, error) {
	history, err := s.store.ListHistory()
	if err != nil {
		return nil, err
	}
	details, err := s.store.ListAllDetails()
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListChecklistItems()
	if err != nil {
		return nil, err
	}

	byItem := make(map[string]*models.ChecklistItem, len(items))
	for _, it := range items {
		byItem[it.ID] = it
	}
	tsBySession := make(map[string]time.Time, len(history))
	for _, rec := range history {
		tsBySession[rec.SessionID] = rec.Timestamp
	}

	out := &DashboardSummary{
		Summary:     s.buildKPIs(history, details, byItem),
		FarmRanking: buildFarmRanking(history),
		Trend:       buildTrend(history),
		TopFails:    buildTopFails(details, byItem, tsBySession),
	}
	return out, nil
}

func (s *DashboardService) buildKPIs(history []*models.HistoryRecord, details []*models.AuditDetail, byItem map[string]*models.ChecklistItem) DashboardKPI {
	kpi := DashboardKPI{TotalAudits: len(history)}
	today := s.now().Format("2006-01-02")
	var sum float64
	for _, rec := range history {
		sum += rec.Score
		if rec.Timestamp.UTC().Format("2006-01-02") == today {
			kpi.AuditsToday++
		}
	}
	if len(history) > 0 {
		kpi.Compliance = roundHalfUp1(sum / float64(len(history)))
	}
	for _, d := range details {
		if d.EvidenceURL != "" {
			kpi.TotalPhotos++
		}
		if d.Status != models.StatusFail {
			continue
		}
		if it := byItem[d.ItemID]; it != nil && models.IsCritical(it.Risk) {
			kpi.CriticalFails++
		}
	}
	return kpi
}

func buildFarmRanking(history []*models.HistoryRecord) []FarmRank {
	sums := map[string]float64{}
	counts := map[string]int{}
	var order []string
	for _, rec := range history {
		if _, ok := counts[rec.FarmID]; !ok {
			order = append(order, rec.FarmID)
		}
		sums[rec.FarmID] += rec.Score
		counts[rec.FarmID]++
	}
	out := make([]FarmRank, 0, len(order))
	for _, farm := range order {
		out = append(out, FarmRank{Farm: farm, Score: roundHalfUp1(sums[farm] / float64(counts[farm]))})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func buildTrend(history []*models.HistoryRecord) []TrendPoint {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, rec := range history {
		day := rec.Timestamp.UTC().Format("2006-01-02")
		sums[day] += rec.Score
		counts[day]++
	}
	days := make([]string, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	sort.Strings(days)
	out := make([]TrendPoint, 0, len(days))
	for _, day := range days {
		out = append(out, TrendPoint{Date: day, Score: roundHalfUp1(sums[day] / float64(counts[day]))})
	}
	return out
}

func buildTopFails(details []*models.AuditDetail, byItem map[string]*models.ChecklistItem, tsBySession map[string]time.Time) []TopFail {
	fails := map[string]*TopFail{}
	var order []string
	for _, d := range details {
		if d.Status != models.StatusFail {
			continue
		}
		tf := fails[d.ItemID]
		if tf == nil {
			tf = &TopFail{ItemID: d.ItemID, Title: d.Title}
			if it := byItem[d.ItemID]; it != nil {
				tf.Module = it.Module
				tf.Title = it.Title
				tf.Description = it.Description
				tf.Risk = it.Risk
			}
			fails[d.ItemID] = tf
			order = append(order, d.ItemID)
		}
		tf.Fails++
		if ts, ok := tsBySession[d.SessionID]; ok && ts.After(tf.LastFail) {
			tf.LastFail = ts
		}
	}
	out := make([]TopFail, 0, len(order))
	for _, id := range order {
		out = append(out, *fails[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fails > out[j].Fails })
	if len(out) > topFailLimit {
		out = out[:topFailLimit]
	}
	return out
}
