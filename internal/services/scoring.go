package services

import (
	"math"

	"github.com/toanvet/farmaudit/internal/models"
)

// Rating labels per threshold band. Bands are inclusive on the lower bound
// and contiguous.
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingAverage   = "Average"
	RatingPoor      = "Poor"
)

// ComputeModuleScores partitions items by module and scores each module as
// 100 * earnedWeight / totalWeight. Modules appear in first-seen catalog
// order. Modules without an explicit ModuleConfig entry get weight 1.
func ComputeModuleScores(items []*models.ChecklistItem, states map[string]*models.AuditItemState, moduleConfigs []models.ModuleConfig) []models.ModuleScore {
	weights := make(map[string]float64, len(moduleConfigs))
	for _, mc := range moduleConfigs {
		weights[mc.Module] = sanitizeModuleWeight(mc.ModuleWeight)
	}

	var order []string
	byModule := map[string][]*models.ChecklistItem{}
	for _, it := range items {
		if _, seen := byModule[it.Module]; !seen {
			order = append(order, it.Module)
		}
		byModule[it.Module] = append(byModule[it.Module], it)
	}

	out := make([]models.ModuleScore, 0, len(order))
	for _, mod := range order {
		total, earned := 0, 0
		for _, it := range byModule[mod] {
			w := it.Weight
			if w < 0 {
				w = 0
			}
			total += w
			if st := states[it.ID]; st != nil && st.Status == models.StatusPass {
				earned += w
			}
		}
		score := 0.0
		if total > 0 {
			score = 100 * float64(earned) / float64(total)
		}
		mw, ok := weights[mod]
		if !ok {
			mw = 1 // modules discovered in the catalog default to weight 1
		}
		out = append(out, models.ModuleScore{
			Module:       mod,
			Score:        score,
			TotalWeight:  total,
			EarnedWeight: earned,
			ModuleWeight: mw,
		})
	}
	return out
}

// ComputeResult walks all given items and produces the final weighted
// compliance score. The caller applies scope filtering upstream by passing
// the filtered item slice; previously recorded states outside the scope stay
// untouched in the session.
//
// The function never returns NaN or Infinity: degenerate aggregations
// collapse to 0.
func ComputeResult(items []*models.ChecklistItem, states map[string]*models.AuditItemState, moduleConfigs []models.ModuleConfig, cfg models.ScoringConfig) models.FarmAuditResult {
	moduleScores := ComputeModuleScores(items, states, moduleConfigs)

	var sumWeighted, sumWeights float64
	for _, ms := range moduleScores {
		sumWeighted += ms.Score * ms.ModuleWeight
		sumWeights += ms.ModuleWeight
	}
	final := 0.0
	if sumWeights > 0 {
		final = sumWeighted / sumWeights
	}

	// Critical-fail detection runs over every item regardless of module
	// partitioning; an unanswered critical item is not a failure.
	criticalFail := false
	for _, it := range items {
		if !models.IsCritical(it.Risk) {
			continue
		}
		if st := states[it.ID]; st != nil && st.Status == models.StatusFail {
			criticalFail = true
			break
		}
	}

	// The critical override is a cap, never a floor.
	if cfg.CriticalRuleEnabled && criticalFail {
		final = math.Min(final, cfg.CriticalLimit)
	}

	if math.IsNaN(final) || math.IsInf(final, 0) {
		final = 0
	}
	final = math.Min(math.Max(final, 0), 100)
	final = roundHalfUp1(final)

	completed := 0
	for _, it := range items {
		if st := states[it.ID]; st != nil && st.Status != models.StatusPending {
			completed++
		}
	}

	return models.FarmAuditResult{
		FinalScore:     final,
		ModuleScores:   moduleScores,
		CriticalFail:   criticalFail,
		TotalItems:     len(items),
		CompletedItems: completed,
	}
}

// RatingLabel classifies a final score into its display band.
func RatingLabel(score float64, cfg models.ScoringConfig) string {
	switch {
	case score >= cfg.Thresholds.Green:
		return RatingExcellent
	case score >= cfg.Thresholds.Yellow:
		return RatingGood
	case score >= cfg.Thresholds.Orange:
		return RatingAverage
	default:
		return RatingPoor
	}
}

func sanitizeModuleWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

// roundHalfUp1 rounds to one decimal place, halves away from zero.
func roundHalfUp1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
