package models

import "strings"

// RiskLevel is the canonical severity of a checklist item. Catalog rows carry
// free-form, sometimes localized labels; only the canonical form drives rules.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
	// RiskUnknown covers labels outside the canonical set; such items are
	// treated as non-critical everywhere.
	RiskUnknown RiskLevel = ""
)

// riskSynonyms maps uppercased raw labels, including the Vietnamese spellings
// used in the master sheet (with and without diacritics), to canonical levels.
var riskSynonyms = map[string]RiskLevel{
	"LOW":      RiskLow,
	"MEDIUM":   RiskMedium,
	"HIGH":     RiskHigh,
	"CRITICAL": RiskCritical,

	"NHỎ":  RiskLow,
	"NHO":  RiskLow,
	"VỪA":  RiskMedium,
	"VUA":  RiskMedium,
	"LỚN":  RiskHigh,
	"LON":  RiskHigh,

	"NGHIÊM TRỌNG": RiskCritical,
	"NGHIEM TRONG": RiskCritical,
}

// NormalizeRisk maps a raw risk label to its canonical level. Unrecognized
// labels yield RiskUnknown; callers keep the raw label for display only.
func NormalizeRisk(raw string) RiskLevel {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if lvl, ok := riskSynonyms[key]; ok {
		return lvl
	}
	return RiskUnknown
}

// IsCritical reports whether the raw label normalizes to CRITICAL.
func IsCritical(raw string) bool {
	return NormalizeRisk(raw) == RiskCritical
}
