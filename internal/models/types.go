package models

import "time"

// AuditStatus is the recorded pass/fail state of a single checklist answer.
// PENDING is the initial state; an item only returns to PENDING when its
// recorded value is cleared.
type AuditStatus string

const (
	StatusPending AuditStatus = "PENDING"
	StatusPass    AuditStatus = "PASS"
	StatusFail    AuditStatus = "FAIL"
)

// InputType selects the grading rule for a checklist item. Only number and
// yes_no items are auto-graded; the remaining types record values verbatim.
type InputType string

const (
	InputNumber InputType = "number"
	InputYesNo  InputType = "yes_no"
	InputPhoto  InputType = "photo"
	InputScale  InputType = "scale"
	InputText   InputType = "text"
)

// PhotoRule hints when field staff should attach evidence. The scoring
// engine does not enforce it.
type PhotoRule string

const (
	PhotoAlways PhotoRule = "always"
	PhotoOnFail PhotoRule = "on_fail"
	PhotoNone   PhotoRule = "none"
)

// ChecklistItem is one inspectable requirement from the catalog.
// Standard bounds are kept as the raw strings the catalog supplies; an empty
// string means the bound is absent and no range check applies.
type ChecklistItem struct {
	ID          string `json:"id"`
	Module      string `json:"module"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	InputType   InputType `json:"input_type"`
	StandardMin string    `json:"standard_min,omitempty"`
	StandardMax string    `json:"standard_max,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	PhotoRule   PhotoRule `json:"photo_rule,omitempty"`

	Risk   string `json:"risk,omitempty"`
	Weight int    `json:"weight"`

	FailMessage      string `json:"fail_message,omitempty"`
	RemediationGuide string `json:"remediation_guide,omitempty"`
}

// AuditItemState is the recorded answer for one item within one session.
type AuditItemState struct {
	ID     string      `json:"id"`
	Status AuditStatus `json:"status"`

	// ActualValue holds the value as typed; empty means unanswered.
	ActualValue string `json:"actual_value"`

	Notes       string `json:"notes,omitempty"`
	AutoComment string `json:"auto_comment,omitempty"`

	EvidenceURL string `json:"evidence_url,omitempty"`

	// StandardSnapshot is the human-readable rendering of the applicable
	// standard, frozen on first scoring so the audit trail survives later
	// catalog edits.
	StandardSnapshot string `json:"standard_snapshot,omitempty"`
}

// AuditSession is one inspection run. Items map answer state by item id;
// consumers must resolve ids against the catalog and never rely on map order.
type AuditSession struct {
	Farm           string                     `json:"farm"`
	AuditorName    string                     `json:"auditor_name"`
	Role           string                     `json:"role"`
	StartTime      time.Time                  `json:"start_time"`
	Items          map[string]*AuditItemState `json:"items"`
	GeneralComment string                     `json:"general_comment,omitempty"`
}

// ViewerRole marks sessions reconstructed from history; they are read-only.
const ViewerRole = "VIEWER"

// ModuleScore is the derived score of one module. Never persisted on its own.
type ModuleScore struct {
	Module       string  `json:"module"`
	Score        float64 `json:"score"`
	TotalWeight  int     `json:"total_weight"`
	EarnedWeight int     `json:"earned_weight"`
	ModuleWeight float64 `json:"module_weight"`
}

// FarmAuditResult is the final derived output of one scoring pass.
type FarmAuditResult struct {
	FinalScore     float64       `json:"final_score"`
	ModuleScores   []ModuleScore `json:"module_scores"`
	CriticalFail   bool          `json:"critical_fail"`
	TotalItems     int           `json:"total_items"`
	CompletedItems int           `json:"completed_items"`
}

// Thresholds are the rating band cut points. Bands are inclusive on their
// lower bound and contiguous: >=Green, >=Yellow, >=Orange, below.
type Thresholds struct {
	Green  float64 `json:"green"`
	Yellow float64 `json:"yellow"`
	Orange float64 `json:"orange"`
}

// ScoringConfig is the process-wide scoring configuration. It is passed
// explicitly into every computation and treated as a snapshot per call.
type ScoringConfig struct {
	CriticalRuleEnabled bool       `json:"critical_rule_enabled"`
	CriticalLimit       float64    `json:"critical_limit"`
	Thresholds          Thresholds `json:"thresholds"`
}

// DefaultScoringConfig mirrors the administrative defaults.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		CriticalRuleEnabled: true,
		CriticalLimit:       80,
		Thresholds:          Thresholds{Green: 90, Yellow: 80, Orange: 65},
	}
}

// ModuleConfig assigns a relative weight to one module for final aggregation.
// Modules without an entry default to weight 1.
type ModuleConfig struct {
	Module       string  `json:"module"`
	ModuleWeight float64 `json:"module_weight"`
}

// HistoryRecord is the summary row of one submitted audit.
type HistoryRecord struct {
	SessionID      string    `json:"session_id"`
	Timestamp      time.Time `json:"timestamp"`
	FarmID         string    `json:"farm_id"`
	User           string    `json:"user"`
	Score          float64   `json:"score"`
	Rating         string    `json:"rating"`
	GeneralComment string    `json:"general_comment,omitempty"`
}

// AuditDetail is one persisted per-item row of a submitted audit. The same
// shape serves submission and history reconstruction.
type AuditDetail struct {
	SessionID        string      `json:"session_id,omitempty"`
	ItemID           string      `json:"id"`
	Title            string      `json:"title"`
	InputType        InputType   `json:"input_type"`
	StandardSnapshot string      `json:"standard_snapshot"`
	ActualValue      string      `json:"actual_value"`
	Unit             string      `json:"unit,omitempty"`
	Status           AuditStatus `json:"status"`
	Score            int         `json:"score"`
	Reason           string      `json:"reason,omitempty"`
	AutoComment      string      `json:"auto_comment,omitempty"`
	EvidenceURL      string      `json:"evidence_url,omitempty"`
	Weight           int         `json:"weight"`
}

// User is an administrative account. Field auditors submit audits without
// accounts; users exist only for the catalog and configuration endpoints.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	PassHash  []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Settings holds the selectable farm and role lists.
type Settings struct {
	Farms []string `json:"farms"`
	Roles []string `json:"roles"`
}
