package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toanvet/farmaudit/internal/models"
)

// Auto-comment defaults. FailMessage on the checklist item overrides the
// failure texts; the pass/recorded texts are fixed.
const (
	CommentCompliant = "within standard"
	CommentInvalid   = "invalid data"
	CommentNotMet    = "requirement not met"
	CommentRecorded  = "recorded"
)

// ScoreOutcome is the result of grading one raw input against one item.
type ScoreOutcome struct {
	Status      models.AuditStatus
	AutoComment string

	// NormalizedValue is the parsed numeric value for number and yes_no
	// inputs; nil when the raw value is empty or unparseable.
	NormalizedValue *float64

	// StandardSnapshot is the rendering of the applicable standard at
	// grading time. The session aggregator freezes the first non-empty
	// snapshot it sees for an item.
	StandardSnapshot string
}

// ScoreItem grades one raw input value against one checklist item. It is a
// pure function: identical inputs always produce an identical outcome, which
// keeps replays (history reconstruction, re-submission) safe.
//
// An empty raw value is the only path back to PENDING.
func ScoreItem(item *models.ChecklistItem, raw string) ScoreOutcome {
	out := ScoreOutcome{StandardSnapshot: renderSnapshot(item)}

	if strings.TrimSpace(raw) == "" {
		out.Status = models.StatusPending
		return out
	}

	switch item.InputType {
	case models.InputNumber:
		return scoreNumber(item, raw, out)
	case models.InputYesNo:
		return scoreYesNo(item, raw, out)
	default:
		// photo, scale, text: recorded verbatim, no grading rule.
		out.Status = models.StatusPass
		out.AutoComment = CommentRecorded
		return out
	}
}

func scoreNumber(item *models.ChecklistItem, raw string, out ScoreOutcome) ScoreOutcome {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		out.Status = models.StatusFail
		out.AutoComment = CommentInvalid
		return out
	}
	out.NormalizedValue = &v

	min, minOK := parseBound(item.StandardMin)
	max, maxOK := parseBound(item.StandardMax)
	if !minOK || !maxOK {
		// No usable standard configured: the value is recorded and the item
		// auto-passes. Kept from the source system pending product
		// clarification; the comment makes the missing standard visible.
		out.Status = models.StatusPass
		out.AutoComment = CommentRecorded
		return out
	}

	if v < min || v > max {
		out.Status = models.StatusFail
		out.AutoComment = failComment(item, fmt.Sprintf("out of range (%s-%s)",
			strings.TrimSpace(item.StandardMin), strings.TrimSpace(item.StandardMax)))
		return out
	}
	out.Status = models.StatusPass
	out.AutoComment = CommentCompliant
	return out
}

func scoreYesNo(item *models.ChecklistItem, raw string, out ScoreOutcome) ScoreOutcome {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err == nil {
		out.NormalizedValue = &v
	}
	// Pass only on an explicit 1; everything else, including values outside
	// the 0/1 contract, counts as a failed requirement.
	if err == nil && v == 1 {
		out.Status = models.StatusPass
		out.AutoComment = CommentCompliant
		return out
	}
	out.Status = models.StatusFail
	out.AutoComment = failComment(item, CommentNotMet)
	return out
}

func failComment(item *models.ChecklistItem, fallback string) string {
	if strings.TrimSpace(item.FailMessage) != "" {
		return item.FailMessage
	}
	return fallback
}

func parseBound(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// renderSnapshot produces the standard text stored alongside an answer.
func renderSnapshot(item *models.ChecklistItem) string {
	switch item.InputType {
	case models.InputNumber:
		min := strings.TrimSpace(item.StandardMin)
		max := strings.TrimSpace(item.StandardMax)
		if min == "" {
			min = "?"
		}
		if max == "" {
			max = "?"
		}
		return min + "-" + max
	case models.InputYesNo:
		return "Yes/No"
	default:
		return ""
	}
}
