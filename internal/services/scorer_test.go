package services

import (
	"testing"

	"github.com/toanvet/farmaudit/internal/models"
)

func numberItem(min, max string) *models.ChecklistItem {
	return &models.ChecklistItem{
		ID:          "T1",
		Module:      "Environment",
		Category:    "Climate",
		Title:       "Barn temperature",
		InputType:   models.InputNumber,
		StandardMin: min,
		StandardMax: max,
		Unit:        "°C",
		Weight:      10,
	}
}

func TestScoreItemNumberInRange(t *testing.T) {
	out := ScoreItem(numberItem("24", "26"), "25")
	if out.Status != models.StatusPass {
		t.Fatalf("status=%s, want PASS", out.Status)
	}
	if out.AutoComment != CommentCompliant {
		t.Fatalf("autoComment=%q, want %q", out.AutoComment, CommentCompliant)
	}
	if out.NormalizedValue == nil || *out.NormalizedValue != 25 {
		t.Fatalf("normalized=%v, want 25", out.NormalizedValue)
	}
	if out.StandardSnapshot != "24-26" {
		t.Fatalf("snapshot=%q, want 24-26", out.StandardSnapshot)
	}
}

func TestScoreItemNumberOutOfRange(t *testing.T) {
	cases := []struct{ raw string }{{"30"}, {"23.9"}, {"-5"}}
	for _, c := range cases {
		out := ScoreItem(numberItem("24", "26"), c.raw)
		if out.Status != models.StatusFail {
			t.Fatalf("raw=%q status=%s, want FAIL", c.raw, out.Status)
		}
		if out.AutoComment != "out of range (24-26)" {
			t.Fatalf("raw=%q autoComment=%q, want snapshot in comment", c.raw, out.AutoComment)
		}
	}
}

func TestScoreItemNumberBoundsInclusive(t *testing.T) {
	for _, raw := range []string{"24", "26"} {
		out := ScoreItem(numberItem("24", "26"), raw)
		if out.Status != models.StatusPass {
			t.Fatalf("raw=%q status=%s, want PASS on inclusive bound", raw, out.Status)
		}
	}
}

func TestScoreItemNumberInvalid(t *testing.T) {
	out := ScoreItem(numberItem("24", "26"), "abc")
	if out.Status != models.StatusFail {
		t.Fatalf("status=%s, want FAIL", out.Status)
	}
	if out.AutoComment != CommentInvalid {
		t.Fatalf("autoComment=%q, want %q (distinct from range failure)", out.AutoComment, CommentInvalid)
	}
	if out.NormalizedValue != nil {
		t.Fatalf("normalized=%v, want nil for unparseable input", out.NormalizedValue)
	}
}

func TestScoreItemNumberFailMessageOverride(t *testing.T) {
	item := numberItem("24", "26")
	item.FailMessage = "temperature outside comfort zone"
	out := ScoreItem(item, "30")
	if out.AutoComment != "temperature outside comfort zone" {
		t.Fatalf("autoComment=%q, want fail message override", out.AutoComment)
	}
}

func TestScoreItemNumberMissingBoundsAutoPass(t *testing.T) {
	cases := []struct{ min, max string }{
		{"", ""},
		{"24", ""},
		{"", "26"},
		{"n/a", "26"}, // unparseable bound behaves like an absent one
	}
	for _, c := range cases {
		out := ScoreItem(numberItem(c.min, c.max), "999")
		if out.Status != models.StatusPass {
			t.Fatalf("min=%q max=%q status=%s, want PASS without bounds", c.min, c.max, out.Status)
		}
		if out.AutoComment != CommentRecorded {
			t.Fatalf("min=%q max=%q autoComment=%q, want %q", c.min, c.max, out.AutoComment, CommentRecorded)
		}
	}
}

func TestScoreItemYesNo(t *testing.T) {
	item := &models.ChecklistItem{ID: "Y1", InputType: models.InputYesNo, Weight: 5}
	cases := []struct {
		raw        string
		wantStatus models.AuditStatus
	}{
		{"1", models.StatusPass},
		{"0", models.StatusFail},
		{"2", models.StatusFail},
		{"yes", models.StatusFail},
	}
	for _, c := range cases {
		out := ScoreItem(item, c.raw)
		if out.Status != c.wantStatus {
			t.Fatalf("raw=%q status=%s, want %s", c.raw, out.Status, c.wantStatus)
		}
	}
	if out := ScoreItem(item, "0"); out.AutoComment != CommentNotMet {
		t.Fatalf("autoComment=%q, want %q", out.AutoComment, CommentNotMet)
	}
	if out := ScoreItem(item, "1"); out.StandardSnapshot != "Yes/No" {
		t.Fatalf("snapshot=%q, want Yes/No", out.StandardSnapshot)
	}
}

func TestScoreItemYesNoFailMessage(t *testing.T) {
	item := &models.ChecklistItem{ID: "Y2", InputType: models.InputYesNo, FailMessage: "footbath missing"}
	if out := ScoreItem(item, "0"); out.AutoComment != "footbath missing" {
		t.Fatalf("autoComment=%q, want fail message override", out.AutoComment)
	}
}

func TestScoreItemEmptyIsPending(t *testing.T) {
	for _, typ := range []models.InputType{models.InputNumber, models.InputYesNo, models.InputPhoto, models.InputText} {
		out := ScoreItem(&models.ChecklistItem{ID: "P", InputType: typ}, "  ")
		if out.Status != models.StatusPending {
			t.Fatalf("type=%s status=%s, want PENDING", typ, out.Status)
		}
		if out.AutoComment != "" {
			t.Fatalf("type=%s autoComment=%q, want empty", typ, out.AutoComment)
		}
		if out.NormalizedValue != nil {
			t.Fatalf("type=%s normalized=%v, want nil", typ, out.NormalizedValue)
		}
	}
}

func TestScoreItemUngradedTypes(t *testing.T) {
	for _, typ := range []models.InputType{models.InputPhoto, models.InputScale, models.InputText} {
		out := ScoreItem(&models.ChecklistItem{ID: "U", InputType: typ}, "some value")
		if out.Status != models.StatusPass {
			t.Fatalf("type=%s status=%s, want PASS for non-empty value", typ, out.Status)
		}
		if out.AutoComment != CommentRecorded {
			t.Fatalf("type=%s autoComment=%q, want %q", typ, out.AutoComment, CommentRecorded)
		}
	}
}

func TestScoreItemIdempotent(t *testing.T) {
	item := numberItem("24", "26")
	first := ScoreItem(item, "30")
	for i := 0; i < 5; i++ {
		again := ScoreItem(item, "30")
		if again.Status != first.Status || again.AutoComment != first.AutoComment ||
			again.StandardSnapshot != first.StandardSnapshot {
			t.Fatalf("re-scoring diverged: %+v vs %+v", again, first)
		}
		if (again.NormalizedValue == nil) != (first.NormalizedValue == nil) {
			t.Fatalf("re-scoring diverged on normalized value presence")
		}
		if again.NormalizedValue != nil && *again.NormalizedValue != *first.NormalizedValue {
			t.Fatalf("re-scoring diverged on normalized value")
		}
	}
}
