package models

import "testing"

func TestNormalizeRisk(t *testing.T) {
	cases := []struct {
		raw  string
		want RiskLevel
	}{
		{"CRITICAL", RiskCritical},
		{"critical", RiskCritical},
		{" Critical ", RiskCritical},
		{"NGHIÊM TRỌNG", RiskCritical},
		{"nghiem trong", RiskCritical},
		{"LOW", RiskLow},
		{"NHỎ", RiskLow},
		{"nho", RiskLow},
		{"VỪA", RiskMedium},
		{"LỚN", RiskHigh},
		{"lon", RiskHigh},
		{"", RiskUnknown},
		{"banana", RiskUnknown},
		{"SEVERE", RiskUnknown},
	}
	for _, c := range cases {
		if got := NormalizeRisk(c.raw); got != c.want {
			t.Fatalf("NormalizeRisk(%q)=%q, want %q", c.raw, got, c.want)
		}
	}
}

func TestIsCritical(t *testing.T) {
	if !IsCritical("NGHIÊM TRỌNG") {
		t.Fatal("localized critical label should count as critical")
	}
	if IsCritical("HIGH") {
		t.Fatal("HIGH must not count as critical")
	}
	if IsCritical("") {
		t.Fatal("empty risk must not count as critical")
	}
}
