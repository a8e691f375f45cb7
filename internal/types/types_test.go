package types

import "testing"

func TestPrivacyModeAllows(t *testing.T) {
	cases := []struct {
		mode PrivacyMode
		min  PrivacyMode
		want bool
	}{
		{PrivacyOff, PrivacyLimited, false},
		{PrivacyOff, PrivacyOff, true},
		{PrivacyLimited, PrivacyLimited, true},
		{PrivacyLimited, PrivacyFull, false},
		{PrivacyFull, PrivacyLimited, true},
		{PrivacyFull, PrivacyFull, true},
	}
	for _, tc := range cases {
		if got := tc.mode.Allows(tc.min); got != tc.want {
			t.Fatalf("%s.Allows(%s)=%v, want %v", tc.mode, tc.min, got, tc.want)
		}
	}
}

func TestMaxRelevance(t *testing.T) {
	cases := []struct {
		a, b, want RelevanceLevel
	}{
		{RelevanceNone, RelevanceGeneral, RelevanceGeneral},
		{RelevanceGeneral, RelevanceRelated, RelevanceRelated},
		{RelevanceDirect, RelevanceRelated, RelevanceDirect},
		{RelevanceNone, RelevanceNone, RelevanceNone},
	}
	for _, tc := range cases {
		if got := MaxRelevance(tc.a, tc.b); got != tc.want {
			t.Fatalf("MaxRelevance(%s, %s)=%s, want %s", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMedicationDisplayName(t *testing.T) {
	if got := (Medication{BrandName: "Lopressor", GenericName: "metoprolol"}).DisplayName(); got != "Lopressor" {
		t.Fatalf("DisplayName=%q, want brand name", got)
	}
	if got := (Medication{GenericName: "metoprolol"}).DisplayName(); got != "metoprolol" {
		t.Fatalf("DisplayName=%q, want generic fallback", got)
	}
}

func TestConditionAbnormal(t *testing.T) {
	cases := []struct {
		status ConditionStatus
		want   bool
	}{
		{ConditionActive, true},
		{ConditionChronic, true},
		{ConditionResolved, false},
	}
	for _, tc := range cases {
		if got := (Condition{Status: tc.status}).Abnormal(); got != tc.want {
			t.Fatalf("Abnormal(%s)=%v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestLabResultAbnormal(t *testing.T) {
	for _, status := range []LabStatus{LabLow, LabHigh, LabCritical} {
		if !(LabResult{Status: status}).Abnormal() {
			t.Fatalf("status %s should be abnormal", status)
		}
	}
	if (LabResult{Status: LabNormal}).Abnormal() {
		t.Fatalf("normal status should not be abnormal")
	}
}

func TestNilProfileSnapshot(t *testing.T) {
	var p *HealthProfile
	snap := p.Snapshot()
	if len(snap.Conditions) != 0 || len(snap.Medications) != 0 || len(snap.LabResults) != 0 ||
		len(snap.FamilyHistory) != 0 || len(snap.Variants) != 0 {
		t.Fatalf("nil profile should snapshot to empty: %+v", snap)
	}
}
