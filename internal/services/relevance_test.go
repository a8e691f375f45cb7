package services

import (
	"reflect"
	"testing"

	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init test logger: %v", err)
	}
	return log
}

func allEnabledPrefs() types.PersonalizationPreferences {
	return types.PersonalizationPreferences{
		Enabled:                 true,
		IncludeConditions:       true,
		IncludeMedications:      true,
		IncludeLabResults:       true,
		IncludeFamilyHistory:    true,
		IncludePharmacogenomics: true,
		ComplexityLevel:         3,
		PrivacyMode:             types.PrivacyFull,
	}
}

func TestMatchTopicDirectCondition(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))
	profile := types.ProfileSnapshot{
		Conditions: []types.Condition{
			{Name: "Type 2 Diabetes", Status: types.ConditionActive},
		},
	}

	matches := svc.MatchTopic([]string{"diabetes", "endocrine"}, profile, allEnabledPrefs())
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %+v", len(matches), matches)
	}
	m := matches[0]
	if m.Category != types.CategoryCondition {
		t.Fatalf("category=%s, want condition", m.Category)
	}
	if m.MatchedItem != "Type 2 Diabetes" {
		t.Fatalf("matched item=%q, want Type 2 Diabetes", m.MatchedItem)
	}
	if m.Relevance != types.RelevanceDirect {
		t.Fatalf("relevance=%s, want directly_relevant", m.Relevance)
	}

	level, _ := svc.Aggregate(matches)
	if level != types.RelevanceDirect {
		t.Fatalf("aggregate=%s, want directly_relevant", level)
	}
}

func TestMatchTopicMedicationViaDrugClass(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))
	profile := types.ProfileSnapshot{
		Medications: []types.Medication{
			{BrandName: "Metoprolol", GenericName: "metoprolol", DrugClass: "antihypertensive"},
		},
	}

	matches := svc.MatchTopic([]string{"hypertension"}, profile, allEnabledPrefs())
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %+v", len(matches), matches)
	}
	m := matches[0]
	if m.Category != types.CategoryMedication || m.MatchedItem != "Metoprolol" {
		t.Fatalf("unexpected match %+v", m)
	}
	if m.Relevance != types.RelevanceRelated {
		t.Fatalf("relevance=%s, want related", m.Relevance)
	}
}

func TestMatchTopicAbnormalLabViaTaxonomy(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))
	profile := types.ProfileSnapshot{
		LabResults: []types.LabResult{
			{TestName: "Glucose", Value: 182, Unit: "mg/dL", Status: types.LabHigh},
		},
	}

	matches := svc.MatchTopic([]string{"diabetes"}, profile, allEnabledPrefs())
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %+v", len(matches), matches)
	}
	m := matches[0]
	if m.Category != types.CategoryLabResult || m.MatchedItem != "Glucose" {
		t.Fatalf("unexpected match %+v", m)
	}
	if m.Relevance != types.RelevanceRelated {
		t.Fatalf("relevance=%s, want related (abnormal status)", m.Relevance)
	}
}

func TestMatchTopicNormalLabIsGeneralInterest(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))
	profile := types.ProfileSnapshot{
		LabResults: []types.LabResult{
			{TestName: "Glucose", Value: 92, Unit: "mg/dL", Status: types.LabNormal},
		},
	}

	matches := svc.MatchTopic([]string{"diabetes"}, profile, allEnabledPrefs())
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %+v", len(matches), matches)
	}
	if matches[0].Relevance != types.RelevanceGeneral {
		t.Fatalf("relevance=%s, want general_interest (normal status)", matches[0].Relevance)
	}
}

func TestMatchTopicEmptyProfile(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))

	matches := svc.MatchTopic([]string{"diabetes", "hypertension"}, types.ProfileSnapshot{}, allEnabledPrefs())
	if len(matches) != 0 {
		t.Fatalf("expected no matches for empty profile, got %+v", matches)
	}
	level, _ := svc.Aggregate(matches)
	if level != types.RelevanceNone {
		t.Fatalf("aggregate=%s, want not_relevant", level)
	}
}

func TestMatchTopicDisabledReturnsNothing(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))
	profile := types.ProfileSnapshot{
		Conditions: []types.Condition{
			{Name: "Type 2 Diabetes", Status: types.ConditionActive},
		},
	}
	prefs := allEnabledPrefs()
	prefs.Enabled = false

	if matches := svc.MatchTopic([]string{"diabetes"}, profile, prefs); len(matches) != 0 {
		t.Fatalf("expected no matches with personalization disabled, got %+v", matches)
	}
}

func TestMatchTopicEmptyKeywords(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))
	profile := types.ProfileSnapshot{
		Conditions: []types.Condition{
			{Name: "Asthma", Status: types.ConditionActive},
		},
	}

	if matches := svc.MatchTopic(nil, profile, allEnabledPrefs()); len(matches) != 0 {
		t.Fatalf("expected no matches for empty keywords, got %+v", matches)
	}
	if matches := svc.MatchTopic([]string{"", "  "}, profile, allEnabledPrefs()); len(matches) != 0 {
		t.Fatalf("expected no matches for blank keywords, got %+v", matches)
	}
}

func TestMatchTopicCategoryToggles(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))
	profile := types.ProfileSnapshot{
		Conditions: []types.Condition{
			{Name: "Hypertension", Status: types.ConditionActive},
		},
		Medications: []types.Medication{
			{BrandName: "Lisinopril", GenericName: "lisinopril", DrugClass: "ace inhibitor"},
		},
	}
	prefs := allEnabledPrefs()
	prefs.IncludeMedications = false

	matches := svc.MatchTopic([]string{"hypertension"}, profile, prefs)
	for _, m := range matches {
		if m.Category == types.CategoryMedication {
			t.Fatalf("medication category disabled but matched: %+v", m)
		}
	}
	if len(matches) != 1 {
		t.Fatalf("expected only the condition match, got %+v", matches)
	}
}

func TestMatchTopicFamilyHistoryCappedAtRelated(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))
	profile := types.ProfileSnapshot{
		FamilyHistory: []types.FamilyHistoryEntry{
			{ConditionName: "Breast Cancer", Relatives: []string{"mother"}},
		},
	}

	matches := svc.MatchTopic([]string{"breast cancer"}, profile, allEnabledPrefs())
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %+v", matches)
	}
	if matches[0].Relevance != types.RelevanceRelated {
		t.Fatalf("relevance=%s, want related (family history cap)", matches[0].Relevance)
	}
}

func TestMatchTopicPharmacogenomicsAlwaysDirect(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))
	profile := types.ProfileSnapshot{
		Variants: []types.PharmacogenomicVariant{
			{Gene: "CYP2C19", VariantCode: "*2/*2", Phenotype: "poor metabolizer", AffectedDrugs: []string{"clopidogrel", "omeprazole"}},
		},
	}

	matches := svc.MatchTopic([]string{"clopidogrel"}, profile, allEnabledPrefs())
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %+v", matches)
	}
	m := matches[0]
	if m.Category != types.CategoryPharmacogenomics {
		t.Fatalf("category=%s, want pharmacogenomics", m.Category)
	}
	if m.Relevance != types.RelevanceDirect {
		t.Fatalf("relevance=%s, want directly_relevant (drug-gene interactions are never merely related)", m.Relevance)
	}
}

func TestMatchTopicNoDuplicatePerItem(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))
	// Qualifies both directly ("diabetes" keyword) and indirectly
	// ("endocrine" category); must yield exactly one match at the
	// highest tier.
	profile := types.ProfileSnapshot{
		Conditions: []types.Condition{
			{Name: "Diabetes", Status: types.ConditionActive},
			{Name: "Diabetes", Status: types.ConditionActive},
		},
	}

	matches := svc.MatchTopic([]string{"diabetes", "endocrine"}, profile, allEnabledPrefs())
	seen := map[string]int{}
	for _, m := range matches {
		seen[string(m.Category)+"|"+m.MatchedItem]++
	}
	for key, n := range seen {
		if n > 1 {
			t.Fatalf("duplicate matches for %s: %d", key, n)
		}
	}
	if len(matches) != 1 || matches[0].Relevance != types.RelevanceDirect {
		t.Fatalf("expected single direct match, got %+v", matches)
	}
}

func TestMatchTopicSameNamedItemsKeepHighestTier(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))
	// Two rows share a display name; the resolved one grades
	// general_interest, the active one related. The single match must
	// carry the higher tier regardless of row order.
	profile := types.ProfileSnapshot{
		Conditions: []types.Condition{
			{Name: "Type 2 Diabetes", Status: types.ConditionResolved},
			{Name: "Type 2 Diabetes", Status: types.ConditionActive},
		},
	}

	matches := svc.MatchTopic([]string{"endocrine"}, profile, allEnabledPrefs())
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %+v", matches)
	}
	if matches[0].Relevance != types.RelevanceRelated {
		t.Fatalf("relevance=%s, want related (highest tier across same-named items)", matches[0].Relevance)
	}
}

func TestMatchTopicSameNameAcrossCategories(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))
	// The same name in two categories must produce one match per
	// category, not suppress the second.
	profile := types.ProfileSnapshot{
		Conditions: []types.Condition{
			{Name: "Breast Cancer", Status: types.ConditionActive},
		},
		FamilyHistory: []types.FamilyHistoryEntry{
			{ConditionName: "Breast Cancer", Relatives: []string{"sister"}},
		},
	}

	matches := svc.MatchTopic([]string{"breast cancer"}, profile, allEnabledPrefs())
	if len(matches) != 2 {
		t.Fatalf("expected one match per category, got %+v", matches)
	}
	categories := map[types.MatchCategory]bool{}
	for _, m := range matches {
		categories[m.Category] = true
	}
	if !categories[types.CategoryCondition] || !categories[types.CategoryFamilyHistory] {
		t.Fatalf("expected condition and family_history categories, got %+v", matches)
	}
}

func TestMatchTopicDeterministic(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))
	profile := types.ProfileSnapshot{
		Conditions: []types.Condition{
			{Name: "Type 2 Diabetes", Status: types.ConditionActive},
			{Name: "Hypertension", Status: types.ConditionChronic},
		},
		Medications: []types.Medication{
			{BrandName: "Metformin", GenericName: "metformin", DrugClass: "biguanide"},
		},
		LabResults: []types.LabResult{
			{TestName: "HbA1c", Value: 7.9, Unit: "%", Status: types.LabHigh},
		},
	}
	keywords := []string{"diabetes", "endocrine", "blood sugar"}

	first := svc.MatchTopic(keywords, profile, allEnabledPrefs())
	second := svc.MatchTopic(keywords, profile, allEnabledPrefs())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("matching is not deterministic:\nfirst=%+v\nsecond=%+v", first, second)
	}
}

func TestAggregateMonotonic(t *testing.T) {
	svc := NewRelevanceService(testLogger(t))
	cases := []struct {
		name    string
		matches []types.RelevanceMatch
		want    types.RelevanceLevel
	}{
		{name: "empty_is_not_relevant", matches: nil, want: types.RelevanceNone},
		{
			name: "direct_dominates",
			matches: []types.RelevanceMatch{
				{Relevance: types.RelevanceGeneral},
				{Relevance: types.RelevanceDirect},
				{Relevance: types.RelevanceRelated},
			},
			want: types.RelevanceDirect,
		},
		{
			name: "related_over_general",
			matches: []types.RelevanceMatch{
				{Relevance: types.RelevanceGeneral},
				{Relevance: types.RelevanceRelated},
			},
			want: types.RelevanceRelated,
		},
		{
			name: "general_only",
			matches: []types.RelevanceMatch{
				{Relevance: types.RelevanceGeneral},
			},
			want: types.RelevanceGeneral,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, explanation := svc.Aggregate(tc.matches)
			if got != tc.want {
				t.Fatalf("Aggregate=%s, want %s", got, tc.want)
			}
			if explanation == "" {
				t.Fatalf("expected non-empty explanation")
			}
		})
	}
}
