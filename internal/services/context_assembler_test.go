package services

import (
	"strings"
	"testing"

	"github.com/medleaf/healthlens-backend/internal/types"
)

func snapshotWithMatches() (types.ProfileSnapshot, []types.RelevanceMatch) {
	profile := types.ProfileSnapshot{
		Conditions: []types.Condition{
			{Name: "Type 2 Diabetes", Status: types.ConditionActive},
			{Name: "Asthma", Status: types.ConditionResolved},
		},
		Medications: []types.Medication{
			{BrandName: "Metformin", GenericName: "metformin", DrugClass: "biguanide"},
		},
		LabResults: []types.LabResult{
			{TestName: "HbA1c", Value: 7.9, Unit: "%", Status: types.LabHigh},
		},
		Variants: []types.PharmacogenomicVariant{
			{Gene: "CYP2C9", VariantCode: "*3/*3", Phenotype: "poor metabolizer", AffectedDrugs: []string{"warfarin"}},
		},
	}
	matches := []types.RelevanceMatch{
		{Category: types.CategoryCondition, MatchedItem: "Type 2 Diabetes", Relevance: types.RelevanceDirect},
		{Category: types.CategoryMedication, MatchedItem: "Metformin", Relevance: types.RelevanceRelated},
		{Category: types.CategoryLabResult, MatchedItem: "HbA1c", Relevance: types.RelevanceRelated},
	}
	return profile, matches
}

func TestBuildAIPromptContextPrivacyOff(t *testing.T) {
	svc := NewContextService(testLogger(t))
	profile, matches := snapshotWithMatches()
	prefs := allEnabledPrefs()
	prefs.PrivacyMode = types.PrivacyOff

	ctx := svc.BuildAIPromptContext("Explain diabetes management.", matches, profile, prefs)
	if ctx.BasePrompt != "Explain diabetes management." {
		t.Fatalf("base prompt=%q", ctx.BasePrompt)
	}
	if ctx.ComplexityLevel != prefs.ComplexityLevel {
		t.Fatalf("complexity=%d, want %d", ctx.ComplexityLevel, prefs.ComplexityLevel)
	}
	if ctx.UserHealthContext != "" {
		t.Fatalf("privacy off leaked health context: %q", ctx.UserHealthContext)
	}
	if len(ctx.RelevantConditions) != 0 || len(ctx.RelevantMedications) != 0 ||
		len(ctx.RelevantLabs) != 0 || len(ctx.RelevantVariants) != 0 {
		t.Fatalf("privacy off leaked profile entities: %+v", ctx)
	}
}

func TestBuildAIPromptContextLimitedOmitsNames(t *testing.T) {
	svc := NewContextService(testLogger(t))
	profile, matches := snapshotWithMatches()
	prefs := allEnabledPrefs()
	prefs.PrivacyMode = types.PrivacyLimited

	ctx := svc.BuildAIPromptContext("Explain diabetes management.", matches, profile, prefs)
	if ctx.UserHealthContext == "" {
		t.Fatalf("limited mode should still state presence")
	}
	for _, name := range []string{"Type 2 Diabetes", "Metformin", "HbA1c"} {
		if strings.Contains(ctx.UserHealthContext, name) {
			t.Fatalf("limited mode leaked %q: %q", name, ctx.UserHealthContext)
		}
	}
	if !strings.Contains(ctx.UserHealthContext, "conditions relevant to this topic") {
		t.Fatalf("missing presence sentence: %q", ctx.UserHealthContext)
	}
}

func TestBuildAIPromptContextFullNamesMatchedItems(t *testing.T) {
	svc := NewContextService(testLogger(t))
	profile, matches := snapshotWithMatches()

	ctx := svc.BuildAIPromptContext("Explain diabetes management.", matches, profile, allEnabledPrefs())
	for _, name := range []string{"Type 2 Diabetes", "Metformin", "HbA1c"} {
		if !strings.Contains(ctx.UserHealthContext, name) {
			t.Fatalf("full mode missing %q: %q", name, ctx.UserHealthContext)
		}
	}
	if len(ctx.RelevantConditions) != 1 || ctx.RelevantConditions[0].Name != "Type 2 Diabetes" {
		t.Fatalf("relevant conditions=%+v", ctx.RelevantConditions)
	}
	if len(ctx.RelevantMedications) != 1 || len(ctx.RelevantLabs) != 1 {
		t.Fatalf("relevant entities=%+v", ctx)
	}
}

func TestBuildAIPromptContextOnlyMatchedEntities(t *testing.T) {
	svc := NewContextService(testLogger(t))
	profile, matches := snapshotWithMatches()

	ctx := svc.BuildAIPromptContext("prompt", matches, profile, allEnabledPrefs())
	// Asthma is on the profile but not matched; it must not reach the
	// generator in any mode.
	if strings.Contains(ctx.UserHealthContext, "Asthma") {
		t.Fatalf("unmatched condition leaked: %q", ctx.UserHealthContext)
	}
	for _, c := range ctx.RelevantConditions {
		if c.Name == "Asthma" {
			t.Fatalf("unmatched condition in entity list: %+v", ctx.RelevantConditions)
		}
	}
	// No pharmacogenomics match, so no variants either.
	if len(ctx.RelevantVariants) != 0 {
		t.Fatalf("unmatched variants leaked: %+v", ctx.RelevantVariants)
	}
}

func TestBuildAIPromptContextNoMatches(t *testing.T) {
	svc := NewContextService(testLogger(t))
	profile, _ := snapshotWithMatches()

	ctx := svc.BuildAIPromptContext("prompt", nil, profile, allEnabledPrefs())
	if ctx.UserHealthContext != "" {
		t.Fatalf("no matches should produce empty context, got %q", ctx.UserHealthContext)
	}
}

func TestBuildContentContextAlwaysFullDetail(t *testing.T) {
	svc := NewContextService(testLogger(t))
	_, matches := snapshotWithMatches()

	// PrivacyMode does not apply to the UI context; the builder takes no
	// preferences at all.
	ctx := svc.BuildContentContext(matches, types.RelevanceDirect, "explanation")
	if ctx.OverallRelevance != types.RelevanceDirect || ctx.Explanation != "explanation" {
		t.Fatalf("unexpected context header: %+v", ctx)
	}
	if len(ctx.Matches) != len(matches) {
		t.Fatalf("matches len=%d, want %d", len(ctx.Matches), len(matches))
	}
	if len(ctx.RelatedConditions) != 1 || ctx.RelatedConditions[0] != "Type 2 Diabetes" {
		t.Fatalf("related conditions=%+v", ctx.RelatedConditions)
	}
	if len(ctx.RelatedMedications) != 1 || ctx.RelatedMedications[0] != "Metformin" {
		t.Fatalf("related medications=%+v", ctx.RelatedMedications)
	}
	if len(ctx.RelatedLabs) != 1 || ctx.RelatedLabs[0] != "HbA1c" {
		t.Fatalf("related labs=%+v", ctx.RelatedLabs)
	}
}
