package services

import (
	"strings"
	"testing"

	"github.com/medleaf/healthlens-backend/internal/types"
)

func TestPersonalizeDisabledReturnsBaseContent(t *testing.T) {
	svc := NewPersonalizationService(testLogger(t))
	prefs := allEnabledPrefs()
	prefs.Enabled = false
	matches := []types.RelevanceMatch{
		{Category: types.CategoryCondition, MatchedItem: "Hypertension", Relevance: types.RelevanceDirect, UserContext: "You have a diagnosis of Hypertension."},
	}

	resp := svc.Personalize("Base article text.", matches, prefs)
	if resp.PersonalizedContent != resp.BaseContent {
		t.Fatalf("disabled personalization altered content: %q", resp.PersonalizedContent)
	}
	if len(resp.RelevanceIndicators) != 0 || len(resp.UserContextSections) != 0 {
		t.Fatalf("disabled personalization produced annotations: %+v", resp)
	}
	if len(resp.Disclaimers) != 1 || resp.Disclaimers[0] != Disclaimer {
		t.Fatalf("disclaimer must be present even when disabled: %+v", resp.Disclaimers)
	}
}

func TestPersonalizeDisclaimerAlwaysPresent(t *testing.T) {
	svc := NewPersonalizationService(testLogger(t))

	for _, matches := range [][]types.RelevanceMatch{
		nil,
		{{Category: types.CategoryCondition, MatchedItem: "Gout", Relevance: types.RelevanceDirect, UserContext: "You have a diagnosis of Gout."}},
	} {
		resp := svc.Personalize("content", matches, allEnabledPrefs())
		if len(resp.Disclaimers) != 1 || resp.Disclaimers[0] != Disclaimer {
			t.Fatalf("disclaimers=%+v", resp.Disclaimers)
		}
	}
}

func TestPersonalizeIndicatorsGroupedByCategory(t *testing.T) {
	svc := NewPersonalizationService(testLogger(t))
	matches := []types.RelevanceMatch{
		{Category: types.CategoryLabResult, MatchedItem: "Glucose", Relevance: types.RelevanceRelated},
		{Category: types.CategoryCondition, MatchedItem: "Type 2 Diabetes", Relevance: types.RelevanceDirect},
		{Category: types.CategoryCondition, MatchedItem: "Hypertension", Relevance: types.RelevanceRelated},
	}

	resp := svc.Personalize("content", matches, allEnabledPrefs())
	if len(resp.RelevanceIndicators) != 2 {
		t.Fatalf("indicators=%+v", resp.RelevanceIndicators)
	}
	// Fixed category order: conditions before labs.
	first := resp.RelevanceIndicators[0]
	if first.Category != types.CategoryCondition || first.MatchCount != 2 {
		t.Fatalf("first indicator=%+v", first)
	}
	if first.Description != "2 items in your profile relate to this topic" {
		t.Fatalf("description=%q", first.Description)
	}
	second := resp.RelevanceIndicators[1]
	if second.Category != types.CategoryLabResult || second.MatchCount != 1 {
		t.Fatalf("second indicator=%+v", second)
	}
	if second.Description != "1 item in your profile relates to this topic" {
		t.Fatalf("description=%q", second.Description)
	}
}

func TestPersonalizeSectionsOnlyForDirectMatches(t *testing.T) {
	svc := NewPersonalizationService(testLogger(t))
	matches := []types.RelevanceMatch{
		{Category: types.CategoryCondition, MatchedItem: "Type 2 Diabetes", Relevance: types.RelevanceDirect, UserContext: "You have a diagnosis of Type 2 Diabetes."},
		{Category: types.CategoryMedication, MatchedItem: "Metformin", Relevance: types.RelevanceRelated, UserContext: "You take Metformin, a biguanide."},
		{Category: types.CategoryLabResult, MatchedItem: "TSH", Relevance: types.RelevanceGeneral, UserContext: "Your TSH result was normal."},
	}

	resp := svc.Personalize("Base article text.", matches, allEnabledPrefs())
	if len(resp.UserContextSections) != 1 {
		t.Fatalf("sections=%+v", resp.UserContextSections)
	}
	s := resp.UserContextSections[0]
	if s.Title != "Type 2 Diabetes" || s.Content != "You have a diagnosis of Type 2 Diabetes." {
		t.Fatalf("section=%+v", s)
	}

	if !strings.HasPrefix(resp.PersonalizedContent, "Base article text.") {
		t.Fatalf("personalized content must keep base content as a prefix: %q", resp.PersonalizedContent)
	}
	if !strings.Contains(resp.PersonalizedContent, "--- Relevant to You ---") {
		t.Fatalf("missing relevant block: %q", resp.PersonalizedContent)
	}
	if !strings.Contains(resp.PersonalizedContent, "You have a diagnosis of Type 2 Diabetes.") {
		t.Fatalf("missing section content: %q", resp.PersonalizedContent)
	}
	if strings.Contains(resp.PersonalizedContent, "Metformin") {
		t.Fatalf("related match promoted to inline section: %q", resp.PersonalizedContent)
	}
}

func TestPersonalizeNoDirectMatchesLeavesContentUnchanged(t *testing.T) {
	svc := NewPersonalizationService(testLogger(t))
	matches := []types.RelevanceMatch{
		{Category: types.CategoryMedication, MatchedItem: "Metformin", Relevance: types.RelevanceRelated},
	}

	resp := svc.Personalize("Base article text.", matches, allEnabledPrefs())
	if resp.PersonalizedContent != "Base article text." {
		t.Fatalf("content changed without direct matches: %q", resp.PersonalizedContent)
	}
	if len(resp.RelevanceIndicators) != 1 {
		t.Fatalf("indicators=%+v", resp.RelevanceIndicators)
	}
}
