package services

import (
	"fmt"
	"strings"

	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/types"
)

// Disclaimer accompanies every personalized response, unconditionally.
const Disclaimer = "Personalization runs on your own data and is for educational purposes only. " +
	"It is not medical advice, a diagnosis, or a treatment recommendation. " +
	"Talk to your healthcare provider about decisions regarding your health."

// PersonalizationService merges base topic content with match annotations and
// UI indicators. Personalization is a strict superset of the base content;
// it never replaces it.
type PersonalizationService interface {
	Personalize(baseContent string, matches []types.RelevanceMatch, prefs types.PersonalizationPreferences) types.PersonalizedResponse
}

type personalizationService struct {
	log *logger.Logger
}

func NewPersonalizationService(log *logger.Logger) PersonalizationService {
	return &personalizationService{log: log.With("service", "PersonalizationService")}
}

func (ps *personalizationService) Personalize(baseContent string, matches []types.RelevanceMatch, prefs types.PersonalizationPreferences) types.PersonalizedResponse {
	resp := types.PersonalizedResponse{
		BaseContent:         baseContent,
		PersonalizedContent: baseContent,
		Disclaimers:         []string{Disclaimer},
	}
	if !prefs.Enabled {
		return resp
	}

	resp.RelevanceIndicators = buildIndicators(matches)
	resp.UserContextSections = buildContextSections(matches)
	if len(resp.UserContextSections) > 0 {
		resp.PersonalizedContent = appendRelevantBlock(baseContent, resp.UserContextSections)
	}
	return resp
}

var indicatorOrder = []types.MatchCategory{
	types.CategoryCondition,
	types.CategoryMedication,
	types.CategoryLabResult,
	types.CategoryFamilyHistory,
	types.CategoryPharmacogenomics,
}

var indicatorLabels = map[types.MatchCategory]string{
	types.CategoryCondition:        "Related to your conditions",
	types.CategoryMedication:       "Related to your medications",
	types.CategoryLabResult:        "Related to your lab results",
	types.CategoryFamilyHistory:    "Related to your family history",
	types.CategoryPharmacogenomics: "Related to your genetic profile",
}

// buildIndicators emits one indicator per category holding any match,
// in a fixed category order so output is stable across passes.
func buildIndicators(matches []types.RelevanceMatch) []types.RelevanceIndicator {
	counts := make(map[types.MatchCategory]int)
	for _, m := range matches {
		if m.Relevance == types.RelevanceNone {
			continue
		}
		counts[m.Category]++
	}
	var out []types.RelevanceIndicator
	for _, cat := range indicatorOrder {
		n := counts[cat]
		if n == 0 {
			continue
		}
		out = append(out, types.RelevanceIndicator{
			Category:    cat,
			Label:       indicatorLabels[cat],
			Description: pluralizeMatches(n),
			MatchCount:  n,
		})
	}
	return out
}

func pluralizeMatches(n int) string {
	if n == 1 {
		return "1 item in your profile relates to this topic"
	}
	return fmt.Sprintf("%d items in your profile relate to this topic", n)
}

// Only directly relevant matches are promoted to inline sections. Related and
// general-interest matches still inform indicators but would overwhelm the
// reader as inline callouts.
func buildContextSections(matches []types.RelevanceMatch) []types.UserContextSection {
	var out []types.UserContextSection
	for _, m := range matches {
		if m.Relevance != types.RelevanceDirect {
			continue
		}
		out = append(out, types.UserContextSection{
			Category: m.Category,
			Title:    m.MatchedItem,
			Content:  m.UserContext,
		})
	}
	return out
}

func appendRelevantBlock(baseContent string, sections []types.UserContextSection) string {
	var b strings.Builder
	b.WriteString(baseContent)
	b.WriteString("\n\n--- Relevant to You ---\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(s.Content)
	}
	return b.String()
}
