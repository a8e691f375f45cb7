package services

import (
	"fmt"
	"strings"

	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/types"
)

// ContextService assembles the two views of a matching pass: the UI-facing
// PersonalizedContentContext, always at full detail because it never leaves
// the device, and the generator-facing AIPromptContext, whose profile detail
// is bounded by the privacy mode.
type ContextService interface {
	BuildContentContext(matches []types.RelevanceMatch, level types.RelevanceLevel, explanation string) types.PersonalizedContentContext
	BuildAIPromptContext(basePrompt string, matches []types.RelevanceMatch, profile types.ProfileSnapshot, prefs types.PersonalizationPreferences) types.AIPromptContext
}

type contextService struct {
	log *logger.Logger
}

func NewContextService(log *logger.Logger) ContextService {
	return &contextService{log: log.With("service", "ContextService")}
}

func (cs *contextService) BuildContentContext(matches []types.RelevanceMatch, level types.RelevanceLevel, explanation string) types.PersonalizedContentContext {
	ctx := types.PersonalizedContentContext{
		Matches:          matches,
		OverallRelevance: level,
		Explanation:      explanation,
	}
	for _, m := range matches {
		switch m.Category {
		case types.CategoryCondition:
			ctx.RelatedConditions = append(ctx.RelatedConditions, m.MatchedItem)
		case types.CategoryMedication:
			ctx.RelatedMedications = append(ctx.RelatedMedications, m.MatchedItem)
		case types.CategoryLabResult:
			ctx.RelatedLabs = append(ctx.RelatedLabs, m.MatchedItem)
		}
	}
	return ctx
}

// promptDetail is the full-detail bundle before the privacy gate is applied.
type promptDetail struct {
	conditions  []types.Condition
	medications []types.Medication
	labs        []types.LabResult
	variants    []types.PharmacogenomicVariant
}

func (cs *contextService) BuildAIPromptContext(basePrompt string, matches []types.RelevanceMatch, profile types.ProfileSnapshot, prefs types.PersonalizationPreferences) types.AIPromptContext {
	out := types.AIPromptContext{
		BasePrompt:      basePrompt,
		ComplexityLevel: prefs.ComplexityLevel,
	}
	// Privacy kill switch: checked before any other logic, independently of
	// the enabled flag. Nothing profile-derived may leave in this mode.
	if !prefs.PrivacyMode.Allows(types.PrivacyLimited) {
		return out
	}

	detail := filterMatchedEntities(matches, profile)
	out.RelevantConditions = detail.conditions
	out.RelevantMedications = detail.medications
	out.RelevantLabs = detail.labs
	out.RelevantVariants = detail.variants
	out.UserHealthContext = renderHealthContext(prefs.PrivacyMode, detail)
	return out
}

// filterMatchedEntities narrows the profile to the items that actually
// matched. The generator is never handed the whole profile.
func filterMatchedEntities(matches []types.RelevanceMatch, profile types.ProfileSnapshot) promptDetail {
	matched := make(map[types.MatchCategory]map[string]struct{})
	for _, m := range matches {
		if matched[m.Category] == nil {
			matched[m.Category] = make(map[string]struct{})
		}
		matched[m.Category][m.MatchedItem] = struct{}{}
	}
	has := func(cat types.MatchCategory, item string) bool {
		_, ok := matched[cat][item]
		return ok
	}

	var detail promptDetail
	for _, c := range profile.Conditions {
		if has(types.CategoryCondition, c.Name) {
			detail.conditions = append(detail.conditions, c)
		}
	}
	for _, m := range profile.Medications {
		if has(types.CategoryMedication, m.DisplayName()) {
			detail.medications = append(detail.medications, m)
		}
	}
	for _, l := range profile.LabResults {
		if has(types.CategoryLabResult, l.TestName) {
			detail.labs = append(detail.labs, l)
		}
	}
	for _, v := range profile.Variants {
		if has(types.CategoryPharmacogenomics, fmt.Sprintf("%s %s", v.Gene, v.VariantCode)) {
			detail.variants = append(detail.variants, v)
		}
	}
	return detail
}

// renderHealthContext is the single place privacy restriction is applied to
// the generated text. Limited mode states presence only; full mode names the
// matched items.
func renderHealthContext(mode types.PrivacyMode, detail promptDetail) string {
	var sentences []string
	switch mode {
	case types.PrivacyFull:
		if len(detail.conditions) > 0 {
			names := make([]string, 0, len(detail.conditions))
			for _, c := range detail.conditions {
				names = append(names, c.Name)
			}
			sentences = append(sentences, fmt.Sprintf("The user has the following conditions: %s", strings.Join(names, ", ")))
		}
		if len(detail.medications) > 0 {
			names := make([]string, 0, len(detail.medications))
			for _, m := range detail.medications {
				if m.DrugClass != "" {
					names = append(names, fmt.Sprintf("%s (%s)", m.DisplayName(), m.DrugClass))
				} else {
					names = append(names, m.DisplayName())
				}
			}
			sentences = append(sentences, fmt.Sprintf("The user takes: %s", strings.Join(names, ", ")))
		}
		if len(detail.labs) > 0 {
			descs := make([]string, 0, len(detail.labs))
			for _, l := range detail.labs {
				descs = append(descs, fmt.Sprintf("%s %.4g %s (%s)", l.TestName, l.Value, l.Unit, l.Status))
			}
			sentences = append(sentences, fmt.Sprintf("Recent lab results: %s", strings.Join(descs, ", ")))
		}
		if len(detail.variants) > 0 {
			descs := make([]string, 0, len(detail.variants))
			for _, v := range detail.variants {
				descs = append(descs, fmt.Sprintf("%s (%s)", v.Gene, v.Phenotype))
			}
			sentences = append(sentences, fmt.Sprintf("Pharmacogenomic findings: %s", strings.Join(descs, ", ")))
		}
	case types.PrivacyLimited:
		if len(detail.conditions) > 0 {
			sentences = append(sentences, "The user has conditions relevant to this topic")
		}
		if len(detail.medications) > 0 {
			sentences = append(sentences, "The user takes medications relevant to this topic")
		}
		if len(detail.labs) > 0 {
			sentences = append(sentences, "The user has lab results relevant to this topic")
		}
		if len(detail.variants) > 0 {
			sentences = append(sentences, "The user has pharmacogenomic findings relevant to this topic")
		}
	default:
		return ""
	}
	if len(sentences) == 0 {
		return ""
	}
	return strings.Join(sentences, ". ") + "."
}
