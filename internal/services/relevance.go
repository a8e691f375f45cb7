package services

import (
	"fmt"
	"strings"

	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/taxonomy"
	"github.com/medleaf/healthlens-backend/internal/types"
)

// RelevanceService decides whether, and how strongly, a topic's keywords
// relate to a user's health profile. All methods are pure: no I/O, no
// mutation of inputs, safe for concurrent use against the same snapshot.
type RelevanceService interface {
	MatchTopic(keywords []string, profile types.ProfileSnapshot, prefs types.PersonalizationPreferences) []types.RelevanceMatch
	Aggregate(matches []types.RelevanceMatch) (types.RelevanceLevel, string)
}

type relevanceService struct {
	log *logger.Logger
}

func NewRelevanceService(log *logger.Logger) RelevanceService {
	return &relevanceService{log: log.With("service", "RelevanceService")}
}

// matchCandidate is the per-item descriptor one category hands to the shared
// matching routine. The category builder resolves taxonomy lookups up front,
// so the routine itself only grades and dedups.
type matchCandidate struct {
	item        string   // display name recorded on the match
	directNames []string // names tried for the bidirectional direct match
	indirectHit bool     // taxonomy linkage found by the builder
	abnormal    bool     // abnormal status upgrades indirect to related
	context     string   // user-facing sentence attached to the match
}

// categorySpec parameterizes the shared routine: which category tag to emit,
// the highest level items of this category may reach, and the explanation
// templates per level.
type categorySpec struct {
	category        types.MatchCategory
	cap             types.RelevanceLevel
	explainDirect   string
	explainIndirect string
}

func (rs *relevanceService) MatchTopic(keywords []string, profile types.ProfileSnapshot, prefs types.PersonalizationPreferences) []types.RelevanceMatch {
	if !prefs.Enabled {
		return nil
	}
	kws := normalizeKeywords(keywords)
	if len(kws) == 0 {
		return nil
	}

	var matches []types.RelevanceMatch
	if prefs.IncludeConditions {
		matches = append(matches, matchCategory(kws, conditionSpec, conditionCandidates(kws, profile.Conditions))...)
	}
	if prefs.IncludeMedications {
		matches = append(matches, matchCategory(kws, medicationSpec, medicationCandidates(kws, profile.Medications))...)
	}
	if prefs.IncludeLabResults {
		matches = append(matches, matchCategory(kws, labSpec, labCandidates(kws, profile.LabResults))...)
	}
	if prefs.IncludeFamilyHistory {
		matches = append(matches, matchCategory(kws, familyHistorySpec, familyHistoryCandidates(kws, profile.FamilyHistory))...)
	}
	if prefs.IncludePharmacogenomics {
		matches = append(matches, matchCategory(kws, pharmacogenomicSpec, variantCandidates(profile.Variants))...)
	}
	return matches
}

func (rs *relevanceService) Aggregate(matches []types.RelevanceMatch) (types.RelevanceLevel, string) {
	level := types.RelevanceNone
	for _, m := range matches {
		level = types.MaxRelevance(level, m.Relevance)
	}
	return level, aggregateExplanation(level)
}

func aggregateExplanation(level types.RelevanceLevel) string {
	switch level {
	case types.RelevanceDirect:
		return "This topic is directly relevant to items in your health profile."
	case types.RelevanceRelated:
		return "This topic relates to areas covered by your health profile."
	case types.RelevanceGeneral:
		return "This topic may be of general interest based on your health profile."
	default:
		return "This topic does not specifically relate to your health profile."
	}
}

// matchCategory grades every candidate against the keyword set and emits at
// most one match per distinct item, carrying the highest level any same-named
// candidate reached, clamped to the category cap.
func matchCategory(keywords []string, spec categorySpec, cands []matchCandidate) []types.RelevanceMatch {
	var out []types.RelevanceMatch
	index := make(map[string]int, len(cands))
	for _, c := range cands {
		if c.item == "" {
			continue
		}
		level := types.RelevanceNone
		explanation := ""
		if anyNameMatches(keywords, c.directNames) {
			level = types.RelevanceDirect
			explanation = spec.explainDirect
		} else if c.indirectHit {
			explanation = spec.explainIndirect
			if c.abnormal {
				level = types.RelevanceRelated
			} else {
				level = types.RelevanceGeneral
			}
		}
		if level == types.RelevanceNone {
			continue
		}
		if level.Rank() > spec.cap.Rank() {
			level = spec.cap
		}
		if i, ok := index[c.item]; ok {
			if level.Rank() > out[i].Relevance.Rank() {
				out[i].Relevance = level
				out[i].Explanation = explanation
				out[i].UserContext = c.context
			}
			continue
		}
		index[c.item] = len(out)
		out = append(out, types.RelevanceMatch{
			Category:    spec.category,
			MatchedItem: c.item,
			Relevance:   level,
			Explanation: explanation,
			UserContext: c.context,
		})
	}
	return out
}

var conditionSpec = categorySpec{
	category:        types.CategoryCondition,
	cap:             types.RelevanceDirect,
	explainDirect:   "This topic directly covers one of your diagnosed conditions.",
	explainIndirect: "This topic covers an area connected to one of your conditions.",
}

var medicationSpec = categorySpec{
	category:        types.CategoryMedication,
	cap:             types.RelevanceDirect,
	explainDirect:   "This topic directly mentions one of your medications.",
	explainIndirect: "This topic covers conditions your medication is used to treat.",
}

var labSpec = categorySpec{
	category:        types.CategoryLabResult,
	cap:             types.RelevanceDirect,
	explainDirect:   "This topic directly mentions one of your lab tests.",
	explainIndirect: "This topic relates to what one of your lab tests measures.",
}

// Family history items are never the user's own diagnosis, so even an exact
// name match is capped at related.
var familyHistorySpec = categorySpec{
	category:        types.CategoryFamilyHistory,
	cap:             types.RelevanceRelated,
	explainDirect:   "This topic covers a condition in your family history.",
	explainIndirect: "This topic relates to an area of your family history.",
}

// Drug-gene interactions are never merely "related".
var pharmacogenomicSpec = categorySpec{
	category:        types.CategoryPharmacogenomics,
	cap:             types.RelevanceDirect,
	explainDirect:   "This topic involves a medication affected by your genetic profile.",
	explainIndirect: "This topic relates to your pharmacogenomic profile.",
}

func conditionCandidates(keywords []string, conditions []types.Condition) []matchCandidate {
	cands := make([]matchCandidate, 0, len(conditions))
	for _, c := range conditions {
		names := []string{c.Name}
		if c.LocalizedName != "" {
			names = append(names, c.LocalizedName)
		}
		cands = append(cands, matchCandidate{
			item:        c.Name,
			directNames: names,
			indirectHit: topicCategoryHit(keywords, c.Name),
			abnormal:    c.Abnormal(),
			context:     fmt.Sprintf("You have a diagnosis of %s.", c.Name),
		})
	}
	return cands
}

func medicationCandidates(keywords []string, medications []types.Medication) []matchCandidate {
	cands := make([]matchCandidate, 0, len(medications))
	for _, m := range medications {
		names := []string{}
		if m.BrandName != "" {
			names = append(names, m.BrandName)
		}
		if m.GenericName != "" {
			names = append(names, m.GenericName)
		}
		context := fmt.Sprintf("You take %s.", m.DisplayName())
		if m.DrugClass != "" {
			context = fmt.Sprintf("You take %s, a %s.", m.DisplayName(), m.DrugClass)
		}
		cands = append(cands, matchCandidate{
			item:        m.DisplayName(),
			directNames: names,
			indirectHit: anyNameMatches(keywords, taxonomy.ConditionsForDrugClass(m.DrugClass)),
			// An active prescription always counts as a live concern.
			abnormal: true,
			context:  context,
		})
	}
	return cands
}

func labCandidates(keywords []string, labs []types.LabResult) []matchCandidate {
	cands := make([]matchCandidate, 0, len(labs))
	for _, l := range labs {
		organs, conditions := taxonomy.LabAssociations(l.TestName)
		indirect := anyNameMatches(keywords, organs) || anyNameMatches(keywords, conditions)
		cands = append(cands, matchCandidate{
			item:        l.TestName,
			directNames: []string{l.TestName},
			indirectHit: indirect,
			abnormal:    l.Abnormal(),
			context:     fmt.Sprintf("Your %s result was %s.", l.TestName, l.Status),
		})
	}
	return cands
}

func familyHistoryCandidates(keywords []string, entries []types.FamilyHistoryEntry) []matchCandidate {
	cands := make([]matchCandidate, 0, len(entries))
	for _, e := range entries {
		relatives := "your family"
		if len(e.Relatives) > 0 {
			relatives = strings.Join(e.Relatives, ", ")
		}
		cands = append(cands, matchCandidate{
			item:        e.ConditionName,
			directNames: []string{e.ConditionName},
			indirectHit: topicCategoryHit(keywords, e.ConditionName),
			abnormal:    false,
			context:     fmt.Sprintf("%s appears in your family history (%s).", e.ConditionName, relatives),
		})
	}
	return cands
}

func variantCandidates(variants []types.PharmacogenomicVariant) []matchCandidate {
	cands := make([]matchCandidate, 0, len(variants))
	for _, v := range variants {
		cands = append(cands, matchCandidate{
			item:        fmt.Sprintf("%s %s", v.Gene, v.VariantCode),
			directNames: []string(v.AffectedDrugs),
			context:     fmt.Sprintf("Your %s variant affects how you process certain medications (%s).", v.Gene, v.Phenotype),
		})
	}
	return cands
}

// topicCategoryHit reports whether any keyword, read as a topic category,
// maps to a condition list containing the given condition name.
func topicCategoryHit(keywords []string, conditionName string) bool {
	name := strings.ToLower(strings.TrimSpace(conditionName))
	if name == "" {
		return false
	}
	for _, kw := range keywords {
		for _, mapped := range taxonomy.ConditionsForTopicCategory(kw) {
			m := strings.ToLower(mapped)
			if strings.Contains(name, m) || strings.Contains(m, name) {
				return true
			}
		}
	}
	return false
}

// anyNameMatches applies the bidirectional substring containment rule: a name
// matches a keyword when either contains the other, case-insensitively.
func anyNameMatches(keywords []string, names []string) bool {
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(kw, n) || strings.Contains(n, kw) {
				return true
			}
		}
	}
	return false
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		out = append(out, kw)
	}
	return out
}
