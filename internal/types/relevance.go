package types

// RelevanceLevel grades how strongly a profile item relates to a topic.
// Ordered directly_relevant > related > general_interest > not_relevant.
type RelevanceLevel string

const (
	RelevanceDirect  RelevanceLevel = "directly_relevant"
	RelevanceRelated RelevanceLevel = "related"
	RelevanceGeneral RelevanceLevel = "general_interest"
	RelevanceNone    RelevanceLevel = "not_relevant"
)

func (l RelevanceLevel) Rank() int {
	switch l {
	case RelevanceDirect:
		return 3
	case RelevanceRelated:
		return 2
	case RelevanceGeneral:
		return 1
	default:
		return 0
	}
}

// MaxRelevance returns the stronger of two levels.
func MaxRelevance(a, b RelevanceLevel) RelevanceLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// MatchCategory tags which part of the profile a match came from.
type MatchCategory string

const (
	CategoryCondition        MatchCategory = "condition"
	CategoryMedication       MatchCategory = "medication"
	CategoryLabResult        MatchCategory = "lab_result"
	CategoryFamilyHistory    MatchCategory = "family_history"
	CategoryPharmacogenomics MatchCategory = "pharmacogenomics"
)

// RelevanceMatch records one matched profile item. Within one matching pass
// there is at most one match per (Category, MatchedItem) pair, carrying the
// highest level the item qualified for.
type RelevanceMatch struct {
	Category    MatchCategory  `json:"category"`
	MatchedItem string         `json:"matched_item"`
	Relevance   RelevanceLevel `json:"relevance"`
	Explanation string         `json:"explanation"`
	UserContext string         `json:"user_context"`
}

// PersonalizedContentContext is the UI-facing per-topic aggregate. It is
// always assembled at full detail; it never leaves the device, so privacy
// mode does not apply to it.
type PersonalizedContentContext struct {
	Matches            []RelevanceMatch `json:"matches"`
	OverallRelevance   RelevanceLevel   `json:"overall_relevance"`
	Explanation        string           `json:"explanation"`
	RelatedConditions  []string         `json:"related_conditions"`
	RelatedMedications []string         `json:"related_medications"`
	RelatedLabs        []string         `json:"related_labs"`
}

// AIPromptContext is the only profile-derived bundle allowed to reach an
// external text generator. Every field below BasePrompt is bounded by the
// privacy mode in force when it was assembled.
type AIPromptContext struct {
	BasePrompt          string                   `json:"base_prompt"`
	UserHealthContext   string                   `json:"user_health_context"`
	RelevantConditions  []Condition              `json:"relevant_conditions"`
	RelevantMedications []Medication             `json:"relevant_medications"`
	RelevantLabs        []LabResult              `json:"relevant_labs"`
	RelevantVariants    []PharmacogenomicVariant `json:"relevant_variants"`
	ComplexityLevel     int                      `json:"complexity_level"`
}

type RelevanceIndicator struct {
	Category    MatchCategory `json:"category"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
	MatchCount  int           `json:"match_count"`
}

type UserContextSection struct {
	Category MatchCategory `json:"category"`
	Title    string        `json:"title"`
	Content  string        `json:"content"`
}

// PersonalizedResponse is the final bundle handed to the rendering layer.
// PersonalizedContent is always a strict superset of BaseContent; with
// personalization disabled the two are identical.
type PersonalizedResponse struct {
	BaseContent         string               `json:"base_content"`
	PersonalizedContent string               `json:"personalized_content"`
	RelevanceIndicators []RelevanceIndicator `json:"relevance_indicators"`
	UserContextSections []UserContextSection `json:"user_context_sections"`
	Disclaimers         []string             `json:"disclaimers"`
}

// LabTrendInterpretation is the single-lab narrative built by the auxiliary
// interpreter.
type LabTrendInterpretation struct {
	TestName           string   `json:"test_name"`
	Summary            string   `json:"summary"`
	RelatedConditions  []string `json:"related_conditions"`
	RelatedMedications []string `json:"related_medications"`
	Recommendation     string   `json:"recommendation"`
}

// MedicationPersonalizedContext is the single-medication narrative built by
// the auxiliary interpreter.
type MedicationPersonalizedContext struct {
	MedicationName    string   `json:"medication_name"`
	Mechanism         string   `json:"mechanism"`
	RelatedConditions []string `json:"related_conditions"`
	RelatedLabs       []string `json:"related_labs"`
	GeneNotes         []string `json:"gene_notes"`
}
