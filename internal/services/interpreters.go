package services

import (
	"fmt"
	"strings"

	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/taxonomy"
	"github.com/medleaf/healthlens-backend/internal/types"
)

// InterpreterService covers the narrow, single-entity variants of the
// matching discipline: explaining one lab result or one medication against
// the profile rather than a whole topic.
type InterpreterService interface {
	InterpretLabTrend(lab types.LabResult, profile types.ProfileSnapshot) types.LabTrendInterpretation
	BuildMedicationContext(med types.Medication, profile types.ProfileSnapshot) types.MedicationPersonalizedContext
}

type interpreterService struct {
	log *logger.Logger
}

func NewInterpreterService(log *logger.Logger) InterpreterService {
	return &interpreterService{log: log.With("service", "InterpreterService")}
}

func (is *interpreterService) InterpretLabTrend(lab types.LabResult, profile types.ProfileSnapshot) types.LabTrendInterpretation {
	_, mapped := taxonomy.LabAssociations(lab.TestName)

	out := types.LabTrendInterpretation{TestName: lab.TestName}
	for _, c := range profile.Conditions {
		if nameInList(c.Name, mapped) {
			out.RelatedConditions = append(out.RelatedConditions, c.Name)
		}
	}
	for _, m := range profile.Medications {
		classConditions := taxonomy.ConditionsForDrugClass(m.DrugClass)
		if listsOverlap(classConditions, mapped) || indicationCovers(m.Indication, mapped) {
			out.RelatedMedications = append(out.RelatedMedications, m.DisplayName())
		}
	}

	out.Summary = labSummary(lab)
	out.Recommendation = labRecommendation(lab.Status)
	return out
}

func labSummary(lab types.LabResult) string {
	var s string
	switch lab.Status {
	case types.LabCritical:
		s = fmt.Sprintf("Your %s result of %.4g %s is critically outside the reference range (%s).", lab.TestName, lab.Value, lab.Unit, lab.ReferenceRange)
	case types.LabHigh:
		s = fmt.Sprintf("Your %s result of %.4g %s is above the reference range (%s).", lab.TestName, lab.Value, lab.Unit, lab.ReferenceRange)
	case types.LabLow:
		s = fmt.Sprintf("Your %s result of %.4g %s is below the reference range (%s).", lab.TestName, lab.Value, lab.Unit, lab.ReferenceRange)
	default:
		s = fmt.Sprintf("Your %s result of %.4g %s is within the reference range (%s).", lab.TestName, lab.Value, lab.Unit, lab.ReferenceRange)
	}
	switch lab.Trend {
	case types.TrendIncreasing:
		s += " Recent results show an increasing trend."
	case types.TrendDecreasing:
		s += " Recent results show a decreasing trend."
	}
	return s
}

// Critical status always produces the urgent recommendation, regardless of
// trend.
func labRecommendation(status types.LabStatus) string {
	switch status {
	case types.LabCritical:
		return "Contact your healthcare provider urgently about this result."
	case types.LabHigh, types.LabLow:
		return "Discuss this result with your healthcare provider at your next visit."
	default:
		return "No action is needed for this result."
	}
}

func (is *interpreterService) BuildMedicationContext(med types.Medication, profile types.ProfileSnapshot) types.MedicationPersonalizedContext {
	out := types.MedicationPersonalizedContext{MedicationName: med.DisplayName()}

	classConditions := taxonomy.ConditionsForDrugClass(med.DrugClass)
	for _, c := range profile.Conditions {
		if containsFold(med.Indication, c.Name) || containsFold(c.Name, med.Indication) || nameInList(c.Name, classConditions) {
			out.RelatedConditions = append(out.RelatedConditions, c.Name)
		}
	}
	for _, l := range profile.LabResults {
		_, labConditions := taxonomy.LabAssociations(l.TestName)
		if listsOverlap(labConditions, classConditions) || indicationCovers(med.Indication, labConditions) {
			out.RelatedLabs = append(out.RelatedLabs, l.TestName)
		}
	}
	for _, v := range profile.Variants {
		if nameInList(med.GenericName, []string(v.AffectedDrugs)) {
			out.GeneNotes = append(out.GeneNotes, fmt.Sprintf("Your %s variant (%s) may affect this medication. %s", v.Gene, v.Phenotype, v.Recommendation))
		}
	}

	out.Mechanism = mechanismSentence(med, out.RelatedConditions)
	return out
}

func mechanismSentence(med types.Medication, relatedConditions []string) string {
	mechanism := med.Mechanism
	if mechanism == "" {
		mechanism = fmt.Sprintf("%s belongs to the %s class of medications.", med.DisplayName(), med.DrugClass)
	}
	if len(relatedConditions) == 0 {
		return mechanism
	}
	return fmt.Sprintf("%s This helps manage your %s.", strings.TrimSpace(mechanism), strings.Join(relatedConditions, " and "))
}

func nameInList(name string, list []string) bool {
	for _, entry := range list {
		if containsFold(entry, name) || containsFold(name, entry) {
			return true
		}
	}
	return false
}

func listsOverlap(a, b []string) bool {
	for _, s := range a {
		if nameInList(s, b) {
			return true
		}
	}
	return false
}

func indicationCovers(indication string, conditions []string) bool {
	if strings.TrimSpace(indication) == "" {
		return false
	}
	for _, c := range conditions {
		if containsFold(indication, c) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	if strings.TrimSpace(needle) == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
