// Package taxonomy holds the static, curated mappings used for indirect
// relevance matching: topic category to related conditions, medication drug
// class to related conditions, and lab test to related organs and conditions.
// The tables are embedded at build time and immutable at runtime.
package taxonomy

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var tablesYAML []byte

type labEntry struct {
	Organs     []string `yaml:"organs"`
	Conditions []string `yaml:"conditions"`
}

type tables struct {
	TopicCategories map[string][]string `yaml:"topic_categories"`
	DrugClasses     map[string][]string `yaml:"drug_classes"`
	LabTests        map[string]labEntry `yaml:"lab_tests"`
}

var loaded tables

func init() {
	if err := yaml.Unmarshal(tablesYAML, &loaded); err != nil {
		panic(fmt.Sprintf("taxonomy: parse embedded tables: %v", err))
	}
	loaded.TopicCategories = lowerKeys(loaded.TopicCategories)
	loaded.DrugClasses = lowerKeys(loaded.DrugClasses)
	lowered := make(map[string]labEntry, len(loaded.LabTests))
	for k, v := range loaded.LabTests {
		lowered[strings.ToLower(k)] = v
	}
	loaded.LabTests = lowered
}

func lowerKeys(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[strings.ToLower(k)] = v
	}
	return out
}

// ConditionsForTopicCategory returns the condition names associated with a
// topic category keyword. Unknown categories yield nil, never an error.
func ConditionsForTopicCategory(category string) []string {
	return loaded.TopicCategories[strings.ToLower(strings.TrimSpace(category))]
}

// ConditionsForDrugClass returns the condition names a drug class is
// typically prescribed for.
func ConditionsForDrugClass(class string) []string {
	return loaded.DrugClasses[strings.ToLower(strings.TrimSpace(class))]
}

// LabAssociations looks up a lab test by the leading token of its name
// ("Glucose (fasting)" resolves under "glucose") and returns the related
// organs and conditions.
func LabAssociations(testName string) (organs, conditions []string) {
	token := leadingToken(testName)
	if token == "" {
		return nil, nil
	}
	entry, ok := loaded.LabTests[token]
	if !ok {
		return nil, nil
	}
	return entry.Organs, entry.Conditions
}

func leadingToken(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], "(),:;")
}
