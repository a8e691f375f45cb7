package taxonomy

import "testing"

func TestConditionsForDrugClass(t *testing.T) {
	cases := []struct {
		name  string
		class string
		want  string
	}{
		{name: "antihypertensive_maps_hypertension", class: "antihypertensive", want: "hypertension"},
		{name: "case_insensitive", class: "Antihypertensive", want: "hypertension"},
		{name: "statin_maps_cholesterol", class: "statin", want: "high cholesterol"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ConditionsForDrugClass(tc.class)
			if !contains(got, tc.want) {
				t.Fatalf("ConditionsForDrugClass(%q)=%v, want it to contain %q", tc.class, got, tc.want)
			}
		})
	}
}

func TestConditionsForDrugClassUnknown(t *testing.T) {
	if got := ConditionsForDrugClass("not a drug class"); got != nil {
		t.Fatalf("expected nil for unknown class, got %v", got)
	}
	if got := ConditionsForDrugClass(""); got != nil {
		t.Fatalf("expected nil for empty class, got %v", got)
	}
}

func TestLabAssociationsLeadingToken(t *testing.T) {
	organs, conditions := LabAssociations("Glucose (fasting)")
	if !contains(organs, "pancreas") {
		t.Fatalf("organs=%v, want pancreas", organs)
	}
	if !contains(conditions, "diabetes") {
		t.Fatalf("conditions=%v, want diabetes", conditions)
	}
}

func TestLabAssociationsUnknown(t *testing.T) {
	organs, conditions := LabAssociations("Frobnicate Panel")
	if organs != nil || conditions != nil {
		t.Fatalf("expected nil associations, got %v / %v", organs, conditions)
	}
	organs, conditions = LabAssociations("")
	if organs != nil || conditions != nil {
		t.Fatalf("expected nil associations for empty name, got %v / %v", organs, conditions)
	}
}

func TestConditionsForTopicCategory(t *testing.T) {
	got := ConditionsForTopicCategory("endocrine")
	if !contains(got, "type 2 diabetes") {
		t.Fatalf("ConditionsForTopicCategory(endocrine)=%v, want type 2 diabetes", got)
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
