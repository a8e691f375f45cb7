package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HealthProfile is the persisted root of a user's private health record.
// The matching core never touches these rows directly; it consumes an
// immutable ProfileSnapshot taken at session start.
type HealthProfile struct {
	ID            uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User          *User                       `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Allergies     datatypes.JSONSlice[string] `gorm:"type:jsonb;column:allergies" json:"allergies"`
	BirthYear     int                         `gorm:"column:birth_year" json:"birth_year"`
	Conditions    []Condition                 `gorm:"foreignKey:ProfileID" json:"conditions"`
	Medications   []Medication                `gorm:"foreignKey:ProfileID" json:"medications"`
	LabResults    []LabResult                 `gorm:"foreignKey:ProfileID" json:"lab_results"`
	FamilyHistory []FamilyHistoryEntry        `gorm:"foreignKey:ProfileID" json:"family_history"`
	Variants      []PharmacogenomicVariant    `gorm:"foreignKey:ProfileID" json:"variants"`
	CreatedAt     time.Time                   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time                   `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt              `gorm:"index" json:"deleted_at,omitempty"`
}

func (HealthProfile) TableName() string { return "health_profile" }

type ConditionStatus string

const (
	ConditionActive   ConditionStatus = "active"
	ConditionResolved ConditionStatus = "resolved"
	ConditionChronic  ConditionStatus = "chronic"
)

type Condition struct {
	ID                uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProfileID         uuid.UUID                   `gorm:"type:uuid;not null;index" json:"profile_id"`
	Name              string                      `gorm:"not null;column:name" json:"name"`
	LocalizedName     string                      `gorm:"column:localized_name" json:"localized_name,omitempty"`
	Status            ConditionStatus             `gorm:"not null;column:status" json:"status"`
	Severity          string                      `gorm:"column:severity" json:"severity,omitempty"`
	RelatedStructures datatypes.JSONSlice[string] `gorm:"type:jsonb;column:related_structures" json:"related_structures,omitempty"`
	CreatedAt         time.Time                   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time                   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Condition) TableName() string { return "condition" }

// Abnormal reports whether the condition should count as an active concern
// when grading an indirect match.
func (c Condition) Abnormal() bool {
	return c.Status == ConditionActive || c.Status == ConditionChronic
}

type Medication struct {
	ID               uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProfileID        uuid.UUID                   `gorm:"type:uuid;not null;index" json:"profile_id"`
	BrandName        string                      `gorm:"column:brand_name" json:"brand_name"`
	GenericName      string                      `gorm:"not null;column:generic_name" json:"generic_name"`
	DrugClass        string                      `gorm:"column:drug_class" json:"drug_class"`
	Mechanism        string                      `gorm:"column:mechanism" json:"mechanism,omitempty"`
	Indication       string                      `gorm:"column:indication" json:"indication,omitempty"`
	TargetStructures datatypes.JSONSlice[string] `gorm:"type:jsonb;column:target_structures" json:"target_structures,omitempty"`
	CreatedAt        time.Time                   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time                   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Medication) TableName() string { return "medication" }

// DisplayName prefers the brand name, falling back to the generic name.
func (m Medication) DisplayName() string {
	if m.BrandName != "" {
		return m.BrandName
	}
	return m.GenericName
}

type LabStatus string

const (
	LabLow      LabStatus = "low"
	LabNormal   LabStatus = "normal"
	LabHigh     LabStatus = "high"
	LabCritical LabStatus = "critical"
)

type LabTrend string

const (
	TrendIncreasing LabTrend = "increasing"
	TrendStable     LabTrend = "stable"
	TrendDecreasing LabTrend = "decreasing"
)

type LabResult struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProfileID      uuid.UUID `gorm:"type:uuid;not null;index" json:"profile_id"`
	TestName       string    `gorm:"not null;column:test_name" json:"test_name"`
	Value          float64   `gorm:"column:value" json:"value"`
	Unit           string    `gorm:"column:unit" json:"unit"`
	ReferenceRange string    `gorm:"column:reference_range" json:"reference_range"`
	Status         LabStatus `gorm:"not null;column:status" json:"status"`
	Trend          LabTrend  `gorm:"column:trend" json:"trend,omitempty"`
	CollectedAt    time.Time `gorm:"column:collected_at" json:"collected_at"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (LabResult) TableName() string { return "lab_result" }

func (l LabResult) Abnormal() bool {
	return l.Status == LabLow || l.Status == LabHigh || l.Status == LabCritical
}

type FamilyHistoryEntry struct {
	ID            uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProfileID     uuid.UUID                   `gorm:"type:uuid;not null;index" json:"profile_id"`
	ConditionName string                      `gorm:"not null;column:condition_name" json:"condition_name"`
	Relatives     datatypes.JSONSlice[string] `gorm:"type:jsonb;column:relatives" json:"relatives"`
	AgeOfOnset    *int                        `gorm:"column:age_of_onset" json:"age_of_onset,omitempty"`
	CreatedAt     time.Time                   `gorm:"not null;default:now()" json:"created_at"`
}

func (FamilyHistoryEntry) TableName() string { return "family_history_entry" }

type PharmacogenomicVariant struct {
	ID             uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProfileID      uuid.UUID                   `gorm:"type:uuid;not null;index" json:"profile_id"`
	Gene           string                      `gorm:"not null;column:gene" json:"gene"`
	VariantCode    string                      `gorm:"column:variant_code" json:"variant_code"`
	Phenotype      string                      `gorm:"column:phenotype" json:"phenotype"`
	AffectedDrugs  datatypes.JSONSlice[string] `gorm:"type:jsonb;column:affected_drugs" json:"affected_drugs"`
	Recommendation string                      `gorm:"column:recommendation" json:"recommendation"`
	CreatedAt      time.Time                   `gorm:"not null;default:now()" json:"created_at"`
}

func (PharmacogenomicVariant) TableName() string { return "pharmacogenomic_variant" }

// ProfileSnapshot is the immutable view the matching core consumes. A
// snapshot is taken once per pass; profile mutations produce a new snapshot,
// never an in-place edit visible mid-pass.
type ProfileSnapshot struct {
	Conditions    []Condition
	Medications   []Medication
	LabResults    []LabResult
	FamilyHistory []FamilyHistoryEntry
	Variants      []PharmacogenomicVariant
	Allergies     []string
	LastUpdated   time.Time
}

// Snapshot flattens a loaded profile into the value the pure core consumes.
// A nil profile yields the empty snapshot, which matches nothing.
func (p *HealthProfile) Snapshot() ProfileSnapshot {
	if p == nil {
		return ProfileSnapshot{}
	}
	return ProfileSnapshot{
		Conditions:    p.Conditions,
		Medications:   p.Medications,
		LabResults:    p.LabResults,
		FamilyHistory: p.FamilyHistory,
		Variants:      p.Variants,
		Allergies:     []string(p.Allergies),
		LastUpdated:   p.UpdatedAt,
	}
}
