package types

import (
	"time"

	"github.com/google/uuid"
)

// PrivacyMode bounds how much profile detail may reach an external text
// generator. Ordered off < limited < full.
type PrivacyMode string

const (
	PrivacyOff     PrivacyMode = "off"
	PrivacyLimited PrivacyMode = "limited"
	PrivacyFull    PrivacyMode = "full"
)

func (m PrivacyMode) Rank() int {
	switch m {
	case PrivacyFull:
		return 2
	case PrivacyLimited:
		return 1
	default:
		return 0
	}
}

// Allows reports whether this mode grants at least the given mode's access.
func (m PrivacyMode) Allows(min PrivacyMode) bool {
	return m.Rank() >= min.Rank()
}

// PersonalizationPreferences is session-scoped, single-writer state. Callers
// pass it by value into every matching pass so a mid-pass update can never be
// observed half-applied.
type PersonalizationPreferences struct {
	ID                      uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID                  uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Enabled                 bool        `gorm:"not null;default:true;column:enabled" json:"enabled"`
	IncludeConditions       bool        `gorm:"not null;default:true;column:include_conditions" json:"include_conditions"`
	IncludeMedications      bool        `gorm:"not null;default:true;column:include_medications" json:"include_medications"`
	IncludeLabResults       bool        `gorm:"not null;default:true;column:include_lab_results" json:"include_lab_results"`
	IncludeFamilyHistory    bool        `gorm:"not null;default:true;column:include_family_history" json:"include_family_history"`
	IncludePharmacogenomics bool        `gorm:"not null;default:true;column:include_pharmacogenomics" json:"include_pharmacogenomics"`
	ComplexityLevel         int         `gorm:"not null;default:3;column:complexity_level" json:"complexity_level"`
	PrivacyMode             PrivacyMode `gorm:"not null;default:'limited';column:privacy_mode" json:"privacy_mode"`
	CreatedAt               time.Time   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt               time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (PersonalizationPreferences) TableName() string { return "personalization_preferences" }

// DefaultPreferences returns the preferences applied before a user has saved
// any: personalization on, every category included, mid complexity, limited
// privacy.
func DefaultPreferences(userID uuid.UUID) PersonalizationPreferences {
	return PersonalizationPreferences{
		UserID:                  userID,
		Enabled:                 true,
		IncludeConditions:       true,
		IncludeMedications:      true,
		IncludeLabResults:       true,
		IncludeFamilyHistory:    true,
		IncludePharmacogenomics: true,
		ComplexityLevel:         3,
		PrivacyMode:             PrivacyLimited,
	}
}
