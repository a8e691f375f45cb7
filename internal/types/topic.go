package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentTopic is one entry of the educational corpus. The matching core only
// reads its keyword list; the body is opaque text merged in by the
// personalizer.
type ContentTopic struct {
	ID        uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug      string                      `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	Name      string                      `gorm:"not null;column:name" json:"name"`
	Category  string                      `gorm:"column:category" json:"category"`
	Body      string                      `gorm:"type:text;column:body" json:"body"`
	Keywords  datatypes.JSONSlice[string] `gorm:"type:jsonb;column:keywords" json:"keywords"`
	AltNames  datatypes.JSONSlice[string] `gorm:"type:jsonb;column:alt_names" json:"alt_names,omitempty"`
	CreatedAt time.Time                   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time                   `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt              `gorm:"index" json:"deleted_at,omitempty"`
}

func (ContentTopic) TableName() string { return "content_topic" }

// MatchKeywords returns the lower-cased keyword set the matcher consumes:
// stored keywords plus the topic's name, category and alternate names.
func (t ContentTopic) MatchKeywords() []string {
	out := make([]string, 0, len(t.Keywords)+len(t.AltNames)+2)
	seen := map[string]struct{}{}
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	add(t.Name)
	add(t.Category)
	for _, k := range t.Keywords {
		add(k)
	}
	for _, a := range t.AltNames {
		add(a)
	}
	return out
}
