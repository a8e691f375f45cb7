package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/types"
)

type PreferencesRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PersonalizationPreferences, error)
	Upsert(ctx context.Context, tx *gorm.DB, prefs *types.PersonalizationPreferences) (*types.PersonalizationPreferences, error)
}

type preferencesRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreferencesRepo(db *gorm.DB, baseLog *logger.Logger) PreferencesRepo {
	return &preferencesRepo{db: db, log: baseLog.With("repo", "PreferencesRepo")}
}

// GetByUserID returns nil when the user has never saved preferences; callers
// fall back to types.DefaultPreferences.
func (pr *preferencesRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PersonalizationPreferences, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.PersonalizationPreferences
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *preferencesRepo) Upsert(ctx context.Context, tx *gorm.DB, prefs *types.PersonalizationPreferences) (*types.PersonalizationPreferences, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if prefs.ID == uuid.Nil {
		prefs.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled", "include_conditions", "include_medications",
				"include_lab_results", "include_family_history",
				"include_pharmacogenomics", "complexity_level", "privacy_mode",
				"updated_at",
			}),
		}).
		Create(prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}
