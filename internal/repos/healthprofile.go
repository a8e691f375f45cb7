package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/types"
)

type HealthProfileRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.HealthProfile, error)
	Replace(ctx context.Context, tx *gorm.DB, profile *types.HealthProfile) (*types.HealthProfile, error)
}

type healthProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHealthProfileRepo(db *gorm.DB, baseLog *logger.Logger) HealthProfileRepo {
	return &healthProfileRepo{db: db, log: baseLog.With("repo", "HealthProfileRepo")}
}

// GetByUserID loads the profile with all child collections preloaded, or nil
// when the user has no profile yet. Matching treats a nil profile as empty,
// never as an error.
func (hpr *healthProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.HealthProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = hpr.db
	}
	var result types.HealthProfile
	err := transaction.WithContext(ctx).
		Preload("Conditions").
		Preload("Medications").
		Preload("LabResults").
		Preload("FamilyHistory").
		Preload("Variants").
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

// Replace swaps the whole profile in one transaction. Mutation is always a
// full replacement so readers only ever see complete snapshots.
func (hpr *healthProfileRepo) Replace(ctx context.Context, tx *gorm.DB, profile *types.HealthProfile) (*types.HealthProfile, error) {
	run := func(transaction *gorm.DB) error {
		var existing types.HealthProfile
		err := transaction.WithContext(ctx).
			Where("user_id = ?", profile.UserID).
			First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			for _, child := range []any{
				&types.Condition{}, &types.Medication{}, &types.LabResult{},
				&types.FamilyHistoryEntry{}, &types.PharmacogenomicVariant{},
			} {
				if dErr := transaction.WithContext(ctx).
					Where("profile_id = ?", existing.ID).
					Delete(child).Error; dErr != nil {
					return dErr
				}
			}
			if dErr := transaction.WithContext(ctx).Unscoped().Delete(&existing).Error; dErr != nil {
				return dErr
			}
		}
		if profile.ID == uuid.Nil {
			profile.ID = uuid.New()
		}
		return transaction.WithContext(ctx).Create(profile).Error
	}

	if tx != nil {
		if err := run(tx); err != nil {
			return nil, err
		}
		return profile, nil
	}
	if err := hpr.db.Transaction(run); err != nil {
		return nil, err
	}
	return profile, nil
}
