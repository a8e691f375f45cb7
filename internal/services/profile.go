package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medleaf/healthlens-backend/internal/clients/redis"
	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/repos"
	"github.com/medleaf/healthlens-backend/internal/types"
)

// ProfileService owns session state: the health profile and the
// personalization preferences. Reads hand out consistent snapshots; writes
// replace whole records and invalidate cached contexts, so no matching pass
// can observe a half-updated profile.
type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.HealthProfile, error)
	GetSnapshot(ctx context.Context, userID uuid.UUID) (types.ProfileSnapshot, error)
	ReplaceProfile(ctx context.Context, userID uuid.UUID, profile *types.HealthProfile) (*types.HealthProfile, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (types.PersonalizationPreferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs types.PersonalizationPreferences) (types.PersonalizationPreferences, error)
}

type profileService struct {
	log         *logger.Logger
	profileRepo repos.HealthProfileRepo
	prefsRepo   repos.PreferencesRepo
	cache       redis.ContextCache
}

func NewProfileService(log *logger.Logger, profileRepo repos.HealthProfileRepo, prefsRepo repos.PreferencesRepo, cache redis.ContextCache) ProfileService {
	return &profileService{
		log:         log.With("service", "ProfileService"),
		profileRepo: profileRepo,
		prefsRepo:   prefsRepo,
		cache:       cache,
	}
}

func (ps *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.HealthProfile, error) {
	return ps.profileRepo.GetByUserID(ctx, nil, userID)
}

// GetSnapshot returns the empty snapshot when the user has no profile: the
// matcher then correctly yields zero matches rather than an error.
func (ps *profileService) GetSnapshot(ctx context.Context, userID uuid.UUID) (types.ProfileSnapshot, error) {
	profile, err := ps.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return types.ProfileSnapshot{}, fmt.Errorf("load profile: %w", err)
	}
	return profile.Snapshot(), nil
}

func (ps *profileService) ReplaceProfile(ctx context.Context, userID uuid.UUID, profile *types.HealthProfile) (*types.HealthProfile, error) {
	if profile == nil {
		return nil, fmt.Errorf("no profile given")
	}
	profile.UserID = userID
	saved, err := ps.profileRepo.Replace(ctx, nil, profile)
	if err != nil {
		return nil, fmt.Errorf("replace profile: %w", err)
	}
	if ps.cache != nil {
		ps.cache.InvalidateUser(ctx, userID.String())
	}
	return saved, nil
}

func (ps *profileService) GetPreferences(ctx context.Context, userID uuid.UUID) (types.PersonalizationPreferences, error) {
	prefs, err := ps.prefsRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return types.PersonalizationPreferences{}, fmt.Errorf("load preferences: %w", err)
	}
	if prefs == nil {
		return types.DefaultPreferences(userID), nil
	}
	return *prefs, nil
}

func (ps *profileService) UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs types.PersonalizationPreferences) (types.PersonalizationPreferences, error) {
	prefs.UserID = userID
	if prefs.ComplexityLevel < 1 || prefs.ComplexityLevel > 5 {
		return types.PersonalizationPreferences{}, fmt.Errorf("complexity level must be between 1 and 5")
	}
	switch prefs.PrivacyMode {
	case types.PrivacyFull, types.PrivacyLimited, types.PrivacyOff:
	default:
		return types.PersonalizationPreferences{}, fmt.Errorf("unknown privacy mode %q", prefs.PrivacyMode)
	}
	saved, err := ps.prefsRepo.Upsert(ctx, nil, &prefs)
	if err != nil {
		return types.PersonalizationPreferences{}, fmt.Errorf("save preferences: %w", err)
	}
	if ps.cache != nil {
		ps.cache.InvalidateUser(ctx, userID.String())
	}
	return *saved, nil
}
