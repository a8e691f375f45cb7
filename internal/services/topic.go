package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/medleaf/healthlens-backend/internal/clients/redis"
	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/repos"
	"github.com/medleaf/healthlens-backend/internal/types"
)

// ErrNotFound marks lookups of topics or profile entities that do not exist.
// Handlers translate it to 404.
var ErrNotFound = errors.New("not found")

// TopicService runs one full personalization pass per query: matcher,
// aggregator, assembler and personalizer over a consistent snapshot of
// profile and preferences.
type TopicService interface {
	ListTopics(ctx context.Context) ([]*types.ContentTopic, error)
	GetTopic(ctx context.Context, topicID uuid.UUID) (*types.ContentTopic, error)
	GetTopicBySlug(ctx context.Context, slug string) (*types.ContentTopic, error)
	PersonalizeTopic(ctx context.Context, userID, topicID uuid.UUID) (*PersonalizedTopicResult, error)
	ExplainTopic(ctx context.Context, userID, topicID uuid.UUID) (string, error)
	InterpretLab(ctx context.Context, userID, labID uuid.UUID) (types.LabTrendInterpretation, error)
	MedicationContext(ctx context.Context, userID, medicationID uuid.UUID) (types.MedicationPersonalizedContext, error)
}

type PersonalizedTopicResult struct {
	Topic    *types.ContentTopic              `json:"topic"`
	Context  types.PersonalizedContentContext `json:"context"`
	Response types.PersonalizedResponse       `json:"response"`
}

type topicService struct {
	log          *logger.Logger
	topicRepo    repos.TopicRepo
	profileSvc   ProfileService
	relevanceSvc RelevanceService
	contextSvc   ContextService
	personalizer PersonalizationService
	interpreter  InterpreterService
	promptSvc    PromptService
	cache        redis.ContextCache
}

func NewTopicService(
	log *logger.Logger,
	topicRepo repos.TopicRepo,
	profileSvc ProfileService,
	relevanceSvc RelevanceService,
	contextSvc ContextService,
	personalizer PersonalizationService,
	interpreter InterpreterService,
	promptSvc PromptService,
	cache redis.ContextCache,
) TopicService {
	return &topicService{
		log:          log.With("service", "TopicService"),
		topicRepo:    topicRepo,
		profileSvc:   profileSvc,
		relevanceSvc: relevanceSvc,
		contextSvc:   contextSvc,
		personalizer: personalizer,
		interpreter:  interpreter,
		promptSvc:    promptSvc,
		cache:        cache,
	}
}

func (ts *topicService) ListTopics(ctx context.Context) ([]*types.ContentTopic, error) {
	return ts.topicRepo.List(ctx, nil)
}

func (ts *topicService) GetTopic(ctx context.Context, topicID uuid.UUID) (*types.ContentTopic, error) {
	topic, err := ts.topicRepo.GetByID(ctx, nil, topicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, fmt.Errorf("topic %s: %w", topicID, ErrNotFound)
	}
	return topic, nil
}

func (ts *topicService) GetTopicBySlug(ctx context.Context, slug string) (*types.ContentTopic, error) {
	topic, err := ts.topicRepo.GetBySlug(ctx, nil, slug)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, fmt.Errorf("topic %q: %w", slug, ErrNotFound)
	}
	return topic, nil
}

func (ts *topicService) PersonalizeTopic(ctx context.Context, userID, topicID uuid.UUID) (*PersonalizedTopicResult, error) {
	topic, err := ts.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	prefs, err := ts.profileSvc.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshot, err := ts.profileSvc.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	contentCtx := ts.contentContext(ctx, userID, topic, snapshot, prefs)
	response := ts.personalizer.Personalize(topic.Body, contentCtx.Matches, prefs)
	return &PersonalizedTopicResult{
		Topic:    topic,
		Context:  contentCtx,
		Response: response,
	}, nil
}

// contentContext computes (or retrieves) the UI-facing context for one
// (user, topic, profile version, preferences version) combination.
func (ts *topicService) contentContext(ctx context.Context, userID uuid.UUID, topic *types.ContentTopic, snapshot types.ProfileSnapshot, prefs types.PersonalizationPreferences) types.PersonalizedContentContext {
	key := redis.CacheKey(userID.String(), topic.ID.String(), snapshot.LastUpdated, prefs.UpdatedAt)
	if ts.cache != nil {
		if cached, ok := ts.cache.Get(ctx, key); ok {
			return *cached
		}
	}
	matches := ts.relevanceSvc.MatchTopic(topic.MatchKeywords(), snapshot, prefs)
	level, explanation := ts.relevanceSvc.Aggregate(matches)
	contentCtx := ts.contextSvc.BuildContentContext(matches, level, explanation)
	if ts.cache != nil {
		ts.cache.Set(ctx, key, &contentCtx)
	}
	return contentCtx
}

func (ts *topicService) ExplainTopic(ctx context.Context, userID, topicID uuid.UUID) (string, error) {
	if ts.promptSvc == nil {
		return "", fmt.Errorf("text generation is not configured")
	}
	topic, err := ts.GetTopic(ctx, topicID)
	if err != nil {
		return "", err
	}
	prefs, err := ts.profileSvc.GetPreferences(ctx, userID)
	if err != nil {
		return "", err
	}
	snapshot, err := ts.profileSvc.GetSnapshot(ctx, userID)
	if err != nil {
		return "", err
	}

	matches := ts.relevanceSvc.MatchTopic(topic.MatchKeywords(), snapshot, prefs)
	basePrompt := fmt.Sprintf("Explain the health topic %q.\n\n%s", topic.Name, topic.Body)
	promptCtx := ts.contextSvc.BuildAIPromptContext(basePrompt, matches, snapshot, prefs)
	return ts.promptSvc.ExplainTopic(ctx, topic.Name, promptCtx)
}

func (ts *topicService) InterpretLab(ctx context.Context, userID, labID uuid.UUID) (types.LabTrendInterpretation, error) {
	snapshot, err := ts.profileSvc.GetSnapshot(ctx, userID)
	if err != nil {
		return types.LabTrendInterpretation{}, err
	}
	for _, lab := range snapshot.LabResults {
		if lab.ID == labID {
			return ts.interpreter.InterpretLabTrend(lab, snapshot), nil
		}
	}
	return types.LabTrendInterpretation{}, fmt.Errorf("lab result %s: %w", labID, ErrNotFound)
}

func (ts *topicService) MedicationContext(ctx context.Context, userID, medicationID uuid.UUID) (types.MedicationPersonalizedContext, error) {
	snapshot, err := ts.profileSvc.GetSnapshot(ctx, userID)
	if err != nil {
		return types.MedicationPersonalizedContext{}, err
	}
	for _, med := range snapshot.Medications {
		if med.ID == medicationID {
			return ts.interpreter.BuildMedicationContext(med, snapshot), nil
		}
	}
	return types.MedicationPersonalizedContext{}, fmt.Errorf("medication %s: %w", medicationID, ErrNotFound)
}
