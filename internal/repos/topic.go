package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/types"
)

type TopicRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]*types.ContentTopic, error)
	GetByID(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) (*types.ContentTopic, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.ContentTopic, error)
	Create(ctx context.Context, tx *gorm.DB, topics []*types.ContentTopic) ([]*types.ContentTopic, error)
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return &topicRepo{db: db, log: baseLog.With("repo", "TopicRepo")}
}

func (tr *topicRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.ContentTopic, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.ContentTopic
	if err := transaction.WithContext(ctx).
		Order("name asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *topicRepo) GetByID(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) (*types.ContentTopic, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var result types.ContentTopic
	err := transaction.WithContext(ctx).
		Where("id = ?", topicID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *topicRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.ContentTopic, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var result types.ContentTopic
	err := transaction.WithContext(ctx).
		Where("slug = ?", slug).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *topicRepo) Create(ctx context.Context, tx *gorm.DB, topics []*types.ContentTopic) ([]*types.ContentTopic, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if len(topics) == 0 {
		return []*types.ContentTopic{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}
