package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/services"
)

type TopicHandler struct {
	log      *logger.Logger
	topicSvc services.TopicService
}

func NewTopicHandler(log *logger.Logger, topicSvc services.TopicService) *TopicHandler {
	return &TopicHandler{
		log:      log.With("handler", "TopicHandler"),
		topicSvc: topicSvc,
	}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func respondServiceError(c *gin.Context, code string, err error) {
	if errors.Is(err, services.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	RespondError(c, http.StatusInternalServerError, code, err)
}

// GET /api/topics
func (h *TopicHandler) ListTopics(c *gin.Context) {
	topics, err := h.topicSvc.ListTopics(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "topics_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"topics": topics})
}

// GET /api/topics/:id
func (h *TopicHandler) GetTopic(c *gin.Context) {
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	topic, err := h.topicSvc.GetTopic(c.Request.Context(), topicID)
	if err != nil {
		respondServiceError(c, "topic_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"topic": topic})
}

// GET /api/topics/slug/:slug
func (h *TopicHandler) GetTopicBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		RespondError(c, http.StatusBadRequest, "bad_slug", errors.New("empty slug"))
		return
	}
	topic, err := h.topicSvc.GetTopicBySlug(c.Request.Context(), slug)
	if err != nil {
		respondServiceError(c, "topic_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"topic": topic})
}

// GET /api/topics/:id/personalized
func (h *TopicHandler) PersonalizeTopic(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.topicSvc.PersonalizeTopic(c.Request.Context(), userID, topicID)
	if err != nil {
		respondServiceError(c, "personalize_failed", err)
		return
	}
	RespondOK(c, result)
}

// POST /api/topics/:id/explain
func (h *TopicHandler) ExplainTopic(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	explanation, err := h.topicSvc.ExplainTopic(c.Request.Context(), userID, topicID)
	if err != nil {
		respondServiceError(c, "explain_failed", err)
		return
	}
	RespondOK(c, gin.H{"explanation": explanation})
}

// GET /api/labs/:id/interpretation
func (h *TopicHandler) InterpretLab(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	labID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	interpretation, err := h.topicSvc.InterpretLab(c.Request.Context(), userID, labID)
	if err != nil {
		respondServiceError(c, "lab_interpretation_failed", err)
		return
	}
	RespondOK(c, gin.H{"interpretation": interpretation})
}

// GET /api/medications/:id/context
func (h *TopicHandler) MedicationContext(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	medicationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	medCtx, err := h.topicSvc.MedicationContext(c.Request.Context(), userID, medicationID)
	if err != nil {
		respondServiceError(c, "medication_context_failed", err)
		return
	}
	RespondOK(c, gin.H{"context": medCtx})
}
