package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/requestdata"
	"github.com/medleaf/healthlens-backend/internal/services"
	"github.com/medleaf/healthlens-backend/internal/types"
)

type ProfileHandler struct {
	log        *logger.Logger
	profileSvc services.ProfileService
}

func NewProfileHandler(log *logger.Logger, profileSvc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		log:        log.With("handler", "ProfileHandler"),
		profileSvc: profileSvc,
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("no authenticated user")
	}
	return rd.UserID, nil
}

// GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	profile, err := h.profileSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "profile_load_failed", err)
		return
	}
	if profile == nil {
		RespondOK(c, gin.H{"profile": nil})
		return
	}
	RespondOK(c, gin.H{"profile": profile})
}

// PUT /api/profile
// Replaces the whole profile; partial edits are not supported so matching
// passes only ever see complete snapshots.
func (h *ProfileHandler) ReplaceProfile(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var profile types.HealthProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	saved, err := h.profileSvc.ReplaceProfile(c.Request.Context(), userID, &profile)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "profile_save_failed", err)
		return
	}
	RespondOK(c, gin.H{"profile": saved})
}

// GET /api/preferences
func (h *ProfileHandler) GetPreferences(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	prefs, err := h.profileSvc.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "preferences_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"preferences": prefs})
}

// PUT /api/preferences
func (h *ProfileHandler) UpdatePreferences(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var prefs types.PersonalizationPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	saved, err := h.profileSvc.UpdatePreferences(c.Request.Context(), userID, prefs)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "preferences_save_failed", err)
		return
	}
	RespondOK(c, gin.H{"preferences": saved})
}
