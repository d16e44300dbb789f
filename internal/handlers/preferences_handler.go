package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/services"
	"github.com/SAP-F-2025/exam-session-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type PreferencesHandler struct {
	BaseHandler
	preferences services.PreferencesService
}

func NewPreferencesHandler(preferences services.PreferencesService, logger utils.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		BaseHandler: NewBaseHandler(logger),
		preferences: preferences,
	}
}

// GetPreferences returns the current user's UI preferences
// @Summary Get preferences
// @Tags preferences
// @Produce json
// @Success 200 {object} models.UIPreferences
// @Router /preferences [get]
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.preferences.Get(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences replaces the current user's UI preferences
// @Summary Update preferences
// @Tags preferences
// @Accept json
// @Produce json
// @Param preferences body models.UIPreferences true "Preferences"
// @Success 200 {object} models.UIPreferences
// @Failure 400 {object} ErrorResponse
// @Router /preferences [put]
func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	var req models.UIPreferences
	if !h.bindJSON(c, &req, nil) {
		return
	}

	prefs, err := h.preferences.Update(c.Request.Context(), CurrentUserID(c), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}
