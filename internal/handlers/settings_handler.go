package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "outgo/internal/errors"
	"outgo/internal/services"
)

// SettingsHandler handles per-user settings.
type SettingsHandler struct {
	profileService services.ProfileServicer
	auditService   services.AuditServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(profileService services.ProfileServicer, auditService services.AuditServicer) *SettingsHandler {
	return &SettingsHandler{profileService: profileService, auditService: auditService}
}

// SetBaseCurrencyRequest represents the payload for changing the base currency.
type SetBaseCurrencyRequest struct {
	BaseCurrency string `json:"base_currency" binding:"required,iso4217"`
}

// GetSettings returns the user's settings.
// @Summary     Get settings
// @Description Get the authenticated user's settings, including base currency
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Profile "Settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.GetProfile(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": profile})
}

// SetBaseCurrency changes the currency all summaries are reported in.
// @Summary     Set base currency
// @Description Change the user's base reporting currency
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetBaseCurrencyRequest true "Base currency"
// @Success     200 {object} models.Profile "Settings updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/currency [put]
func (h *SettingsHandler) SetBaseCurrency(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBaseCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.profileService.SetBaseCurrency(userID, req.BaseCurrency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_BASE_CURRENCY", "profile", userID, c.ClientIP(),
		map[string]interface{}{"base_currency": profile.BaseCurrency})

	c.JSON(http.StatusOK, gin.H{"settings": profile})
}
