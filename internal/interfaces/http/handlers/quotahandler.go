package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	quotaApp "quotaguard/internal/application/quota"
	"quotaguard/internal/application/quota/dto"
	"quotaguard/internal/shared/logger"
	"quotaguard/internal/shared/utils"
)

// QuotaHandler handles HTTP requests for quota operations
type QuotaHandler struct {
	service *quotaApp.Service
	logger  logger.Interface
}

// NewQuotaHandler creates a new quota handler
func NewQuotaHandler(service *quotaApp.Service, logger logger.Interface) *QuotaHandler {
	return &QuotaHandler{
		service: service,
		logger:  logger,
	}
}

// CheckQuota handles POST /quota/check
// Admits or denies one request for the user, consuming quota unless dry_run
// is set.
func (h *QuotaHandler) CheckQuota(c *gin.Context) {
	var request dto.CheckQuotaRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+verrs[0].Field()+" failed on "+verrs[0].Tag())
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.CheckQuota(c.Request.Context(), request)
	if err != nil {
		h.logger.Errorw("quota check failed", "error", err, "user_id", request.UserID)
		utils.AppErrorResponse(c, err)
		return
	}

	status := http.StatusOK
	if !result.Allowed {
		status = http.StatusTooManyRequests
	}
	utils.SuccessResponse(c, status, "", result)
}

// GetQuotaStatus handles GET /users/:user_id/quota
// Reports effective limits and remaining quota without consuming anything.
func (h *QuotaHandler) GetQuotaStatus(c *gin.Context) {
	userID, ok := h.userIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.GetQuotaStatus(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to get quota status", "error", err, "user_id", userID)
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetUsageHistory handles GET /users/:user_id/quota/history
// Query parameters:
//   - period_type: hourly, daily or monthly (required)
//   - limit: maximum number of windows to return
func (h *QuotaHandler) GetUsageHistory(c *gin.Context) {
	userID, ok := h.userIDParam(c)
	if !ok {
		return
	}

	periodType := c.Query("period_type")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	result, err := h.service.GetUsageHistory(c.Request.Context(), userID, periodType, limit)
	if err != nil {
		h.logger.Errorw("failed to get usage history",
			"error", err,
			"user_id", userID,
			"period_type", periodType,
		)
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetOwnQuotaStatus handles GET /me/quota
// Like GetQuotaStatus, but for the caller identified by the identity
// middleware. Reads never consume quota.
func (h *QuotaHandler) GetOwnQuotaStatus(c *gin.Context) {
	userID, ok := h.userIDFromContext(c)
	if !ok {
		return
	}

	result, err := h.service.GetQuotaStatus(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to get quota status", "error", err, "user_id", userID)
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ConsumeQuota handles POST /me/quota/consume
// The enforcement middleware has already checked and consumed quota by the
// time this runs; reaching the handler means the request was admitted.
func (h *QuotaHandler) ConsumeQuota(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"allowed": true})
}

func (h *QuotaHandler) userIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return 0, false
	}
	userID, ok := value.(uint)
	if !ok {
		utils.ErrorResponse(c, http.StatusInternalServerError, "invalid user ID")
		return 0, false
	}
	return userID, true
}

func (h *QuotaHandler) userIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("user_id")
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid user ID")
		return 0, false
	}
	return uint(parsed), true
}
