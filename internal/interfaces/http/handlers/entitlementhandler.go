package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	entApp "quotaguard/internal/application/entitlement"
	"quotaguard/internal/application/entitlement/dto"
	"quotaguard/internal/shared/logger"
	"quotaguard/internal/shared/utils"
)

// EntitlementHandler handles HTTP requests for entitlement grant management
type EntitlementHandler struct {
	service *entApp.Service
	logger  logger.Interface
}

// NewEntitlementHandler creates a new entitlement handler
func NewEntitlementHandler(service *entApp.Service, logger logger.Interface) *EntitlementHandler {
	return &EntitlementHandler{
		service: service,
		logger:  logger,
	}
}

// Grant handles POST /users/:user_id/entitlements
// Grants a tier tag to the user. granted_at defaults to now; expires_at is
// optional.
func (h *EntitlementHandler) Grant(c *gin.Context) {
	userID, ok := h.uintParam(c, "user_id")
	if !ok {
		return
	}

	var request dto.GrantEntitlementRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+verrs[0].Field()+" failed on "+verrs[0].Tag())
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Grant(c.Request.Context(), userID, request)
	if err != nil {
		h.logger.Errorw("failed to grant entitlement", "error", err, "user_id", userID)
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "", result)
}

// Revoke handles DELETE /users/:user_id/entitlements/:entitlement_id
func (h *EntitlementHandler) Revoke(c *gin.Context) {
	userID, ok := h.uintParam(c, "user_id")
	if !ok {
		return
	}
	entitlementID, ok := h.uintParam(c, "entitlement_id")
	if !ok {
		return
	}

	result, err := h.service.Revoke(c.Request.Context(), userID, entitlementID)
	if err != nil {
		h.logger.Errorw("failed to revoke entitlement",
			"error", err,
			"user_id", userID,
			"entitlement_id", entitlementID,
		)
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *EntitlementHandler) uintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(parsed), true
}
