package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/wallet_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/wallet_ledger/internal/core/ports/services"
	"github.com/SscSPs/wallet_ledger/internal/dto"
	"github.com/SscSPs/wallet_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// identityHandler forwards sign-in state changes to the wallet store.
type identityHandler struct {
	walletService   portssvc.WalletSvcFacade
	snapshotService portssvc.SnapshotSvc
}

// RegisterIdentityRoutes registers routes related to the signed-in identity.
// snapshotService may be nil when persistence is disabled.
func RegisterIdentityRoutes(rg *gin.RouterGroup, walletService portssvc.WalletSvcFacade, snapshotService portssvc.SnapshotSvc) {
	h := &identityHandler{walletService: walletService, snapshotService: snapshotService}

	identity := rg.Group("/identity")
	identity.PUT("", h.setIdentity)

	owned := identity.Group("", middleware.RequireWalletOwner(walletOwner(walletService)))
	{
		owned.GET("", h.getIdentity)
		owned.PATCH("/email", h.setIdentityEmail)
		owned.DELETE("", h.resetIdentity)
	}
}

// getIdentity godoc
// @Summary Get the signed-in identity
// @Tags identity
// @Produce  json
// @Success 200 {object} dto.IdentityResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Wallet belongs to another user"
// @Security BearerAuth
// @Router /identity [get]
func (h *identityHandler) getIdentity(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToIdentityResponse(h.walletService.Identity()))
}

// setIdentity godoc
// @Summary Sign in
// @Description Replaces the whole identity. The uid must match the token subject. The last saved wallet of the user is loaded in the same step.
// @Tags identity
// @Accept  json
// @Produce  json
// @Param   identity body dto.SetIdentityRequest true "Identity"
// @Success 200 {object} dto.IdentityResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "uid does not match the token"
// @Failure 500 {object} map[string]string "Saved wallet could not be loaded"
// @Security BearerAuth
// @Router /identity [put]
func (h *identityHandler) setIdentity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetIdentity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if req.UID != userID {
		logger.Warn("Identity uid does not match token subject", slog.String("uid", req.UID))
		c.JSON(http.StatusForbidden, gin.H{"error": "uid does not match the authenticated user"})
		return
	}

	identity := domain.Identity{
		Email:         req.Email,
		EmailVerified: req.EmailVerified,
		IsAnonymous:   req.IsAnonymous,
		UID:           req.UID,
	}
	var err error
	if h.snapshotService != nil {
		err = h.snapshotService.SignIn(c.Request.Context(), identity)
	} else {
		err = h.walletService.SignIn(identity, nil)
	}
	if err != nil {
		respondWithError(c, logger, err, "Failed to sign in")
		return
	}

	logger.Info("Identity set", slog.Bool("is_anonymous", req.IsAnonymous))
	c.JSON(http.StatusOK, dto.ToIdentityResponse(h.walletService.Identity()))
}

// setIdentityEmail godoc
// @Summary Change the identity email
// @Tags identity
// @Accept  json
// @Produce  json
// @Param   email body dto.SetIdentityEmailRequest true "New email"
// @Success 200 {object} dto.IdentityResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Wallet belongs to another user"
// @Security BearerAuth
// @Router /identity/email [patch]
func (h *identityHandler) setIdentityEmail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetIdentityEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetIdentityEmail", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	h.walletService.SetIdentityEmail(req.Email)
	c.JSON(http.StatusOK, dto.ToIdentityResponse(h.walletService.Identity()))
}

// resetIdentity godoc
// @Summary Sign out
// @Description Restores the anonymous placeholder identity
// @Tags identity
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Wallet belongs to another user"
// @Security BearerAuth
// @Router /identity [delete]
func (h *identityHandler) resetIdentity(c *gin.Context) {
	h.walletService.ResetIdentity()
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Identity reset")
	c.Status(http.StatusNoContent)
}
