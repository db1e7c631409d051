package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/wallet_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/wallet_ledger/internal/core/ports/services"
	"github.com/SscSPs/wallet_ledger/internal/dto"
	"github.com/SscSPs/wallet_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// walletHandler handles HTTP requests that read or refresh the wallet store.
type walletHandler struct {
	walletService portssvc.WalletSvcFacade
}

// newWalletHandler creates a new walletHandler.
func newWalletHandler(ws portssvc.WalletSvcFacade) *walletHandler {
	return &walletHandler{
		walletService: ws,
	}
}

// RegisterWalletRoutes registers routes related to the wallet store.
func RegisterWalletRoutes(rg *gin.RouterGroup, walletService portssvc.WalletSvcFacade) {
	h := newWalletHandler(walletService)

	wallet := rg.Group("/wallet", middleware.RequireWalletOwner(walletOwner(walletService)))
	{
		wallet.GET("", h.getWallet)
		wallet.GET("/totals", h.getTotals)
		wallet.POST("/refresh", h.refreshAll)
		wallet.POST("/rates/refresh", h.refreshRates)

		accounts := wallet.Group("/accounts/:type")
		accounts.GET("", h.getAccount)
		accounts.POST("/refresh", h.refreshAccount)
		accounts.POST("/reset", h.resetAccount)
	}
}

// getWallet godoc
// @Summary Get the wallet
// @Description Returns the identity, both accounts and the rate table
// @Tags wallet
// @Produce  json
// @Success 200 {object} dto.WalletResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Wallet belongs to another user"
// @Failure 500 {object} map[string]string "Failed to read wallet"
// @Security BearerAuth
// @Router /wallet [get]
func (h *walletHandler) getWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	h.respondWithSnapshot(c, logger, http.StatusOK)
}

// getTotals godoc
// @Summary Get USD totals
// @Description Returns the total balance in USD and the USD balance of every account type
// @Tags wallet
// @Produce  json
// @Success 200 {object} dto.TotalsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Wallet belongs to another user"
// @Security BearerAuth
// @Router /wallet/totals [get]
func (h *walletHandler) getTotals(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToTotalsResponse(
		h.walletService.TotalBalanceInUSD(),
		h.walletService.BalancesByAccountType(),
	))
}

// getAccount godoc
// @Summary Get an account by type
// @Description Retrieves the account of the given type (Checking or Bitcoin)
// @Tags wallet
// @Produce  json
// @Param   type path string true "Account type"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Unknown account type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Wallet belongs to another user"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /wallet/accounts/{type} [get]
func (h *walletHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountType, ok := h.bindAccountType(c, logger)
	if !ok {
		return
	}

	account, found := h.walletService.AccountByType(accountType)
	if !found {
		logger.Warn("Account not found", slog.String("account_type", string(accountType)))
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account, h.walletService.Rates()))
}

// refreshAll godoc
// @Summary Refresh the whole wallet
// @Description Refreshes rates, balances and histories. Remote failures keep the previous values and are not reported.
// @Tags wallet
// @Produce  json
// @Success 202 {object} dto.WalletResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Wallet belongs to another user"
// @Security BearerAuth
// @Router /wallet/refresh [post]
func (h *walletHandler) refreshAll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to refresh wallet")

	h.walletService.RefreshAll(c.Request.Context())
	h.respondWithSnapshot(c, logger, http.StatusAccepted)
}

// refreshRates godoc
// @Summary Refresh the rate table
// @Description Fetches the current BTC price. A missing or invalid price keeps the previous rate.
// @Tags wallet
// @Produce  json
// @Success 202 {object} dto.WalletResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Wallet belongs to another user"
// @Security BearerAuth
// @Router /wallet/rates/refresh [post]
func (h *walletHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to refresh rates")

	h.walletService.RefreshRates(c.Request.Context())
	h.respondWithSnapshot(c, logger, http.StatusAccepted)
}

// refreshAccount godoc
// @Summary Refresh one account
// @Description Refreshes the balance and the transaction history of the account in parallel
// @Tags wallet
// @Produce  json
// @Param   type path string true "Account type"
// @Success 202 {object} dto.WalletResponse
// @Failure 400 {object} map[string]string "Unknown account type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Wallet belongs to another user"
// @Security BearerAuth
// @Router /wallet/accounts/{type}/refresh [post]
func (h *walletHandler) refreshAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountType, ok := h.bindAccountType(c, logger)
	if !ok {
		return
	}
	logger.Info("Received request to refresh account", slog.String("account_type", string(accountType)))

	ctx := c.Request.Context()
	var g errgroup.Group
	g.Go(func() error {
		h.walletService.RefreshBalance(ctx, accountType)
		return nil
	})
	g.Go(func() error {
		h.walletService.RefreshAccountHistory(ctx, accountType)
		return nil
	})
	_ = g.Wait()

	h.respondWithSnapshot(c, logger, http.StatusAccepted)
}

// resetAccount godoc
// @Summary Reset an account
// @Description Empties the history and zeroes the balance. Only the Checking account supports it.
// @Tags wallet
// @Produce  json
// @Param   type path string true "Account type"
// @Success 200 {object} dto.WalletResponse
// @Failure 400 {object} map[string]string "Unknown account type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Wallet belongs to another user"
// @Failure 422 {object} map[string]string "Account type cannot be reset"
// @Security BearerAuth
// @Router /wallet/accounts/{type}/reset [post]
func (h *walletHandler) resetAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountType, ok := h.bindAccountType(c, logger)
	if !ok {
		return
	}

	if err := h.walletService.ResetAccount(accountType); err != nil {
		respondWithError(c, logger, err, "Failed to reset account")
		return
	}

	logger.Info("Account reset", slog.String("account_type", string(accountType)))
	h.respondWithSnapshot(c, logger, http.StatusOK)
}

func (h *walletHandler) bindAccountType(c *gin.Context, logger *slog.Logger) (domain.AccountType, bool) {
	accountType, err := domain.ParseAccountType(c.Param("type"))
	if err != nil {
		respondWithError(c, logger, err, "Invalid account type")
		return "", false
	}
	return accountType, true
}

func (h *walletHandler) respondWithSnapshot(c *gin.Context, logger *slog.Logger, status int) {
	resp, err := dto.ToWalletResponse(h.walletService.Snapshot())
	if err != nil {
		logger.Error("Wallet snapshot is inconsistent", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read wallet"})
		return
	}
	c.JSON(status, resp)
}
