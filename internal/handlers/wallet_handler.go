package handlers

import (
	"net/http"

	"cobfacil_backend/internal/middleware"
	"cobfacil_backend/internal/services"
	"cobfacil_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	*BaseHandler
	walletService services.WalletService
}

func NewWalletHandler(base *BaseHandler, walletService services.WalletService) *WalletHandler {
	return &WalletHandler{
		BaseHandler:   base,
		walletService: walletService,
	}
}

func (h *WalletHandler) RegisterRoutes(r *gin.RouterGroup) {
	wallet := r.Group("/wallet")
	wallet.Use(middleware.AuthMiddleware())
	{
		wallet.GET("", h.GetWallet)
		wallet.POST("/withdraw", h.Withdraw)
	}
}

func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	wallet, err := h.walletService.GetWallet(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, wallet)
}

func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.WithdrawRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	wallet, err := h.walletService.Withdraw(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, wallet)
}
