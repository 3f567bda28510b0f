package handlers

import (
	"net/http"

	"cobfacil_backend/internal/middleware"
	"cobfacil_backend/internal/services"
	"cobfacil_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	*BaseHandler
	billingService services.BillingService
}

func NewBillingHandler(base *BaseHandler, billingService services.BillingService) *BillingHandler {
	return &BillingHandler{
		BaseHandler:    base,
		billingService: billingService,
	}
}

func (h *BillingHandler) RegisterRoutes(r *gin.RouterGroup) {
	billings := r.Group("/billings")
	billings.Use(middleware.AuthMiddleware())
	{
		billings.POST("", h.Create)
		billings.GET("/created", h.ListCreated)
		billings.GET("/received", h.ListReceived)
		billings.GET("/:billingId", h.Get)
		billings.POST("/:billingId/pay", h.Pay)
		billings.POST("/:billingId/cancel", h.Cancel)
	}
}

func (h *BillingHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBillingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	billing, err := h.billingService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, billing)
}

func (h *BillingHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	billing, err := h.billingService.Get(c.Param("billingId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, billing)
}

func (h *BillingHandler) ListCreated(c *gin.Context) {
	h.list(c, h.billingService.ListCreated)
}

func (h *BillingHandler) ListReceived(c *gin.Context) {
	h.list(c, h.billingService.ListReceived)
}

func (h *BillingHandler) list(c *gin.Context, fetch func(string, dto.BillingCriteria) (*dto.BillingListResponse, error)) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	criteria := dto.BillingCriteria{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	}

	response, err := fetch(userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *BillingHandler) Pay(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.PayBillingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	billing, err := h.billingService.Pay(c.Param("billingId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, billing)
}

func (h *BillingHandler) Cancel(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	billing, err := h.billingService.Cancel(c.Param("billingId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, billing)
}
