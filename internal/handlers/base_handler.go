package handlers

import (
	"strconv"

	"cobfacil_backend/internal/appErrors"
	"cobfacil_backend/internal/logger"
	"cobfacil_backend/internal/repositories"
	"cobfacil_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{validator: v}
}

// GetAndAuthorizeUserID pulls the authenticated user id set by the auth
// middleware. Writes the 401 itself; callers just bail on false.
func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	val, exists := c.Get("userID")
	if !exists {
		appErrors.HandleError(c, appErrors.ErrUnauthorized)
		return "", false
	}

	userID, ok := val.(string)
	if !ok || userID == "" {
		appErrors.HandleError(c, appErrors.ErrUnauthorized)
		return "", false
	}
	return userID, true
}

func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(ctx, "failed to bind request body", err, "path", c.Request.URL.Path)
		appErrors.HandleError(c, appErrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			appErrors.HandleError(c, appErrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "internal validator error", err, "path", c.Request.URL.Path)
			appErrors.HandleError(c, appErrors.InternalError(err))
		}
		return false
	}
	return true
}

// HandleServiceError translates service and repository errors into the
// standard error envelope.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	var appErr *appErrors.AppError
	if appErrors.As(err, &appErr) {
		appErrors.HandleError(c, appErr)
		return
	}

	switch {
	case appErrors.Is(err, repositories.ErrUserNotFound):
		appErrors.HandleError(c, appErrors.ErrUserNotFound)
	case appErrors.Is(err, repositories.ErrBillingNotFound):
		appErrors.HandleError(c, appErrors.ErrBillingNotFound)
	case appErrors.Is(err, repositories.ErrNotificationNotFound):
		appErrors.HandleError(c, appErrors.ErrNotificationNotFound)
	case appErrors.Is(err, repositories.ErrWalletNotFound):
		appErrors.HandleError(c, appErrors.ErrWalletNotFound)
	default:
		appErrors.HandleError(c, appErrors.InternalError(err))
	}
}

// ParsePagination reads page/page_size query params with sane bounds.
func ParsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	return page, pageSize
}
