package handlers

import (
	"net/http"

	"cobfacil_backend/internal/middleware"
	"cobfacil_backend/internal/services"
	"cobfacil_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	chat := r.Group("/billings/:billingId/messages")
	chat.Use(middleware.AuthMiddleware())
	{
		chat.GET("", h.GetMessages)
		chat.PUT("/read", h.MarkRead)
	}

	unread := r.Group("/messages")
	unread.Use(middleware.AuthMiddleware())
	{
		unread.GET("/unread-count", h.GetUnreadCount)
	}
}

// GetMessages is the catch-up path for messages missed while offline; the
// socket layer does not replay history on connect.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)

	response, err := h.chatService.GetBillingMessages(c.Param("billingId"), userID, dto.MessageCriteria{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.chatService.MarkMessagesRead(c.Param("billingId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read"})
}

func (h *ChatHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	count, err := h.chatService.GetUnreadCount(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}
