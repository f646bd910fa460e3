package handlers

import (
	"net/http"

	"aic_backend/internal/middleware"
	"aic_backend/internal/models"
	"aic_backend/internal/services"
	"aic_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	*BaseHandler
	contactService services.ContactService
}

func NewContactHandler(base *BaseHandler, contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    base,
		contactService: contactService,
	}
}

func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Public: the marketing site posts here without a session.
	rg.POST("/contact", h.Submit)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleCollaborator))
	{
		admin.GET("/contact-messages", h.List)
	}
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	msg, err := h.contactService.Submit(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": msg.ID, "message": "Message received"})
}

func (h *ContactHandler) List(c *gin.Context) {
	var query dto.ContactListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	messages, total, err := h.contactService.List(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"total":    total,
	})
}
