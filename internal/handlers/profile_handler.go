package handlers

import (
	"net/http"

	"aic_backend/internal/middleware"
	"aic_backend/internal/models"
	"aic_backend/internal/services"
	"aic_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profile := rg.Group("/profile")
	profile.Use(middleware.AuthMiddleware())
	{
		profile.GET("", h.GetOwn)
		profile.PUT("", h.UpdateOwn)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleCollaborator))
	{
		admin.GET("/clients", h.ListClients)
		admin.GET("/clients/:id", h.ClientDetail)
		admin.GET("/reviewers", h.ListReviewers)
	}

	adminOnly := rg.Group("/admin")
	adminOnly.Use(middleware.AuthMiddleware())
	adminOnly.Use(middleware.RequireRoles(models.UserRoleAdmin))
	{
		adminOnly.PATCH("/clients/:id/activate", h.ActivateClient)
		adminOnly.PATCH("/clients/:id/deactivate", h.DeactivateClient)
	}
}

func (h *ProfileHandler) GetOwn(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetByID(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateOwn(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	profile, err := h.profileService.Update(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) ListClients(c *gin.Context) {
	var query dto.ClientListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	clients, total, err := h.profileService.ListClients(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": clients,
		"total":   total,
	})
}

func (h *ProfileHandler) ClientDetail(c *gin.Context) {
	clientID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.profileService.ClientDetail(h.GetDB(c), clientID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *ProfileHandler) ListReviewers(c *gin.Context) {
	reviewers, err := h.profileService.ListReviewers(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviewers": reviewers})
}

func (h *ProfileHandler) ActivateClient(c *gin.Context) {
	h.setClientActive(c, true)
}

func (h *ProfileHandler) DeactivateClient(c *gin.Context) {
	h.setClientActive(c, false)
}

func (h *ProfileHandler) setClientActive(c *gin.Context, active bool) {
	clientID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	if err := h.profileService.SetClientActive(h.GetDB(c), clientID, active); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": clientID, "is_active": active})
}
