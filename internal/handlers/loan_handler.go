package handlers

import (
	"net/http"

	"aic_backend/internal/metrics"
	"aic_backend/internal/middleware"
	"aic_backend/internal/models"
	"aic_backend/internal/services"
	"aic_backend/internal/services/dto"
	"aic_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type LoanHandler struct {
	*BaseHandler
	loanService services.LoanService
}

func NewLoanHandler(base *BaseHandler, loanService services.LoanService) *LoanHandler {
	return &LoanHandler{
		BaseHandler: base,
		loanService: loanService,
	}
}

func (h *LoanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	loans := rg.Group("/loans")
	loans.Use(middleware.AuthMiddleware())
	{
		loans.POST("", h.Create)
		loans.GET("/mine", h.ListMine)
		loans.GET("/:id", h.GetByID)
		loans.GET("/:id/notes", h.GetNotes)
		loans.POST("/:id/notes", h.AddNote)
		loans.GET("/:id/activities", h.GetActivities)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleCollaborator))
	{
		admin.GET("/loans", h.ListAll)
		admin.PATCH("/loans/:id/status", h.UpdateStatus)
		admin.PATCH("/loans/:id/assign", h.Assign)
		admin.GET("/dashboard", h.Dashboard)
	}
}

// Create godoc
// @Summary Submit a new loan request
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLoanRequest true "Loan request payload"
// @Success 201 {object} models.LoanRequest
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /loans [post]
func (h *LoanHandler) Create(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateLoanRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	loan, err := h.loanService.Create(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	metrics.LoanCreated()
	c.JSON(http.StatusCreated, loan)
}

func (h *LoanHandler) ListMine(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	loans, err := h.loanService.ListByUser(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loans": loans})
}

func (h *LoanHandler) GetByID(c *gin.Context) {
	loanID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	loan, err := h.loanService.GetByID(h.GetDB(c), loanID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if !h.canAccessLoan(c, loan) {
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (h *LoanHandler) ListAll(c *gin.Context) {
	var query dto.LoanListQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	response, err := h.loanService.ListAll(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateStatus godoc
// @Summary Apply a review decision to a loan request
// @Description Transitions are checked against the loan state machine; an
// @Description illegal transition is rejected with a 409.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param request body dto.UpdateLoanStatusRequest true "Target status and terms"
// @Success 200 {object} models.LoanRequest
// @Failure 409 {object} apperrors.ErrorResponse "Illegal status transition"
// @Router /admin/loans/{id}/status [patch]
func (h *LoanHandler) UpdateStatus(c *gin.Context) {
	actorID, ok := h.RequireUserID(c)
	if !ok {
		return
	}
	loanID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateLoanStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	loan, err := h.loanService.UpdateStatus(h.GetDB(c), loanID, actorID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	metrics.LoanTransition(string(loan.Status))
	c.JSON(http.StatusOK, loan)
}

func (h *LoanHandler) Assign(c *gin.Context) {
	actorID, ok := h.RequireUserID(c)
	if !ok {
		return
	}
	loanID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	var req dto.AssignLoanRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	loan, err := h.loanService.Assign(h.GetDB(c), loanID, actorID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, loan)
}

func (h *LoanHandler) AddNote(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}
	loanID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	var req dto.AddNoteRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if !h.canAccessLoanID(c, loanID) {
		return
	}

	note, err := h.loanService.AddNote(h.GetDB(c), loanID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

func (h *LoanHandler) GetNotes(c *gin.Context) {
	loanID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	if !h.canAccessLoanID(c, loanID) {
		return
	}

	notes, err := h.loanService.GetNotes(h.GetDB(c), loanID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (h *LoanHandler) GetActivities(c *gin.Context) {
	loanID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	if !h.canAccessLoanID(c, loanID) {
		return
	}

	activities, err := h.loanService.GetActivities(h.GetDB(c), loanID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

func (h *LoanHandler) Dashboard(c *gin.Context) {
	stats, err := h.loanService.DashboardStats(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// canAccessLoan enforces ownership: clients only see their own loans,
// staff see everything.
func (h *LoanHandler) canAccessLoan(c *gin.Context, loan *models.LoanRequest) bool {
	role := middleware.GetUserRole(c)
	if role == string(models.UserRoleAdmin) || role == string(models.UserRoleCollaborator) {
		return true
	}
	if loan.UserID == middleware.GetUserID(c) {
		return true
	}
	apperrors.HandleError(c, apperrors.ErrForbidden)
	return false
}

func (h *LoanHandler) canAccessLoanID(c *gin.Context, loanID string) bool {
	loan, err := h.loanService.GetByID(h.GetDB(c), loanID)
	if err != nil {
		h.HandleServiceError(c, err)
		return false
	}
	return h.canAccessLoan(c, loan)
}
