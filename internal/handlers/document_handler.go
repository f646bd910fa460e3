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

type DocumentHandler struct {
	*BaseHandler
	documentService services.DocumentService
	loanService     services.LoanService
}

func NewDocumentHandler(base *BaseHandler, documentService services.DocumentService, loanService services.LoanService) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler:     base,
		documentService: documentService,
		loanService:     loanService,
	}
}

func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	docs := rg.Group("/documents")
	docs.Use(middleware.AuthMiddleware())
	{
		docs.POST("", h.Upload)
		docs.GET("/mine", h.ListMine)
		docs.GET("/:id/download", h.Download)
		docs.DELETE("/:id", h.Delete)
	}

	loans := rg.Group("/loans")
	loans.Use(middleware.AuthMiddleware())
	{
		loans.GET("/:id/documents", h.ListByLoan)
	}
}

// Upload godoc
// @Summary Upload a document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File (pdf, office or image, max 10MB)"
// @Param loan_id formData string false "Loan to attach the document to"
// @Param category formData string false "identity, income, bank, domicile, professional or other"
// @Success 201 {object} models.Document
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		metrics.DocumentUpload("rejected")
		apperrors.HandleError(c, apperrors.ErrFileMissing)
		return
	}

	var req dto.UploadDocumentRequest
	if !h.BindAndValidateForm(c, &req) {
		metrics.DocumentUpload("rejected")
		return
	}

	var loanID *string
	if req.LoanID != "" {
		loanID = &req.LoanID
	}

	doc, err := h.documentService.Upload(c.Request.Context(), h.GetDB(c), userID, loanID, req.Category, file)
	if err != nil {
		metrics.DocumentUpload("rejected")
		h.HandleServiceError(c, err)
		return
	}

	metrics.DocumentUpload("accepted")
	c.JSON(http.StatusCreated, doc)
}

func (h *DocumentHandler) ListMine(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	docs, err := h.documentService.ListByUser(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *DocumentHandler) ListByLoan(c *gin.Context) {
	loanID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	// Same gate as the loan detail endpoint: staff or the owning client.
	loan, err := h.loanService.GetByID(h.GetDB(c), loanID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if !h.canAccessLoan(c, loan) {
		return
	}

	docs, err := h.documentService.ListByLoan(h.GetDB(c), loanID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *DocumentHandler) Download(c *gin.Context) {
	docID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	doc, url, err := h.documentService.Download(c.Request.Context(), h.GetDB(c), docID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if !h.canAccessDocument(c, doc) {
		return
	}
	c.JSON(http.StatusOK, documentResponse(doc, url))
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	docID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(h.GetDB(c), docID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if !h.canAccessDocument(c, doc) {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), h.GetDB(c), docID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

func (h *DocumentHandler) canAccessDocument(c *gin.Context, doc *models.Document) bool {
	role := middleware.GetUserRole(c)
	if role == string(models.UserRoleAdmin) || role == string(models.UserRoleCollaborator) {
		return true
	}
	if doc.UserID == middleware.GetUserID(c) {
		return true
	}
	apperrors.HandleError(c, apperrors.ErrForbidden)
	return false
}

func (h *DocumentHandler) canAccessLoan(c *gin.Context, loan *models.LoanRequest) bool {
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

// documentResponse swaps the stored public URL for the signed one handed
// out at download time.
func documentResponse(doc *models.Document, url string) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:         doc.ID,
		FileName:   doc.FileName,
		FileType:   doc.FileType,
		FileSize:   doc.FileSize,
		FileURL:    url,
		Category:   string(doc.Category),
		LoanID:     doc.LoanID,
		UploadedAt: doc.UploadedAt,
	}
}
