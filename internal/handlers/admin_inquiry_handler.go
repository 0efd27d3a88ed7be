package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/salvex/salvex-api/internal/models"
	"github.com/salvex/salvex-api/internal/services"
	apperrors "github.com/salvex/salvex-api/pkg/errors"
)

// AdminInquiryHandler handles the administrator views over stored inquiries
type AdminInquiryHandler struct {
	service services.InquiryServiceInterface
	export  services.ExportServiceInterface
}

// NewAdminInquiryHandler creates a new AdminInquiryHandler
func NewAdminInquiryHandler(service services.InquiryServiceInterface, export services.ExportServiceInterface) *AdminInquiryHandler {
	return &AdminInquiryHandler{
		service: service,
		export:  export,
	}
}

// ListByStatus handles GET /api/v1/admin/project-inquiries/status/:status
func (h *AdminInquiryHandler) ListByStatus(c *gin.Context) {
	status := models.InquiryStatus(c.Param("status"))
	if !status.IsValid() {
		respondError(c, http.StatusBadRequest, "Invalid status", nil)
		return
	}

	inquiries, err := h.service.ListByStatus(c.Request.Context(), status)
	if err != nil {
		respondStoreError(c, err, msgFetchFailed)
		return
	}

	c.JSON(http.StatusOK, models.InquiryListResponse{Inquiries: inquiries, Total: len(inquiries)})
}

// GetByEmail handles GET /api/v1/admin/project-inquiries/by-email?email=
func (h *AdminInquiryHandler) GetByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		respondError(c, http.StatusBadRequest, "Missing required parameter: email", nil)
		return
	}

	inquiry, err := h.service.GetByEmail(c.Request.Context(), email)
	if err != nil {
		respondStoreError(c, err, msgFetchFailed)
		return
	}

	c.JSON(http.StatusOK, inquiry)
}

// ListRecent handles GET /api/v1/admin/project-inquiries/recent?days=30
func (h *AdminInquiryHandler) ListRecent(c *gin.Context) {
	days := services.DefaultRecentDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > services.MaxRecentDays {
			respondError(c, http.StatusBadRequest, "days must be an integer between 1 and 365", err)
			return
		}
		days = parsed
	}

	inquiries, err := h.service.ListRecent(c.Request.Context(), days)
	if err != nil {
		respondStoreError(c, err, msgFetchFailed)
		return
	}

	c.JSON(http.StatusOK, models.InquiryListResponse{Inquiries: inquiries, Total: len(inquiries)})
}

// GetByID handles GET /api/v1/admin/project-inquiries/:id
func (h *AdminInquiryHandler) GetByID(c *gin.Context) {
	inquiry, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, msgFetchFailed)
		return
	}

	c.JSON(http.StatusOK, inquiry)
}

// UpdateStatus handles POST /api/v1/admin/project-inquiries/:id/status
func (h *AdminInquiryHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateInquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	inquiry, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondStoreError(c, err, "Failed to update inquiry")
		return
	}

	c.JSON(http.StatusOK, inquiry)
}

// Export handles POST /api/v1/admin/project-inquiries/export
func (h *AdminInquiryHandler) Export(c *gin.Context) {
	resp, err := h.export.Export(c.Request.Context())
	if err != nil {
		if apperrors.Is(err, apperrors.ErrMisconfigured) {
			respondError(c, http.StatusServiceUnavailable, msgMisconfiguration, err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to export inquiries", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
