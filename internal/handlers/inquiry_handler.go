package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salvex/salvex-api/internal/models"
	"github.com/salvex/salvex-api/internal/services"
	apperrors "github.com/salvex/salvex-api/pkg/errors"
)

// InquiryHandler serves the public intake endpoint and the token-gated listing
type InquiryHandler struct {
	service services.InquiryServiceInterface
}

func NewInquiryHandler(service services.InquiryServiceInterface) *InquiryHandler {
	return &InquiryHandler{service: service}
}

// Submit handles POST /api/project-inquiries
func (h *InquiryHandler) Submit(c *gin.Context) {
	var raw models.RawInquiry
	if err := c.ShouldBindJSON(&raw); err != nil {
		attachError(c, err)
		c.JSON(http.StatusBadRequest, models.InquiryRejection{
			Error: msgInvalidRequest,
			Code:  CodeInvalidRequest,
		})
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), raw)
	if err != nil {
		if respondRejection(c, err) {
			return
		}
		respondError(c, http.StatusInternalServerError, msgSaveFailed, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/project-inquiries. The admin token is checked by
// middleware; the response is a bare array, newest first.
func (h *InquiryHandler) List(c *gin.Context) {
	inquiries, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		if apperrors.Is(err, apperrors.ErrMisconfigured) {
			respondError(c, http.StatusInternalServerError, msgMisconfiguration, err)
			return
		}
		respondError(c, http.StatusInternalServerError, msgFetchFailed, err)
		return
	}

	c.JSON(http.StatusOK, inquiries)
}
