package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-complaints/internal/middleware"
	"github.com/noah-isme/campus-complaints/internal/models"
	appErrors "github.com/noah-isme/campus-complaints/pkg/errors"
	"github.com/noah-isme/campus-complaints/pkg/response"
)

type complaintService interface {
	Submit(ctx context.Context, owner *models.Claims, req models.SubmitComplaintRequest) (*models.Complaint, error)
	List(ctx context.Context) ([]models.Complaint, error)
	Resolve(ctx context.Context, req models.ResolveComplaintRequest) error
}

// ComplaintHandler exposes the complaint endpoints. All routes sit behind JWT.
type ComplaintHandler struct {
	service complaintService
}

// NewComplaintHandler constructs a complaint handler.
func NewComplaintHandler(svc complaintService) *ComplaintHandler {
	return &ComplaintHandler{service: svc}
}

// Submit godoc
// @Summary Submit a complaint
// @Description The owning student id is taken from the token.
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.SubmitComplaintRequest true "Complaint"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.StatusResponse
// @Failure 401 {object} models.StatusResponse
// @Router /submit_complaint [post]
func (h *ComplaintHandler) Submit(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Token missing"))
		return
	}

	var req models.SubmitComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing fields"))
		return
	}

	if _, err := h.service.Submit(c.Request.Context(), claims, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "")
}

// List godoc
// @Summary List every complaint
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Complaint
// @Failure 401 {object} models.StatusResponse
// @Router /get_complaints [get]
func (h *ComplaintHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// Resolve godoc
// @Summary Mark a complaint resolved
// @Description Administrators only. Unknown or already resolved ids succeed without change.
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ResolveComplaintRequest true "Complaint id"
// @Success 200 {object} models.StatusResponse
// @Failure 401 {object} models.StatusResponse
// @Failure 403 {object} models.StatusResponse
// @Router /resolve_complaint [post]
func (h *ComplaintHandler) Resolve(c *gin.Context) {
	var req models.ResolveComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing fields"))
		return
	}

	if err := h.service.Resolve(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "")
}
