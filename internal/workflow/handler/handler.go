// Package handler exposes the workflow module over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campaign_bridge_backend/internal/workflow/service"
	"campaign_bridge_backend/internal/workflow/transport"
	"campaign_bridge_backend/platform/httpkit"
	"campaign_bridge_backend/platform/validator"
)

const (
	headerCompanyToken = "X-Company-Token"
	headerTenantID     = "X-Tenant-ID"

	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid campaign ID"
	msgMissingCompany   = "missing company token"
	msgMissingTenant    = "missing tenant ID"
)

// Handler handles HTTP requests for the campaign ticket workflow.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new workflow handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Dispatch fans a campaign's lead batch out to the work queue.
// POST /api/v1/campaigns/:id/dispatch
func (h *Handler) Dispatch(c *gin.Context) {
	campaignID := c.Param("id")
	if _, err := uuid.Parse(campaignID); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	companyToken, tenantID, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req transport.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.SendQueueCreateTicket(c.Request.Context(), transport.FanOutInput{
		Company:           companyToken,
		TenantID:          tenantID,
		IDPhase:           req.IDPhase,
		IDCampaign:        campaignID,
		IDCampaignVersion: req.IDCampaignVersion,
		IDWorkflow:        req.IDWorkflow,
		Leads:             req.Leads,
		EndDate:           req.EndDate,
		Negotiation:       req.Negotiation,
		CampaignType:      req.CampaignType,
		CreatedBy:         req.CreatedBy,
		IgnoreOpenTickets: req.IgnoreOpenTickets,
		DelayMS:           req.DelayMS,
	})
	if err != nil && result.Enqueued == 0 {
		if httpkit.HandleError(c, err) {
			return
		}
	}

	// Partial enqueue failure still accepts the batch; the response names
	// the leads that were not enqueued.
	httpkit.Accepted(c, result)
}

// ResolveWorkflow resolves (or lazily creates) the internal workflow id.
// POST /api/v1/workflows/resolve
func (h *Handler) ResolveWorkflow(c *gin.Context) {
	companyToken := c.GetHeader(headerCompanyToken)
	if companyToken == "" {
		httpkit.Error(c, http.StatusBadRequest, msgMissingCompany, nil)
		return
	}

	var req transport.ResolveWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	id, err := h.svc.GetWorkflowID(c.Request.Context(), companyToken, req.IDWorkflow)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ResolveWorkflowResponse{ID: id})
}

func requireIdentity(c *gin.Context) (companyToken, tenantID string, ok bool) {
	companyToken = c.GetHeader(headerCompanyToken)
	if companyToken == "" {
		httpkit.Error(c, http.StatusBadRequest, msgMissingCompany, nil)
		return "", "", false
	}

	tenantID = c.GetHeader(headerTenantID)
	if tenantID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgMissingTenant, nil)
		return "", "", false
	}

	return companyToken, tenantID, true
}
