package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	requestapp "github.com/sitestock/backend/internal/application/request"
	"github.com/sitestock/backend/internal/domain/request"
	"github.com/sitestock/backend/internal/interfaces/http/router"
)

// RequestHandler handles material request lifecycle API endpoints
type RequestHandler struct {
	BaseHandler
	requestService *requestapp.RequestService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requestService *requestapp.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

// CreateRequestRequest represents a request to create a material request
type CreateRequestRequest struct {
	MaterialID       string     `json:"material_id" binding:"required,uuid"`
	ProjectID        string     `json:"project_id" binding:"required,uuid"`
	Quantity         float64    `json:"quantity" binding:"required,gt=0"`
	Justification    string     `json:"justification" binding:"required,min=1,max=1000"`
	Urgency          string     `json:"urgency" binding:"omitempty,oneof=LOW NORMAL HIGH CRITICAL"`
	DeliveryLocation string     `json:"delivery_location" binding:"omitempty,oneof=STORE SITE"`
	RequiredDate     *time.Time `json:"required_date"`
}

// ApproveRequestRequest represents an approval decision
type ApproveRequestRequest struct {
	ApprovedQuantity *float64 `json:"approved_quantity" binding:"omitempty,gt=0"`
	Comments         string   `json:"comments" binding:"max=500"`
}

// RejectRequestRequest represents a rejection decision
type RejectRequestRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// IssueRequestRequest represents a stock issuance against an approved request
type IssueRequestRequest struct {
	IssuedQuantity *float64 `json:"issued_quantity" binding:"omitempty,gt=0"`
	Comments       string   `json:"comments" binding:"max=500"`
}

// AcknowledgeRequestRequest represents a receipt acknowledgement
type AcknowledgeRequestRequest struct {
	AcknowledgedQuantity *float64 `json:"acknowledged_quantity" binding:"omitempty,gt=0"`
	Notes                string   `json:"notes" binding:"max=500"`
}

// CompleteRequestRequest represents a completion decision
type CompleteRequestRequest struct {
	Comments string `json:"comments" binding:"max=500"`
}

// CancelRequestRequest represents a cancellation
type CancelRequestRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// Create handles POST /requests
func (h *RequestHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	materialID, err := uuid.Parse(req.MaterialID)
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	urgency := request.UrgencyNormal
	if req.Urgency != "" {
		urgency = request.Urgency(req.Urgency)
	}
	delivery := request.DeliveryLocationSite
	if req.DeliveryLocation != "" {
		delivery = request.DeliveryLocation(req.DeliveryLocation)
	}

	result, err := h.requestService.CreateRequest(c.Request.Context(), actor, requestapp.CreateRequestInput{
		MaterialID:       materialID,
		ProjectID:        projectID,
		Quantity:         toDecimal(req.Quantity),
		Justification:    req.Justification,
		Urgency:          urgency,
		DeliveryLocation: delivery,
		RequiredDate:     req.RequiredDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID handles GET /requests/:id
func (h *RequestHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	result, err := h.requestService.GetRequest(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByNumber handles GET /requests/number/:number
func (h *RequestHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Request number is required")
		return
	}

	result, err := h.requestService.GetRequestByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List handles GET /requests
func (h *RequestHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if urgency := c.Query("urgency"); urgency != "" {
		filter.Filters["urgency"] = urgency
	}
	if materialID := c.Query("material_id"); materialID != "" {
		id, err := uuid.Parse(materialID)
		if err != nil {
			h.BadRequest(c, "Invalid material ID format")
			return
		}
		filter.Filters["material_id"] = id
	}
	if projectID := c.Query("project_id"); projectID != "" {
		id, err := uuid.Parse(projectID)
		if err != nil {
			h.BadRequest(c, "Invalid project ID format")
			return
		}
		filter.Filters["project_id"] = id
	}
	if requestedBy := c.Query("requested_by_id"); requestedBy != "" {
		id, err := uuid.Parse(requestedBy)
		if err != nil {
			h.BadRequest(c, "Invalid requester ID format")
			return
		}
		filter.Filters["requested_by_id"] = id
	}

	result, err := h.requestService.ListRequests(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Approve handles POST /requests/:id/approve
func (h *RequestHandler) Approve(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req ApproveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := requestapp.ApproveRequestInput{Comments: req.Comments}
	if req.ApprovedQuantity != nil {
		input.ApprovedQuantity = toDecimalPtr(*req.ApprovedQuantity)
	}

	result, err := h.requestService.ApproveRequest(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Reject handles POST /requests/:id/reject
func (h *RequestHandler) Reject(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req RejectRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.requestService.RejectRequest(c.Request.Context(), actor, id, requestapp.RejectRequestInput{
		Reason: req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Issue handles POST /requests/:id/issue
func (h *RequestHandler) Issue(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req IssueRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := requestapp.IssueRequestInput{Comments: req.Comments}
	if req.IssuedQuantity != nil {
		input.IssuedQuantity = toDecimalPtr(*req.IssuedQuantity)
	}

	result, err := h.requestService.IssueRequest(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Acknowledge handles POST /requests/:id/acknowledge
func (h *RequestHandler) Acknowledge(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req AcknowledgeRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := requestapp.AcknowledgeRequestInput{Notes: req.Notes}
	if req.AcknowledgedQuantity != nil {
		input.AcknowledgedQuantity = toDecimalPtr(*req.AcknowledgedQuantity)
	}

	result, err := h.requestService.AcknowledgeRequest(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Complete handles POST /requests/:id/complete
func (h *RequestHandler) Complete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req CompleteRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.requestService.CompleteRequest(c.Request.Context(), actor, id, requestapp.CompleteRequestInput{
		Comments: req.Comments,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel handles POST /requests/:id/cancel
func (h *RequestHandler) Cancel(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req CancelRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.requestService.CancelRequest(c.Request.Context(), actor, id, requestapp.CancelRequestInput{
		Reason: req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes registers request routes on the given domain group
func (h *RequestHandler) RegisterRoutes(dg *router.DomainGroup) {
	dg.POST("", h.Create)
	dg.GET("", h.List)
	dg.GET("/:id", h.GetByID)
	dg.GET("/number/:number", h.GetByNumber)
	dg.POST("/:id/approve", h.Approve)
	dg.POST("/:id/reject", h.Reject)
	dg.POST("/:id/issue", h.Issue)
	dg.POST("/:id/acknowledge", h.Acknowledge)
	dg.POST("/:id/complete", h.Complete)
	dg.POST("/:id/cancel", h.Cancel)
}
