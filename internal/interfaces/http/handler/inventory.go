package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/sitestock/backend/internal/application/inventory"
	"github.com/sitestock/backend/internal/domain/inventory"
	"github.com/sitestock/backend/internal/interfaces/http/router"
)

// InventoryHandler handles inventory ledger API endpoints
type InventoryHandler struct {
	BaseHandler
	ledgerService *inventoryapp.LedgerService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledgerService *inventoryapp.LedgerService) *InventoryHandler {
	return &InventoryHandler{
		ledgerService: ledgerService,
	}
}

// LocationRequest identifies a stock account location
type LocationRequest struct {
	LocationType string `json:"location_type" binding:"required,oneof=STORE SITE"`
	ProjectID    string `json:"project_id" binding:"omitempty,uuid"`
}

// AdjustInventoryRequest represents a manual stock adjustment
type AdjustInventoryRequest struct {
	MaterialID     string          `json:"material_id" binding:"required,uuid"`
	Location       LocationRequest `json:"location" binding:"required"`
	AdjustmentType string          `json:"adjustment_type" binding:"required,oneof=INCREASE DECREASE"`
	Quantity       float64         `json:"quantity" binding:"required,gt=0"`
	Reason         string          `json:"reason" binding:"required,min=1,max=500"`
}

// TransferMaterialRequest represents a location-to-location transfer
type TransferMaterialRequest struct {
	MaterialID string          `json:"material_id" binding:"required,uuid"`
	From       LocationRequest `json:"from" binding:"required"`
	To         LocationRequest `json:"to" binding:"required"`
	Quantity   float64         `json:"quantity" binding:"required,gt=0"`
	Notes      string          `json:"notes" binding:"max=500"`
}

// toLocation resolves a location request into a ledger account location
func (r LocationRequest) toLocation() (inventory.Location, error) {
	switch inventory.LocationType(r.LocationType) {
	case inventory.LocationTypeStore:
		return inventory.MainStore(), nil
	default:
		projectID, err := uuid.Parse(r.ProjectID)
		if err != nil {
			return inventory.Location{}, err
		}
		return inventory.SiteStock(projectID), nil
	}
}

// Adjust handles POST /inventory/adjustments
func (h *InventoryHandler) Adjust(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	materialID, err := uuid.Parse(req.MaterialID)
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}
	location, err := req.Location.toLocation()
	if err != nil {
		h.BadRequest(c, "A site location requires a valid project ID")
		return
	}

	tx, err := h.ledgerService.AdjustInventory(c.Request.Context(), actor, inventoryapp.AdjustInventoryInput{
		MaterialID:     materialID,
		Location:       location,
		AdjustmentType: inventoryapp.AdjustmentType(req.AdjustmentType),
		Quantity:       toDecimal(req.Quantity),
		Reason:         req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tx)
}

// Transfer handles POST /inventory/transfers
func (h *InventoryHandler) Transfer(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req TransferMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	materialID, err := uuid.Parse(req.MaterialID)
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}
	from, err := req.From.toLocation()
	if err != nil {
		h.BadRequest(c, "A site location requires a valid project ID")
		return
	}
	to, err := req.To.toLocation()
	if err != nil {
		h.BadRequest(c, "A site location requires a valid project ID")
		return
	}

	tx, err := h.ledgerService.TransferMaterial(c.Request.Context(), actor, inventoryapp.TransferMaterialInput{
		MaterialID: materialID,
		From:       from,
		To:         to,
		Quantity:   toDecimal(req.Quantity),
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tx)
}

// GetBalance handles GET /inventory/balances/:materialId
// Query parameters: location_type (STORE|SITE), project_id (required for SITE)
func (h *InventoryHandler) GetBalance(c *gin.Context) {
	materialID, err := uuid.Parse(c.Param("materialId"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	locReq := LocationRequest{
		LocationType: c.DefaultQuery("location_type", string(inventory.LocationTypeStore)),
		ProjectID:    c.Query("project_id"),
	}
	if locReq.LocationType != string(inventory.LocationTypeStore) &&
		locReq.LocationType != string(inventory.LocationTypeSite) {
		h.BadRequest(c, "Location type must be STORE or SITE")
		return
	}
	location, err := locReq.toLocation()
	if err != nil {
		h.BadRequest(c, "A site location requires a valid project ID")
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), materialID, location)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// MaterialBalancesResponse aggregates the per-location balances of one material
type MaterialBalancesResponse struct {
	MaterialID uuid.UUID                    `json:"material_id"`
	Locations  []inventoryapp.LevelResponse `json:"locations"`
	TotalStock string                       `json:"total_stock"`
}

// GetMaterialBalances handles GET /inventory/balances/:materialId/all
func (h *InventoryHandler) GetMaterialBalances(c *gin.Context) {
	materialID, err := uuid.Parse(c.Param("materialId"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	levels, total, err := h.ledgerService.GetMaterialBalances(c.Request.Context(), materialID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MaterialBalancesResponse{
		MaterialID: materialID,
		Locations:  levels,
		TotalStock: total.String(),
	})
}

// ListBalances handles GET /inventory/balances
func (h *InventoryHandler) ListBalances(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if materialID := c.Query("material_id"); materialID != "" {
		id, err := uuid.Parse(materialID)
		if err != nil {
			h.BadRequest(c, "Invalid material ID format")
			return
		}
		filter.Filters["material_id"] = id
	}
	if locType := c.Query("location_type"); locType != "" {
		filter.Filters["location_type"] = locType
	}
	if projectID := c.Query("project_id"); projectID != "" {
		id, err := uuid.Parse(projectID)
		if err != nil {
			h.BadRequest(c, "Invalid project ID format")
			return
		}
		filter.Filters["project_id"] = id
	}
	if hasStock := c.Query("has_stock"); hasStock != "" {
		filter.Filters["has_stock"] = hasStock == "true"
	}

	result, err := h.ledgerService.ListBalances(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListTransactions handles GET /inventory/transactions
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if materialID := c.Query("material_id"); materialID != "" {
		id, err := uuid.Parse(materialID)
		if err != nil {
			h.BadRequest(c, "Invalid material ID format")
			return
		}
		filter.Filters["material_id"] = id
	}
	if txType := c.Query("transaction_type"); txType != "" {
		filter.Filters["transaction_type"] = txType
	}
	if refType := c.Query("reference_type"); refType != "" {
		filter.Filters["reference_type"] = refType
	}
	if performedBy := c.Query("performed_by_id"); performedBy != "" {
		id, err := uuid.Parse(performedBy)
		if err != nil {
			h.BadRequest(c, "Invalid performer ID format")
			return
		}
		filter.Filters["performed_by_id"] = id
	}

	result, err := h.ledgerService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetMaterialTransactions handles GET /inventory/transactions/material/:materialId
func (h *InventoryHandler) GetMaterialTransactions(c *gin.Context) {
	materialID, err := uuid.Parse(c.Param("materialId"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	txs, err := h.ledgerService.GetMaterialTransactions(c.Request.Context(), materialID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, txs)
}

// GetRequestTransactions handles GET /inventory/transactions/request/:requestId
func (h *InventoryHandler) GetRequestTransactions(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	txs, err := h.ledgerService.GetTransactionsByReference(c.Request.Context(), inventory.ReferenceTypeMaterialRequest, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, txs)
}

// RegisterRoutes registers inventory routes on the given domain group
func (h *InventoryHandler) RegisterRoutes(dg *router.DomainGroup) {
	dg.POST("/adjustments", h.Adjust)
	dg.POST("/transfers", h.Transfer)
	dg.GET("/balances", h.ListBalances)
	dg.GET("/balances/:materialId", h.GetBalance)
	dg.GET("/balances/:materialId/all", h.GetMaterialBalances)
	dg.GET("/transactions", h.ListTransactions)
	dg.GET("/transactions/material/:materialId", h.GetMaterialTransactions)
	dg.GET("/transactions/request/:requestId", h.GetRequestTransactions)
}
