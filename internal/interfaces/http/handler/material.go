package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/sitestock/backend/internal/application/catalog"
	"github.com/sitestock/backend/internal/interfaces/http/router"
)

// MaterialHandler handles material catalog API endpoints
type MaterialHandler struct {
	BaseHandler
	materialService *catalogapp.MaterialService
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(materialService *catalogapp.MaterialService) *MaterialHandler {
	return &MaterialHandler{
		materialService: materialService,
	}
}

// CreateMaterialRequest represents a request to create a material
type CreateMaterialRequest struct {
	Code              string   `json:"code" binding:"required,min=1,max=50"`
	Name              string   `json:"name" binding:"required,min=1,max=200"`
	Category          string   `json:"category" binding:"max=100"`
	Unit              string   `json:"unit" binding:"required,min=1,max=20"`
	UnitCost          *float64 `json:"unit_cost" binding:"omitempty,gte=0"`
	MinimumStockLevel *float64 `json:"minimum_stock_level" binding:"omitempty,gte=0"`
	MaximumStockLevel *float64 `json:"maximum_stock_level" binding:"omitempty,gte=0"`
	ReorderPoint      *float64 `json:"reorder_point" binding:"omitempty,gte=0"`
	SupplierID        string   `json:"supplier_id" binding:"omitempty,uuid"`
}

// UpdateMaterialRequest represents a partial material update
type UpdateMaterialRequest struct {
	Name              *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Category          *string  `json:"category" binding:"omitempty,max=100"`
	Unit              *string  `json:"unit" binding:"omitempty,min=1,max=20"`
	UnitCost          *float64 `json:"unit_cost" binding:"omitempty,gte=0"`
	ClearUnitCost     bool     `json:"clear_unit_cost"`
	MinimumStockLevel *float64 `json:"minimum_stock_level" binding:"omitempty,gte=0"`
	MaximumStockLevel *float64 `json:"maximum_stock_level" binding:"omitempty,gte=0"`
	ReorderPoint      *float64 `json:"reorder_point" binding:"omitempty,gte=0"`
	SupplierID        *string  `json:"supplier_id" binding:"omitempty,uuid"`
	ClearSupplier     bool     `json:"clear_supplier"`
}

// Create handles POST /catalog/materials
func (h *MaterialHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := catalogapp.CreateMaterialInput{
		Code:     req.Code,
		Name:     req.Name,
		Category: req.Category,
		Unit:     req.Unit,
	}
	if req.UnitCost != nil {
		input.UnitCost = toDecimalPtr(*req.UnitCost)
	}
	if req.MinimumStockLevel != nil {
		input.MinimumStockLevel = toDecimalPtr(*req.MinimumStockLevel)
	}
	if req.MaximumStockLevel != nil {
		input.MaximumStockLevel = toDecimalPtr(*req.MaximumStockLevel)
	}
	if req.ReorderPoint != nil {
		input.ReorderPoint = toDecimalPtr(*req.ReorderPoint)
	}
	supplierID, err := parseUUIDPtr(req.SupplierID)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}
	input.SupplierID = supplierID

	material, err := h.materialService.CreateMaterial(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, material)
}

// GetByID handles GET /catalog/materials/:id
func (h *MaterialHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	material, err := h.materialService.GetMaterial(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}

// GetByCode handles GET /catalog/materials/code/:code
func (h *MaterialHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Material code is required")
		return
	}

	material, err := h.materialService.GetMaterialByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}

// List handles GET /catalog/materials
func (h *MaterialHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if category := c.Query("category"); category != "" {
		filter.Filters["category"] = category
	}
	if supplierID := c.Query("supplier_id"); supplierID != "" {
		id, err := uuid.Parse(supplierID)
		if err != nil {
			h.BadRequest(c, "Invalid supplier ID format")
			return
		}
		filter.Filters["supplier_id"] = id
	}
	if isActive := c.Query("is_active"); isActive != "" {
		filter.Filters["is_active"] = isActive == "true"
	}

	result, err := h.materialService.ListMaterials(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update handles PUT /catalog/materials/:id
func (h *MaterialHandler) Update(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	var req UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := catalogapp.UpdateMaterialInput{
		Name:          req.Name,
		Category:      req.Category,
		Unit:          req.Unit,
		ClearUnitCost: req.ClearUnitCost,
		ClearSupplier: req.ClearSupplier,
	}
	if req.UnitCost != nil {
		input.UnitCost = toDecimalPtr(*req.UnitCost)
	}
	if req.MinimumStockLevel != nil {
		input.MinimumStockLevel = toDecimalPtr(*req.MinimumStockLevel)
	}
	if req.MaximumStockLevel != nil {
		input.MaximumStockLevel = toDecimalPtr(*req.MaximumStockLevel)
	}
	if req.ReorderPoint != nil {
		input.ReorderPoint = toDecimalPtr(*req.ReorderPoint)
	}
	if req.SupplierID != nil {
		supplierID, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			h.BadRequest(c, "Invalid supplier ID format")
			return
		}
		input.SupplierID = &supplierID
	}

	material, err := h.materialService.UpdateMaterial(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}

// Deactivate handles POST /catalog/materials/:id/deactivate
func (h *MaterialHandler) Deactivate(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	material, err := h.materialService.DeactivateMaterial(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}

// Activate handles POST /catalog/materials/:id/activate
func (h *MaterialHandler) Activate(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	material, err := h.materialService.ActivateMaterial(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}

// Delete handles DELETE /catalog/materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	if err := h.materialService.DeleteMaterial(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers material routes on the given domain group
func (h *MaterialHandler) RegisterRoutes(dg *router.DomainGroup) {
	dg.POST("/materials", h.Create)
	dg.GET("/materials", h.List)
	dg.GET("/materials/:id", h.GetByID)
	dg.GET("/materials/code/:code", h.GetByCode)
	dg.PUT("/materials/:id", h.Update)
	dg.POST("/materials/:id/deactivate", h.Deactivate)
	dg.POST("/materials/:id/activate", h.Activate)
	dg.DELETE("/materials/:id", h.Delete)
}
