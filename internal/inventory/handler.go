package inventory

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/senecapartners/seneca-cms-backend/internal/auditlog"
	"github.com/senecapartners/seneca-cms-backend/middleware"
	"github.com/senecapartners/seneca-cms-backend/utils"
)

type Handler struct {
	service  *Service
	auditSvc auditlog.Service
}

func NewHandler(service *Service, auditSvc auditlog.Service) *Handler {
	return &Handler{service: service, auditSvc: auditSvc}
}

// ========================= BLOCKS =============================

// ListBlocks godoc
// @Summary List blocks
// @Tags Inventory
// @Produce json
// @Success 200 {array} Block
// @Router /api/blocks [get]
func (h *Handler) ListBlocks(c *gin.Context) {
	blocks, err := h.service.ListBlocks(c.Request.Context(), middleware.SiteID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blocks)
}

// GetBlock godoc
// @Summary Get block
// @Tags Inventory
// @Produce json
// @Param id path int true "Block ID"
// @Success 200 {object} Block
// @Router /api/blocks/{id} [get]
func (h *Handler) GetBlock(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	block, err := h.service.GetBlock(c.Request.Context(), middleware.SiteID(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

// CreateBlock godoc
// @Summary Create block
// @Tags Inventory
// @Accept json
// @Produce json
// @Param body body BlockInput true "Block"
// @Success 201 {object} Block
// @Security BearerAuth
// @Router /admin/api/blocks [post]
func (h *Handler) CreateBlock(c *gin.Context) {
	var in BlockInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	block, err := h.service.CreateBlock(c.Request.Context(), middleware.SiteID(c), in)
	auditlog.Record(c, h.auditSvc, "BLOCK_CREATED", map[string]interface{}{"name": in.Name}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

// UpdateBlock godoc
// @Summary Update block
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path int true "Block ID"
// @Param body body BlockInput true "Block"
// @Success 200 {object} Block
// @Security BearerAuth
// @Router /admin/api/blocks/{id} [put]
func (h *Handler) UpdateBlock(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var in BlockInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	block, err := h.service.UpdateBlock(c.Request.Context(), middleware.SiteID(c), id, in)
	auditlog.Record(c, h.auditSvc, "BLOCK_UPDATED", map[string]interface{}{"block_id": id}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

// DeleteBlock godoc
// @Summary Delete block with its floors and plans
// @Tags Inventory
// @Param id path int true "Block ID"
// @Success 204
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /admin/api/blocks/{id} [delete]
func (h *Handler) DeleteBlock(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	err = h.service.DeleteBlock(c.Request.Context(), middleware.SiteID(c), id)
	auditlog.Record(c, h.auditSvc, "BLOCK_DELETED", map[string]interface{}{"block_id": id}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ========================= FLOORS =============================

// ListFloors godoc
// @Summary List floors
// @Tags Inventory
// @Produce json
// @Param block_id query int false "Block filter"
// @Param level query string false "1, 2, 3 or mansard"
// @Success 200 {array} Floor
// @Router /api/floors [get]
func (h *Handler) ListFloors(c *gin.Context) {
	blockID, err := utils.OptionalID(c.Query("block_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	floors, err := h.service.ListFloors(c.Request.Context(), middleware.SiteID(c), FloorFilter{
		BlockID: blockID,
		Level:   c.Query("level"),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, floors)
}

// GetFloor godoc
// @Summary Get floor
// @Tags Inventory
// @Produce json
// @Param id path int true "Floor ID"
// @Success 200 {object} Floor
// @Router /api/floors/{id} [get]
func (h *Handler) GetFloor(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	floor, err := h.service.GetFloor(c.Request.Context(), middleware.SiteID(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, floor)
}

// CreateFloor godoc
// @Summary Create floor
// @Tags Inventory
// @Accept json
// @Produce json
// @Param body body FloorInput true "Floor"
// @Success 201 {object} Floor
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /admin/api/floors [post]
func (h *Handler) CreateFloor(c *gin.Context) {
	var in FloorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	floor, err := h.service.CreateFloor(c.Request.Context(), middleware.SiteID(c), in)
	auditlog.Record(c, h.auditSvc, "FLOOR_CREATED", map[string]interface{}{"block_id": in.BlockID, "level": in.Level}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, floor)
}

// UpdateFloor godoc
// @Summary Update floor
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path int true "Floor ID"
// @Param body body FloorInput true "Floor"
// @Success 200 {object} Floor
// @Security BearerAuth
// @Router /admin/api/floors/{id} [put]
func (h *Handler) UpdateFloor(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var in FloorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	floor, err := h.service.UpdateFloor(c.Request.Context(), middleware.SiteID(c), id, in)
	auditlog.Record(c, h.auditSvc, "FLOOR_UPDATED", map[string]interface{}{"floor_id": id}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, floor)
}

// DeleteFloor godoc
// @Summary Delete floor and its plan
// @Tags Inventory
// @Param id path int true "Floor ID"
// @Success 204
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /admin/api/floors/{id} [delete]
func (h *Handler) DeleteFloor(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	err = h.service.DeleteFloor(c.Request.Context(), middleware.SiteID(c), id)
	auditlog.Record(c, h.auditSvc, "FLOOR_DELETED", map[string]interface{}{"floor_id": id}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ========================= PLANS =============================

// ListPlans godoc
// @Summary List plans
// @Tags Inventory
// @Produce json
// @Param block_id query int false "Block filter"
// @Param level query string false "Floor level filter"
// @Param search query string false "Description search"
// @Success 200 {array} Plan
// @Router /api/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	blockID, err := utils.OptionalID(c.Query("block_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	plans, err := h.service.ListPlans(c.Request.Context(), middleware.SiteID(c), PlanFilter{
		BlockID: blockID,
		Level:   c.Query("level"),
		Search:  c.Query("search"),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlan godoc
// @Summary Get plan
// @Tags Inventory
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} Plan
// @Router /api/plans/{id} [get]
func (h *Handler) GetPlan(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	plan, err := h.service.GetPlan(c.Request.Context(), middleware.SiteID(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// CreatePlan godoc
// @Summary Create plan
// @Tags Inventory
// @Accept json
// @Produce json
// @Param body body PlanInput true "Plan"
// @Success 201 {object} Plan
// @Failure 409 {object} map[string]string "floor already has a plan"
// @Security BearerAuth
// @Router /admin/api/plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	var in PlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	plan, err := h.service.CreatePlan(c.Request.Context(), middleware.SiteID(c), in)
	auditlog.Record(c, h.auditSvc, "PLAN_CREATED", map[string]interface{}{"floor_id": in.FloorID, "price_per_m2": in.PricePerM2.String()}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// UpdatePlan godoc
// @Summary Update plan
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path int true "Plan ID"
// @Param body body PlanInput true "Plan"
// @Success 200 {object} Plan
// @Security BearerAuth
// @Router /admin/api/plans/{id} [put]
func (h *Handler) UpdatePlan(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var in PlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	plan, err := h.service.UpdatePlan(c.Request.Context(), middleware.SiteID(c), id, in)
	auditlog.Record(c, h.auditSvc, "PLAN_UPDATED", map[string]interface{}{"plan_id": id, "price_per_m2": in.PricePerM2.String()}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// UploadDrawing godoc
// @Summary Upload plan drawing
// @Tags Inventory
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Plan ID"
// @Param drawing formData file true "Drawing image"
// @Success 200 {object} Plan
// @Security BearerAuth
// @Router /admin/api/plans/{id}/drawing [put]
func (h *Handler) UploadDrawing(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	fh, err := c.FormFile("drawing")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "drawing file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()

	plan, err := h.service.SetDrawing(c.Request.Context(), middleware.SiteID(c), id, filepath.Ext(fh.Filename), f)
	auditlog.Record(c, h.auditSvc, "PLAN_DRAWING_UPLOADED", map[string]interface{}{"plan_id": id, "filename": fh.Filename}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeletePlan godoc
// @Summary Delete plan
// @Tags Inventory
// @Param id path int true "Plan ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/api/plans/{id} [delete]
func (h *Handler) DeletePlan(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	err = h.service.DeletePlan(c.Request.Context(), middleware.SiteID(c), id)
	auditlog.Record(c, h.auditSvc, "PLAN_DELETED", map[string]interface{}{"plan_id": id}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
