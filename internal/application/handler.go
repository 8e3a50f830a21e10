package application

import (
	"fmt"
	"net/http"
	"strings"
	"time"

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

type ExportRequest struct {
	IDs []uint `json:"ids"`
}

// Create godoc
// @Summary Submit a lead
// @Description Public intake from the site contact form. Rate limited.
// @Tags Applications
// @Accept json
// @Produce json
// @Param body body CreateInput true "Lead"
// @Success 201 {object} Application
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /api/applications [post]
func (h *Handler) Create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	app, err := h.service.Create(c.Request.Context(), middleware.SiteID(c), in)
	details := map[string]interface{}{"name": in.Name}
	if app != nil {
		details["application_id"] = app.ID
	}
	auditlog.Record(c, h.auditSvc, "APPLICATION_SUBMITTED", details, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// List godoc
// @Summary List leads
// @Tags Applications
// @Produce json
// @Param status query string false "new, in_progress or closed"
// @Param search query string false "Name or phone fragment"
// @Param ordering query string false "created_at, -created_at, updated_at, -updated_at"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} PaginatedApplications
// @Security BearerAuth
// @Router /admin/api/applications [get]
func (h *Handler) List(c *gin.Context) {
	limit, offset := utils.Pagination(c.Query("limit"), c.Query("offset"))
	result, err := h.service.List(c.Request.Context(), middleware.SiteID(c), ListFilter{
		Status:   Status(c.Query("status")),
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get lead
// @Tags Applications
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} Application
// @Security BearerAuth
// @Router /admin/api/applications/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	app, err := h.service.Get(c.Request.Context(), middleware.SiteID(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Update godoc
// @Summary Update lead
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body UpdateInput true "Changed fields"
// @Success 200 {object} Application
// @Security BearerAuth
// @Router /admin/api/applications/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	app, err := h.service.Update(c.Request.Context(), middleware.SiteID(c), id, in)
	details := map[string]interface{}{"application_id": id}
	if in.Status != nil {
		details["status"] = *in.Status
	}
	auditlog.Record(c, h.auditSvc, "APPLICATION_UPDATED", details, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Delete godoc
// @Summary Delete lead
// @Tags Applications
// @Param id path int true "Application ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/api/applications/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	err = h.service.Delete(c.Request.Context(), middleware.SiteID(c), id)
	auditlog.Record(c, h.auditSvc, "APPLICATION_DELETED", map[string]interface{}{"application_id": id}, err)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export godoc
// @Summary Export selected leads
// @Description Exports the given ids, or every lead of the site when none are selected.
// @Tags Applications
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param ids query string false "Comma separated ids"
// @Param format query string false "excel (default) or csv"
// @Param body body ExportRequest false "Selected ids"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/applications/export [post]
func (h *Handler) Export(c *gin.Context) {
	var req ExportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
	}
	for _, raw := range strings.Split(c.Query("ids"), ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		id, err := utils.ParseID(raw)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		req.IDs = append(req.IDs, id)
	}

	result, err := h.service.List(c.Request.Context(), middleware.SiteID(c), ListFilter{IDs: req.IDs})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	data, filename, mime, err := Export(c.Query("format"), result.Data, time.Local)
	auditlog.Record(c, h.auditSvc, "APPLICATIONS_EXPORTED", map[string]interface{}{"count": len(result.Data), "format": c.Query("format")}, err)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, mime, data)
}
